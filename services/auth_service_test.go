package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
	"github.com/Dosada05/commander-league/utils"
)

func init() {
	utils.BcryptCost = bcrypt.MinCost
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepository)
	svc := NewAuthService(repo)

	repo.On("Create", ctx, mock.MatchedBy(func(m *models.Member) bool {
		return m.Email == "ana@example.com" && m.Role == models.RolePlayer &&
			utils.CheckPasswordHash("correct horse", m.PasswordHash)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Member).ID = 1
	}).Return(nil)

	member, err := svc.Register(ctx, RegisterInput{DisplayName: "Ana", Email: " Ana@Example.com ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, 1, member.ID)
	assert.Empty(t, member.PasswordHash)
}

func TestRegisterErrors(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepository)
	svc := NewAuthService(repo)

	_, err := svc.Register(ctx, RegisterInput{DisplayName: "Ana", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	repo.On("Create", ctx, mock.Anything).Return(repositories.ErrMemberEmailConflict)
	_, err = svc.Register(ctx, RegisterInput{DisplayName: "Ana", Email: "a@b.c", Password: "long enough"})
	assert.ErrorIs(t, err, ErrEmailConflict)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepository)
	svc := NewAuthService(repo)

	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	repo.On("GetByEmail", ctx, "ana@example.com").Return(&models.Member{ID: 1, PasswordHash: hash}, nil)
	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repositories.ErrMemberNotFound)

	member, err := svc.Login(ctx, LoginInput{Email: "ANA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, 1, member.ID)
	assert.Empty(t, member.PasswordHash)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
