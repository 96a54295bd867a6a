package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
	"github.com/Dosada05/commander-league/utils"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Member, error)
	Login(ctx context.Context, input LoginInput) (*models.Member, error)
}

type RegisterInput struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authService struct {
	memberRepo repositories.MemberRepository
}

func NewAuthService(memberRepo repositories.MemberRepository) AuthService {
	return &authService{memberRepo: memberRepo}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Member, error) {
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	name := strings.TrimSpace(input.DisplayName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, ErrValidationFailed
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &models.Member{
		DisplayName:  name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RolePlayer,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, handleRepositoryError(err)
	}

	member.PasswordHash = ""
	return member, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Member, error) {
	member, err := s.memberRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find member by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	member.PasswordHash = ""
	return member, nil
}
