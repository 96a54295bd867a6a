package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/commander-league/budget"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
)

func testCalculator() *budget.Calculator {
	return budget.NewCalculator(budget.Month{Year: 2025, Month: time.January}, models.Units(10), time.UTC)
}

func newUpgradeService(deckRepo *MockDeckRepository, upgradeRepo *MockUpgradeRepository, pub EventPublisher) *upgradeService {
	svc := NewUpgradeService(&fakeTransactor{}, deckRepo, upgradeRepo, testCalculator(), pub, discardLogger()).(*upgradeService)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestUpgradeLogDefaultsMonthAndAdjustsBudget(t *testing.T) {
	ctx := context.Background()
	deckRepo := new(MockDeckRepository)
	upgradeRepo := new(MockUpgradeRepository)
	pub := &recordingPublisher{}
	svc := newUpgradeService(deckRepo, upgradeRepo, pub)

	deckRepo.On("GetByID", ctx, 7).Return(&models.Deck{ID: 7, MemberID: 2}, nil)
	upgradeRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(u *models.DeckUpgrade) bool {
		return u.Month == "2025-03" && u.CardIn == "Sol Ring" && u.Cost == 150
	})).Return(nil)
	deckRepo.On("AdjustBudget", ctx, mock.Anything, 7, models.Money(150)).Return(nil)

	u, err := svc.Log(ctx, 7, 2, LogUpgradeInput{CardIn: " Sol Ring ", CardOut: strPtr("  "), Cost: 150})
	require.NoError(t, err)
	assert.Nil(t, u.CardOut)
	assert.Equal(t, []string{EventUpgradeLogged}, pub.types())
	deckRepo.AssertExpectations(t)
	upgradeRepo.AssertExpectations(t)
}

func TestUpgradeLogRejectsNegativeCost(t *testing.T) {
	deckRepo := new(MockDeckRepository)
	upgradeRepo := new(MockUpgradeRepository)
	svc := newUpgradeService(deckRepo, upgradeRepo, nil)

	_, err := svc.Log(context.Background(), 7, 2, LogUpgradeInput{CardIn: "Sol Ring", Cost: -1})
	assert.ErrorIs(t, err, ErrNegativeCost)
	upgradeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpgradeLogRejectsBadMonth(t *testing.T) {
	svc := newUpgradeService(new(MockDeckRepository), new(MockUpgradeRepository), nil)

	_, err := svc.Log(context.Background(), 7, 2, LogUpgradeInput{CardIn: "Sol Ring", Month: "March"})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestUpgradeLogOnlyOwner(t *testing.T) {
	ctx := context.Background()
	deckRepo := new(MockDeckRepository)
	svc := newUpgradeService(deckRepo, new(MockUpgradeRepository), nil)

	deckRepo.On("GetByID", ctx, 7).Return(&models.Deck{ID: 7, MemberID: 2}, nil)

	_, err := svc.Log(ctx, 7, 3, LogUpgradeInput{CardIn: "Sol Ring", Cost: 100})
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestUpgradeDeleteRefundsBudget(t *testing.T) {
	ctx := context.Background()
	deckRepo := new(MockDeckRepository)
	upgradeRepo := new(MockUpgradeRepository)
	svc := newUpgradeService(deckRepo, upgradeRepo, nil)

	upgradeRepo.On("GetByID", ctx, 30).Return(&models.DeckUpgrade{ID: 30, DeckID: 7, Cost: 425}, nil)
	deckRepo.On("GetByID", ctx, 7).Return(&models.Deck{ID: 7, MemberID: 2}, nil)
	upgradeRepo.On("Delete", ctx, mock.Anything, 30).Return(nil)
	deckRepo.On("AdjustBudget", ctx, mock.Anything, 7, models.Money(-425)).Return(nil)

	require.NoError(t, svc.Delete(ctx, 30, 2, models.RolePlayer))
	deckRepo.AssertExpectations(t)
	upgradeRepo.AssertExpectations(t)
}

func TestUpgradeDeleteMissing(t *testing.T) {
	ctx := context.Background()
	upgradeRepo := new(MockUpgradeRepository)
	svc := newUpgradeService(new(MockDeckRepository), upgradeRepo, nil)

	upgradeRepo.On("GetByID", ctx, 1).Return(nil, repositories.ErrUpgradeNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 1, 2, models.RolePlayer), ErrUpgradeNotFound)
}
