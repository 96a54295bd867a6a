package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/commander-league/budget"
	"github.com/Dosada05/commander-league/importer"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/services"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (*models.Member, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input services.LoginInput) (*models.Member, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

type MockDeckService struct{ mock.Mock }

func (m *MockDeckService) Create(ctx context.Context, memberID int, input services.CreateDeckInput) (*models.Deck, error) {
	args := m.Called(ctx, memberID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckService) Import(ctx context.Context, memberID int, rawURL string) (*models.Deck, error) {
	args := m.Called(ctx, memberID, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckService) Preview(ctx context.Context, rawURL string) (*importer.Deck, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importer.Deck), args.Error(1)
}

func (m *MockDeckService) GetByID(ctx context.Context, id int) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckService) List(ctx context.Context, memberID *int) ([]models.Deck, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockDeckService) Delete(ctx context.Context, id, actorID int, actorRole models.MemberRole) error {
	args := m.Called(ctx, id, actorID, actorRole)
	return args.Error(0)
}

type MockBudgetService struct{ mock.Mock }

func (m *MockBudgetService) DeckBudget(ctx context.Context, deckID int, live bool) (*services.DeckBudget, error) {
	args := m.Called(ctx, deckID, live)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DeckBudget), args.Error(1)
}

func (m *MockBudgetService) Breakdown(ctx context.Context, deckID int) ([]budget.MonthPoint, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).([]budget.MonthPoint), args.Error(1)
}

type MockUpgradeService struct{ mock.Mock }

func (m *MockUpgradeService) Log(ctx context.Context, deckID, actorID int, input services.LogUpgradeInput) (*models.DeckUpgrade, error) {
	args := m.Called(ctx, deckID, actorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckUpgrade), args.Error(1)
}

func (m *MockUpgradeService) Delete(ctx context.Context, upgradeID, actorID int, actorRole models.MemberRole) error {
	args := m.Called(ctx, upgradeID, actorID, actorRole)
	return args.Error(0)
}

func (m *MockUpgradeService) ListByDeck(ctx context.Context, deckID int) ([]models.DeckUpgrade, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).([]models.DeckUpgrade), args.Error(1)
}
