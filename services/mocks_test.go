package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/commander-league/importer"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
	"github.com/Dosada05/commander-league/scryfall"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type publishedEvent struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type MockMemberRepository struct{ mock.Mock }

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context) ([]models.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Member), args.Error(1)
}

type MockDeckRepository struct{ mock.Mock }

func (m *MockDeckRepository) Create(ctx context.Context, exec repositories.SQLExecutor, deck *models.Deck) error {
	args := m.Called(ctx, exec, deck)
	return args.Error(0)
}

func (m *MockDeckRepository) AddCards(ctx context.Context, exec repositories.SQLExecutor, deckID int, cards []models.DeckCard) error {
	args := m.Called(ctx, exec, deckID, cards)
	return args.Error(0)
}

func (m *MockDeckRepository) GetByID(ctx context.Context, id int) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) ListCards(ctx context.Context, deckID int) ([]models.DeckCard, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).([]models.DeckCard), args.Error(1)
}

func (m *MockDeckRepository) List(ctx context.Context, memberID *int) ([]models.Deck, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeckRepository) AdjustBudget(ctx context.Context, exec repositories.SQLExecutor, deckID int, delta models.Money) error {
	args := m.Called(ctx, exec, deckID, delta)
	return args.Error(0)
}

type MockUpgradeRepository struct{ mock.Mock }

func (m *MockUpgradeRepository) Create(ctx context.Context, exec repositories.SQLExecutor, upgrade *models.DeckUpgrade) error {
	args := m.Called(ctx, exec, upgrade)
	return args.Error(0)
}

func (m *MockUpgradeRepository) GetByID(ctx context.Context, id int) (*models.DeckUpgrade, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckUpgrade), args.Error(1)
}

func (m *MockUpgradeRepository) ListByDeck(ctx context.Context, deckID int) ([]models.DeckUpgrade, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).([]models.DeckUpgrade), args.Error(1)
}

func (m *MockUpgradeRepository) ListAll(ctx context.Context) ([]models.DeckUpgrade, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.DeckUpgrade), args.Error(1)
}

func (m *MockUpgradeRepository) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	args := m.Called(ctx, exec, id)
	return args.Error(0)
}

type MockMatchRepository struct{ mock.Mock }

func (m *MockMatchRepository) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	args := m.Called(ctx, exec, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Match), args.Error(1)
}

type MockDeckImporter struct{ mock.Mock }

func (m *MockDeckImporter) Import(ctx context.Context, rawURL string) (*importer.Deck, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importer.Deck), args.Error(1)
}

type MockMoxfieldFetcher struct{ mock.Mock }

func (m *MockMoxfieldFetcher) FetchMoxfield(ctx context.Context, id string) (*importer.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importer.Deck), args.Error(1)
}

type MockCardPricer struct{ mock.Mock }

func (m *MockCardPricer) Collection(ctx context.Context, names []string) (*scryfall.CollectionResult, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scryfall.CollectionResult), args.Error(1)
}
