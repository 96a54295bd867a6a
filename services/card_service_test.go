package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/commander-league/scryfall"
)

type MockCardProvider struct{ mock.Mock }

func (m *MockCardProvider) Named(ctx context.Context, exact string) (*scryfall.Card, error) {
	args := m.Called(ctx, exact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scryfall.Card), args.Error(1)
}

func (m *MockCardProvider) Search(ctx context.Context, query, filter string) (*scryfall.SearchResult, error) {
	args := m.Called(ctx, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scryfall.SearchResult), args.Error(1)
}

func (m *MockCardProvider) Prints(ctx context.Context, name string) ([]scryfall.Card, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scryfall.Card), args.Error(1)
}

func TestCardServiceRequiresQuery(t *testing.T) {
	ctx := context.Background()
	provider := new(MockCardProvider)
	svc := NewCardService(provider)

	_, err := svc.Named(ctx, "   ")
	assert.ErrorIs(t, err, ErrQueryRequired)
	_, err = svc.Search(ctx, "", "")
	assert.ErrorIs(t, err, ErrQueryRequired)
	_, err = svc.Prints(ctx, "")
	assert.ErrorIs(t, err, ErrQueryRequired)
	provider.AssertNotCalled(t, "Named", mock.Anything, mock.Anything)
}

func TestCardServiceNamed(t *testing.T) {
	ctx := context.Background()
	provider := new(MockCardProvider)
	svc := NewCardService(provider)

	provider.On("Named", ctx, "Sol Ring").Return(&scryfall.Card{Name: "Sol Ring"}, nil)
	provider.On("Named", ctx, "Not A Card").Return(nil, scryfall.ErrCardNotFound)

	card, err := svc.Named(ctx, " Sol Ring ")
	require.NoError(t, err)
	assert.Equal(t, "Sol Ring", card.Name)

	_, err = svc.Named(ctx, "Not A Card")
	assert.ErrorIs(t, err, ErrCardNotFound)
}
