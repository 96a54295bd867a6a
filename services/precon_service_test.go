package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/commander-league/importer"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/precons"
)

func testPrecons() *precons.Catalog {
	return precons.NewCatalog([]models.Precon{
		{ID: "death-toll", Name: "Death Toll", Commander: "Winter", SourceURL: "https://moxfield.com/decks/dt123"},
		{ID: "grand-larceny", Name: "Grand Larceny", Commander: "Gonti", SourceURL: "https://moxfield.com/decks/gl456"},
	})
}

func TestPreconDecklist(t *testing.T) {
	ctx := context.Background()
	cache := precons.NewMemoryCache()
	require.NoError(t, cache.Put(ctx, "Death Toll", []models.PreconCard{{Name: "Swamp"}}))
	svc := NewPreconService(testPrecons(), cache, new(MockMoxfieldFetcher), nil, discardLogger())

	list, err := svc.Decklist(ctx, "death-toll")
	require.NoError(t, err)
	assert.Equal(t, "Death Toll", list.Precon.Name)
	require.Len(t, list.Cards, 1)
	assert.Equal(t, 1, list.Cards[0].Quantity)

	_, err = svc.Decklist(ctx, "grand-larceny")
	assert.ErrorIs(t, err, ErrDecklistMissing)

	_, err = svc.Decklist(ctx, "nope")
	assert.ErrorIs(t, err, ErrPreconNotFound)
}

func TestPreconRefreshStoresDecklist(t *testing.T) {
	ctx := context.Background()
	cache := precons.NewMemoryCache()
	fetcher := new(MockMoxfieldFetcher)
	pub := &recordingPublisher{}
	svc := NewPreconService(testPrecons(), cache, fetcher, pub, discardLogger())

	fetcher.On("FetchMoxfield", ctx, "dt123").Return(&importer.Deck{
		Name:  "Death Toll",
		Cards: []importer.Card{{Name: "Swamp", Quantity: 10}, {Name: "Sol Ring", Quantity: 1}},
	}, nil)

	res, err := svc.Refresh(ctx, "death-toll")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Cards)
	assert.Equal(t, []string{EventPreconRefreshed}, pub.types())

	cached, ok, err := cache.Get(ctx, "Death Toll")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Swamp", cached[0].Name)
	require.NotNil(t, cached[0].Quantity)
	assert.Equal(t, 10, *cached[0].Quantity)
}

func TestPreconRefreshAllContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	fetcher := new(MockMoxfieldFetcher)
	svc := NewPreconService(testPrecons(), precons.NewMemoryCache(), fetcher, nil, discardLogger())

	fetcher.On("FetchMoxfield", ctx, "dt123").Return(nil, errors.New("blocked"))
	fetcher.On("FetchMoxfield", ctx, "gl456").Return(&importer.Deck{
		Cards: []importer.Card{{Name: "Island", Quantity: 1}},
	}, nil)

	report := svc.RefreshAll(ctx)
	require.Len(t, report.Refreshed, 1)
	assert.Equal(t, "grand-larceny", report.Refreshed[0].PreconID)
	assert.Contains(t, report.Failed, "death-toll")
}
