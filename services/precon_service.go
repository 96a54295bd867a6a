package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/commander-league/importer"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/precons"
)

type PreconCatalog interface {
	List() []models.Precon
	ByID(id string) (models.Precon, error)
}

// MoxfieldFetcher fetches a Moxfield deck without consulting the cache.
type MoxfieldFetcher interface {
	FetchMoxfield(ctx context.Context, id string) (*importer.Deck, error)
}

type PreconDecklist struct {
	Precon models.Precon   `json:"precon"`
	Cards  []importer.Card `json:"cards"`
}

type RefreshResult struct {
	PreconID string `json:"precon_id"`
	Name     string `json:"name"`
	Cards    int    `json:"cards"`
}

type RefreshReport struct {
	Refreshed []RefreshResult   `json:"refreshed"`
	Failed    map[string]string `json:"failed"`
}

type PreconService interface {
	List() []models.Precon
	Decklist(ctx context.Context, id string) (*PreconDecklist, error)
	Refresh(ctx context.Context, id string) (*RefreshResult, error)
	RefreshAll(ctx context.Context) *RefreshReport
}

type preconService struct {
	catalog   PreconCatalog
	cache     precons.Cache
	fetcher   MoxfieldFetcher
	publisher EventPublisher
	logger    *slog.Logger
}

func NewPreconService(
	catalog PreconCatalog,
	cache precons.Cache,
	fetcher MoxfieldFetcher,
	publisher EventPublisher,
	logger *slog.Logger,
) PreconService {
	return &preconService{
		catalog:   catalog,
		cache:     cache,
		fetcher:   fetcher,
		publisher: publisherOrNoop(publisher),
		logger:    logger,
	}
}

func (s *preconService) List() []models.Precon {
	return s.catalog.List()
}

func (s *preconService) Decklist(ctx context.Context, id string) (*PreconDecklist, error) {
	precon, err := s.byID(id)
	if err != nil {
		return nil, err
	}

	cached, ok, err := s.cache.Get(ctx, precon.Name)
	if err != nil {
		s.logger.Warn("Precon cache read failed", "precon", precon.Name, "error", err)
		return nil, ErrDecklistMissing
	}
	if !ok {
		return nil, ErrDecklistMissing
	}

	cards := make([]importer.Card, 0, len(cached))
	for _, pc := range cached {
		cards = append(cards, importer.FromPreconCard(pc))
	}
	return &PreconDecklist{Precon: precon, Cards: cards}, nil
}

// Refresh refetches the precon from Moxfield and replaces its cache entry.
func (s *preconService) Refresh(ctx context.Context, id string) (*RefreshResult, error) {
	precon, err := s.byID(id)
	if err != nil {
		return nil, err
	}

	deckID, err := importer.ExtractID(models.SourceMoxfield, precon.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("precon %s has no Moxfield deck id: %w", id, err)
	}

	deck, err := s.fetcher.FetchMoxfield(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, precon.Name, deck.PreconCards()); err != nil {
		return nil, fmt.Errorf("failed to store decklist for %s: %w", precon.Name, err)
	}

	result := &RefreshResult{PreconID: precon.ID, Name: precon.Name, Cards: len(deck.Cards)}
	s.logger.Info("Precon refreshed", "precon", precon.ID, "cards", result.Cards)
	s.publisher.Publish(EventPreconRefreshed, result)
	return result, nil
}

// RefreshAll refreshes every catalogued precon one after another. A
// failure is recorded and does not stop the rest.
func (s *preconService) RefreshAll(ctx context.Context) *RefreshReport {
	report := &RefreshReport{Refreshed: []RefreshResult{}, Failed: map[string]string{}}
	for _, p := range s.catalog.List() {
		if ctx.Err() != nil {
			report.Failed[p.ID] = ctx.Err().Error()
			continue
		}
		res, err := s.Refresh(ctx, p.ID)
		if err != nil {
			s.logger.Error("Precon refresh failed", "precon", p.ID, "error", err)
			report.Failed[p.ID] = err.Error()
			continue
		}
		report.Refreshed = append(report.Refreshed, *res)
	}
	s.logger.Info("Precon refresh finished", "refreshed", len(report.Refreshed), "failed", len(report.Failed))
	return report
}

func (s *preconService) byID(id string) (models.Precon, error) {
	precon, err := s.catalog.ByID(id)
	if err != nil {
		if errors.Is(err, precons.ErrPreconNotFound) {
			return models.Precon{}, ErrPreconNotFound
		}
		return models.Precon{}, err
	}
	return precon, nil
}
