package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Dosada05/commander-league/scryfall"
)

// CardProvider is the card data backend.
type CardProvider interface {
	Named(ctx context.Context, exact string) (*scryfall.Card, error)
	Search(ctx context.Context, query, filter string) (*scryfall.SearchResult, error)
	Prints(ctx context.Context, name string) ([]scryfall.Card, error)
}

type CardService interface {
	Named(ctx context.Context, name string) (*scryfall.Card, error)
	Search(ctx context.Context, query, filter string) (*scryfall.SearchResult, error)
	Prints(ctx context.Context, name string) ([]scryfall.Card, error)
}

type cardService struct {
	provider CardProvider
}

func NewCardService(provider CardProvider) CardService {
	return &cardService{provider: provider}
}

func (s *cardService) Named(ctx context.Context, name string) (*scryfall.Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrQueryRequired
	}
	card, err := s.provider.Named(ctx, name)
	return card, mapCardError(err)
}

func (s *cardService) Search(ctx context.Context, query, filter string) (*scryfall.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryRequired
	}
	res, err := s.provider.Search(ctx, query, filter)
	return res, mapCardError(err)
}

func (s *cardService) Prints(ctx context.Context, name string) ([]scryfall.Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrQueryRequired
	}
	prints, err := s.provider.Prints(ctx, name)
	return prints, mapCardError(err)
}

func mapCardError(err error) error {
	if errors.Is(err, scryfall.ErrCardNotFound) {
		return ErrCardNotFound
	}
	return err
}
