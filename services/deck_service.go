package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/commander-league/importer"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
)

// DeckImporter normalizes an external deck URL.
type DeckImporter interface {
	Import(ctx context.Context, rawURL string) (*importer.Deck, error)
}

type DeckService interface {
	Create(ctx context.Context, memberID int, input CreateDeckInput) (*models.Deck, error)
	Import(ctx context.Context, memberID int, rawURL string) (*models.Deck, error)
	Preview(ctx context.Context, rawURL string) (*importer.Deck, error)
	GetByID(ctx context.Context, id int) (*models.Deck, error)
	List(ctx context.Context, memberID *int) ([]models.Deck, error)
	Delete(ctx context.Context, id, actorID int, actorRole models.MemberRole) error
}

type CreateDeckInput struct {
	Name      string             `json:"name" validate:"required,max=200"`
	Commander string             `json:"commander" validate:"required,max=200"`
	Cards     []DeckCardInput    `json:"cards" validate:"omitempty,dive"`
	PreconID  *string            `json:"precon_id,omitempty"`
	Source    *models.DeckSource `json:"-"`
	SourceID  *string            `json:"-"`
}

type DeckCardInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Quantity    int     `json:"quantity" validate:"omitempty,min=1"`
	IsCommander bool    `json:"is_commander"`
	ManaCost    *string `json:"mana_cost,omitempty"`
	TypeLine    *string `json:"type_line,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	OracleText  *string `json:"oracle_text,omitempty"`
}

type deckService struct {
	tx        repositories.Transactor
	deckRepo  repositories.DeckRepository
	importer  DeckImporter
	publisher EventPublisher
	logger    *slog.Logger
}

func NewDeckService(
	tx repositories.Transactor,
	deckRepo repositories.DeckRepository,
	importer DeckImporter,
	publisher EventPublisher,
	logger *slog.Logger,
) DeckService {
	return &deckService{
		tx:        tx,
		deckRepo:  deckRepo,
		importer:  importer,
		publisher: publisherOrNoop(publisher),
		logger:    logger,
	}
}

func (s *deckService) Create(ctx context.Context, memberID int, input CreateDeckInput) (*models.Deck, error) {
	name := strings.TrimSpace(input.Name)
	commander := strings.TrimSpace(input.Commander)
	if name == "" {
		return nil, ErrValidationFailed
	}
	if commander == "" {
		return nil, ErrCommanderRequired
	}

	deck := &models.Deck{
		MemberID:   memberID,
		Name:       name,
		Commander:  commander,
		SourceSite: input.Source,
		SourceID:   input.SourceID,
		PreconID:   trimmedOrNil(input.PreconID),
	}

	cards := make([]models.DeckCard, 0, len(input.Cards))
	for _, c := range input.Cards {
		qty := c.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 1 || strings.TrimSpace(c.Name) == "" {
			return nil, ErrValidationFailed
		}
		cards = append(cards, models.DeckCard{
			Name:        strings.TrimSpace(c.Name),
			Quantity:    qty,
			IsCommander: c.IsCommander,
			ManaCost:    c.ManaCost,
			TypeLine:    c.TypeLine,
			ImageURL:    c.ImageURL,
			OracleText:  c.OracleText,
		})
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.deckRepo.Create(ctx, exec, deck); err != nil {
			return err
		}
		return s.deckRepo.AddCards(ctx, exec, deck.ID, cards)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	deck.Cards = cards

	s.logger.Info("Deck created", "deck_id", deck.ID, "member_id", memberID, "cards", len(cards))
	s.publisher.Publish(EventDeckCreated, deck)
	return deck, nil
}

// Import normalizes the URL and stores the result as a new deck owned by
// memberID. Importer failures are returned unchanged.
func (s *deckService) Import(ctx context.Context, memberID int, rawURL string) (*models.Deck, error) {
	imported, err := s.importer.Import(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	input := CreateDeckInput{
		Name:      imported.Name,
		Commander: imported.Commander,
		Source:    &imported.Source,
		SourceID:  &imported.ExternalID,
	}
	if input.Name == "" {
		input.Name = imported.Commander
	}
	if imported.PreconID != "" {
		input.PreconID = &imported.PreconID
	}
	for _, c := range imported.Cards {
		input.Cards = append(input.Cards, DeckCardInput{
			Name:        c.Name,
			Quantity:    c.Quantity,
			IsCommander: c.IsCommander,
			ManaCost:    c.ManaCost,
			TypeLine:    c.TypeLine,
			ImageURL:    c.ImageURL,
			OracleText:  c.OracleText,
		})
	}
	return s.Create(ctx, memberID, input)
}

func (s *deckService) Preview(ctx context.Context, rawURL string) (*importer.Deck, error) {
	return s.importer.Import(ctx, rawURL)
}

func (s *deckService) GetByID(ctx context.Context, id int) (*models.Deck, error) {
	deck, err := s.deckRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	cards, err := s.deckRepo.ListCards(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards for deck %d: %w", id, err)
	}
	deck.Cards = cards
	return deck, nil
}

func (s *deckService) List(ctx context.Context, memberID *int) ([]models.Deck, error) {
	decks, err := s.deckRepo.List(ctx, memberID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return decks, nil
}

func (s *deckService) Delete(ctx context.Context, id, actorID int, actorRole models.MemberRole) error {
	deck, err := s.deckRepo.GetByID(ctx, id)
	if err != nil {
		return handleRepositoryError(err)
	}
	if !canModify(deck.MemberID, actorID, actorRole) {
		return ErrForbiddenOperation
	}
	if err := s.deckRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrDeckNotFound) {
			return ErrDeckNotFound
		}
		return fmt.Errorf("failed to delete deck %d: %w", id, err)
	}

	s.logger.Info("Deck deleted", "deck_id", id, "actor_id", actorID)
	s.publisher.Publish(EventDeckDeleted, map[string]int{"deck_id": id, "member_id": deck.MemberID})
	return nil
}
