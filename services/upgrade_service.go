package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/commander-league/budget"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
)

type UpgradeService interface {
	Log(ctx context.Context, deckID, actorID int, input LogUpgradeInput) (*models.DeckUpgrade, error)
	Delete(ctx context.Context, upgradeID, actorID int, actorRole models.MemberRole) error
	ListByDeck(ctx context.Context, deckID int) ([]models.DeckUpgrade, error)
}

type LogUpgradeInput struct {
	CardIn  string       `json:"card_in" validate:"required,max=200"`
	CardOut *string      `json:"card_out,omitempty" validate:"omitempty,max=200"`
	Cost    models.Money `json:"cost"`
	Month   string       `json:"month,omitempty"`
	Note    *string      `json:"note,omitempty" validate:"omitempty,max=500"`
}

type upgradeService struct {
	tx          repositories.Transactor
	deckRepo    repositories.DeckRepository
	upgradeRepo repositories.UpgradeRepository
	calc        *budget.Calculator
	publisher   EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewUpgradeService(
	tx repositories.Transactor,
	deckRepo repositories.DeckRepository,
	upgradeRepo repositories.UpgradeRepository,
	calc *budget.Calculator,
	publisher EventPublisher,
	logger *slog.Logger,
) UpgradeService {
	return &upgradeService{
		tx:          tx,
		deckRepo:    deckRepo,
		upgradeRepo: upgradeRepo,
		calc:        calc,
		publisher:   publisherOrNoop(publisher),
		logger:      logger,
		now:         time.Now,
	}
}

// Log records an upgrade and adds its cost to the deck's budget_spent in
// the same transaction. An empty month means the current league month.
func (s *upgradeService) Log(ctx context.Context, deckID, actorID int, input LogUpgradeInput) (*models.DeckUpgrade, error) {
	if input.Cost < 0 {
		return nil, ErrNegativeCost
	}
	cardIn := strings.TrimSpace(input.CardIn)
	if cardIn == "" {
		return nil, ErrValidationFailed
	}

	month := strings.TrimSpace(input.Month)
	if month == "" {
		month = s.calc.MonthKey(s.now())
	} else if _, err := budget.ParseMonth(month); err != nil {
		return nil, ErrInvalidMonth
	}

	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if deck.MemberID != actorID {
		return nil, ErrForbiddenOperation
	}

	upgrade := &models.DeckUpgrade{
		DeckID:  deckID,
		CardIn:  cardIn,
		CardOut: trimmedOrNil(input.CardOut),
		Cost:    input.Cost,
		Month:   month,
		Note:    trimmedOrNil(input.Note),
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.upgradeRepo.Create(ctx, exec, upgrade); err != nil {
			return err
		}
		return s.deckRepo.AdjustBudget(ctx, exec, deckID, upgrade.Cost)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("Upgrade logged", "deck_id", deckID, "upgrade_id", upgrade.ID, "cost", upgrade.Cost.String(), "month", month)
	s.publisher.Publish(EventUpgradeLogged, upgrade)
	return upgrade, nil
}

func (s *upgradeService) Delete(ctx context.Context, upgradeID, actorID int, actorRole models.MemberRole) error {
	upgrade, err := s.upgradeRepo.GetByID(ctx, upgradeID)
	if err != nil {
		return handleRepositoryError(err)
	}
	deck, err := s.deckRepo.GetByID(ctx, upgrade.DeckID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if !canModify(deck.MemberID, actorID, actorRole) {
		return ErrForbiddenOperation
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.upgradeRepo.Delete(ctx, exec, upgradeID); err != nil {
			return err
		}
		return s.deckRepo.AdjustBudget(ctx, exec, upgrade.DeckID, -upgrade.Cost)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDeckBudgetNegative) {
			s.logger.Error("Deck budget would go negative on upgrade delete", "deck_id", upgrade.DeckID, "upgrade_id", upgradeID)
		}
		return handleRepositoryError(err)
	}

	s.logger.Info("Upgrade deleted", "deck_id", upgrade.DeckID, "upgrade_id", upgradeID)
	s.publisher.Publish(EventUpgradeDeleted, map[string]int{"upgrade_id": upgradeID, "deck_id": upgrade.DeckID})
	return nil
}

func (s *upgradeService) ListByDeck(ctx context.Context, deckID int) ([]models.DeckUpgrade, error) {
	if _, err := s.deckRepo.GetByID(ctx, deckID); err != nil {
		return nil, handleRepositoryError(err)
	}
	upgrades, err := s.upgradeRepo.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return upgrades, nil
}
