package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/commander-league/budget"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
	"github.com/Dosada05/commander-league/scryfall"
)

// CardPricer resolves current card prices in bulk.
type CardPricer interface {
	Collection(ctx context.Context, names []string) (*scryfall.CollectionResult, error)
}

type DeckBudget struct {
	DeckID int `json:"deck_id"`
	budget.Summary
	Month         string       `json:"month"`
	MonthRecorded models.Money `json:"month_recorded"`
	Live          bool         `json:"live"`
	// MonthLive is the current month repriced at today's EUR prices.
	MonthLive *models.Money `json:"month_live,omitempty"`
	Unpriced  []string      `json:"unpriced,omitempty"`
}

type BudgetService interface {
	DeckBudget(ctx context.Context, deckID int, live bool) (*DeckBudget, error)
	Breakdown(ctx context.Context, deckID int) ([]budget.MonthPoint, error)
}

type budgetService struct {
	deckRepo    repositories.DeckRepository
	upgradeRepo repositories.UpgradeRepository
	calc        *budget.Calculator
	pricer      CardPricer
	logger      *slog.Logger
	now         func() time.Time
}

func NewBudgetService(
	deckRepo repositories.DeckRepository,
	upgradeRepo repositories.UpgradeRepository,
	calc *budget.Calculator,
	pricer CardPricer,
	logger *slog.Logger,
) BudgetService {
	return &budgetService{
		deckRepo:    deckRepo,
		upgradeRepo: upgradeRepo,
		calc:        calc,
		pricer:      pricer,
		logger:      logger,
		now:         time.Now,
	}
}

// DeckBudget computes the allowance summary. With live set, the current
// month's recorded upgrade costs are swapped for today's EUR price of each
// card_in; cards without a price keep their recorded cost.
func (s *budgetService) DeckBudget(ctx context.Context, deckID int, live bool) (*DeckBudget, error) {
	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	upgrades, err := s.upgradeRepo.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	now := s.now()
	month := s.calc.MonthKey(now)
	result := &DeckBudget{
		DeckID:        deckID,
		Month:         month,
		MonthRecorded: budget.SpentInMonth(upgrades, month),
	}

	var override *models.Money
	if live && s.pricer != nil {
		monthLive, unpriced, err := s.priceMonth(ctx, upgrades, month)
		if err != nil {
			return nil, err
		}
		effective := deck.BudgetSpent - result.MonthRecorded + monthLive
		override = &effective
		result.Live = true
		result.MonthLive = &monthLive
		result.Unpriced = unpriced
	}

	result.Summary = s.calc.Compute(now, deck.CreatedAt, deck.BudgetSpent, override)
	return result, nil
}

func (s *budgetService) priceMonth(ctx context.Context, upgrades []models.DeckUpgrade, month string) (models.Money, []string, error) {
	var current []models.DeckUpgrade
	seen := make(map[string]bool)
	var names []string
	for _, u := range upgrades {
		if u.Month != month {
			continue
		}
		current = append(current, u)
		if !seen[u.CardIn] {
			seen[u.CardIn] = true
			names = append(names, u.CardIn)
		}
	}
	if len(current) == 0 {
		return 0, nil, nil
	}

	res, err := s.pricer.Collection(ctx, names)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch live prices: %w", err)
	}
	prices := make(map[string]models.Money, len(res.Cards))
	for _, c := range res.Cards {
		if p, ok := c.EURPrice(); ok {
			prices[c.Name] = p
		}
	}

	var total models.Money
	var unpriced []string
	for _, u := range current {
		if p, ok := prices[u.CardIn]; ok {
			total += p
			continue
		}
		total += u.Cost
		unpriced = append(unpriced, u.CardIn)
	}
	if len(unpriced) > 0 {
		s.logger.Warn("Live pricing fell back to recorded cost", "month", month, "cards", unpriced)
	}
	return total, unpriced, nil
}

func (s *budgetService) Breakdown(ctx context.Context, deckID int) ([]budget.MonthPoint, error) {
	if _, err := s.deckRepo.GetByID(ctx, deckID); err != nil {
		return nil, handleRepositoryError(err)
	}
	upgrades, err := s.upgradeRepo.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.calc.Breakdown(s.now(), upgrades), nil
}
