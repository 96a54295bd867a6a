package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/commander-league/achievements"
	"github.com/Dosada05/commander-league/budget"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
)

type LeagueService interface {
	Standings(ctx context.Context) ([]models.LeagueStanding, error)
	MemberBadges(ctx context.Context, memberID int) ([]models.Badge, error)
	BadgeCatalog() []models.Badge
	Dashboard(ctx context.Context) (models.DashboardStats, error)
}

type leagueService struct {
	memberRepo  repositories.MemberRepository
	deckRepo    repositories.DeckRepository
	upgradeRepo repositories.UpgradeRepository
	matchRepo   repositories.MatchRepository
	calc        *budget.Calculator
	now         func() time.Time
}

func NewLeagueService(
	memberRepo repositories.MemberRepository,
	deckRepo repositories.DeckRepository,
	upgradeRepo repositories.UpgradeRepository,
	matchRepo repositories.MatchRepository,
	calc *budget.Calculator,
) LeagueService {
	return &leagueService{
		memberRepo:  memberRepo,
		deckRepo:    deckRepo,
		upgradeRepo: upgradeRepo,
		matchRepo:   matchRepo,
		calc:        calc,
		now:         time.Now,
	}
}

type leagueSnapshot struct {
	members  []models.Member
	decks    []models.Deck
	upgrades []models.DeckUpgrade
	matches  []models.Match
}

// load reads the four collections concurrently.
func (s *leagueService) load(ctx context.Context) (*leagueSnapshot, error) {
	var snap leagueSnapshot
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		members, err := s.memberRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}
		snap.members = members
		return nil
	})
	g.Go(func() error {
		decks, err := s.deckRepo.List(gCtx, nil)
		if err != nil {
			return fmt.Errorf("failed to load decks: %w", err)
		}
		snap.decks = decks
		return nil
	})
	g.Go(func() error {
		upgrades, err := s.upgradeRepo.ListAll(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load upgrades: %w", err)
		}
		snap.upgrades = upgrades
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load matches: %w", err)
		}
		snap.matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Standings ranks members by wins, then matches played, then lower spend.
func (s *leagueService) Standings(ctx context.Context) ([]models.LeagueStanding, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	standings := make([]models.LeagueStanding, 0, len(snap.members))
	for _, m := range snap.members {
		m.Email = ""
		m.PasswordHash = ""
		st := models.LeagueStanding{
			Member: m,
			Badges: achievements.Evaluate(m.ID, snap.decks, snap.upgrades, snap.matches, s.calc.MonthlyAllowance),
		}
		for _, d := range snap.decks {
			if d.MemberID == m.ID {
				st.DeckCount++
				st.TotalSpent += d.BudgetSpent
			}
		}
		for _, match := range snap.matches {
			if match.HasParticipant(m.ID) {
				st.MatchesPlayed++
			}
			if match.WonBy(m.ID) {
				st.Wins++
			}
		}
		standings = append(standings, st)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.MatchesPlayed != b.MatchesPlayed {
			return a.MatchesPlayed > b.MatchesPlayed
		}
		return a.TotalSpent < b.TotalSpent
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings, nil
}

func (s *leagueService) MemberBadges(ctx context.Context, memberID int) ([]models.Badge, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, handleRepositoryError(err)
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return achievements.Evaluate(memberID, snap.decks, snap.upgrades, snap.matches, s.calc.MonthlyAllowance), nil
}

func (s *leagueService) BadgeCatalog() []models.Badge {
	return achievements.Catalog()
}

func (s *leagueService) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	now := s.now()
	stats := models.DashboardStats{
		MembersTotal:  len(snap.members),
		DecksTotal:    len(snap.decks),
		UpgradesTotal: len(snap.upgrades),
		MatchesTotal:  len(snap.matches),
	}
	for _, d := range snap.decks {
		stats.TotalSpent += d.BudgetSpent
		if s.calc.Compute(now, d.CreatedAt, d.BudgetSpent, nil).IsOverBudget {
			stats.OverBudgetDecks++
		}
	}
	return stats, nil
}
