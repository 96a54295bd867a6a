package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/repositories"
)

type leagueFixture struct {
	members  *MockMemberRepository
	decks    *MockDeckRepository
	upgrades *MockUpgradeRepository
	matches  *MockMatchRepository
	svc      *leagueService
}

func newLeagueFixture() *leagueFixture {
	f := &leagueFixture{
		members:  new(MockMemberRepository),
		decks:    new(MockDeckRepository),
		upgrades: new(MockUpgradeRepository),
		matches:  new(MockMatchRepository),
	}
	f.svc = NewLeagueService(f.members, f.decks, f.upgrades, f.matches, testCalculator()).(*leagueService)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	return f
}

func (f *leagueFixture) seed() {
	f.members.On("List", mock.Anything).Return([]models.Member{
		{ID: 1, DisplayName: "Ana", Email: "ana@example.com", PasswordHash: "x"},
		{ID: 2, DisplayName: "Bo"},
		{ID: 3, DisplayName: "Cy"},
	}, nil)
	f.decks.On("List", mock.Anything, (*int)(nil)).Return([]models.Deck{
		{ID: 10, MemberID: 1, BudgetSpent: 1000},
		{ID: 11, MemberID: 2, BudgetSpent: 4000},
		{ID: 12, MemberID: 3, BudgetSpent: 500},
	}, nil)
	f.upgrades.On("ListAll", mock.Anything).Return([]models.DeckUpgrade{
		{DeckID: 11, Cost: 4000, Month: "2025-02"},
	}, nil)
	f.matches.On("List", mock.Anything).Return([]models.Match{
		{ID: 1, WinnerMemberID: intPtr(2), Participants: []models.MatchParticipant{{MemberID: 1}, {MemberID: 2}}},
		{ID: 2, WinnerMemberID: intPtr(1), Participants: []models.MatchParticipant{{MemberID: 1}, {MemberID: 3}}},
		{ID: 3, Participants: []models.MatchParticipant{{MemberID: 1}, {MemberID: 3}}},
	}, nil)
}

func TestStandingsRanking(t *testing.T) {
	ctx := context.Background()
	f := newLeagueFixture()
	f.seed()

	standings, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	// Ana and Bo both have one win; Ana played more.
	assert.Equal(t, 1, standings[0].Member.ID)
	assert.Equal(t, 2, standings[1].Member.ID)
	assert.Equal(t, 3, standings[2].Member.ID)
	assert.Equal(t, []int{1, 2, 3}, []int{standings[0].Rank, standings[1].Rank, standings[2].Rank})

	assert.Equal(t, 3, standings[0].MatchesPlayed)
	assert.Empty(t, standings[0].Member.Email)
	assert.Equal(t, models.Money(4000), standings[1].TotalSpent)

	var boBadges []models.BadgeID
	for _, b := range standings[1].Badges {
		boBadges = append(boBadges, b.ID)
	}
	assert.Contains(t, boBadges, models.BadgeSlayer)
	assert.Contains(t, boBadges, models.BadgeWhale)
}

func TestStandingsLoadFailure(t *testing.T) {
	ctx := context.Background()
	f := newLeagueFixture()
	f.members.On("List", mock.Anything).Return([]models.Member{}, nil).Maybe()
	f.decks.On("List", mock.Anything, (*int)(nil)).Return([]models.Deck{}, nil).Maybe()
	f.upgrades.On("ListAll", mock.Anything).Return([]models.DeckUpgrade{}, nil).Maybe()
	f.matches.On("List", mock.Anything).Return([]models.Match{}, errors.New("connection reset")).Maybe()

	_, err := f.svc.Standings(ctx)
	assert.ErrorContains(t, err, "failed to load matches")
}

func TestMemberBadgesUnknownMember(t *testing.T) {
	ctx := context.Background()
	f := newLeagueFixture()
	f.members.On("GetByID", ctx, 99).Return(nil, repositories.ErrMemberNotFound)

	_, err := f.svc.MemberBadges(ctx, 99)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newLeagueFixture()
	f.seed()

	stats, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.MembersTotal)
	assert.Equal(t, 3, stats.DecksTotal)
	assert.Equal(t, 1, stats.UpgradesTotal)
	assert.Equal(t, 3, stats.MatchesTotal)
	assert.Equal(t, models.Money(5500), stats.TotalSpent)
	assert.Equal(t, 1, stats.OverBudgetDecks)
}

func TestBadgeCatalog(t *testing.T) {
	f := newLeagueFixture()
	assert.Len(t, f.svc.BadgeCatalog(), 6)
}
