// Package achievements derives league badges from a member's history.
// Earned badges are never stored; they are recomputed from the full
// deck, upgrade and match collections on every call.
package achievements

import (
	"github.com/Dosada05/commander-league/models"
)

const (
	brewerDeckCount     = 3
	slayerWinCount      = 1
	veteranMatchCount   = 5
	highRollerThreshold = 5 * models.Unit
	whaleThreshold      = 20 * models.Unit
)

var catalog = []models.Badge{
	{ID: models.BadgeBrewer, Name: "Brewer", Description: "Registered at least 3 decks", Icon: "flask", Color: "#7c3aed"},
	{ID: models.BadgeSlayer, Name: "Slayer", Description: "Won a league match", Icon: "sword", Color: "#dc2626"},
	{ID: models.BadgeVeteran, Name: "Veteran", Description: "Played in at least 5 matches", Icon: "shield", Color: "#2563eb"},
	{ID: models.BadgeHighRoller, Name: "High Roller", Description: "Logged a single upgrade costing 5.00 or more", Icon: "dice", Color: "#d97706"},
	{ID: models.BadgeWhale, Name: "Whale", Description: "Spent 20.00 or more on one deck", Icon: "whale", Color: "#0891b2"},
	{ID: models.BadgeBudgetMaster, Name: "Budget Master", Description: "Spent exactly the monthly allowance in a single month", Icon: "scale", Color: "#16a34a"},
}

// Catalog returns every badge the league awards, in display order.
func Catalog() []models.Badge {
	out := make([]models.Badge, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a catalog badge by id.
func Lookup(id models.BadgeID) (models.Badge, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return models.Badge{}, false
}

// Evaluate returns the badges memberID has earned, in catalog order.
// Upgrades count only when they belong to one of the member's decks.
func Evaluate(
	memberID int,
	decks []models.Deck,
	upgrades []models.DeckUpgrade,
	matches []models.Match,
	monthlyAllowance models.Money,
) []models.Badge {
	owned := make(map[int]models.Deck)
	for _, d := range decks {
		if d.MemberID == memberID {
			owned[d.ID] = d
		}
	}

	var wins, played int
	var highRoller, whale bool
	spentPerMonth := make(map[string]models.Money)

	for _, m := range matches {
		if m.HasParticipant(memberID) {
			played++
		}
		if m.WonBy(memberID) {
			wins++
		}
	}

	for _, u := range upgrades {
		if _, ok := owned[u.DeckID]; !ok {
			continue
		}
		if u.Cost >= highRollerThreshold {
			highRoller = true
		}
		spentPerMonth[u.Month] += u.Cost
	}

	for _, d := range owned {
		if d.BudgetSpent >= whaleThreshold {
			whale = true
			break
		}
	}

	budgetMaster := false
	for _, total := range spentPerMonth {
		if total == monthlyAllowance {
			budgetMaster = true
			break
		}
	}

	earned := map[models.BadgeID]bool{
		models.BadgeBrewer:       len(owned) >= brewerDeckCount,
		models.BadgeSlayer:       wins >= slayerWinCount,
		models.BadgeVeteran:      played >= veteranMatchCount,
		models.BadgeHighRoller:   highRoller,
		models.BadgeWhale:        whale,
		models.BadgeBudgetMaster: budgetMaster,
	}

	badges := make([]models.Badge, 0, len(catalog))
	for _, b := range catalog {
		if earned[b.ID] {
			badges = append(badges, b)
		}
	}
	return badges
}
