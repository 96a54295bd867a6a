package budget

import (
	"time"

	"github.com/Dosada05/commander-league/models"
)

// MonthPoint is one month of a deck's budget chart.
type MonthPoint struct {
	Month               string       `json:"month"`
	Spent               models.Money `json:"spent"`
	CumulativeSpent     models.Money `json:"cumulative_spent"`
	CumulativeAllowance models.Money `json:"cumulative_allowance"`
	UpgradeCount        int          `json:"upgrade_count"`
}

// Breakdown derives the per-month series from the league start through the
// current month. Upgrades attributed to months before the league start are
// folded into the first month; later months are appended as needed.
func (c *Calculator) Breakdown(now time.Time, upgrades []models.DeckUpgrade) []MonthPoint {
	last := c.MonthOf(now)
	if last.Before(c.LeagueStart) {
		last = c.LeagueStart
	}

	spent := make(map[string]models.Money)
	counts := make(map[string]int)
	for _, u := range upgrades {
		key := u.Month
		if m, err := ParseMonth(u.Month); err == nil {
			if m.Before(c.LeagueStart) {
				key = c.LeagueStart.String()
			}
			if last.Before(m) {
				last = m
			}
		}
		spent[key] += u.Cost
		counts[key]++
	}

	var (
		points     []MonthPoint
		cumulative models.Money
		allowance  models.Money
	)
	for m := c.LeagueStart; !last.Before(m); m = m.Next() {
		key := m.String()
		cumulative += spent[key]
		allowance += c.MonthlyAllowance
		points = append(points, MonthPoint{
			Month:               key,
			Spent:               spent[key],
			CumulativeSpent:     cumulative,
			CumulativeAllowance: allowance,
			UpgradeCount:        counts[key],
		})
	}
	return points
}

// SpentInMonth sums upgrade costs attributed to month.
func SpentInMonth(upgrades []models.DeckUpgrade, month string) models.Money {
	var total models.Money
	for _, u := range upgrades {
		if u.Month == month {
			total += u.Cost
		}
	}
	return total
}
