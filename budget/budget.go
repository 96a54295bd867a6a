// Package budget computes league spending allowances.
//
// Every deck shares one allowance clock that starts at the league's first
// month, regardless of when the deck itself was registered.
package budget

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/commander-league/models"
)

// SoftOverGrace is the overage still reported as a soft overrun.
const SoftOverGrace = models.Unit

type Status string

const (
	StatusWithin   Status = "within_budget"
	StatusSoftOver Status = "soft_over"
	StatusHardOver Status = "hard_over"
)

var ErrInvalidMonth = errors.New("month must be formatted as YYYY-MM")

// Month is a calendar month in the league clock.
type Month struct {
	Year  int
	Month time.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// index counts months since year zero; handy for differences.
func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}

func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

func (m Month) Before(other Month) bool {
	return m.index() < other.index()
}

// ParseMonth parses a YYYY-MM key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Summary is the allowance picture for one deck at one instant.
type Summary struct {
	MonthsActive   int          `json:"months_active"`
	AllowedLimit   models.Money `json:"allowed_limit"`
	EffectiveSpent models.Money `json:"effective_spent"`
	Remaining      models.Money `json:"remaining"`
	IsOverBudget   bool         `json:"is_over_budget"`
	Status         Status       `json:"status"`
}

type Calculator struct {
	LeagueStart      Month
	MonthlyAllowance models.Money
	Location         *time.Location
}

func NewCalculator(start Month, allowance models.Money, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{LeagueStart: start, MonthlyAllowance: allowance, Location: loc}
}

// MonthOf returns the league month containing t.
func (c *Calculator) MonthOf(t time.Time) Month {
	local := t.In(c.location())
	return Month{Year: local.Year(), Month: local.Month()}
}

// MonthKey formats the league month containing t as YYYY-MM.
func (c *Calculator) MonthKey(t time.Time) string {
	return c.MonthOf(t).String()
}

// MonthsActive is never below one, even before the league starts.
func (c *Calculator) MonthsActive(now time.Time) int {
	months := c.MonthOf(now).index() - c.LeagueStart.index() + 1
	if months < 1 {
		return 1
	}
	return months
}

// AllowedLimit is the cumulative allowance as of now.
func (c *Calculator) AllowedLimit(now time.Time) models.Money {
	return c.MonthlyAllowance.Mul(int64(c.MonthsActive(now)))
}

// Compute builds the allowance summary. createdAt is accepted for callers
// that have it but does not move the allowance clock. A non-nil
// liveOverride replaces totalSpent as the effective spend.
func (c *Calculator) Compute(now, createdAt time.Time, totalSpent models.Money, liveOverride *models.Money) Summary {
	months := c.MonthsActive(now)
	limit := c.MonthlyAllowance.Mul(int64(months))

	effective := totalSpent
	if liveOverride != nil {
		effective = *liveOverride
	}

	return Summary{
		MonthsActive:   months,
		AllowedLimit:   limit,
		EffectiveSpent: effective,
		Remaining:      limit - effective,
		IsOverBudget:   effective > limit,
		Status:         Classify(effective, limit),
	}
}

// Classify maps an overage to its display tier. Going over by up to and
// including one currency unit is a soft overrun.
func Classify(spent, limit models.Money) Status {
	over := spent - limit
	switch {
	case over <= 0:
		return StatusWithin
	case over <= SoftOverGrace:
		return StatusSoftOver
	default:
		return StatusHardOver
	}
}

func (c *Calculator) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
