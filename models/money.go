package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMoneyFormat    = errors.New("invalid money amount")
	ErrMoneyPrecision = errors.New("money amount has more than two decimal places")
)

// Money is an exact currency amount in cents.
type Money int64

const (
	Cent Money = 1
	Unit Money = 100
)

// Units builds a Money value from whole currency units.
func Units(n int64) Money {
	return Money(n) * Unit
}

// ParseMoney parses a decimal amount such as "12", "12.5" or "-0.05".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMoneyFormat
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, fmt.Errorf("%w: %q", ErrMoneyFormat, s)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrMoneyFormat, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrMoneyPrecision, s)
	}

	var units int64
	if whole != "" {
		var err error
		units, err = strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMoneyFormat, err)
		}
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	if units > maxWholeUnits {
		return 0, fmt.Errorf("%w: %q out of range", ErrMoneyFormat, s)
	}

	m := Money(units*100 + cents)
	if negative {
		m = -m
	}
	return m, nil
}

// maxWholeUnits is the largest whole part whose cents still fit in int64.
const maxWholeUnits = (math.MaxInt64 - 99) / 100

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String formats the amount with exactly two fraction digits.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) Mul(n int64) Money {
	return m * Money(n)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
