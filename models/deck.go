package models

import "time"

type DeckSource string

const (
	SourceArchidekt DeckSource = "archidekt"
	SourceMoxfield  DeckSource = "moxfield"
)

// Deck is a league deck owned by one member.
type Deck struct {
	ID          int         `json:"id" db:"id"`
	MemberID    int         `json:"member_id" db:"member_id"`
	Name        string      `json:"name" db:"name"`
	Commander   string      `json:"commander" db:"commander"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	BudgetSpent Money       `json:"budget_spent" db:"budget_spent"`
	SourceSite  *DeckSource `json:"source_site,omitempty" db:"source_site"`
	SourceID    *string     `json:"source_id,omitempty" db:"source_id"`
	PreconID    *string     `json:"precon_id,omitempty" db:"precon_id"`

	Owner *Member    `json:"owner,omitempty" db:"-"`
	Cards []DeckCard `json:"cards,omitempty" db:"-"`
}

type DeckCard struct {
	ID          int     `json:"id" db:"id"`
	DeckID      int     `json:"deck_id" db:"deck_id"`
	Name        string  `json:"name" db:"name"`
	Quantity    int     `json:"quantity" db:"quantity"`
	IsCommander bool    `json:"is_commander" db:"is_commander"`
	ManaCost    *string `json:"mana_cost,omitempty" db:"mana_cost"`
	TypeLine    *string `json:"type_line,omitempty" db:"type_line"`
	ImageURL    *string `json:"image_url,omitempty" db:"image_url"`
	OracleText  *string `json:"oracle_text,omitempty" db:"oracle_text"`
}

// DeckUpgrade records a card swap attributed to a calendar month (YYYY-MM).
type DeckUpgrade struct {
	ID        int       `json:"id" db:"id"`
	DeckID    int       `json:"deck_id" db:"deck_id"`
	CardIn    string    `json:"card_in" db:"card_in"`
	CardOut   *string   `json:"card_out,omitempty" db:"card_out"`
	Cost      Money     `json:"cost" db:"cost"`
	Month     string    `json:"month" db:"month"`
	Note      *string   `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
