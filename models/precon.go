package models

// Precon is a catalogued vendor-preconstructed deck.
type Precon struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Commander string `json:"commander"`
	ImageURL  string `json:"image_url"`
	SourceURL string `json:"source_url"`
	Series    string `json:"series"`
	Year      int    `json:"year"`
}

// PreconCard is the cached decklist shape. Only name is required;
// the rest default on read (quantity 1, not commander, no metadata).
type PreconCard struct {
	Name        string  `json:"name"`
	Quantity    *int    `json:"quantity,omitempty"`
	IsCommander *bool   `json:"is_commander,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	TypeLine    *string `json:"type_line,omitempty"`
	ManaCost    *string `json:"mana_cost,omitempty"`
	OracleText  *string `json:"oracle_text,omitempty"`
}
