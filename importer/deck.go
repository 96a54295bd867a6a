package importer

import (
	"encoding/json"
	"strings"

	"github.com/Dosada05/commander-league/models"
)

// UnknownCommander is reported when no commander can be determined.
const UnknownCommander = "unknown"

// Card is the canonical imported card record.
type Card struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	IsCommander bool    `json:"is_commander"`
	ImageURL    *string `json:"image_url"`
	TypeLine    *string `json:"type_line,omitempty"`
	ManaCost    *string `json:"mana_cost,omitempty"`
	OracleText  *string `json:"oracle_text,omitempty"`
}

// Deck is a fully normalized import. Cards keep upstream order.
type Deck struct {
	Name       string
	Commander  string
	Cards      []Card
	Source     models.DeckSource
	ExternalID string
	// PreconID is set when the URL matched a catalogued precon.
	PreconID string
}

// MarshalJSON emits the source id under a per-source key, e.g. "moxfield_id".
func (d Deck) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"name":      d.Name,
		"commander": d.Commander,
		"cards":     d.Cards,
	}
	if d.Cards == nil {
		out["cards"] = []Card{}
	}
	if d.Source != "" {
		out[string(d.Source)+"_id"] = d.ExternalID
	}
	return json.Marshal(out)
}

// DeckCards converts to persisted deck card rows.
func (d Deck) DeckCards() []models.DeckCard {
	cards := make([]models.DeckCard, 0, len(d.Cards))
	for _, c := range d.Cards {
		cards = append(cards, models.DeckCard{
			Name:        c.Name,
			Quantity:    c.Quantity,
			IsCommander: c.IsCommander,
			ManaCost:    c.ManaCost,
			TypeLine:    c.TypeLine,
			ImageURL:    c.ImageURL,
			OracleText:  c.OracleText,
		})
	}
	return cards
}

// PreconCards converts to the cached decklist shape.
func (d Deck) PreconCards() []models.PreconCard {
	cards := make([]models.PreconCard, 0, len(d.Cards))
	for _, c := range d.Cards {
		qty := c.Quantity
		isCommander := c.IsCommander
		cards = append(cards, models.PreconCard{
			Name:        c.Name,
			Quantity:    &qty,
			IsCommander: &isCommander,
			ImageURL:    c.ImageURL,
			TypeLine:    c.TypeLine,
			ManaCost:    c.ManaCost,
			OracleText:  c.OracleText,
		})
	}
	return cards
}

// FromPreconCard maps a cached card. Quantity defaults to 1 and is never
// below 1; is_commander defaults to false.
func FromPreconCard(pc models.PreconCard) Card {
	card := Card{
		Name:       pc.Name,
		Quantity:   1,
		ImageURL:   pc.ImageURL,
		TypeLine:   pc.TypeLine,
		ManaCost:   pc.ManaCost,
		OracleText: pc.OracleText,
	}
	if pc.Quantity != nil {
		card.Quantity = quantityOrOne(*pc.Quantity)
	}
	if pc.IsCommander != nil {
		card.IsCommander = *pc.IsCommander
	}
	return card
}

// composeTypeLine joins supertypes and types and appends any subtypes
// after a dash separator.
func composeTypeLine(supertypes, types, subtypes []string) *string {
	line := strings.Join(append(append([]string{}, supertypes...), types...), " ")
	if len(subtypes) > 0 {
		line += " — " + strings.Join(subtypes, " ")
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return &line
}

// scryfallImageURL derives the CDN image for a Scryfall card id.
func scryfallImageURL(id string) *string {
	if len(id) < 2 {
		return nil
	}
	u := "https://cards.scryfall.io/normal/front/" + id[0:1] + "/" + id[1:2] + "/" + id + ".jpg"
	return &u
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func quantityOrOne(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
