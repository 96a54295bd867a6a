package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/commander-league/models"
)

const moxfieldReferer = "https://www.moxfield.com/"

type moxfieldDeck struct {
	Name       string        `json:"name"`
	Commanders moxfieldBoard `json:"commanders"`
	Mainboard  moxfieldBoard `json:"mainboard"`
}

type moxfieldEntry struct {
	Quantity int          `json:"quantity"`
	Card     moxfieldCard `json:"card"`
}

type moxfieldCard struct {
	Name       string `json:"name"`
	ScryfallID string `json:"scryfall_id"`
	Images     *struct {
		Normal *string `json:"normal"`
	} `json:"images"`
	TypeLine   *string `json:"type_line"`
	ManaCost   *string `json:"mana_cost"`
	OracleText *string `json:"oracle_text"`
}

// moxfieldBoard is a JSON object of entries decoded in document order.
type moxfieldBoard []moxfieldEntry

func (b *moxfieldBoard) UnmarshalJSON(data []byte) error {
	*b = nil
	if string(data) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("moxfield board: expected object")
	}

	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return err
		}
		var entry moxfieldEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("moxfield board entry: %w", err)
		}
		*b = append(*b, entry)
	}
	_, err = dec.Token()
	return err
}

func (im *Importer) fetchMoxfield(ctx context.Context, id string) (*moxfieldDeck, error) {
	endpoint := fmt.Sprintf("%s/v2/decks/all/%s", im.cfg.MoxfieldAPIURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, upstreamFailure("Moxfield", err)
	}
	req.Header.Set("User-Agent", im.cfg.MoxfieldUserAgent)
	req.Header.Set("Referer", moxfieldReferer)
	req.Header.Set("Accept", "application/json")

	resp, err := im.httpClient.Do(req)
	if err != nil {
		return nil, upstreamFailure("Moxfield", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, blocked()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamStatus("Moxfield", resp.StatusCode)
	}

	var deck moxfieldDeck
	if err := json.NewDecoder(resp.Body).Decode(&deck); err != nil {
		return nil, upstreamFailure("Moxfield", fmt.Errorf("decode deck %s: %w", id, err))
	}
	return &deck, nil
}

// normalizeMoxfield keeps mainboard cards only. The commander is known at
// deck level but mainboard cards are never flagged.
func normalizeMoxfield(raw *moxfieldDeck, id string) *Deck {
	deck := &Deck{
		Name:       raw.Name,
		Commander:  UnknownCommander,
		Cards:      make([]Card, 0, len(raw.Mainboard)),
		Source:     models.SourceMoxfield,
		ExternalID: id,
	}
	if len(raw.Commanders) > 0 && raw.Commanders[0].Card.Name != "" {
		deck.Commander = raw.Commanders[0].Card.Name
	}

	for _, e := range raw.Mainboard {
		card := Card{
			Name:       e.Card.Name,
			Quantity:   quantityOrOne(e.Quantity),
			TypeLine:   nonEmpty(e.Card.TypeLine),
			ManaCost:   nonEmpty(e.Card.ManaCost),
			OracleText: nonEmpty(e.Card.OracleText),
		}
		if e.Card.Images != nil {
			card.ImageURL = nonEmpty(e.Card.Images.Normal)
		}
		if card.ImageURL == nil {
			card.ImageURL = scryfallImageURL(e.Card.ScryfallID)
		}
		deck.Cards = append(deck.Cards, card)
	}
	return deck
}

func fromCache(precon models.Precon, id string, cached []models.PreconCard) *Deck {
	deck := &Deck{
		Name:       precon.Name,
		Commander:  precon.Commander,
		Cards:      make([]Card, 0, len(cached)),
		Source:     models.SourceMoxfield,
		ExternalID: id,
		PreconID:   precon.ID,
	}
	for _, pc := range cached {
		deck.Cards = append(deck.Cards, FromPreconCard(pc))
	}
	if deck.Commander == "" {
		deck.Commander = UnknownCommander
		for _, c := range deck.Cards {
			if c.IsCommander {
				deck.Commander = c.Name
				break
			}
		}
	}
	return deck
}
