package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dosada05/commander-league/models"
)

type archidektDeck struct {
	Name  string          `json:"name"`
	Cards []archidektCard `json:"cards"`
}

type archidektCard struct {
	Quantity   int      `json:"quantity"`
	Categories []string `json:"categories"`
	Card       struct {
		UID        string              `json:"uid"`
		OracleCard archidektOracleCard `json:"oracleCard"`
	} `json:"card"`
}

type archidektOracleCard struct {
	Name       string   `json:"name"`
	ImageURI   *string  `json:"imageUri"`
	TypeLine   *string  `json:"typeLine"`
	SuperTypes []string `json:"superTypes"`
	Types      []string `json:"types"`
	SubTypes   []string `json:"subTypes"`
	ManaCost   *string  `json:"manaCost"`
	OracleText *string  `json:"oracleText"`
}

// fetchArchidekt tries the primary host, then the alternate exactly once.
func (im *Importer) fetchArchidekt(ctx context.Context, id string) (*archidektDeck, error) {
	hosts := [2]string{im.cfg.ArchidektBaseURL, im.cfg.ArchidektAltBaseURL}

	var lastErr *Error
	for i, host := range hosts {
		deck, err := im.getArchidekt(ctx, host, id)
		if err == nil {
			return deck, nil
		}
		lastErr = err
		if i == 0 {
			im.logger.Warn("Archidekt primary host failed, trying alternate",
				"deck_id", id, "host", host, "error", err)
		}
	}
	return nil, lastErr
}

func (im *Importer) getArchidekt(ctx context.Context, host, id string) (*archidektDeck, *Error) {
	endpoint := fmt.Sprintf("%s/api/decks/%s/", host, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, upstreamFailure("Archidekt", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := im.httpClient.Do(req)
	if err != nil {
		return nil, upstreamFailure("Archidekt", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := upstreamStatus("Archidekt", resp.StatusCode)
		// 403 is reserved for Moxfield blocking.
		if resp.StatusCode == http.StatusForbidden {
			e.Status = http.StatusBadGateway
		}
		return nil, e
	}

	var deck archidektDeck
	if err := json.NewDecoder(resp.Body).Decode(&deck); err != nil {
		return nil, upstreamFailure("Archidekt", fmt.Errorf("decode deck %s: %w", id, err))
	}
	return &deck, nil
}

func normalizeArchidekt(raw *archidektDeck, id string) *Deck {
	deck := &Deck{
		Name:       raw.Name,
		Commander:  UnknownCommander,
		Cards:      make([]Card, 0, len(raw.Cards)),
		Source:     models.SourceArchidekt,
		ExternalID: id,
	}

	commanderFound := false
	for _, rc := range raw.Cards {
		oc := rc.Card.OracleCard
		card := Card{
			Name:        oc.Name,
			Quantity:    quantityOrOne(rc.Quantity),
			IsCommander: hasCategory(rc.Categories, "Commander"),
			ImageURL:    nonEmpty(oc.ImageURI),
			TypeLine:    nonEmpty(oc.TypeLine),
			ManaCost:    nonEmpty(oc.ManaCost),
			OracleText:  nonEmpty(oc.OracleText),
		}
		if card.ImageURL == nil {
			card.ImageURL = scryfallImageURL(rc.Card.UID)
		}
		if card.TypeLine == nil {
			card.TypeLine = composeTypeLine(oc.SuperTypes, oc.Types, oc.SubTypes)
		}
		if card.IsCommander && !commanderFound {
			deck.Commander = card.Name
			commanderFound = true
		}
		deck.Cards = append(deck.Cards, card)
	}
	return deck
}

func hasCategory(categories []string, want string) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}
