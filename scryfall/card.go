package scryfall

import (
	"github.com/Dosada05/commander-league/models"
)

type ImageURIs struct {
	Small   string `json:"small,omitempty"`
	Normal  string `json:"normal,omitempty"`
	Large   string `json:"large,omitempty"`
	ArtCrop string `json:"art_crop,omitempty"`
}

type Prices struct {
	EUR     *string `json:"eur"`
	EURFoil *string `json:"eur_foil"`
	USD     *string `json:"usd"`
}

type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line,omitempty"`
	OracleText string     `json:"oracle_text,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

type Card struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Set           string     `json:"set"`
	SetName       string     `json:"set_name,omitempty"`
	ImageURIs     *ImageURIs `json:"image_uris,omitempty"`
	Prices        Prices     `json:"prices"`
	ColorIdentity []string   `json:"color_identity"`
	CMC           float64    `json:"cmc"`
	TypeLine      string     `json:"type_line"`
	OracleText    *string    `json:"oracle_text,omitempty"`
	ManaCost      *string    `json:"mana_cost,omitempty"`
	CardFaces     []CardFace `json:"card_faces,omitempty"`
}

// EURPrice returns the non-foil euro price, if Scryfall has one.
func (c Card) EURPrice() (models.Money, bool) {
	if c.Prices.EUR == nil || *c.Prices.EUR == "" {
		return 0, false
	}
	m, err := models.ParseMoney(*c.Prices.EUR)
	if err != nil {
		return 0, false
	}
	return m, true
}

// NormalImage falls back to the front face for double-faced cards.
func (c Card) NormalImage() string {
	if c.ImageURIs != nil && c.ImageURIs.Normal != "" {
		return c.ImageURIs.Normal
	}
	if len(c.CardFaces) > 0 && c.CardFaces[0].ImageURIs != nil {
		return c.CardFaces[0].ImageURIs.Normal
	}
	return ""
}

type list struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page"`
	Data       []Card `json:"data"`
}

type SearchResult struct {
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	Cards      []Card `json:"cards"`
}

type CollectionResult struct {
	Cards    []Card   `json:"cards"`
	NotFound []string `json:"not_found"`
}
