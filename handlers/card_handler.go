package handlers

import (
	"net/http"

	"github.com/Dosada05/commander-league/services"
)

type CardHandler struct {
	cardService services.CardService
}

func NewCardHandler(cardService services.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// Named godoc
// @Summary Look up a card by exact name
// @Tags cards
// @Produce json
// @Param name query string true "Exact card name"
// @Success 200 {object} scryfall.Card
// @Failure 404 {object} map[string]string
// @Router /cards/named [get]
func (h *CardHandler) Named(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardService.Named(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, card, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Search godoc
// @Summary Full-text card search
// @Tags cards
// @Produce json
// @Param q query string true "Scryfall query"
// @Param filter query string false "Extra Scryfall clauses, e.g. id<=rg"
// @Success 200 {object} scryfall.SearchResult
// @Router /cards/search [get]
func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.cardService.Search(r.Context(), q.Get("q"), q.Get("filter"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Prints godoc
// @Summary Every printing of a card with prices
// @Tags cards
// @Produce json
// @Param name query string true "Exact card name"
// @Success 200 {object} map[string]interface{}
// @Router /cards/prints [get]
func (h *CardHandler) Prints(w http.ResponseWriter, r *http.Request) {
	prints, err := h.cardService.Prints(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"prints": prints}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
