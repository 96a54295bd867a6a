package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/commander-league/middleware"
	"github.com/Dosada05/commander-league/services"
)

type DeckHandler struct {
	deckService services.DeckService
}

func NewDeckHandler(deckService services.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

type importRequest struct {
	URL string `json:"url" validate:"required"`
}

// List godoc
// @Summary List decks
// @Tags decks
// @Produce json
// @Param member_id query int false "Only decks owned by this member"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /decks [get]
func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	var memberID *int
	if raw := r.URL.Query().Get("member_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			errorResponse(w, r, http.StatusBadRequest, "member_id must be a positive integer")
			return
		}
		memberID = &id
	}

	decks, err := h.deckService.List(r.Context(), memberID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"decks": decks}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary Get a deck with its cards
// @Tags decks
// @Produce json
// @Param deckID path int true "Deck ID"
// @Success 200 {object} models.Deck
// @Failure 404 {object} map[string]string
// @Router /decks/{deckID} [get]
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	deckID, err := getIDFromURL(r, "deckID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	deck, err := h.deckService.GetByID(r.Context(), deckID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, deck, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Create a deck manually
// @Tags decks
// @Accept json
// @Produce json
// @Param input body services.CreateDeckInput true "Deck"
// @Success 201 {object} models.Deck
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /decks [post]
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateDeckInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	deck, err := h.deckService.Create(r.Context(), memberID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, deck, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Import godoc
// @Summary Import an Archidekt or Moxfield deck and save it
// @Tags decks
// @Accept json
// @Produce json
// @Param input body importRequest true "Deck URL"
// @Success 201 {object} models.Deck
// @Failure 400 {object} map[string]string "Invalid or unsupported URL"
// @Failure 403 {object} map[string]string "Moxfield blocked the request"
// @Failure 502 {object} map[string]string
// @Security BearerAuth
// @Router /decks/import [post]
func (h *DeckHandler) Import(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input importRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	deck, err := h.deckService.Import(r.Context(), memberID, input.URL)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, deck, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Preview godoc
// @Summary Normalize a deck URL without saving it
// @Tags decks
// @Accept json
// @Produce json
// @Param input body importRequest true "Deck URL"
// @Success 200 {object} map[string]interface{} "name, commander, cards, archidekt_id or moxfield_id"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /import [post]
func (h *DeckHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var input importRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	deck, err := h.deckService.Preview(r.Context(), input.URL)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, deck, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Delete a deck
// @Tags decks
// @Param deckID path int true "Deck ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /decks/{deckID} [delete]
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deckID, err := getIDFromURL(r, "deckID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.deckService.Delete(r.Context(), deckID, actorID, role); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
