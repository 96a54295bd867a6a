package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/commander-league/middleware"
	"github.com/Dosada05/commander-league/services"
)

type BudgetHandler struct {
	budgetService  services.BudgetService
	upgradeService services.UpgradeService
}

func NewBudgetHandler(budgetService services.BudgetService, upgradeService services.UpgradeService) *BudgetHandler {
	return &BudgetHandler{
		budgetService:  budgetService,
		upgradeService: upgradeService,
	}
}

// Budget godoc
// @Summary Allowance summary for a deck
// @Tags budget
// @Produce json
// @Param deckID path int true "Deck ID"
// @Param live query bool false "Reprice this month's upgrades at current EUR prices"
// @Success 200 {object} services.DeckBudget
// @Failure 404 {object} map[string]string
// @Router /decks/{deckID}/budget [get]
func (h *BudgetHandler) Budget(w http.ResponseWriter, r *http.Request) {
	deckID, err := getIDFromURL(r, "deckID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live := false
	if raw := r.URL.Query().Get("live"); raw != "" {
		live, err = strconv.ParseBool(raw)
		if err != nil {
			errorResponse(w, r, http.StatusBadRequest, "live must be a boolean")
			return
		}
	}

	summary, err := h.budgetService.DeckBudget(r.Context(), deckID, live)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, summary, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Breakdown godoc
// @Summary Month-by-month spend against the allowance
// @Tags budget
// @Produce json
// @Param deckID path int true "Deck ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /decks/{deckID}/budget/breakdown [get]
func (h *BudgetHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	deckID, err := getIDFromURL(r, "deckID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	points, err := h.budgetService.Breakdown(r.Context(), deckID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"months": points}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListUpgrades godoc
// @Summary Upgrades logged against a deck
// @Tags upgrades
// @Produce json
// @Param deckID path int true "Deck ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /decks/{deckID}/upgrades [get]
func (h *BudgetHandler) ListUpgrades(w http.ResponseWriter, r *http.Request) {
	deckID, err := getIDFromURL(r, "deckID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	upgrades, err := h.upgradeService.ListByDeck(r.Context(), deckID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"upgrades": upgrades}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LogUpgrade godoc
// @Summary Log a card upgrade
// @Tags upgrades
// @Accept json
// @Produce json
// @Param deckID path int true "Deck ID"
// @Param input body services.LogUpgradeInput true "Upgrade"
// @Success 201 {object} models.DeckUpgrade
// @Failure 400 {object} map[string]string "Negative cost or malformed month"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /decks/{deckID}/upgrades [post]
func (h *BudgetHandler) LogUpgrade(w http.ResponseWriter, r *http.Request) {
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

	var input services.LogUpgradeInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	upgrade, err := h.upgradeService.Log(r.Context(), deckID, actorID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, upgrade, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteUpgrade godoc
// @Summary Remove a logged upgrade and refund its cost
// @Tags upgrades
// @Param upgradeID path int true "Upgrade ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /upgrades/{upgradeID} [delete]
func (h *BudgetHandler) DeleteUpgrade(w http.ResponseWriter, r *http.Request) {
	upgradeID, err := getIDFromURL(r, "upgradeID")
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

	if err := h.upgradeService.Delete(r.Context(), upgradeID, actorID, role); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
