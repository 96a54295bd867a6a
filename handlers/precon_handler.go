package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/commander-league/services"
)

type PreconHandler struct {
	preconService services.PreconService
}

func NewPreconHandler(preconService services.PreconService) *PreconHandler {
	return &PreconHandler{preconService: preconService}
}

// List godoc
// @Summary Catalogued preconstructed decks
// @Tags precons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /precons [get]
func (h *PreconHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"precons": h.preconService.List()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Decklist godoc
// @Summary Cached decklist of a precon
// @Tags precons
// @Produce json
// @Param preconID path string true "Precon ID"
// @Success 200 {object} services.PreconDecklist
// @Failure 404 {object} map[string]string "Unknown precon or not cached yet"
// @Router /precons/{preconID}/decklist [get]
func (h *PreconHandler) Decklist(w http.ResponseWriter, r *http.Request) {
	list, err := h.preconService.Decklist(r.Context(), chi.URLParam(r, "preconID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Refresh godoc
// @Summary Refetch one precon from Moxfield into the cache
// @Tags precons
// @Produce json
// @Param preconID path string true "Precon ID"
// @Success 200 {object} services.RefreshResult
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /precons/{preconID}/refresh [post]
func (h *PreconHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.preconService.Refresh(r.Context(), chi.URLParam(r, "preconID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RefreshAll godoc
// @Summary Refetch every catalogued precon
// @Tags precons
// @Produce json
// @Success 200 {object} services.RefreshReport
// @Security BearerAuth
// @Router /precons/refresh [post]
func (h *PreconHandler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	report := h.preconService.RefreshAll(r.Context())
	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
