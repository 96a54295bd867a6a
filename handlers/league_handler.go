package handlers

import (
	"net/http"

	"github.com/Dosada05/commander-league/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(leagueService services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: leagueService}
}

// Standings godoc
// @Summary League table with badges
// @Tags league
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /league/standings [get]
func (h *LeagueHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.leagueService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Badges godoc
// @Summary Every badge a member can earn
// @Tags league
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /league/badges [get]
func (h *LeagueHandler) Badges(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"badges": h.leagueService.BadgeCatalog()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MemberBadges godoc
// @Summary Badges earned by one member
// @Tags league
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /members/{memberID}/badges [get]
func (h *LeagueHandler) MemberBadges(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	badges, err := h.leagueService.MemberBadges(r.Context(), memberID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"badges": badges}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Dashboard godoc
// @Summary League totals
// @Tags league
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Router /league/dashboard [get]
func (h *LeagueHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leagueService.Dashboard(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats, nil)
}
