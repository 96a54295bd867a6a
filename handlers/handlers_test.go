package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/commander-league/budget"
	"github.com/Dosada05/commander-league/importer"
	"github.com/Dosada05/commander-league/middleware"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/services"
)

const testSecret = "handler-secret"

func bearer(t *testing.T, memberID int, role models.MemberRole) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": memberID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func deckRouter(deckSvc *MockDeckService) http.Handler {
	h := NewDeckHandler(deckSvc)
	r := chi.NewRouter()
	r.Get("/decks/{deckID}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		r.Post("/decks/import", h.Import)
		r.Post("/decks", h.Create)
		r.Post("/import", h.Preview)
		r.Delete("/decks/{deckID}", h.Delete)
	})
	return r
}

func TestImportErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"blocked", &importer.Error{Kind: importer.ErrBlocked, Status: http.StatusForbidden, Message: "blocked"}, http.StatusForbidden},
		{"invalid", &importer.Error{Kind: importer.ErrInvalidURL, Status: http.StatusBadRequest, Message: "bad url"}, http.StatusBadRequest},
		{"archidekt forbidden", &importer.Error{Kind: importer.ErrUpstreamFetch, Status: http.StatusBadGateway, Message: "archidekt refused"}, http.StatusBadGateway},
		{"upstream missing", &importer.Error{Kind: importer.ErrUpstreamFetch, Status: http.StatusNotFound, Message: "deck not found"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deckSvc := new(MockDeckService)
			deckSvc.On("Import", mock.Anything, 5, "https://moxfield.com/decks/abc").Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/decks/import", strings.NewReader(`{"url":"https://moxfield.com/decks/abc"}`))
			req.Header.Set("Authorization", bearer(t, 5, models.RolePlayer))
			rec := httptest.NewRecorder()
			deckRouter(deckSvc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
		})
	}
}

func TestPreviewContract(t *testing.T) {
	deckSvc := new(MockDeckService)
	deckSvc.On("Preview", mock.Anything, "https://archidekt.com/decks/42").Return(&importer.Deck{
		Name:       "Goblins",
		Commander:  "Krenko, Mob Boss",
		Source:     models.SourceArchidekt,
		ExternalID: "42",
		Cards:      []importer.Card{{Name: "Krenko, Mob Boss", Quantity: 1, IsCommander: true}},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(`{"url":"https://archidekt.com/decks/42"}`))
	req.Header.Set("Authorization", bearer(t, 5, models.RolePlayer))
	rec := httptest.NewRecorder()
	deckRouter(deckSvc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Krenko, Mob Boss", body["commander"])
	assert.Equal(t, "42", body["archidekt_id"])
	assert.NotContains(t, body, "moxfield_id")
}

func TestImportRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/decks/import", strings.NewReader(`{"url":"x"}`))
	rec := httptest.NewRecorder()
	deckRouter(new(MockDeckService)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateDeckValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing commander", `{"name":"Goblins"}`, http.StatusUnprocessableEntity},
		{"unknown field", `{"name":"Goblins","commander":"Krenko","colour":"red"}`, http.StatusBadRequest},
		{"malformed", `{"name":`, http.StatusBadRequest},
		{"card without name", `{"name":"Goblins","commander":"Krenko","cards":[{"quantity":2}]}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deckSvc := new(MockDeckService)
			req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(tt.body))
			req.Header.Set("Authorization", bearer(t, 5, models.RolePlayer))
			rec := httptest.NewRecorder()
			deckRouter(deckSvc).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			deckSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGetDeckNotFound(t *testing.T) {
	deckSvc := new(MockDeckService)
	deckSvc.On("GetByID", mock.Anything, 9).Return(nil, services.ErrDeckNotFound)

	rec := httptest.NewRecorder()
	deckRouter(deckSvc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decks/9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, services.ErrDeckNotFound.Error(), decodeBody(t, rec)["error"])
}

func TestDeleteDeckForbidden(t *testing.T) {
	deckSvc := new(MockDeckService)
	deckSvc.On("Delete", mock.Anything, 9, 5, models.RolePlayer).Return(services.ErrForbiddenOperation)

	req := httptest.NewRequest(http.MethodDelete, "/decks/9", nil)
	req.Header.Set("Authorization", bearer(t, 5, models.RolePlayer))
	rec := httptest.NewRecorder()
	deckRouter(deckSvc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func budgetRouter(budgetSvc *MockBudgetService, upgradeSvc *MockUpgradeService) http.Handler {
	h := NewBudgetHandler(budgetSvc, upgradeSvc)
	r := chi.NewRouter()
	r.Get("/decks/{deckID}/budget", h.Budget)
	r.With(middleware.Authenticate(testSecret)).Post("/decks/{deckID}/upgrades", h.LogUpgrade)
	return r
}

func TestBudgetLiveFlag(t *testing.T) {
	budgetSvc := new(MockBudgetService)
	budgetSvc.On("DeckBudget", mock.Anything, 3, true).Return(&services.DeckBudget{
		DeckID:  3,
		Summary: budget.Summary{MonthsActive: 2, AllowedLimit: 2000, EffectiveSpent: 2050, Status: budget.StatusSoftOver},
		Live:    true,
	}, nil)

	rec := httptest.NewRecorder()
	budgetRouter(budgetSvc, new(MockUpgradeService)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decks/3/budget?live=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "soft_over", body["status"])
	assert.Equal(t, 20.5, body["effective_spent"])
	assert.Equal(t, true, body["live"])

	rec = httptest.NewRecorder()
	budgetRouter(budgetSvc, new(MockUpgradeService)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decks/3/budget?live=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogUpgradeRejectsNegativeCost(t *testing.T) {
	upgradeSvc := new(MockUpgradeService)
	upgradeSvc.On("Log", mock.Anything, 3, 5, mock.MatchedBy(func(in services.LogUpgradeInput) bool {
		return in.Cost == -150
	})).Return(nil, services.ErrNegativeCost)

	req := httptest.NewRequest(http.MethodPost, "/decks/3/upgrades", strings.NewReader(`{"card_in":"Sol Ring","cost":-1.50}`))
	req.Header.Set("Authorization", bearer(t, 5, models.RolePlayer))
	rec := httptest.NewRecorder()
	budgetRouter(new(MockBudgetService), upgradeSvc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	upgradeSvc.AssertExpectations(t)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	authSvc := new(MockAuthService)
	authSvc.On("Login", mock.Anything, services.LoginInput{Email: "ana@example.com", Password: "correct horse"}).
		Return(&models.Member{ID: 8, DisplayName: "Ana", Role: models.RoleAdmin}, nil)
	authSvc.On("Login", mock.Anything, services.LoginInput{Email: "ana@example.com", Password: "wrong"}).
		Return(nil, services.ErrInvalidCredentials)

	h := NewAuthHandler(authSvc, testSecret)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"correct horse"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	token, ok := decodeBody(t, rec)["token"].(string)
	require.True(t, ok)

	var gotID int
	protected := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = middleware.GetUserIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protected.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 8, gotID)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterConflict(t *testing.T) {
	authSvc := new(MockAuthService)
	authSvc.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrEmailConflict)

	rec := httptest.NewRecorder()
	NewAuthHandler(authSvc, testSecret).Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"display_name":"Ana","email":"ana@example.com","password":"long enough"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("connection refused")}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
