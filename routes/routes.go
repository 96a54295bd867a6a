package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/commander-league/docs"
	"github.com/Dosada05/commander-league/handlers"
	"github.com/Dosada05/commander-league/middleware"
	"github.com/Dosada05/commander-league/models"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Decks     *handlers.DeckHandler
	Budget    *handlers.BudgetHandler
	Matches   *handlers.MatchHandler
	League    *handlers.LeagueHandler
	Precons   *handlers.PreconHandler
	Cards     *handlers.CardHandler
	Health    *handlers.HealthHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Get("/ws/league", h.WebSocket.ServeWs)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(60 * time.Second))

		r.Get("/health", h.Health.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/league", func(r chi.Router) {
			r.Get("/standings", h.League.Standings)
			r.Get("/badges", h.League.Badges)
			r.Get("/dashboard", h.League.Dashboard)
		})
		r.Get("/members/{memberID}/badges", h.League.MemberBadges)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", h.Decks.List)
			r.Get("/{deckID}", h.Decks.Get)
			r.Get("/{deckID}/budget", h.Budget.Budget)
			r.Get("/{deckID}/budget/breakdown", h.Budget.Breakdown)
			r.Get("/{deckID}/upgrades", h.Budget.ListUpgrades)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", h.Decks.Create)
				r.Post("/import", h.Decks.Import)
				r.Delete("/{deckID}", h.Decks.Delete)
				r.Post("/{deckID}/upgrades", h.Budget.LogUpgrade)
			})
		})

		r.With(authenticate).Post("/import", h.Decks.Preview)
		r.With(authenticate).Delete("/upgrades/{upgradeID}", h.Budget.DeleteUpgrade)

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Matches.List)
			r.Get("/{matchID}", h.Matches.Get)
			r.With(authenticate).Post("/", h.Matches.Record)
		})

		r.Route("/precons", func(r chi.Router) {
			r.Get("/", h.Precons.List)
			r.Get("/{preconID}/decklist", h.Precons.Decklist)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, adminOnly)
				r.Post("/refresh", h.Precons.RefreshAll)
				r.Post("/{preconID}/refresh", h.Precons.Refresh)
			})
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/named", h.Cards.Named)
			r.Get("/search", h.Cards.Search)
			r.Get("/prints", h.Cards.Prints)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}
