package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/Dosada05/commander-league/budget"
	"github.com/Dosada05/commander-league/config"
	"github.com/Dosada05/commander-league/db"
	"github.com/Dosada05/commander-league/handlers"
	"github.com/Dosada05/commander-league/importer"
	"github.com/Dosada05/commander-league/live"
	"github.com/Dosada05/commander-league/precons"
	"github.com/Dosada05/commander-league/repositories"
	"github.com/Dosada05/commander-league/routes"
	"github.com/Dosada05/commander-league/scryfall"
	"github.com/Dosada05/commander-league/services"
	"github.com/Dosada05/commander-league/storage"
)

// @title Commander League API
// @version 1.0
// @description Budget-capped Commander league: decks, upgrades, matches, precons and badges.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(logger, os.Args[2:]); err != nil {
			logger.Error("migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if err := run(logger); err != nil {
		logger.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func handleMigrationCommand(logger *slog.Logger, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: league migrate [up|down|status] [steps]")
	}

	dsn, err := config.DatabaseURL()
	if err != nil {
		return err
	}
	dbConn, err := db.Connect(dsn, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	switch args[0] {
	case "up":
		return db.MigrateUp(dbConn, logger)
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps <= 0 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		return db.MigrateDown(dbConn, steps, logger)
	case "status":
		return db.MigrateStatus(dbConn, logger)
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("league_start", cfg.LeagueStart.String()),
		slog.String("monthly_allowance", cfg.MonthlyAllowance.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	cache := precons.NewObjectCache(store, logger)
	if cfg.PreconCacheSeed != "" {
		if err := seedCache(ctx, cache, cfg.PreconCacheSeed, logger); err != nil {
			return err
		}
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := live.NewHub(logger)
	go hub.Run(hubCtx)
	logger.Info("live hub started")

	imp := importer.New(importer.Config{
		ArchidektBaseURL:    cfg.ArchidektBaseURL,
		ArchidektAltBaseURL: cfg.ArchidektAltBaseURL,
		MoxfieldAPIURL:      cfg.MoxfieldAPIURL,
		MoxfieldUserAgent:   cfg.MoxfieldUserAgent,
	}, catalog, cache, logger)
	cards := scryfall.New(cfg.ScryfallBaseURL)
	calc := budget.NewCalculator(cfg.LeagueStart, cfg.MonthlyAllowance, cfg.LeagueLocation)

	tx := repositories.NewTransactor(dbConn)
	memberRepo := repositories.NewPostgresMemberRepository(dbConn)
	deckRepo := repositories.NewPostgresDeckRepository(dbConn)
	upgradeRepo := repositories.NewPostgresUpgradeRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	authService := services.NewAuthService(memberRepo)
	deckService := services.NewDeckService(tx, deckRepo, imp, hub, logger)
	upgradeService := services.NewUpgradeService(tx, deckRepo, upgradeRepo, calc, hub, logger)
	budgetService := services.NewBudgetService(deckRepo, upgradeRepo, calc, cards, logger)
	matchService := services.NewMatchService(tx, matchRepo, deckRepo, hub, logger)
	leagueService := services.NewLeagueService(memberRepo, deckRepo, upgradeRepo, matchRepo, calc)
	preconService := services.NewPreconService(catalog, cache, imp, hub, logger)
	cardService := services.NewCardService(cards)
	logger.Info("services initialized")

	if cfg.PreconRefreshCron != "" {
		scheduler := cron.New(cron.WithLocation(cfg.LeagueLocation))
		_, err := scheduler.AddFunc(cfg.PreconRefreshCron, func() {
			logger.Info("scheduler: refreshing precon decklists")
			preconService.RefreshAll(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid PRECON_REFRESH_CRON %q: %w", cfg.PreconRefreshCron, err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.Info("precon refresh scheduled", slog.String("spec", cfg.PreconRefreshCron))
	}

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Decks:     handlers.NewDeckHandler(deckService),
		Budget:    handlers.NewBudgetHandler(budgetService, upgradeService),
		Matches:   handlers.NewMatchHandler(matchService),
		League:    handlers.NewLeagueHandler(leagueService),
		Precons:   handlers.NewPreconHandler(preconService),
		Cards:     handlers.NewCardHandler(cardService),
		Health:    handlers.NewHealthHandler(dbConn),
		WebSocket: handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins, logger),
	}, routes.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
	stopHub()
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	if cfg.R2.Enabled() {
		store, err := storage.NewCloudflareR2Store(ctx, cfg.R2)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Cloudflare R2 store: %w", err)
		}
		slog.Info("precon cache backed by Cloudflare R2", slog.String("bucket", cfg.R2.BucketName))
		return store, nil
	}

	store, err := storage.NewLocalStore(cfg.CacheDir, "")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local cache directory: %w", err)
	}
	slog.Info("precon cache backed by local directory", slog.String("dir", cfg.CacheDir))
	return store, nil
}

func loadCatalog(cfg *config.Config) (*precons.Catalog, error) {
	if cfg.PreconCatalogPath == "" {
		return precons.DefaultCatalog()
	}
	catalog, err := precons.LoadCatalog(cfg.PreconCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load precon catalog: %w", err)
	}
	return catalog, nil
}

func seedCache(ctx context.Context, cache precons.Cache, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open precon cache seed: %w", err)
	}
	defer f.Close()

	n, err := precons.Seed(ctx, cache, f)
	if err != nil {
		return fmt.Errorf("failed to seed precon cache: %w", err)
	}
	logger.Info("precon cache seeded", slog.Int("decklists", n), slog.String("file", path))
	return nil
}
