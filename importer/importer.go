// Package importer turns Archidekt and Moxfield deck URLs into a
// normalized decklist.
package importer

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/precons"
)

const (
	DefaultArchidektBaseURL    = "https://archidekt.com"
	DefaultArchidektAltBaseURL = "https://www.archidekt.com"
	DefaultMoxfieldAPIURL      = "https://api2.moxfield.com"
	DefaultMoxfieldUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// PreconLookup resolves a Moxfield URL to a catalogued precon.
type PreconLookup interface {
	FindByURLOrID(rawURL, id string) (models.Precon, bool)
}

type Config struct {
	ArchidektBaseURL    string
	ArchidektAltBaseURL string
	MoxfieldAPIURL      string
	MoxfieldUserAgent   string
	HTTPClient          *http.Client
}

func (c Config) withDefaults() Config {
	if c.ArchidektBaseURL == "" {
		c.ArchidektBaseURL = DefaultArchidektBaseURL
	}
	if c.ArchidektAltBaseURL == "" {
		c.ArchidektAltBaseURL = DefaultArchidektAltBaseURL
	}
	if c.MoxfieldAPIURL == "" {
		c.MoxfieldAPIURL = DefaultMoxfieldAPIURL
	}
	if c.MoxfieldUserAgent == "" {
		c.MoxfieldUserAgent = DefaultMoxfieldUserAgent
	}
	c.ArchidektBaseURL = strings.TrimRight(c.ArchidektBaseURL, "/")
	c.ArchidektAltBaseURL = strings.TrimRight(c.ArchidektAltBaseURL, "/")
	c.MoxfieldAPIURL = strings.TrimRight(c.MoxfieldAPIURL, "/")
	return c
}

type Importer struct {
	cfg        Config
	httpClient *http.Client
	catalog    PreconLookup
	cache      precons.Cache
	logger     *slog.Logger
}

func New(cfg Config, catalog PreconLookup, cache precons.Cache, logger *slog.Logger) *Importer {
	cfg = cfg.withDefaults()
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		cfg:        cfg,
		httpClient: client,
		catalog:    catalog,
		cache:      cache,
		logger:     logger,
	}
}

// Import fetches and normalizes the deck behind rawURL. Every failure is
// an *Error; a deck is returned only when fully normalized.
func (im *Importer) Import(ctx context.Context, rawURL string) (*Deck, error) {
	rawURL = strings.TrimSpace(rawURL)

	source, err := DetectSource(rawURL)
	if err != nil {
		return nil, err
	}
	id, err := ExtractID(source, rawURL)
	if err != nil {
		return nil, err
	}

	switch source {
	case models.SourceArchidekt:
		raw, err := im.fetchArchidekt(ctx, id)
		if err != nil {
			return nil, err
		}
		return normalizeArchidekt(raw, id), nil
	default:
		return im.importMoxfield(ctx, rawURL, id)
	}
}

func (im *Importer) importMoxfield(ctx context.Context, rawURL, id string) (*Deck, error) {
	var (
		precon  models.Precon
		matched bool
	)
	if im.catalog != nil {
		precon, matched = im.catalog.FindByURLOrID(rawURL, id)
	}

	if matched && im.cache != nil {
		cached, ok, err := im.cache.Get(ctx, precon.Name)
		switch {
		case err != nil:
			im.logger.Warn("Precon cache read failed, falling back to Moxfield",
				"precon", precon.Name, "error", err)
		case ok:
			im.logger.Info("Precon served from cache", "precon", precon.Name, "deck_id", id)
			return fromCache(precon, id, cached), nil
		}
	}

	deck, err := im.FetchMoxfield(ctx, id)
	if err != nil {
		return nil, err
	}
	if matched {
		deck.PreconID = precon.ID
	}
	return deck, nil
}

// FetchMoxfield always goes to Moxfield, skipping the precon cache.
func (im *Importer) FetchMoxfield(ctx context.Context, id string) (*Deck, error) {
	raw, err := im.fetchMoxfield(ctx, id)
	if err != nil {
		return nil, err
	}
	return normalizeMoxfield(raw, id), nil
}
