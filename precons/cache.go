package precons

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/storage"
)

const keyPrefix = "precon-decklists/"

// Cache maps a precon display name to its ordered decklist. Put replaces
// the entry wholesale; the last write wins.
type Cache interface {
	Get(ctx context.Context, name string) ([]models.PreconCard, bool, error)
	Put(ctx context.Context, name string, cards []models.PreconCard) error
}

type cacheEntry struct {
	Name  string              `json:"name"`
	Cards []models.PreconCard `json:"cards"`
}

// ObjectCache stores one JSON object per precon name in an ObjectStore.
type ObjectCache struct {
	store  storage.ObjectStore
	group  singleflight.Group
	logger *slog.Logger
}

func NewObjectCache(store storage.ObjectStore, logger *slog.Logger) *ObjectCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ObjectCache{store: store, logger: logger}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Key returns the object key for a precon name. The slug keeps keys
// readable; the hash of the exact name keeps names that slug alike apart.
func Key(name string) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "unnamed"
	}
	sum := sha256.Sum256([]byte(name))
	return keyPrefix + slug + "-" + hex.EncodeToString(sum[:4]) + ".json"
}

func (c *ObjectCache) Get(ctx context.Context, name string) ([]models.PreconCard, bool, error) {
	key := Key(name)
	// The read is shared by every waiter on key, so it must outlive any
	// one caller's cancellation.
	readCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		data, err := c.store.Get(readCtx, key)
		if err != nil {
			return nil, err
		}
		var entry cacheEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, fmt.Errorf("corrupt precon cache entry %s: %w", key, err)
		}
		return entry, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res = <-ch:
	}

	if errors.Is(res.Err, storage.ErrObjectNotFound) {
		return nil, false, nil
	}
	if res.Err != nil {
		return nil, false, res.Err
	}

	entry := res.Val.(cacheEntry)
	if entry.Name != name {
		c.logger.Warn("Precon cache entry belongs to another name", "key", key, "want", name, "stored", entry.Name)
		return nil, false, nil
	}
	cards := make([]models.PreconCard, len(entry.Cards))
	copy(cards, entry.Cards)
	return cards, true, nil
}

func (c *ObjectCache) Put(ctx context.Context, name string, cards []models.PreconCard) error {
	if cards == nil {
		cards = []models.PreconCard{}
	}
	data, err := json.Marshal(cacheEntry{Name: name, Cards: cards})
	if err != nil {
		return fmt.Errorf("failed to encode precon cache entry %q: %w", name, err)
	}
	if _, err := c.store.Put(ctx, Key(name), "application/json", bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write precon cache entry %q: %w", name, err)
	}
	c.logger.Info("Precon decklist cached", "name", name, "cards", len(cards))
	return nil
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]models.PreconCard
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]models.PreconCard)}
}

func (c *MemoryCache) Get(ctx context.Context, name string) ([]models.PreconCard, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cards, ok := c.entries[name]
	if !ok {
		return nil, false, nil
	}
	out := make([]models.PreconCard, len(cards))
	copy(out, cards)
	return out, true, nil
}

func (c *MemoryCache) Put(ctx context.Context, name string, cards []models.PreconCard) error {
	stored := make([]models.PreconCard, len(cards))
	copy(stored, cards)
	c.mu.Lock()
	c.entries[name] = stored
	c.mu.Unlock()
	return nil
}

// Seed loads a {name: [cards]} mapping and writes every entry to cache.
// Entries are written in name order and the count written is returned.
func Seed(ctx context.Context, cache Cache, r io.Reader) (int, error) {
	var mapping map[string][]models.PreconCard
	if err := json.NewDecoder(r).Decode(&mapping); err != nil {
		return 0, fmt.Errorf("failed to decode precon cache seed: %w", err)
	}

	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if err := cache.Put(ctx, name, mapping[name]); err != nil {
			return i, err
		}
	}
	return len(names), nil
}
