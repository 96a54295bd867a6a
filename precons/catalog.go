// Package precons holds the preconstructed deck catalog and the decklist
// cache backing Moxfield imports of catalogued precons.
package precons

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Dosada05/commander-league/models"
)

//go:embed catalog.json
var embeddedCatalog []byte

var ErrPreconNotFound = errors.New("precon not found")

// Catalog is immutable after load and safe for concurrent reads.
type Catalog struct {
	precons []models.Precon
}

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(bytes.NewReader(embeddedCatalog))
}

// LoadCatalog reads the catalog from path, or the embedded one if path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open precon catalog %s: %w", path, err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

func ParseCatalog(r io.Reader) (*Catalog, error) {
	var precons []models.Precon
	if err := json.NewDecoder(r).Decode(&precons); err != nil {
		return nil, fmt.Errorf("failed to decode precon catalog: %w", err)
	}

	seen := make(map[string]bool, len(precons))
	for i, p := range precons {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("precon catalog entry %d: id and name are required", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("precon catalog entry %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
	}
	return NewCatalog(precons), nil
}

func NewCatalog(precons []models.Precon) *Catalog {
	c := &Catalog{precons: make([]models.Precon, len(precons))}
	copy(c.precons, precons)
	return c
}

func (c *Catalog) List() []models.Precon {
	out := make([]models.Precon, len(c.precons))
	copy(out, c.precons)
	return out
}

func (c *Catalog) ByID(id string) (models.Precon, error) {
	for _, p := range c.precons {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Precon{}, ErrPreconNotFound
}

// FindByURLOrID resolves an import URL to a catalogued precon. An exact
// source URL match anywhere in the catalog wins over an entry whose URL
// merely contains id.
func (c *Catalog) FindByURLOrID(rawURL, id string) (models.Precon, bool) {
	if rawURL != "" {
		for _, p := range c.precons {
			if p.SourceURL == rawURL {
				return p, true
			}
		}
	}
	if id != "" {
		for _, p := range c.precons {
			if strings.Contains(p.SourceURL, id) {
				return p, true
			}
		}
	}
	return models.Precon{}, false
}
