// Package catalog loads the static, versioned list of tarot scenarios.
package catalog

import (
	"bytes"
	_ "embed"
	"github.com/BurntSushi/toml"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/models"
	"io"
	"log/slog"
	"os"
)

//go:embed scenarios.toml
var defaultCatalog []byte

var (
	ErrInvalidCatalog   = errors.NewSentinel("invalid catalog")
	ErrScenarioNotFound = errors.NewSentinel("scenario not found")
)

// file mirrors the TOML layout of a catalog.
type file struct {
	Version   string            `toml:"version"`
	Scenarios []models.Scenario `toml:"scenarios"`
}

// Catalog is an immutable, ordered set of scenarios.
type Catalog struct {
	version   string
	scenarios []models.Scenario
	byID      map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	c, err := Decode(bytes.NewReader(defaultCatalog))
	if err != nil {
		return nil, errors.Wrap(err, "decode embedded catalog")
	}
	return c, nil
}

// Load reads a catalog from path. An empty path selects the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog", slog.String("path", path))
	}
	defer func() {
		_ = f.Close()
	}()
	c, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decode catalog", slog.String("path", path))
	}
	return c, nil
}

// Decode parses and validates a TOML catalog. A catalog with validation errors is rejected.
func Decode(r io.Reader) (*Catalog, error) {
	var raw file
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "parse toml")
	}

	result := validate(raw)
	if len(result.Errors) > 0 {
		return nil, errors.Wrap(ErrInvalidCatalog, result.Errors[0],
			slog.Int("errorCount", len(result.Errors)))
	}

	c := Catalog{
		version:   raw.Version,
		scenarios: raw.Scenarios,
		byID:      make(map[string]int, len(raw.Scenarios)),
	}
	for i, s := range raw.Scenarios {
		c.byID[s.ID] = i
	}
	return &c, nil
}

// Version returns the catalog version string.
func (c *Catalog) Version() string {
	return c.version
}

// All returns the scenarios in catalog order. The returned slice is a copy.
func (c *Catalog) All() []models.Scenario {
	out := make([]models.Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

// Get looks up a scenario by ID.
func (c *Catalog) Get(id string) (models.Scenario, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Scenario{}, errors.Wrap(ErrScenarioNotFound, "get scenario", slog.String("id", id))
	}
	return c.scenarios[i], nil
}

// Len returns the number of scenarios.
func (c *Catalog) Len() int {
	return len(c.scenarios)
}
