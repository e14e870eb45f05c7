// Package catalog serves the mine catalog from a YAML file, falling back to
// the built-in mines when no file is configured.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// File is the on-disk catalog layout.
type File struct {
	Mines []MineEntry `yaml:"mines"`
}

// MineEntry is one mine in the catalog file.
type MineEntry struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Location  string  `yaml:"location"`
	Type      string  `yaml:"type"`
	Status    string  `yaml:"status"`
	Lat       float64 `yaml:"lat"`
	Lng       float64 `yaml:"lng"`
	Elevation float64 `yaml:"elevation"`
	Area      float64 `yaml:"area"`
}

// Catalog is an in-memory port.MineCatalog whose contents can be swapped
// atomically on reload.
type Catalog struct {
	mu    sync.RWMutex
	mines []*model.Mine
	byID  map[string]*model.Mine
}

var _ port.MineCatalog = (*Catalog)(nil)

// New builds a catalog from already constructed mines.
func New(mines []*model.Mine) (*Catalog, error) {
	c := &Catalog{}
	if err := c.replace(mines); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	mines, err := build(defaultFile())
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in catalog: %v", err))
	}
	c, err := New(mines)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in catalog: %v", err))
	}
	return c
}

// Load reads the catalog at path. An empty path or a missing file yields the
// built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	mines, err := readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return New(mines)
}

// Reload re-reads path and swaps the contents. On error the current
// contents are kept.
func (c *Catalog) Reload(path string) error {
	mines, err := readFile(path)
	if err != nil {
		return err
	}
	return c.replace(mines)
}

// Get returns the mine with the given ID.
func (c *Catalog) Get(_ context.Context, id string) (*model.Mine, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("mine %s: %w", id, port.ErrNotFound)
	}
	return m, nil
}

// Search returns mines matching query in catalog order.
func (c *Catalog) Search(_ context.Context, query string) ([]*model.Mine, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.Mine, 0, len(c.mines))
	for _, m := range c.mines {
		if m.Matches(query) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Len returns the number of mines.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mines)
}

func (c *Catalog) replace(mines []*model.Mine) error {
	byID := make(map[string]*model.Mine, len(mines))
	for _, m := range mines {
		if _, dup := byID[m.ID()]; dup {
			return fmt.Errorf("duplicate mine id %q", m.ID())
		}
		byID[m.ID()] = m
	}

	c.mu.Lock()
	c.mines = mines
	c.byID = byID
	c.mu.Unlock()
	return nil
}

func readFile(path string) ([]*model.Mine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if len(f.Mines) == 0 {
		return nil, fmt.Errorf("catalog %s has no mines", path)
	}
	return build(f)
}

func build(f File) ([]*model.Mine, error) {
	mines := make([]*model.Mine, 0, len(f.Mines))
	for i, e := range f.Mines {
		status, err := valueobject.MineStatusFromString(e.Status)
		if err != nil {
			return nil, fmt.Errorf("mine %d: %w", i, err)
		}
		m, err := model.NewMine(e.ID, e.Name, e.Location, e.Type, status,
			valueobject.Coordinates{Lat: e.Lat, Lng: e.Lng}, e.Elevation, e.Area)
		if err != nil {
			return nil, fmt.Errorf("mine %d: %w", i, err)
		}
		mines = append(mines, m)
	}
	return mines, nil
}

func defaultFile() File {
	return File{Mines: []MineEntry{
		{
			ID: "1", Name: "Karunya Open Pit Mine", Location: "Tamil Nadu, India",
			Type: "Iron Ore", Status: "Active", Lat: 10.9347, Lng: 76.9358, Elevation: 320, Area: 145.2,
		},
		{
			ID: "2", Name: "Salem Steel Plant Mine", Location: "Salem, Tamil Nadu",
			Type: "Iron Ore", Status: "Active", Lat: 11.6643, Lng: 78.1460, Elevation: 278, Area: 89.7,
		},
		{
			ID: "3", Name: "Kudankulam Limestone Mine", Location: "Tirunelveli, Tamil Nadu",
			Type: "Limestone", Status: "Active", Lat: 8.1644, Lng: 77.7066, Elevation: 45, Area: 203.4,
		},
		{
			ID: "4", Name: "Hosur Granite Quarry", Location: "Krishnagiri, Tamil Nadu",
			Type: "Granite", Status: "Under Construction", Lat: 12.7368, Lng: 77.8285, Elevation: 915, Area: 67.8,
		},
	}}
}
