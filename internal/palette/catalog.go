package palette

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

//go:embed palettes.yaml
var defaultFiles embed.FS

var (
	ErrUnknownPalette    = errors.New("unknown palette")
	ErrIncompletePalette = errors.New("palette does not define all 12 classes")
)

type catalogFile struct {
	Default  string                  `yaml:"default"`
	Palettes map[string]paletteEntry `yaml:"palettes"`
}

type paletteEntry struct {
	Name   string            `yaml:"name"`
	Colors map[string]string `yaml:"colors"`
}

// Catalog is the closed set of named palettes: embedded defaults plus an
// optional override directory.
type Catalog struct {
	mu        sync.RWMutex
	palettes  map[string]Palette
	defaultID string
}

// LoadCatalog loads the embedded palettes and then applies overrides from dir
// if provided.
func LoadCatalog(overrideDir string) (*Catalog, error) {
	c := &Catalog{palettes: make(map[string]Palette)}
	raw, err := fs.ReadFile(defaultFiles, "palettes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded palettes: %w", err)
	}
	if err := c.applyYAML(raw, nil, ""); err != nil {
		return nil, fmt.Errorf("embedded palettes: %w", err)
	}
	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	if _, ok := c.palettes[c.defaultID]; !ok {
		return nil, fmt.Errorf("default palette %q: %w", c.defaultID, ErrUnknownPalette)
	}
	return c, nil
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read palette dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	seen := make(map[string]string) // palette id -> filename
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := c.applyYAML(b, seen, name); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) applyYAML(b []byte, seen map[string]string, source string) error {
	var file catalogFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return err
	}
	parsed := make(map[string]Palette, len(file.Palettes))
	for id, entry := range file.Palettes {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || id == CustomID {
			return fmt.Errorf("reserved or empty palette id %q", id)
		}
		if seen != nil {
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("duplicate palette %q in %s and %s", id, prev, source)
			}
			seen[id] = source
		}
		name := entry.Name
		if strings.TrimSpace(name) == "" {
			name = id
		}
		p, err := New(id, name, entry.Colors)
		if err != nil {
			return err
		}
		if !p.Complete() {
			return fmt.Errorf("palette %s: %w", id, ErrIncompletePalette)
		}
		parsed[id] = p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, p := range parsed {
		c.palettes[id] = p
	}
	if d := strings.ToLower(strings.TrimSpace(file.Default)); d != "" {
		c.defaultID = d
	}
	return nil
}

// Get returns a named palette.
func (c *Catalog) Get(id string) (Palette, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.palettes[strings.ToLower(strings.TrimSpace(id))]
	return p, ok
}

// Default returns the catalog's default palette.
func (c *Catalog) Default() Palette {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.palettes[c.defaultID]
}

// IDs lists palette ids in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.palettes))
	for id := range c.palettes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
