package palette

import (
	"sync"

	"github.com/park285/chess-heatmap/internal/domain"
)

// Context owns the single active palette. Switching palettes swaps only the
// lookup table; accumulated visit data is never touched.
type Context struct {
	mu      sync.RWMutex
	catalog *Catalog
	active  Palette
}

// NewContext activates id, falling back to the catalog default.
func NewContext(catalog *Catalog, id string) *Context {
	c := &Context{catalog: catalog}
	if catalog != nil {
		c.active = catalog.Default()
		if p, ok := catalog.Get(id); ok {
			c.active = p
		}
	}
	return c
}

// Use activates a named palette. Unknown ids leave the active palette as is.
func (c *Context) Use(id string) bool {
	if c == nil || c.catalog == nil {
		return false
	}
	p, ok := c.catalog.Get(id)
	if !ok {
		return false
	}
	c.mu.Lock()
	c.active = p
	c.mu.Unlock()
	return true
}

// UseCustom activates a user-edited palette. Last write wins.
func (c *Context) UseCustom(p Palette) {
	if c == nil {
		return
	}
	p.ID = CustomID
	c.mu.Lock()
	c.active = p
	c.mu.Unlock()
}

// Active returns a copy of the current palette.
func (c *Context) Active() Palette {
	if c == nil {
		return Palette{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Resolve implements Resolver against the active palette.
func (c *Context) Resolve(class domain.PieceClass) string {
	return c.Active().Resolve(class)
}

func (c *Context) Catalog() *Catalog {
	if c == nil {
		return nil
	}
	return c.catalog
}
