package engine

import "strings"

// ScopeController owns the committed search scope. The scope and the cursor
// are always reset together.
type ScopeController struct {
	gate      *Gate
	store     *Store
	committed string
}

// NewScopeController wires a controller over gate and store.
func NewScopeController(gate *Gate, store *Store) *ScopeController {
	return &ScopeController{gate: gate, store: store}
}

// Committed returns the scope that produced the loaded page 0.
func (c *ScopeController) Committed() string {
	return c.committed
}

// Request applies a scope change. A nil permit means nothing to fetch.
//
//   - different scope (including clearing a non-empty one): hard reset, fetch page 0
//   - same non-empty scope: hard reset, fetch page 0 (forced refresh)
//   - empty to empty: no-op
func (c *ScopeController) Request(key string) (*Permit, error) {
	key = strings.TrimSpace(key)
	if key == "" && c.committed == "" {
		return nil, nil
	}
	return c.reset(key)
}

// Reload forces a hard reset of the committed scope, used for the initial load.
func (c *ScopeController) Reload() (*Permit, error) {
	return c.reset(c.committed)
}

func (c *ScopeController) reset(key string) (*Permit, error) {
	c.store.Clear()
	c.gate.Reset()
	c.committed = key
	p, err := c.gate.TryBegin(0, key)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
