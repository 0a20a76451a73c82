package server

import (
	"sync"

	"github.com/n0roo/navkit/internal/lnb"
	"github.com/n0roo/navkit/internal/route"
)

type menuKey struct {
	tenantID string
	module   route.Module
}

type menuSnapshot struct {
	nodes  []lnb.Config
	origin lnb.Origin
}

// menuCache keeps the last loaded menu per tenant/module
type menuCache struct {
	mu      sync.RWMutex
	entries map[menuKey]menuSnapshot
}

func newMenuCache() *menuCache {
	return &menuCache{entries: make(map[menuKey]menuSnapshot)}
}

func (c *menuCache) Get(tenantID string, module route.Module) (menuSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.entries[menuKey{tenantID, module.OrDefault()}]
	return snap, ok
}

func (c *menuCache) Put(tenantID string, module route.Module, snap menuSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[menuKey{tenantID, module.OrDefault()}] = snap
}

// Invalidate drops one tenant/module
func (c *menuCache) Invalidate(tenantID string, module route.Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, menuKey{tenantID, module.OrDefault()})
}

// InvalidateTenant drops every module of a tenant
func (c *menuCache) InvalidateTenant(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.tenantID == tenantID {
			delete(c.entries, k)
		}
	}
}

// Clear drops everything
func (c *menuCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[menuKey]menuSnapshot)
}

func (c *menuCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// menu returns the cached snapshot or loads it from the provider
func (s *Server) menu(tenantID string, module route.Module) (menuSnapshot, error) {
	if snap, ok := s.cache.Get(tenantID, module); ok {
		s.metrics.MenuCache.WithLabelValues("hit").Inc()
		return snap, nil
	}
	s.metrics.MenuCache.WithLabelValues("miss").Inc()

	nodes, origin, err := s.provider.Menu(tenantID, module)
	if err != nil {
		return menuSnapshot{}, err
	}
	snap := menuSnapshot{nodes: nodes, origin: origin}
	s.cache.Put(tenantID, module, snap)
	return snap, nil
}
