package model

import (
	"sync"

	"draftsage/internal/rank"
)

// Cache lazily loads one Artifact per ELO group. The first load for a
// group happens under the write lock so concurrent requests never
// duplicate it; after that reads only take the read lock.
type Cache struct {
	dir    string
	mu     sync.RWMutex
	loaded map[rank.Group]*Artifact
}

// NewCache creates a cache over an artifact directory.
func NewCache(dir string) *Cache {
	return &Cache{
		dir:    dir,
		loaded: make(map[rank.Group]*Artifact, len(rank.Groups)),
	}
}

// Get returns the artifact for a group, loading it on first use.
// Load failures are not cached; a fixed artifact directory can be
// retried without restarting.
func (c *Cache) Get(group rank.Group) (*Artifact, error) {
	c.mu.RLock()
	a := c.loaded[group]
	c.mu.RUnlock()
	if a != nil {
		return a, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if a := c.loaded[group]; a != nil {
		return a, nil
	}
	a, err := LoadArtifact(c.dir, group)
	if err != nil {
		return nil, err
	}
	c.loaded[group] = a
	return a, nil
}
