package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var ErrCatalogExists = errors.New("catalog exists")

var (
	mu       sync.RWMutex
	registry = make(map[string]*Catalog)
)

// Register makes c visible to Lookup and to type references of catalogs
// loaded afterwards.
func Register(c *Catalog) error {
	if c == nil {
		return fmt.Errorf("cannot register nil catalog")
	}
	if c.Name == "" {
		return fmt.Errorf("catalog must have a name")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[c.Name]; exists {
		return fmt.Errorf("%q: %w", c.Name, ErrCatalogExists)
	}
	registry[c.Name] = c
	return nil
}

// Lookup looks up a registered catalog by name.
func Lookup(name string) *Catalog {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// All returns all registered catalogs.
func All() map[string]*Catalog {
	mu.RLock()
	defer mu.RUnlock()
	return maps.Clone(registry)
}

// registeredType finds the first registered catalog, by name order,
// defining a type called name.
func registeredType(name string) (*Catalog, bool) {
	mu.RLock()
	defer mu.RUnlock()
	for _, k := range slices.Sorted(maps.Keys(registry)) {
		if c := registry[k]; c.Types[name] != nil {
			return c, true
		}
	}
	return nil, false
}
