package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection gives typed load/save access to one named collection.
//
// Load degrades to an empty slice when the key is missing or the stored JSON
// is corrupt: the collections are best-effort demo data and availability wins
// over surfacing decode failures. Backend transport errors still propagate.
type Collection[T any] struct {
	store Store
	key   string
}

// NewCollection binds a collection key to a store.
func NewCollection[T any](store Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

// Load returns all records, or an empty slice for missing/corrupt data.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}, nil
	}
	return items, nil
}

// Save overwrites the collection with the given records.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("kv: marshal %s: %w", c.key, err)
	}
	return c.store.Set(ctx, c.key, data)
}
