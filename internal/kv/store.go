// Package kv provides named-collection persistence for the lead platform.
//
// Each collection (leads, newsletter, gallery, webhook config) is stored as a
// single JSON blob under a fixed key. Writers own their collection and
// serialize their own read-modify-write sequences; a save always overwrites
// the whole collection. Concurrent writers from another process race
// last-save-wins, which is accepted for this demo-scale data.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is durable key-value storage for collection blobs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Collection keys, one per owning component.
const (
	KeyLeads      = "leads"
	KeyNewsletter = "newsletter"
	KeyGallery    = "gallery"
	KeyWebhookURL = "webhook_url"
)
