package domain

import (
	"context"
	"io"
)

type TrekRepository interface {
	// Write path
	CreateTrek(ctx context.Context, t NewTrek) (Trek, error)

	// Read paths
	ListTreks(ctx context.Context) ([]TrekSummary, error)
	GetTrek(ctx context.Context, id int64) (Trek, error)
}

// FileStore persists uploaded bytes and hands back a storage-relative reference.
type FileStore interface {
	Save(ctx context.Context, originalName string, src io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// Incr atomically adds one to an integer counter and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}

// LegacySource reads treks from a previous deployment's public API.
type LegacySource interface {
	ListTreks(ctx context.Context) ([]map[string]any, error)
	GetTrekDetail(ctx context.Context, id int64) (map[string]any, error)
	Download(ctx context.Context, url string) ([]byte, error)
}
