// Package objectstore holds the durable artifact storage collaborator.
package objectstore

import "context"

// Store writes binary artifacts under caller-chosen keys. Key uniqueness
// is the caller's responsibility; the store never checks for collisions.
type Store interface {
	Store(ctx context.Context, key string, data []byte) error
}
