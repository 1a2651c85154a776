// Package store owns durable persistence of the application collection.
// Every mutation is a single read-modify-write critical section; no caller
// ever observes a half-written collection.
package store

import (
	"context"

	"driver-portal/internal/models"
)

// Store is the persistence contract for the application collection.
//
// AppendAtomic and UpdateAtomic must each execute as one critical section
// against the freshest snapshot of the collection, serialized with respect to
// every other mutation on the same store. Mutator errors abort the update and
// propagate to the caller unchanged.
type Store interface {
	// LoadAll returns the full collection in insertion order. A missing
	// backing medium is initialized empty, not treated as an error.
	LoadAll(ctx context.Context) ([]models.Application, error)

	// AppendAtomic inserts a new record and persists the result, rejecting
	// duplicate ids against the freshest snapshot. Returns the resulting
	// collection.
	AppendAtomic(ctx context.Context, app models.Application) ([]models.Application, error)

	// UpdateAtomic applies mutate to the record with the given id and
	// persists the result, returning the mutated record.
	UpdateAtomic(ctx context.Context, id string, mutate func(*models.Application) error) (models.Application, error)
}
