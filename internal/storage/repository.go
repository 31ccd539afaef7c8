package storage

import (
	"context"
	"errors"

	"taskmint/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// SnapshotStore persists the whole task collection as one value under a
// fixed key. Every write is a full replace; every read is a full decode.
type SnapshotStore interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
}
