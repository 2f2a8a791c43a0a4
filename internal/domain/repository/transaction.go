package repository

import (
	"context"
	"errors"
)

// Transactor runs fn inside a database transaction. Repositories called with the
// context passed to fn take part in the same transaction. Any error rolls it back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrDuplicate is returned by Create methods when a unique constraint rejects the row.
var ErrDuplicate = errors.New("duplicate record")
