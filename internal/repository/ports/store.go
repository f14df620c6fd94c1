package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// Repositories groups the repositories bound to a single connection or
// transaction.
type Repositories struct {
	Users UserRepository
	Otps  OtpRepository
	Tasks TaskRepository
}

// TxRunner runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
}
