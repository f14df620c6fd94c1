package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/Todo_APP_BackEnd/internal/repository/ports"
)

// Store owns the connection pool and hands out repositories bound either to
// the pool or to a transaction.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repositories() ports.Repositories {
	return repositoriesFor(s.db)
}

// WithTx runs fn in a transaction that is committed when fn returns nil and
// rolled back on error or panic. Panics are re-raised after the rollback.
func (s *Store) WithTx(ctx context.Context, fn func(repos ports.Repositories) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(repositoriesFor(tx))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func repositoriesFor(db sqlx.ExtContext) ports.Repositories {
	return ports.Repositories{
		Users: NewUserRepo(db),
		Otps:  NewOtpRepo(db),
		Tasks: NewTaskRepo(db),
	}
}

var _ ports.TxRunner = (*Store)(nil)
