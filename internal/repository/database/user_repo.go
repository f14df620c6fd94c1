package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
	"github.com/njprem/Todo_APP_BackEnd/internal/repository/ports"
)

const userColumns = `id, first_name, last_name, email, password`

type UserRepository struct {
	db sqlx.ExtContext
}

func NewUserRepo(db sqlx.ExtContext) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
        INSERT INTO users (first_name, last_name, email, password)
        VALUES (?, ?, ?, ?)
        RETURNING ` + userColumns

	row := r.db.QueryRowxContext(ctx, r.db.Rebind(query), user.FirstName, user.LastName, user.Email, user.Password)
	var created domain.User
	if err := row.StructScan(&created); err != nil {
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %w", ports.ErrDuplicate, err)
		}
		return nil, err
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users
        WHERE email = ?
    `
	var user domain.User
	if err := sqlx.GetContext(ctx, r.db, &user, r.db.Rebind(query), email); err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = ?
    `
	var user domain.User
	if err := sqlx.GetContext(ctx, r.db, &user, r.db.Rebind(query), id); err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
