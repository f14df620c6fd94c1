package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
	"github.com/njprem/Todo_APP_BackEnd/internal/repository/ports"
)

type OtpRepository struct {
	db sqlx.ExtContext
}

func NewOtpRepo(db sqlx.ExtContext) *OtpRepository {
	return &OtpRepository{db: db}
}

func (r *OtpRepository) Create(ctx context.Context, userID int64, code string) (*domain.Otp, error) {
	const query = `
        INSERT INTO otps (user_id, otp_code)
        VALUES (?, ?)
        RETURNING id, user_id, otp_code
    `
	row := r.db.QueryRowxContext(ctx, r.db.Rebind(query), userID, code)
	var otp domain.Otp
	if err := row.StructScan(&otp); err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *OtpRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Otp, error) {
	const query = `
        SELECT id, user_id, otp_code
        FROM otps
        WHERE user_id = ?
        ORDER BY id
    `
	otps := make([]domain.Otp, 0)
	if err := sqlx.SelectContext(ctx, r.db, &otps, r.db.Rebind(query), userID); err != nil {
		return nil, err
	}
	return otps, nil
}

var _ ports.OtpRepository = (*OtpRepository)(nil)
