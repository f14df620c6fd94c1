package ports

import (
	"context"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
)

type OtpRepository interface {
	Create(ctx context.Context, userID int64, code string) (*domain.Otp, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Otp, error)
}
