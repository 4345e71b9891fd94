package contract

import (
	"context"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// IncrementCredits atomically adds amount to the user's balance and
	// returns the new balance. It must be a single SQL increment, never a
	// read-modify-write.
	IncrementCredits(ctx context.Context, userId uuid.UUID, amount int) (int, error)

	// DecrementCredits atomically subtracts amount, but only when the
	// balance covers it. Returns the new balance, or
	// gorm.ErrRecordNotFound-mapped domain errors at the service layer.
	DecrementCredits(ctx context.Context, userId uuid.UUID, amount int) (int, error)

	GetBalance(ctx context.Context, userId uuid.UUID) (int, error)
}
