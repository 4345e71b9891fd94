package contract

import (
	"context"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/repository/specification"
)

type ImageRepository interface {
	Create(ctx context.Context, image *entity.GeneratedImage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedImage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
