// FILE: internal/service/image_service.go
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"promptpix-be/internal/dto"
	"promptpix-be/internal/entity"
	"promptpix-be/internal/pkg/logger"
	"promptpix-be/internal/repository/contract"
	"promptpix-be/internal/repository/specification"
	"promptpix-be/internal/repository/unitofwork"
	"promptpix-be/pkg/events"
	"promptpix-be/pkg/imagegen"

	"github.com/google/uuid"
)

type IImageService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
	ListImages(ctx context.Context, userId uuid.UUID) ([]*dto.GeneratedImageResponse, error)
}

type imageService struct {
	uowFactory     unitofwork.RepositoryFactory
	generator      imagegen.Generator
	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewImageService(
	uowFactory unitofwork.RepositoryFactory,
	generator imagegen.Generator,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IImageService {
	return &imageService{
		uowFactory:     uowFactory,
		generator:      generator,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Generate charges one credit per image actually produced. The balance check
// up front is a fast reject; the conditional decrement afterwards is what
// guarantees the ledger never goes negative under concurrent requests.
func (s *imageService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	count := req.Count
	if count < 1 {
		count = 1
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	balance, err := uow.UserRepository().GetBalance(ctx, userId)
	if err != nil {
		return nil, err
	}
	if balance < count {
		return nil, ErrInsufficientCredits
	}

	images, err := s.generator.Generate(ctx, req.Prompt, count)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("image generation produced no output")
	}

	newBalance, err := uow.UserRepository().DecrementCredits(ctx, userId, len(images))
	if err != nil {
		if errors.Is(err, contract.ErrInsufficientCredits) {
			return nil, ErrInsufficientCredits
		}
		return nil, err
	}

	res := &dto.GenerateImageResponse{
		Images:         make([]*dto.GeneratedImageResponse, 0, len(images)),
		CreditsCharged: len(images),
		Balance:        newBalance,
	}

	for _, img := range images {
		record := &entity.GeneratedImage{
			Id:        uuid.New(),
			UserId:    userId,
			SessionId: req.SessionId,
			Prompt:    req.Prompt,
			Model:     s.generator.ModelName(),
			MimeType:  img.MimeType,
			ImageURL:  dataURL(img.MimeType, img.Data),
			CreatedAt: time.Now(),
		}
		if err := uow.ImageRepository().Create(ctx, record); err != nil {
			s.log.Error("image", "Failed to persist generated image", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
			continue
		}
		res.Images = append(res.Images, toImageResponse(record))
	}

	s.log.Info("image", "Images generated", map[string]interface{}{
		"user_id": userId.String(),
		"count":   len(images),
		"charged": len(images),
		"balance": newBalance,
	})

	if s.eventPublisher != nil {
		evt := events.New(events.TypeImageGenerated, map[string]interface{}{
			"user_id": userId.String(),
			"count":   len(images),
			"balance": newBalance,
		})
		_ = s.eventPublisher.Publish(ctx, evt)
	}

	return res, nil
}

func (s *imageService) ListImages(ctx context.Context, userId uuid.UUID) ([]*dto.GeneratedImageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	images, err := uow.ImageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GeneratedImageResponse, 0, len(images))
	for _, img := range images {
		res = append(res, toImageResponse(img))
	}
	return res, nil
}

func toImageResponse(img *entity.GeneratedImage) *dto.GeneratedImageResponse {
	return &dto.GeneratedImageResponse{
		Id:        img.Id,
		Prompt:    img.Prompt,
		Model:     img.Model,
		MimeType:  img.MimeType,
		ImageURL:  img.ImageURL,
		CreatedAt: img.CreatedAt,
	}
}

func dataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
