// FILE: internal/service/feedback_service.go
package service

import (
	"context"
	"time"

	"promptpix-be/internal/dto"
	"promptpix-be/internal/entity"
	"promptpix-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFeedbackService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error)
}

type feedbackService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFeedbackService(uowFactory unitofwork.RepositoryFactory) IFeedbackService {
	return &feedbackService{uowFactory: uowFactory}
}

func (s *feedbackService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	feedback := &entity.Feedback{
		Id:        uuid.New(),
		UserId:    userId,
		Rating:    req.Rating,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}
	if err := uow.FeedbackRepository().Create(ctx, feedback); err != nil {
		return nil, err
	}

	return &dto.FeedbackResponse{
		Id:        feedback.Id,
		UserId:    feedback.UserId,
		Rating:    feedback.Rating,
		Message:   feedback.Message,
		CreatedAt: feedback.CreatedAt,
	}, nil
}
