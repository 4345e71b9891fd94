// FILE: internal/service/admin_service.go
package service

import (
	"context"

	"promptpix-be/internal/dto"
	"promptpix-be/internal/entity"
	"promptpix-be/internal/pkg/logger"
	"promptpix-be/internal/repository/specification"
	"promptpix-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetStats(ctx context.Context) (*dto.AdminStatsResponse, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*dto.AdminUserResponse, error)
	ListTransactions(ctx context.Context, status string, limit, offset int) ([]*dto.TransactionResponse, error)
	ListFeedback(ctx context.Context, limit, offset int) ([]*dto.FeedbackResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error
	GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func (s *adminService) GetStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	totalTx, err := uow.TransactionRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	completedTx, err := uow.TransactionRepository().Count(ctx,
		specification.StatusIs{Status: string(entity.TransactionStatusCompleted)})
	if err != nil {
		return nil, err
	}
	pendingTx, err := uow.TransactionRepository().Count(ctx,
		specification.StatusIs{Status: string(entity.TransactionStatusPending)})
	if err != nil {
		return nil, err
	}
	revenue, err := uow.TransactionRepository().SumCompletedAmount(ctx)
	if err != nil {
		return nil, err
	}
	totalImages, err := uow.ImageRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.AdminStatsResponse{
		TotalUsers:            totalUsers,
		TotalTransactions:     totalTx,
		CompletedTransactions: completedTx,
		PendingTransactions:   pendingTx,
		TotalRevenue:          revenue,
		TotalImages:           totalImages,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context, limit, offset int) ([]*dto.AdminUserResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AdminUserResponse, 0, len(users))
	for _, user := range users {
		res = append(res, &dto.AdminUserResponse{
			Id:        user.Id,
			Email:     user.Email,
			FullName:  user.FullName,
			Role:      string(user.Role),
			Status:    string(user.Status),
			Credits:   user.Credits,
			CreatedAt: user.CreatedAt,
		})
	}
	return res, nil
}

func (s *adminService) ListTransactions(ctx context.Context, status string, limit, offset int) ([]*dto.TransactionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if status != "" {
		specs = append(specs, specification.StatusIs{Status: status})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	txs, err := uow.TransactionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, &dto.TransactionResponse{
			Id:            tx.Id,
			PackageId:     tx.PackageId,
			OrderId:       tx.OrderId,
			InvoiceNumber: tx.InvoiceNumber,
			Amount:        tx.Amount,
			Credits:       tx.Credits,
			BonusCredits:  tx.BonusCredits,
			Status:        string(tx.Status),
			PaymentMethod: tx.PaymentMethod,
			CreatedAt:     tx.CreatedAt,
			UpdatedAt:     tx.UpdatedAt,
		})
	}
	return res, nil
}

func (s *adminService) ListFeedback(ctx context.Context, limit, offset int) ([]*dto.FeedbackResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.FeedbackRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FeedbackResponse, 0, len(items))
	for _, fb := range items {
		res = append(res, &dto.FeedbackResponse{
			Id:        fb.Id,
			UserId:    fb.UserId,
			Rating:    fb.Rating,
			Message:   fb.Message,
			CreatedAt: fb.CreatedAt,
		})
	}
	return res, nil
}

// UpdateUserStatus activates or blocks an account. Blocked users keep their
// balance; they just cannot log in.
func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error {
	if status != string(entity.UserStatusActive) && status != string(entity.UserStatusBlocked) {
		return ErrInvalidUserStatus
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return err
	}

	s.log.Info("admin", "User status updated", map[string]interface{}{
		"user_id": userId.String(),
		"status":  status,
	})
	return nil
}

func (s *adminService) GetLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.log.GetLogs(level, limit, offset)
}
