package unitofwork

import (
	"context"

	"promptpix-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	TransactionRepository() contract.TransactionRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ImageRepository() contract.ImageRepository
	FeedbackRepository() contract.FeedbackRepository
}
