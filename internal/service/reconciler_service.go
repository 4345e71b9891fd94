// FILE: internal/service/reconciler_service.go
package service

import (
	"context"
	"time"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/pkg/logger"
	"promptpix-be/internal/repository/contract"
	"promptpix-be/internal/repository/unitofwork"
	"promptpix-be/pkg/events"
	"promptpix-be/pkg/gateway"
)

const (
	// sweepMinAge keeps the reconciler off transactions young enough for the
	// webhook to still arrive on its own.
	sweepMinAge = 2 * time.Minute

	sweepBatchSize = 50
	sweepInterval  = 1 * time.Minute
)

// IReconcilerService is the background safety net: it revisits stale pending
// transactions and asks the provider what actually happened to them.
type IReconcilerService interface {
	Run(ctx context.Context)
	SweepOnce(ctx context.Context) (int, error)
}

type reconcilerService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        gateway.Gateway
	eventPublisher EventPublisher
	log            logger.ILogger

	now func() time.Time
}

func NewReconcilerService(
	uowFactory unitofwork.RepositoryFactory,
	gw gateway.Gateway,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IReconcilerService {
	return &reconcilerService{
		uowFactory:     uowFactory,
		gateway:        gw,
		eventPublisher: eventPublisher,
		log:            log,
		now:            time.Now,
	}
}

func (s *reconcilerService) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reconciler", "Reconciler stopped", nil)
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.log.Error("reconciler", "Sweep failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// SweepOnce resolves one batch of stale pending transactions. It returns how
// many transactions reached a terminal state.
func (s *reconcilerService) SweepOnce(ctx context.Context) (int, error) {
	if !s.gateway.Configured() {
		return 0, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	cutoff := s.now().Add(-sweepMinAge)
	pending, err := uow.TransactionRepository().FindPendingOlderThan(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, tx := range pending {
		if ctx.Err() != nil {
			return resolved, ctx.Err()
		}
		if s.resolveOne(ctx, uow, tx) {
			resolved++
		}
	}

	if len(pending) > 0 {
		s.log.Info("reconciler", "Sweep finished", map[string]interface{}{
			"checked":  len(pending),
			"resolved": resolved,
		})
	}
	return resolved, nil
}

func (s *reconcilerService) resolveOne(ctx context.Context, uow unitofwork.UnitOfWork, tx *entity.PaymentTransaction) bool {
	status, err := s.gateway.CheckStatus(ctx, tx.OrderId)
	if err != nil {
		s.log.Warn("reconciler", "Provider status check failed", map[string]interface{}{
			"invoice_number": tx.InvoiceNumber,
			"error":          err.Error(),
		})
		return false
	}

	switch status.State {
	case gateway.PaymentStatePaid:
		completion := contract.TransactionCompletion{
			GatewayTransactionId: optionalString(status.TransactionId),
			PaymentMethod:        optionalString(status.PaymentMethod),
		}
		transitioned, err := uow.TransactionRepository().CompletePending(ctx, tx.InvoiceNumber, completion)
		if err != nil {
			s.log.Error("reconciler", "Failed to complete transaction", map[string]interface{}{
				"invoice_number": tx.InvoiceNumber,
				"error":          err.Error(),
			})
			return false
		}
		if !transitioned {
			return false
		}
		if _, err := uow.UserRepository().IncrementCredits(ctx, tx.UserId, tx.TotalCredits()); err != nil {
			s.log.Error("reconciler", "Ledger credit failed after completion", map[string]interface{}{
				"invoice_number": tx.InvoiceNumber,
				"error":          err.Error(),
			})
			return false
		}
		s.log.Info("reconciler", "Recovered missed payment", map[string]interface{}{
			"invoice_number": tx.InvoiceNumber,
			"credits":        tx.TotalCredits(),
		})
		s.publish(ctx, events.TypePaymentCompleted, map[string]interface{}{
			"user_id":        tx.UserId.String(),
			"invoice_number": tx.InvoiceNumber,
			"package_id":     tx.PackageId,
			"amount":         tx.Amount,
			"credits":        tx.TotalCredits(),
			"channel":        "reconciler",
		})
		return true
	case gateway.PaymentStateFailed:
		return s.close(ctx, uow, tx, entity.TransactionStatusFailed)
	case gateway.PaymentStateExpired:
		return s.close(ctx, uow, tx, entity.TransactionStatusCancelled)
	default:
		return false
	}
}

func (s *reconcilerService) close(ctx context.Context, uow unitofwork.UnitOfWork, tx *entity.PaymentTransaction, status entity.TransactionStatus) bool {
	transitioned, err := uow.TransactionRepository().MarkTerminal(ctx, tx.InvoiceNumber, status, nil)
	if err != nil || !transitioned {
		return false
	}
	s.publish(ctx, events.TypePaymentFailed, map[string]interface{}{
		"user_id":        tx.UserId.String(),
		"invoice_number": tx.InvoiceNumber,
		"status":         string(status),
		"channel":        "reconciler",
	})
	return true
}

func (s *reconcilerService) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, payload)); err != nil {
		s.log.Warn("reconciler", "Failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
