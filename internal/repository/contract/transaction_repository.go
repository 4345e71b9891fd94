package contract

import (
	"context"
	"time"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/repository/specification"
)

// TransactionCompletion carries the gateway fields written alongside the
// pending -> completed transition.
type TransactionCompletion struct {
	GatewayOrderId       *string
	GatewayTransactionId *string
	PaymentMethod        *string
	RawPayload           map[string]interface{}
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.PaymentTransaction) error
	Save(ctx context.Context, tx *entity.PaymentTransaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentTransaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentTransaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SumCompletedAmount totals the amount of completed transactions.
	SumCompletedAmount(ctx context.Context) (int64, error)

	// FindByInvoiceNumber returns nil, nil when absent.
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.PaymentTransaction, error)

	// FindMostRecentPendingWithin returns the newest pending transaction
	// created inside the trailing window, or nil.
	FindMostRecentPendingWithin(ctx context.Context, window time.Duration) (*entity.PaymentTransaction, error)

	// FindPendingOlderThan lists pending transactions created before the
	// cutoff, oldest first, for the reconciler sweep.
	FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.PaymentTransaction, error)

	// CompletePending transitions the transaction to completed only if it
	// has not already completed, as one conditional UPDATE. A late success
	// signal may revive a failed or cancelled row. The boolean reports
	// whether this call made the transition; false means another channel won
	// the race (or the row is absent) and no ledger credit must follow.
	CompletePending(ctx context.Context, invoiceNumber string, completion TransactionCompletion) (bool, error)

	// MarkTerminal transitions pending -> failed/cancelled under the same
	// conditional-update rule. A completed transaction is never overwritten.
	MarkTerminal(ctx context.Context, invoiceNumber string, status entity.TransactionStatus, rawPayload map[string]interface{}) (bool, error)
}
