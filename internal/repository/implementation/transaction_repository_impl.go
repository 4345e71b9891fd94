package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/mapper"
	"promptpix-be/internal/model"
	"promptpix-be/internal/repository/contract"
	"promptpix-be/internal/repository/specification"

	"gorm.io/gorm"
)

type TransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewTransactionRepository(db *gorm.DB) contract.TransactionRepository {
	return &TransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *TransactionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TransactionRepositoryImpl) Create(ctx context.Context, tx *entity.PaymentTransaction) error {
	m := r.mapper.ToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.ToEntity(m)
	return nil
}

func (r *TransactionRepositoryImpl) Save(ctx context.Context, tx *entity.PaymentTransaction) error {
	m := r.mapper.ToModel(tx)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.ToEntity(m)
	return nil
}

func (r *TransactionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentTransaction, error) {
	var m model.PaymentTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentTransaction, error) {
	var models []*model.PaymentTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TransactionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PaymentTransaction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TransactionRepositoryImpl) SumCompletedAmount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("status = ?", string(entity.TransactionStatusCompleted)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *TransactionRepositoryImpl) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.PaymentTransaction, error) {
	return r.FindOne(ctx, specification.ByInvoiceNumber{InvoiceNumber: invoiceNumber})
}

func (r *TransactionRepositoryImpl) FindMostRecentPendingWithin(ctx context.Context, window time.Duration) (*entity.PaymentTransaction, error) {
	return r.FindOne(ctx,
		specification.StatusIs{Status: string(entity.TransactionStatusPending)},
		specification.CreatedAfter{Time: time.Now().Add(-window)},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *TransactionRepositoryImpl) FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.PaymentTransaction, error) {
	return r.FindAll(ctx,
		specification.StatusIs{Status: string(entity.TransactionStatusPending)},
		specification.CreatedBefore{Time: cutoff},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: 0},
	)
}

// CompletePending is the idempotency guard for the whole reconciliation
// engine: the status check and the write are one statement, so exactly one
// caller observes RowsAffected == 1 no matter how the channels interleave.
// Failed and cancelled rows may still be revived by a late success signal;
// only completed is absorbing.
func (r *TransactionRepositoryImpl) CompletePending(ctx context.Context, invoiceNumber string, completion contract.TransactionCompletion) (bool, error) {
	updates := map[string]interface{}{
		"status":     string(entity.TransactionStatusCompleted),
		"updated_at": time.Now(),
	}
	if completion.GatewayOrderId != nil {
		updates["gateway_order_id"] = *completion.GatewayOrderId
	}
	if completion.GatewayTransactionId != nil {
		updates["gateway_transaction_id"] = *completion.GatewayTransactionId
	}
	if completion.PaymentMethod != nil {
		updates["payment_method"] = *completion.PaymentMethod
	}
	if completion.RawPayload != nil {
		if data, err := json.Marshal(completion.RawPayload); err == nil {
			updates["raw_payload"] = data
		}
	}

	res := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("invoice_number = ? AND status <> ?", invoiceNumber, string(entity.TransactionStatusCompleted)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *TransactionRepositoryImpl) MarkTerminal(ctx context.Context, invoiceNumber string, status entity.TransactionStatus, rawPayload map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if rawPayload != nil {
		if data, err := json.Marshal(rawPayload); err == nil {
			updates["raw_payload"] = data
		}
	}

	res := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("invoice_number = ? AND status = ?", invoiceNumber, string(entity.TransactionStatusPending)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
