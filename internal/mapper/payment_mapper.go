package mapper

import (
	"encoding/json"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/model"

	"gorm.io/datatypes"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(t *model.PaymentTransaction) *entity.PaymentTransaction {
	if t == nil {
		return nil
	}
	var payload map[string]interface{}
	if len(t.RawPayload) > 0 {
		// Best effort; a corrupt audit blob must not break reads.
		_ = json.Unmarshal(t.RawPayload, &payload)
	}
	return &entity.PaymentTransaction{
		Id:                   t.Id,
		UserId:               t.UserId,
		PackageId:            t.PackageId,
		OrderId:              t.OrderId,
		InvoiceNumber:        t.InvoiceNumber,
		Amount:               t.Amount,
		Credits:              t.Credits,
		BonusCredits:         t.BonusCredits,
		Status:               entity.TransactionStatus(t.Status),
		GatewayOrderId:       t.GatewayOrderId,
		GatewayTransactionId: t.GatewayTransactionId,
		PaymentMethod:        t.PaymentMethod,
		RawPayload:           payload,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(t *entity.PaymentTransaction) *model.PaymentTransaction {
	if t == nil {
		return nil
	}
	var payload datatypes.JSON
	if t.RawPayload != nil {
		if data, err := json.Marshal(t.RawPayload); err == nil {
			payload = data
		}
	}
	return &model.PaymentTransaction{
		Id:                   t.Id,
		UserId:               t.UserId,
		PackageId:            t.PackageId,
		OrderId:              t.OrderId,
		InvoiceNumber:        t.InvoiceNumber,
		Amount:               t.Amount,
		Credits:              t.Credits,
		BonusCredits:         t.BonusCredits,
		Status:               string(t.Status),
		GatewayOrderId:       t.GatewayOrderId,
		GatewayTransactionId: t.GatewayTransactionId,
		PaymentMethod:        t.PaymentMethod,
		RawPayload:           payload,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func (m *PaymentMapper) ToEntities(models []*model.PaymentTransaction) []*entity.PaymentTransaction {
	entities := make([]*entity.PaymentTransaction, len(models))
	for i, t := range models {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
