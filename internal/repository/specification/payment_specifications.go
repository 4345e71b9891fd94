package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByInvoiceNumber filters payment transactions by the idempotency key.
type ByInvoiceNumber struct {
	InvoiceNumber string
}

func (s ByInvoiceNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("invoice_number = ?", s.InvoiceNumber)
}

// ByOrderId filters by the system-generated order identifier.
type ByOrderId struct {
	OrderId string
}

func (s ByOrderId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("order_id = ?", s.OrderId)
}

// StatusIs filters by lifecycle status.
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// CreatedAfter filters rows created at or after the given instant.
type CreatedAfter struct {
	Time time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Time)
}

// CreatedBefore filters rows created before the given instant.
type CreatedBefore struct {
	Time time.Time
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at < ?", s.Time)
}

// UserOwnedBy filters rows belonging to a user.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
