package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentTransaction struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	PackageId     string    `gorm:"type:varchar(50);not null"`
	OrderId       string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	InvoiceNumber string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Amount        int64     `gorm:"not null"`
	Credits       int       `gorm:"not null"`
	BonusCredits  int       `gorm:"not null;default:0"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_payment_tx_status_created,priority:1"`

	GatewayOrderId       *string `gorm:"type:varchar(100)"`
	GatewayTransactionId *string `gorm:"type:varchar(100)"`
	PaymentMethod        *string `gorm:"type:varchar(50)"`

	// Last gateway payload seen for this invoice, audit only.
	RawPayload datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_payment_tx_status_created,priority:2"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
