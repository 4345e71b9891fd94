// FILE: internal/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreditPackageResponse struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Credits      int    `json:"credits"`
	BonusCredits int    `json:"bonus_credits"`
	TotalCredits int    `json:"total_credits"`
}

type CreatePaymentRequest struct {
	PackageId string `json:"package_id" validate:"required"`
}

type CreatePaymentResponse struct {
	TransactionId   uuid.UUID `json:"transaction_id"`
	OrderId         string    `json:"order_id"`
	InvoiceNumber   string    `json:"invoice_number"`
	Amount          int64     `json:"amount"`
	Credits         int       `json:"credits"`
	BonusCredits    int       `json:"bonus_credits"`
	SnapToken       string    `json:"snap_token"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
}

type TransactionResponse struct {
	Id            uuid.UUID `json:"id"`
	PackageId     string    `json:"package_id"`
	OrderId       string    `json:"order_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Amount        int64     `json:"amount"`
	Credits       int       `json:"credits"`
	BonusCredits  int       `json:"bonus_credits"`
	Status        string    `json:"status"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CheckTransactionResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	GatewayState  string `json:"gateway_state,omitempty"`
	Credits       int    `json:"credits"`
	Balance       int    `json:"balance"`
}

type ManualUpdateCreditResponse struct {
	InvoiceNumber  string `json:"invoice_number"`
	Status         string `json:"status"`
	CreditsGranted int    `json:"credits_granted"`
	Balance        int    `json:"balance"`
	AlreadyApplied bool   `json:"already_applied"`
}

type RedirectOutcome struct {
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	RedirectURL   string `json:"redirect_url"`
}
