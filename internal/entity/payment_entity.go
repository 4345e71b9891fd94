package entity

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// PaymentTransaction is one purchase attempt. The invoice number is the
// idempotency key shared by every reconciliation channel and must be
// globally unique.
type PaymentTransaction struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	PackageId     string
	OrderId       string
	InvoiceNumber string
	Amount        int64 // smallest currency unit
	Credits       int
	BonusCredits  int
	Status        TransactionStatus

	// Filled in once the gateway reports them.
	GatewayOrderId       *string
	GatewayTransactionId *string
	PaymentMethod        *string

	// Last gateway payload received for this transaction, kept for audit.
	RawPayload map[string]interface{}

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalCredits is the amount added to the ledger on completion.
func (t *PaymentTransaction) TotalCredits() int {
	return t.Credits + t.BonusCredits
}

// CreditPackage maps a package id to its price and credit grant.
type CreditPackage struct {
	Id           string
	Name         string
	Price        int64
	Credits      int
	BonusCredits int
}

var creditPackages = []CreditPackage{
	{Id: "package-1", Name: "Starter", Price: 15000, Credits: 15, BonusCredits: 0},
	{Id: "package-2", Name: "Creator", Price: 30000, Credits: 35, BonusCredits: 5},
	{Id: "package-3", Name: "Studio", Price: 50000, Credits: 60, BonusCredits: 15},
}

// CreditPackages returns the fixed catalog.
func CreditPackages() []CreditPackage {
	out := make([]CreditPackage, len(creditPackages))
	copy(out, creditPackages)
	return out
}

// CreditPackageById resolves a package id, second return false when unknown.
func CreditPackageById(id string) (CreditPackage, bool) {
	for _, p := range creditPackages {
		if p.Id == id {
			return p, true
		}
	}
	return CreditPackage{}, false
}
