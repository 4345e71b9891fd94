package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// ErrNotConfigured is returned when the gateway server key is missing.
var ErrNotConfigured = errors.New("payment gateway is not configured")

// CheckoutDetails is the internal request to start a hosted checkout.
type CheckoutDetails struct {
	OrderId       string
	InvoiceNumber string
	Amount        int64
	ItemId        string
	ItemName      string
	CustomerName  string
	CustomerEmail string
	FinishURL     string
}

// CheckoutSession is the provider artifact the browser needs.
type CheckoutSession struct {
	Token       string
	RedirectURL string
}

// PaymentState is the provider-confirmed state of a transaction.
type PaymentState string

const (
	PaymentStatePaid    PaymentState = "paid"
	PaymentStatePending PaymentState = "pending"
	PaymentStateFailed  PaymentState = "failed"
	PaymentStateExpired PaymentState = "expired"
	PaymentStateUnknown PaymentState = "unknown"
)

// StatusResult is the outcome of a provider status lookup.
type StatusResult struct {
	State         PaymentState
	TransactionId string
	PaymentMethod string
}

// Gateway abstracts the payment provider so the reconciliation engine and
// its tests do not depend on Midtrans directly.
type Gateway interface {
	Configured() bool
	InitCheckout(ctx context.Context, details CheckoutDetails) (*CheckoutSession, error)
	CheckStatus(ctx context.Context, orderId string) (*StatusResult, error)

	// VerifySignature checks a webhook signature key against the canonical
	// fields it covers. False means the payload cannot be trusted.
	VerifySignature(orderId, statusCode, grossAmount, signatureKey string) bool
}

// Signature is the Midtrans webhook signature:
// SHA512 over order_id + status_code + gross_amount + server_key.
func Signature(orderId, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderId + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

type MidtransGateway struct {
	serverKey string
	env       midtrans.EnvironmentType
	snap      snap.Client
	core      coreapi.Client
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &MidtransGateway{
		serverKey: serverKey,
		env:       env,
	}
	if serverKey != "" {
		g.snap.New(serverKey, env)
		g.core.New(serverKey, env)
	}
	return g
}

func (g *MidtransGateway) Configured() bool {
	return g.serverKey != ""
}

func (g *MidtransGateway) VerifySignature(orderId, statusCode, grossAmount, signatureKey string) bool {
	if !g.Configured() {
		return false
	}
	return signatureKey == Signature(orderId, statusCode, grossAmount, g.serverKey)
}

func (g *MidtransGateway) InitCheckout(ctx context.Context, details CheckoutDetails) (*CheckoutSession, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  details.OrderId,
			GrossAmt: details.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: details.FinishURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: details.CustomerName,
			Email: details.CustomerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    details.ItemId,
				Price: details.Amount,
				Qty:   1,
				Name:  details.ItemName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := g.snap.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &CheckoutSession{
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

func (g *MidtransGateway) CheckStatus(ctx context.Context, orderId string) (*StatusResult, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	resp, midErr := g.core.CheckTransaction(orderId)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans status check error: %v", midErr.GetMessage())
	}

	result := &StatusResult{
		State:         PaymentStateUnknown,
		TransactionId: resp.TransactionID,
		PaymentMethod: resp.PaymentType,
	}

	switch resp.TransactionStatus {
	case "capture", "settlement":
		result.State = PaymentStatePaid
	case "pending":
		result.State = PaymentStatePending
	case "deny", "cancel", "failure":
		result.State = PaymentStateFailed
	case "expire":
		result.State = PaymentStateExpired
	}

	return result, nil
}
