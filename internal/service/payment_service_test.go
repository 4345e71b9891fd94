// FILE: internal/service/payment_service_test.go
package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"promptpix-be/internal/dto"
	"promptpix-be/internal/entity"
	"promptpix-be/pkg/events"
	"promptpix-be/pkg/gateway"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc  *paymentService
	uow  *fakeUow
	gw   *fakeGateway
	pub  *fakePublisher
	base time.Time
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	uow := newFakeUow()
	gw := &fakeGateway{configured: true}
	pub := &fakePublisher{}

	svc := NewPaymentService(&fakeUowFactory{uow: uow}, gw, pub, nopLogger{}, "http://localhost:5173").(*paymentService)

	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	uow.txs.now = svc.now

	return &paymentFixture{svc: svc, uow: uow, gw: gw, pub: pub, base: base}
}

func (f *paymentFixture) seedUser(t *testing.T, credits int) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:       uuid.New(),
		Email:    "buyer@example.com",
		FullName: "Buyer",
		Role:     entity.UserRoleUser,
		Status:   entity.UserStatusActive,
		Credits:  credits,
	}
	require.NoError(t, f.uow.users.Create(context.Background(), user))
	return user
}

func (f *paymentFixture) seedPendingTx(t *testing.T, userId uuid.UUID, packageId string, age time.Duration) *entity.PaymentTransaction {
	t.Helper()
	pkg, ok := entity.CreditPackageById(packageId)
	require.True(t, ok)

	created := f.base.Add(-age)
	tx := &entity.PaymentTransaction{
		Id:            uuid.New(),
		UserId:        userId,
		PackageId:     pkg.Id,
		OrderId:       "PPX-" + uuid.New().String(),
		InvoiceNumber: newInvoiceNumber(created),
		Amount:        pkg.Price,
		Credits:       pkg.Credits,
		BonusCredits:  pkg.BonusCredits,
		Status:        entity.TransactionStatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, f.uow.txs.Create(context.Background(), tx))
	return tx
}

func settlementPayload(invoiceNumber string) map[string]interface{} {
	return map[string]interface{}{
		"invoice_number":     invoiceNumber,
		"transaction_status": "settlement",
	}
}

func TestPaymentService_WebhookSettlesPendingTransaction(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))

	stored := f.uow.txs.get(tx.InvoiceNumber)
	require.NotNil(t, stored)
	assert.Equal(t, entity.TransactionStatusCompleted, stored.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)

	completed := f.pub.byType(events.TypePaymentCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, tx.InvoiceNumber, completed[0].Payload()["invoice_number"])
}

func TestPaymentService_WebhookReplayIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))
	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))
	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
	assert.Len(t, f.pub.byType(events.TypePaymentCompleted), 1)
}

func TestPaymentService_WebhookStoresGatewayFields(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	require.NoError(t, f.svc.HandleNotification(ctx, map[string]interface{}{
		"invoice_number":     tx.InvoiceNumber,
		"transaction_status": "settlement",
		"order_id":           tx.OrderId,
		"transaction_id":     "mid-999",
		"payment_type":       "qris",
	}))

	stored := f.uow.txs.get(tx.InvoiceNumber)
	require.NotNil(t, stored)
	assert.Equal(t, entity.TransactionStatusCompleted, stored.Status)
	require.NotNil(t, stored.GatewayOrderId)
	assert.Equal(t, tx.OrderId, *stored.GatewayOrderId)
	require.NotNil(t, stored.GatewayTransactionId)
	assert.Equal(t, "mid-999", *stored.GatewayTransactionId)
	require.NotNil(t, stored.PaymentMethod)
	assert.Equal(t, "qris", *stored.PaymentMethod)
}

func TestPaymentService_WebhookRejectsBadSignature(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)
	f.gw.serverKey = "test-server-key"

	payload := settlementPayload(tx.InvoiceNumber)
	payload["order_id"] = tx.OrderId
	payload["status_code"] = "200"
	payload["gross_amount"] = "30000.00"
	payload["signature_key"] = "not-the-real-signature"

	require.NoError(t, f.svc.HandleNotification(ctx, payload))

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusPending, stored.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
	assert.Empty(t, f.pub.byType(events.TypePaymentCompleted))
}

func TestPaymentService_WebhookAcceptsValidSignature(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)
	f.gw.serverKey = "test-server-key"

	payload := settlementPayload(tx.InvoiceNumber)
	payload["order_id"] = tx.OrderId
	payload["status_code"] = "200"
	payload["gross_amount"] = "30000.00"
	payload["signature_key"] = gateway.Signature(tx.OrderId, "200", "30000.00", "test-server-key")

	require.NoError(t, f.svc.HandleNotification(ctx, payload))

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusCompleted, stored.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
}

func TestPaymentService_SuccessRedirectInsideGraceDefers(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	outcome, err := f.svc.HandleSuccessRedirect(ctx, tx.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransactionStatusPending), outcome.Status)
	assert.Contains(t, outcome.RedirectURL, "/payment/pending")

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusPending, stored.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestPaymentService_SuccessRedirectPastGraceSettles(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 40*time.Second)

	outcome, err := f.svc.HandleSuccessRedirect(ctx, tx.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransactionStatusCompleted), outcome.Status)
	assert.Contains(t, outcome.RedirectURL, "/payment/success")

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusCompleted, stored.Status)
	require.NotNil(t, stored.RawPayload)
	assert.Equal(t, "redirect_fallback", stored.RawPayload["source"])

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
}

func TestPaymentService_WebhookThenRedirectCreditsOnce(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 40*time.Second)

	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))

	outcome, err := f.svc.HandleSuccessRedirect(ctx, tx.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransactionStatusCompleted), outcome.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
	assert.Len(t, f.pub.byType(events.TypePaymentCompleted), 1)
}

func TestPaymentService_FailureRedirectCancelsPending(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	outcome, err := f.svc.HandleFailureRedirect(ctx, tx.InvoiceNumber, true)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransactionStatusCancelled), outcome.Status)
	assert.Contains(t, outcome.RedirectURL, "/payment/cancelled")

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusCancelled, stored.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
	assert.Len(t, f.pub.byType(events.TypePaymentFailed), 1)
}

func TestPaymentService_FailureRedirectAfterCompletionIsNoOp(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))

	outcome, err := f.svc.HandleFailureRedirect(ctx, tx.InvoiceNumber, true)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransactionStatusCompleted), outcome.Status)
	assert.Contains(t, outcome.RedirectURL, "/payment/success")

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusCompleted, stored.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
	assert.Empty(t, f.pub.byType(events.TypePaymentFailed))
}

func TestPaymentService_SuccessRedirectFallbackWithoutInvoice(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-1", 40*time.Second)

	outcome, err := f.svc.HandleSuccessRedirect(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, tx.InvoiceNumber, outcome.InvoiceNumber)
	assert.Equal(t, string(entity.TransactionStatusCompleted), outcome.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)
}

func TestPaymentService_FailureRedirectFallbackWithoutInvoice(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	outcome, err := f.svc.HandleFailureRedirect(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, tx.InvoiceNumber, outcome.InvoiceNumber)
	assert.Equal(t, string(entity.TransactionStatusCancelled), outcome.Status)

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusCancelled, stored.Status)
}

func TestPaymentService_WebhookRevivesCancelledTransaction(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	_, err := f.svc.HandleFailureRedirect(ctx, tx.InvoiceNumber, true)
	require.NoError(t, err)
	require.Equal(t, entity.TransactionStatusCancelled, f.uow.txs.get(tx.InvoiceNumber).Status)

	// A late settlement still wins over the earlier cancel.
	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusCompleted, stored.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
	assert.Len(t, f.pub.byType(events.TypePaymentCompleted), 1)
}

func TestPaymentService_SuccessRedirectUnknownInvoice(t *testing.T) {
	f := newPaymentFixture(t)

	outcome, err := f.svc.HandleSuccessRedirect(context.Background(), "INV-NOPE")
	require.NoError(t, err)
	assert.Equal(t, "unknown", outcome.Status)
	assert.Contains(t, outcome.RedirectURL, "/payment/error")
}

func TestPaymentService_WebhookAcceptsOrderIdLookup(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	require.NoError(t, f.svc.HandleNotification(ctx, map[string]interface{}{
		"order_id":           tx.OrderId,
		"transaction_status": "capture",
	}))

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusCompleted, stored.Status)
}

func TestPaymentService_WebhookUnknownInvoiceIsAcknowledged(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.HandleNotification(context.Background(), settlementPayload("INV-MISSING"))
	require.NoError(t, err)
	assert.Empty(t, f.pub.events)
}

func TestPaymentService_WebhookUnprocessablePayloadIsAcknowledged(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.HandleNotification(context.Background(), map[string]interface{}{
		"something": "else",
	})
	require.NoError(t, err)
	assert.Empty(t, f.pub.events)
}

func TestPaymentService_WebhookFailureClosesTransaction(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	require.NoError(t, f.svc.HandleNotification(ctx, map[string]interface{}{
		"invoice_number":     tx.InvoiceNumber,
		"transaction_status": "expire",
	}))

	stored := f.uow.txs.get(tx.InvoiceNumber)
	assert.Equal(t, entity.TransactionStatusFailed, stored.Status)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestPaymentService_CheckTransactionSettlesWhenProviderReportsPaid(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	f.gw.statusResult = &gateway.StatusResult{
		State:         gateway.PaymentStatePaid,
		TransactionId: "mid-123",
		PaymentMethod: "qris",
	}

	res, err := f.svc.CheckTransaction(ctx, user.Id, tx.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransactionStatusCompleted), res.Status)
	assert.Equal(t, string(gateway.PaymentStatePaid), res.GatewayState)
	assert.Equal(t, 40, res.Credits)
	assert.Equal(t, 40, res.Balance)
	assert.Equal(t, 1, f.gw.statusCalls)

	stored := f.uow.txs.get(tx.InvoiceNumber)
	require.NotNil(t, stored.GatewayTransactionId)
	assert.Equal(t, "mid-123", *stored.GatewayTransactionId)
}

func TestPaymentService_CheckTransactionClosesExpired(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	f.gw.statusResult = &gateway.StatusResult{State: gateway.PaymentStateExpired}

	res, err := f.svc.CheckTransaction(ctx, user.Id, tx.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransactionStatusCancelled), res.Status)
	assert.Equal(t, 0, res.Balance)
}

func TestPaymentService_CheckTransactionDoesNotPollSettledRows(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))

	res, err := f.svc.CheckTransaction(ctx, user.Id, tx.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransactionStatusCompleted), res.Status)
	assert.Equal(t, 0, f.gw.statusCalls)
}

func TestPaymentService_CheckTransactionOwnership(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, owner.Id, "package-2", 10*time.Second)

	_, err := f.svc.CheckTransaction(ctx, uuid.New(), tx.InvoiceNumber)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.CheckTransaction(ctx, owner.Id, "INV-MISSING")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestPaymentService_ManualUpdateCredit(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 10*time.Second)

	res, err := f.svc.ManualUpdateCredit(ctx, user.Id, tx.InvoiceNumber)
	require.NoError(t, err)
	assert.False(t, res.AlreadyApplied)
	assert.Equal(t, 40, res.CreditsGranted)
	assert.Equal(t, 40, res.Balance)

	// Second application is refused, nothing is granted twice.
	res, err = f.svc.ManualUpdateCredit(ctx, user.Id, tx.InvoiceNumber)
	require.NoError(t, err)
	assert.True(t, res.AlreadyApplied)
	assert.Equal(t, 0, res.CreditsGranted)
	assert.Equal(t, 40, res.Balance)
}

func TestPaymentService_ManualUpdateCreditUnknownInvoice(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.ManualUpdateCredit(context.Background(), uuid.New(), "INV-MISSING")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestPaymentService_ManualUpdateCreditOwnership(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	owner := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, owner.Id, "package-2", 10*time.Second)

	_, err := f.svc.ManualUpdateCredit(ctx, uuid.New(), tx.InvoiceNumber)
	assert.ErrorIs(t, err, ErrForbidden)

	balance, err := f.uow.users.GetBalance(ctx, owner.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestPaymentService_CreatePayment(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)

	res, err := f.svc.CreatePayment(ctx, user.Id, &dto.CreatePaymentRequest{PackageId: "package-2"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.InvoiceNumber, "INV-20260831-"))
	assert.True(t, strings.HasPrefix(res.OrderId, "PPX-"))
	assert.Equal(t, int64(30000), res.Amount)
	assert.Equal(t, "snap-token", res.SnapToken)

	stored := f.uow.txs.get(res.InvoiceNumber)
	require.NotNil(t, stored)
	assert.Equal(t, entity.TransactionStatusPending, stored.Status)
	assert.Equal(t, 35, stored.Credits)
	assert.Equal(t, 5, stored.BonusCredits)
}

func TestPaymentService_CreatePaymentInvalidPackage(t *testing.T) {
	f := newPaymentFixture(t)
	user := f.seedUser(t, 0)

	_, err := f.svc.CreatePayment(context.Background(), user.Id, &dto.CreatePaymentRequest{PackageId: "package-99"})
	assert.ErrorIs(t, err, ErrInvalidPackage)
}

func TestPaymentService_CreatePaymentGatewayNotConfigured(t *testing.T) {
	f := newPaymentFixture(t)
	f.gw.configured = false
	user := f.seedUser(t, 0)

	_, err := f.svc.CreatePayment(context.Background(), user.Id, &dto.CreatePaymentRequest{PackageId: "package-2"})
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestPaymentService_CreatePaymentCheckoutFailureKeepsPendingRow(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	f.gw.checkoutErr = assert.AnError

	_, err := f.svc.CreatePayment(ctx, user.Id, &dto.CreatePaymentRequest{PackageId: "package-2"})
	assert.ErrorIs(t, err, ErrPaymentInitiationFailed)

	// The pending row stays so the reconciler or an operator can resolve it.
	pending, err := f.uow.txs.FindMostRecentPendingWithin(ctx, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, user.Id, pending.UserId)
}

func TestPaymentService_InterleavedChannelsCreditOnce(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	tx := f.seedPendingTx(t, user.Id, "package-2", 40*time.Second)

	f.gw.statusResult = &gateway.StatusResult{State: gateway.PaymentStatePaid}

	// Every channel fires against the same transaction; only the first
	// transition credits the ledger.
	require.NoError(t, f.svc.HandleNotification(ctx, settlementPayload(tx.InvoiceNumber)))

	_, err := f.svc.HandleSuccessRedirect(ctx, tx.InvoiceNumber)
	require.NoError(t, err)

	_, err = f.svc.CheckTransaction(ctx, user.Id, tx.InvoiceNumber)
	require.NoError(t, err)

	_, err = f.svc.ManualUpdateCredit(ctx, user.Id, tx.InvoiceNumber)
	require.NoError(t, err)

	balance, err := f.uow.users.GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
	assert.Len(t, f.pub.byType(events.TypePaymentCompleted), 1)
}

func TestPaymentService_GetPackages(t *testing.T) {
	f := newPaymentFixture(t)

	packages, err := f.svc.GetPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, packages, 3)
	assert.Equal(t, "package-2", packages[1].Id)
	assert.Equal(t, 40, packages[1].TotalCredits)
}

func TestPaymentService_ListTransactions(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, 0)
	other := f.seedUser(t, 0)

	f.seedPendingTx(t, user.Id, "package-1", 2*time.Minute)
	f.seedPendingTx(t, user.Id, "package-2", time.Minute)
	f.seedPendingTx(t, other.Id, "package-3", time.Minute)

	txs, err := f.svc.ListTransactions(ctx, user.Id)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}
