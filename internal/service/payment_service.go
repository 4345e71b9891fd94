// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptpix-be/internal/dto"
	"promptpix-be/internal/entity"
	"promptpix-be/internal/pkg/logger"
	"promptpix-be/internal/repository/contract"
	"promptpix-be/internal/repository/specification"
	"promptpix-be/internal/repository/unitofwork"
	"promptpix-be/pkg/events"
	"promptpix-be/pkg/gateway"

	"github.com/google/uuid"
)

const (
	// redirectGracePeriod holds back the success-redirect channel right after
	// checkout: inside this window the webhook is expected to arrive and the
	// redirect must not complete the transaction on its own.
	redirectGracePeriod = 30 * time.Second

	// redirectFallbackWindow bounds how far back the success redirect may look
	// for a pending transaction when the provider drops the invoice params.
	redirectFallbackWindow = 5 * time.Minute
)

// EventPublisher decouples services from the concrete bus client.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IPaymentService interface {
	GetPackages(ctx context.Context) ([]*dto.CreditPackageResponse, error)
	CreatePayment(ctx context.Context, userId uuid.UUID, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error)
	HandleNotification(ctx context.Context, payload map[string]interface{}) error
	HandleSuccessRedirect(ctx context.Context, invoiceNumber string) (*dto.RedirectOutcome, error)
	HandleFailureRedirect(ctx context.Context, invoiceNumber string, cancelled bool) (*dto.RedirectOutcome, error)
	CheckTransaction(ctx context.Context, userId uuid.UUID, invoiceNumber string) (*dto.CheckTransactionResponse, error)
	ManualUpdateCredit(ctx context.Context, userId uuid.UUID, invoiceNumber string) (*dto.ManualUpdateCreditResponse, error)
	ListTransactions(ctx context.Context, userId uuid.UUID) ([]*dto.TransactionResponse, error)
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        gateway.Gateway
	eventPublisher EventPublisher
	log            logger.ILogger
	frontendURL    string

	// now is swappable so the grace-period rules can be exercised in tests.
	now func() time.Time
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	gw gateway.Gateway,
	eventPublisher EventPublisher,
	log logger.ILogger,
	frontendURL string,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		gateway:        gw,
		eventPublisher: eventPublisher,
		log:            log,
		frontendURL:    frontendURL,
		now:            time.Now,
	}
}

func (s *paymentService) GetPackages(ctx context.Context) ([]*dto.CreditPackageResponse, error) {
	packages := entity.CreditPackages()
	res := make([]*dto.CreditPackageResponse, 0, len(packages))
	for _, p := range packages {
		res = append(res, &dto.CreditPackageResponse{
			Id:           p.Id,
			Name:         p.Name,
			Price:        p.Price,
			Credits:      p.Credits,
			BonusCredits: p.BonusCredits,
			TotalCredits: p.Credits + p.BonusCredits,
		})
	}
	return res, nil
}

func (s *paymentService) CreatePayment(ctx context.Context, userId uuid.UUID, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	pkg, ok := entity.CreditPackageById(req.PackageId)
	if !ok {
		return nil, ErrInvalidPackage
	}
	if !s.gateway.Configured() {
		return nil, ErrGatewayNotConfigured
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	txId := uuid.New()
	now := s.now()
	invoiceNumber := newInvoiceNumber(now)
	orderId := fmt.Sprintf("PPX-%s", txId.String())

	tx := &entity.PaymentTransaction{
		Id:            txId,
		UserId:        userId,
		PackageId:     pkg.Id,
		OrderId:       orderId,
		InvoiceNumber: invoiceNumber,
		Amount:        pkg.Price,
		Credits:       pkg.Credits,
		BonusCredits:  pkg.BonusCredits,
		Status:        entity.TransactionStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uow.TransactionRepository().Create(ctx, tx); err != nil {
		return nil, err
	}

	session, err := s.gateway.InitCheckout(ctx, gateway.CheckoutDetails{
		OrderId:       orderId,
		InvoiceNumber: invoiceNumber,
		Amount:        pkg.Price,
		ItemId:        pkg.Id,
		ItemName:      pkg.Name,
		CustomerName:  user.FullName,
		CustomerEmail: user.Email,
		FinishURL:     fmt.Sprintf("%s/payment/finish?invoice_number=%s", s.frontendURL, invoiceNumber),
	})
	if err != nil {
		// The pending row is left in place; the reconciler and the manual
		// channel can still resolve it if the provider side actually started.
		s.log.Error("payment", "Checkout initiation failed", map[string]interface{}{
			"invoice_number": invoiceNumber,
			"error":          err.Error(),
		})
		return nil, ErrPaymentInitiationFailed
	}

	s.log.Info("payment", "Checkout created", map[string]interface{}{
		"invoice_number": invoiceNumber,
		"order_id":       orderId,
		"package_id":     pkg.Id,
		"amount":         pkg.Price,
	})

	return &dto.CreatePaymentResponse{
		TransactionId:   txId,
		OrderId:         orderId,
		InvoiceNumber:   invoiceNumber,
		Amount:          pkg.Price,
		Credits:         pkg.Credits,
		BonusCredits:    pkg.BonusCredits,
		SnapToken:       session.Token,
		SnapRedirectUrl: session.RedirectURL,
	}, nil
}

// HandleNotification is the webhook channel. Unprocessable payloads return
// nil so the controller can acknowledge them; the gateway must never be told
// to retry a payload we will never understand.
func (s *paymentService) HandleNotification(ctx context.Context, payload map[string]interface{}) error {
	notif, ok := NormalizePaymentNotification(payload)
	if !ok {
		s.log.Warn("payment", "Webhook payload has no recognizable invoice number", map[string]interface{}{
			"payload_keys": payloadKeys(payload),
		})
		return nil
	}

	if !s.trustedNotification(payload) {
		s.log.Warn("payment", "Webhook signature mismatch, payload dropped", map[string]interface{}{
			"invoice_number": notif.InvoiceNumber,
		})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tx, err := s.findByInvoiceOrOrderId(ctx, uow, notif.InvoiceNumber)
	if err != nil {
		return err
	}
	if tx == nil {
		s.log.Warn("payment", "Webhook for unknown transaction", map[string]interface{}{
			"invoice_number": notif.InvoiceNumber,
		})
		return nil
	}

	switch {
	case notif.Success:
		completion := contract.TransactionCompletion{
			GatewayOrderId:       optionalString(notif.GatewayOrderId),
			GatewayTransactionId: optionalString(notif.GatewayTransactionId),
			PaymentMethod:        optionalString(notif.PaymentMethod),
			RawPayload:           payload,
		}
		_, err := s.settle(ctx, uow, tx, completion, "webhook")
		return err
	case notif.Failed:
		status := entity.TransactionStatusFailed
		if strings.EqualFold(notif.Status, "cancel") || strings.EqualFold(notif.Status, "cancelled") {
			status = entity.TransactionStatusCancelled
		}
		return s.markTerminal(ctx, uow, tx, status, payload, "webhook")
	default:
		s.log.Info("payment", "Webhook reports no terminal state, keeping pending", map[string]interface{}{
			"invoice_number": tx.InvoiceNumber,
			"status":         notif.Status,
		})
		return nil
	}
}

// HandleSuccessRedirect is the browser-redirect channel. Within the grace
// period after checkout the webhook is still expected, so the redirect only
// reports pending; past it, the redirect itself confirms the payment.
func (s *paymentService) HandleSuccessRedirect(ctx context.Context, invoiceNumber string) (*dto.RedirectOutcome, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var tx *entity.PaymentTransaction
	var err error
	if invoiceNumber != "" {
		tx, err = s.findByInvoiceOrOrderId(ctx, uow, invoiceNumber)
	} else {
		// Some providers drop the query params on the way back. Fall back to
		// the newest pending transaction inside the trailing window.
		tx, err = uow.TransactionRepository().FindMostRecentPendingWithin(ctx, redirectFallbackWindow)
	}
	if err != nil {
		return nil, err
	}
	if tx == nil {
		s.log.Warn("payment", "Success redirect matched no transaction", map[string]interface{}{
			"invoice_number": invoiceNumber,
		})
		return &dto.RedirectOutcome{
			Status:      "unknown",
			RedirectURL: fmt.Sprintf("%s/payment/error?reason=transaction_not_found", s.frontendURL),
		}, nil
	}

	if tx.Status == entity.TransactionStatusCompleted {
		return s.redirectOutcome(tx, "success"), nil
	}
	if tx.Status != entity.TransactionStatusPending {
		return s.redirectOutcome(tx, "error"), nil
	}

	age := s.now().Sub(tx.CreatedAt)
	if age <= redirectGracePeriod {
		s.log.Info("payment", "Redirect inside grace period, deferring to webhook", map[string]interface{}{
			"invoice_number": tx.InvoiceNumber,
			"age_seconds":    int(age.Seconds()),
		})
		return s.redirectOutcome(tx, "pending"), nil
	}

	completion := contract.TransactionCompletion{
		RawPayload: map[string]interface{}{"source": "redirect_fallback"},
	}
	if _, err := s.settle(ctx, uow, tx, completion, "redirect"); err != nil {
		return nil, err
	}
	tx.Status = entity.TransactionStatusCompleted
	return s.redirectOutcome(tx, "success"), nil
}

func (s *paymentService) HandleFailureRedirect(ctx context.Context, invoiceNumber string, cancelled bool) (*dto.RedirectOutcome, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var tx *entity.PaymentTransaction
	var err error
	if invoiceNumber != "" {
		tx, err = s.findByInvoiceOrOrderId(ctx, uow, invoiceNumber)
	} else {
		// Same param-less fallback as the success path.
		tx, err = uow.TransactionRepository().FindMostRecentPendingWithin(ctx, redirectFallbackWindow)
	}
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return &dto.RedirectOutcome{
			Status:      "unknown",
			RedirectURL: fmt.Sprintf("%s/payment/error?reason=transaction_not_found", s.frontendURL),
		}, nil
	}

	status := entity.TransactionStatusFailed
	outcome := "error"
	if cancelled {
		status = entity.TransactionStatusCancelled
		outcome = "cancelled"
	}

	if tx.Status == entity.TransactionStatusPending {
		if err := s.markTerminal(ctx, uow, tx, status, nil, "redirect"); err != nil {
			return nil, err
		}
		tx.Status = status
		return s.redirectOutcome(tx, outcome), nil
	}

	// A completed transaction is never demoted by a late failure redirect.
	if tx.Status == entity.TransactionStatusCompleted {
		return s.redirectOutcome(tx, "success"), nil
	}
	return s.redirectOutcome(tx, outcome), nil
}

// CheckTransaction is the polling channel: the client asks for the current
// state, and a still-pending transaction is re-checked against the provider.
func (s *paymentService) CheckTransaction(ctx context.Context, userId uuid.UUID, invoiceNumber string) (*dto.CheckTransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tx, err := s.findByInvoiceOrOrderId(ctx, uow, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	if tx.UserId != userId {
		return nil, ErrForbidden
	}

	gatewayState := ""
	if tx.Status == entity.TransactionStatusPending && s.gateway.Configured() {
		status, err := s.gateway.CheckStatus(ctx, tx.OrderId)
		if err != nil {
			s.log.Warn("payment", "Provider status check failed", map[string]interface{}{
				"invoice_number": tx.InvoiceNumber,
				"error":          err.Error(),
			})
		} else {
			gatewayState = string(status.State)
			switch status.State {
			case gateway.PaymentStatePaid:
				completion := contract.TransactionCompletion{
					GatewayTransactionId: optionalString(status.TransactionId),
					PaymentMethod:        optionalString(status.PaymentMethod),
				}
				if _, err := s.settle(ctx, uow, tx, completion, "polling"); err != nil {
					return nil, err
				}
			case gateway.PaymentStateFailed:
				if err := s.markTerminal(ctx, uow, tx, entity.TransactionStatusFailed, nil, "polling"); err != nil {
					return nil, err
				}
			case gateway.PaymentStateExpired:
				if err := s.markTerminal(ctx, uow, tx, entity.TransactionStatusCancelled, nil, "polling"); err != nil {
					return nil, err
				}
			}
		}
	}

	// Re-read so the response reflects transitions made above or by a
	// concurrent channel.
	fresh, err := uow.TransactionRepository().FindByInvoiceNumber(ctx, tx.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		fresh = tx
	}

	balance, err := uow.UserRepository().GetBalance(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &dto.CheckTransactionResponse{
		InvoiceNumber: fresh.InvoiceNumber,
		Status:        string(fresh.Status),
		GatewayState:  gatewayState,
		Credits:       fresh.TotalCredits(),
		Balance:       balance,
	}, nil
}

// ManualUpdateCredit is the user-triggered channel of last resort. Crediting
// an already-completed transaction is refused and logged for audit.
func (s *paymentService) ManualUpdateCredit(ctx context.Context, userId uuid.UUID, invoiceNumber string) (*dto.ManualUpdateCreditResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tx, err := s.findByInvoiceOrOrderId(ctx, uow, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	if tx.UserId != userId {
		return nil, ErrForbidden
	}

	if tx.Status == entity.TransactionStatusCompleted {
		s.log.Warn("payment", "Manual credit refused, transaction already completed", map[string]interface{}{
			"invoice_number": tx.InvoiceNumber,
			"user_id":        tx.UserId.String(),
		})
		balance, err := uow.UserRepository().GetBalance(ctx, tx.UserId)
		if err != nil {
			return nil, err
		}
		return &dto.ManualUpdateCreditResponse{
			InvoiceNumber:  tx.InvoiceNumber,
			Status:         string(tx.Status),
			CreditsGranted: 0,
			Balance:        balance,
			AlreadyApplied: true,
		}, nil
	}

	transitioned, err := s.settle(ctx, uow, tx, contract.TransactionCompletion{}, "manual")
	if err != nil {
		return nil, err
	}

	balance, err := uow.UserRepository().GetBalance(ctx, tx.UserId)
	if err != nil {
		return nil, err
	}

	granted := 0
	if transitioned {
		granted = tx.TotalCredits()
	}
	return &dto.ManualUpdateCreditResponse{
		InvoiceNumber:  tx.InvoiceNumber,
		Status:         string(entity.TransactionStatusCompleted),
		CreditsGranted: granted,
		Balance:        balance,
		AlreadyApplied: !transitioned,
	}, nil
}

func (s *paymentService) ListTransactions(ctx context.Context, userId uuid.UUID) ([]*dto.TransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	txs, err := uow.TransactionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, &dto.TransactionResponse{
			Id:            tx.Id,
			PackageId:     tx.PackageId,
			OrderId:       tx.OrderId,
			InvoiceNumber: tx.InvoiceNumber,
			Amount:        tx.Amount,
			Credits:       tx.Credits,
			BonusCredits:  tx.BonusCredits,
			Status:        string(tx.Status),
			PaymentMethod: tx.PaymentMethod,
			CreatedAt:     tx.CreatedAt,
			UpdatedAt:     tx.UpdatedAt,
		})
	}
	return res, nil
}

// settle performs the pending -> completed transition plus the ledger credit.
// The conditional update is the arbiter: whichever channel flips the row first
// credits the user, every other channel sees false and does nothing. The
// boolean reports whether this call won.
func (s *paymentService) settle(ctx context.Context, uow unitofwork.UnitOfWork, tx *entity.PaymentTransaction, completion contract.TransactionCompletion, channel string) (bool, error) {
	transitioned, err := uow.TransactionRepository().CompletePending(ctx, tx.InvoiceNumber, completion)
	if err != nil {
		return false, err
	}
	if !transitioned {
		s.log.Info("payment", "Transaction already settled by another channel", map[string]interface{}{
			"invoice_number": tx.InvoiceNumber,
			"channel":        channel,
		})
		return false, nil
	}

	credits := tx.TotalCredits()
	balance, err := uow.UserRepository().IncrementCredits(ctx, tx.UserId, credits)
	if err != nil {
		// The transaction row is completed but the ledger write failed. Loudly
		// flag it; the manual channel cannot fix this case on its own.
		s.log.Error("payment", "Ledger credit failed after completion", map[string]interface{}{
			"invoice_number": tx.InvoiceNumber,
			"user_id":        tx.UserId.String(),
			"credits":        credits,
			"error":          err.Error(),
		})
		return true, err
	}

	s.log.Info("payment", "Payment completed", map[string]interface{}{
		"invoice_number": tx.InvoiceNumber,
		"channel":        channel,
		"credits":        credits,
		"balance":        balance,
	})

	if s.eventPublisher != nil {
		evt := events.New(events.TypePaymentCompleted, map[string]interface{}{
			"user_id":        tx.UserId.String(),
			"invoice_number": tx.InvoiceNumber,
			"package_id":     tx.PackageId,
			"amount":         tx.Amount,
			"credits":        credits,
			"channel":        channel,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("payment", "Failed to publish payment completed event", map[string]interface{}{
				"invoice_number": tx.InvoiceNumber,
				"error":          err.Error(),
			})
		}
	}
	return true, nil
}

func (s *paymentService) markTerminal(ctx context.Context, uow unitofwork.UnitOfWork, tx *entity.PaymentTransaction, status entity.TransactionStatus, rawPayload map[string]interface{}, channel string) error {
	transitioned, err := uow.TransactionRepository().MarkTerminal(ctx, tx.InvoiceNumber, status, rawPayload)
	if err != nil {
		return err
	}
	if !transitioned {
		s.log.Info("payment", "Terminal update skipped, transaction no longer pending", map[string]interface{}{
			"invoice_number": tx.InvoiceNumber,
			"channel":        channel,
			"target_status":  string(status),
		})
		return nil
	}

	s.log.Info("payment", "Transaction closed", map[string]interface{}{
		"invoice_number": tx.InvoiceNumber,
		"channel":        channel,
		"status":         string(status),
	})

	if s.eventPublisher != nil {
		evt := events.New(events.TypePaymentFailed, map[string]interface{}{
			"user_id":        tx.UserId.String(),
			"invoice_number": tx.InvoiceNumber,
			"status":         string(status),
			"channel":        channel,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("payment", "Failed to publish payment failed event", map[string]interface{}{
				"invoice_number": tx.InvoiceNumber,
				"error":          err.Error(),
			})
		}
	}
	return nil
}

// trustedNotification validates the provider signature when the payload
// carries one. Unsigned payloads pass through; the shapes the provider sends
// are not contractual and some omit the signature fields entirely.
func (s *paymentService) trustedNotification(payload map[string]interface{}) bool {
	sig, ok := stringField(payload, "signature_key")
	if !ok || sig == "" || !s.gateway.Configured() {
		return true
	}
	orderId, _ := stringField(payload, "order_id")
	statusCode, _ := stringField(payload, "status_code")
	grossAmount, _ := stringField(payload, "gross_amount")
	return s.gateway.VerifySignature(orderId, statusCode, grossAmount, sig)
}

func (s *paymentService) findByInvoiceOrOrderId(ctx context.Context, uow unitofwork.UnitOfWork, key string) (*entity.PaymentTransaction, error) {
	tx, err := uow.TransactionRepository().FindByInvoiceNumber(ctx, key)
	if err != nil {
		return nil, err
	}
	if tx != nil {
		return tx, nil
	}
	// Some gateways echo our order id rather than the invoice number.
	return uow.TransactionRepository().FindOne(ctx, specification.ByOrderId{OrderId: key})
}

func (s *paymentService) redirectOutcome(tx *entity.PaymentTransaction, outcome string) *dto.RedirectOutcome {
	return &dto.RedirectOutcome{
		InvoiceNumber: tx.InvoiceNumber,
		Status:        string(tx.Status),
		RedirectURL:   fmt.Sprintf("%s/payment/%s?invoice_number=%s", s.frontendURL, outcome, tx.InvoiceNumber),
	}
}

func newInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:10]
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func payloadKeys(payload map[string]interface{}) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	return keys
}
