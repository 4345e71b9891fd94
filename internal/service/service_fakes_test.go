// FILE: internal/service/service_fakes_test.go
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/pkg/logger"
	"promptpix-be/internal/repository/contract"
	"promptpix-be/internal/repository/specification"
	"promptpix-be/internal/repository/unitofwork"
	"promptpix-be/pkg/events"
	"promptpix-be/pkg/gateway"

	"github.com/google/uuid"
)

// ---- logger ----

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// ---- event publisher ----

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) byType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ---- gateway ----

type fakeGateway struct {
	configured   bool
	serverKey    string
	checkout     *gateway.CheckoutSession
	checkoutErr  error
	statusResult *gateway.StatusResult
	statusErr    error
	statusCalls  int
}

func (g *fakeGateway) Configured() bool { return g.configured }

func (g *fakeGateway) VerifySignature(orderId, statusCode, grossAmount, signatureKey string) bool {
	return signatureKey == gateway.Signature(orderId, statusCode, grossAmount, g.serverKey)
}

func (g *fakeGateway) InitCheckout(ctx context.Context, details gateway.CheckoutDetails) (*gateway.CheckoutSession, error) {
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	if g.checkout != nil {
		return g.checkout, nil
	}
	return &gateway.CheckoutSession{Token: "snap-token", RedirectURL: "https://pay.example/" + details.OrderId}, nil
}

func (g *fakeGateway) CheckStatus(ctx context.Context, orderId string) (*gateway.StatusResult, error) {
	g.statusCalls++
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	if g.statusResult != nil {
		return g.statusResult, nil
	}
	return &gateway.StatusResult{State: gateway.PaymentStateUnknown}, nil
}

// ---- user repository ----

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u, ok := r.users[s.ID]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, nil
		case specification.ByEmail:
			for _, u := range r.users {
				if u.Email == s.Email {
					cp := *u
					return &cp, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Status = entity.UserStatus(status)
	}
	return nil
}

func (r *fakeUserRepo) IncrementCredits(ctx context.Context, userId uuid.UUID, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userId]
	if !ok {
		return 0, contract.ErrNotFound
	}
	u.Credits += amount
	return u.Credits, nil
}

func (r *fakeUserRepo) DecrementCredits(ctx context.Context, userId uuid.UUID, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userId]
	if !ok {
		return 0, contract.ErrNotFound
	}
	if u.Credits < amount {
		return 0, contract.ErrInsufficientCredits
	}
	u.Credits -= amount
	return u.Credits, nil
}

func (r *fakeUserRepo) GetBalance(ctx context.Context, userId uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userId]
	if !ok {
		return 0, contract.ErrNotFound
	}
	return u.Credits, nil
}

// ---- transaction repository ----

type fakeTxRepo struct {
	mu  sync.Mutex
	txs map[string]*entity.PaymentTransaction // keyed by invoice number
	now func() time.Time
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{
		txs: make(map[string]*entity.PaymentTransaction),
		now: time.Now,
	}
}

func (r *fakeTxRepo) Create(ctx context.Context, tx *entity.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tx
	r.txs[tx.InvoiceNumber] = &cp
	return nil
}

func (r *fakeTxRepo) Save(ctx context.Context, tx *entity.PaymentTransaction) error {
	return r.Create(ctx, tx)
}

func (r *fakeTxRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByInvoiceNumber:
			if tx, ok := r.txs[s.InvoiceNumber]; ok {
				cp := *tx
				return &cp, nil
			}
			return nil, nil
		case specification.ByOrderId:
			for _, tx := range r.txs {
				if tx.OrderId == s.OrderId {
					cp := *tx
					return &cp, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.PaymentTransaction, 0, len(r.txs))
	for _, tx := range r.txs {
		if !matchesTxSpecs(tx, specs) {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func matchesTxSpecs(tx *entity.PaymentTransaction, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.UserOwnedBy:
			if tx.UserId != s.UserID {
				return false
			}
		case specification.StatusIs:
			if string(tx.Status) != s.Status {
				return false
			}
		case specification.CreatedAfter:
			if tx.CreatedAt.Before(s.Time) {
				return false
			}
		case specification.CreatedBefore:
			if !tx.CreatedAt.Before(s.Time) {
				return false
			}
		}
	}
	return true
}

func (r *fakeTxRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeTxRepo) SumCompletedAmount(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, tx := range r.txs {
		if tx.Status == entity.TransactionStatusCompleted {
			total += tx.Amount
		}
	}
	return total, nil
}

func (r *fakeTxRepo) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.PaymentTransaction, error) {
	return r.FindOne(ctx, specification.ByInvoiceNumber{InvoiceNumber: invoiceNumber})
}

func (r *fakeTxRepo) FindMostRecentPendingWithin(ctx context.Context, window time.Duration) (*entity.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-window)
	var newest *entity.PaymentTransaction
	for _, tx := range r.txs {
		if tx.Status != entity.TransactionStatusPending || tx.CreatedAt.Before(cutoff) {
			continue
		}
		if newest == nil || tx.CreatedAt.After(newest.CreatedAt) {
			newest = tx
		}
	}
	if newest == nil {
		return nil, nil
	}
	cp := *newest
	return &cp, nil
}

func (r *fakeTxRepo) FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PaymentTransaction
	for _, tx := range r.txs {
		if tx.Status == entity.TransactionStatusPending && tx.CreatedAt.Before(cutoff) {
			cp := *tx
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTxRepo) CompletePending(ctx context.Context, invoiceNumber string, completion contract.TransactionCompletion) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[invoiceNumber]
	if !ok || tx.Status == entity.TransactionStatusCompleted {
		return false, nil
	}
	tx.Status = entity.TransactionStatusCompleted
	tx.UpdatedAt = r.now()
	if completion.GatewayOrderId != nil {
		tx.GatewayOrderId = completion.GatewayOrderId
	}
	if completion.GatewayTransactionId != nil {
		tx.GatewayTransactionId = completion.GatewayTransactionId
	}
	if completion.PaymentMethod != nil {
		tx.PaymentMethod = completion.PaymentMethod
	}
	if completion.RawPayload != nil {
		tx.RawPayload = completion.RawPayload
	}
	return true, nil
}

func (r *fakeTxRepo) MarkTerminal(ctx context.Context, invoiceNumber string, status entity.TransactionStatus, rawPayload map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[invoiceNumber]
	if !ok || tx.Status != entity.TransactionStatusPending {
		return false, nil
	}
	tx.Status = status
	tx.UpdatedAt = r.now()
	if rawPayload != nil {
		tx.RawPayload = rawPayload
	}
	return true, nil
}

func (r *fakeTxRepo) get(invoiceNumber string) *entity.PaymentTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx, ok := r.txs[invoiceNumber]; ok {
		cp := *tx
		return &cp
	}
	return nil
}

// ---- stub repositories for the remaining uow accessors ----

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.ChatSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.ChatSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	return r.Create(ctx, session)
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			if session, found := r.sessions[s.ID]; found {
				cp := *session
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.ChatSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.sessions)), nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.ChatMessage
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *message
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.ChatMessage, 0, len(r.messages))
	for _, m := range r.messages {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

type fakeImageRepo struct {
	mu     sync.Mutex
	images []*entity.GeneratedImage
}

func (r *fakeImageRepo) Create(ctx context.Context, image *entity.GeneratedImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *image
	r.images = append(r.images, &cp)
	return nil
}

func (r *fakeImageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.GeneratedImage, 0, len(r.images))
	for _, img := range r.images {
		cp := *img
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeImageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.images)), nil
}

type fakeFeedbackRepo struct {
	mu    sync.Mutex
	items []*entity.Feedback
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *entity.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *feedback
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeFeedbackRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Feedback, 0, len(r.items))
	for _, fb := range r.items {
		cp := *fb
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeFeedbackRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.items)), nil
}

// ---- unit of work ----

type fakeUow struct {
	users    *fakeUserRepo
	txs      *fakeTxRepo
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	images   *fakeImageRepo
	feedback *fakeFeedbackRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		users:    newFakeUserRepo(),
		txs:      newFakeTxRepo(),
		sessions: newFakeSessionRepo(),
		messages: &fakeMessageRepo{},
		images:   &fakeImageRepo{},
		feedback: &fakeFeedbackRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository               { return u.users }
func (u *fakeUow) TransactionRepository() contract.TransactionRepository { return u.txs }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return u.sessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return u.messages }
func (u *fakeUow) ImageRepository() contract.ImageRepository             { return u.images }
func (u *fakeUow) FeedbackRepository() contract.FeedbackRepository       { return u.feedback }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}
