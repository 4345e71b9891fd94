// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"promptpix-be/internal/model"
	"promptpix-be/internal/pkg/logger"
	"promptpix-be/internal/pkg/mailer"
	"promptpix-be/internal/repository/specification"
	"promptpix-be/internal/repository/unitofwork"
	"promptpix-be/internal/websocket"
	"promptpix-be/pkg/events"
	pktNats "promptpix-be/pkg/nats"

	"github.com/google/uuid"
)

// IConsumerService processes bus events that fan out to email and websocket
// notifications, keeping the request path free of slow side effects.
type IConsumerService interface {
	Start(ctx context.Context) error
}

type consumerService struct {
	subscriber   *pktNats.Subscriber
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	hub          *websocket.Hub
	log          logger.ILogger
}

func NewConsumerService(
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	hub *websocket.Hub,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		uowFactory:   uowFactory,
		emailService: emailService,
		hub:          hub,
		log:          log,
	}
}

func (cs *consumerService) Start(ctx context.Context) error {
	if err := cs.subscriber.Subscribe("events."+events.TypePaymentCompleted, "payment-completed-worker", cs.onPaymentCompleted); err != nil {
		return err
	}
	if err := cs.subscriber.Subscribe("events."+events.TypePaymentFailed, "payment-failed-worker", cs.onPaymentFailed); err != nil {
		return err
	}
	if err := cs.subscriber.Subscribe("events."+events.TypeUserRegistered, "user-registered-worker", cs.onUserRegistered); err != nil {
		return err
	}
	return nil
}

func (cs *consumerService) onPaymentCompleted(ctx context.Context, event events.Event) error {
	data := event.Payload()
	userId, err := payloadUserId(data)
	if err != nil {
		cs.log.Warn("consumer", "Payment completed event without user id", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	invoice, _ := data["invoice_number"].(string)
	credits := payloadInt(data, "credits")
	amount := payloadInt64(data, "amount")

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		cs.log.Warn("consumer", "Payment completed for unknown user", map[string]interface{}{
			"user_id": userId.String(),
		})
		return nil
	}

	if cs.emailService != nil {
		if err := cs.emailService.SendPurchaseReceipt(user.Email, user.FullName, invoice, amount, credits); err != nil {
			cs.log.Warn("consumer", "Failed to send purchase receipt", map[string]interface{}{
				"invoice_number": invoice,
				"error":          err.Error(),
			})
		}
	}

	if cs.hub != nil {
		cs.hub.Send(userId, model.Notification{
			Id:     uuid.New(),
			UserId: userId,
			Type:   "payment_completed",
			Title:  "Payment received",
			Body:   fmt.Sprintf("%d credits were added to your account.", credits),
			Data: map[string]interface{}{
				"invoice_number": invoice,
				"credits":        credits,
			},
			CreatedAt: time.Now(),
		})
	}
	return nil
}

func (cs *consumerService) onPaymentFailed(ctx context.Context, event events.Event) error {
	data := event.Payload()
	userId, err := payloadUserId(data)
	if err != nil {
		return nil
	}

	invoice, _ := data["invoice_number"].(string)
	status, _ := data["status"].(string)

	if cs.hub != nil {
		cs.hub.Send(userId, model.Notification{
			Id:     uuid.New(),
			UserId: userId,
			Type:   "payment_failed",
			Title:  "Payment not completed",
			Body:   "Your payment did not go through. No credits were charged.",
			Data: map[string]interface{}{
				"invoice_number": invoice,
				"status":         status,
			},
			CreatedAt: time.Now(),
		})
	}
	return nil
}

func (cs *consumerService) onUserRegistered(ctx context.Context, event events.Event) error {
	data := event.Payload()
	email, _ := data["email"].(string)
	fullName, _ := data["full_name"].(string)
	credits := payloadInt(data, "credits")

	if email == "" || cs.emailService == nil {
		return nil
	}
	if err := cs.emailService.SendWelcome(email, fullName, credits); err != nil {
		cs.log.Warn("consumer", "Failed to send welcome email", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
	}
	return nil
}

func payloadUserId(data map[string]interface{}) (uuid.UUID, error) {
	raw, _ := data["user_id"].(string)
	return uuid.Parse(raw)
}

// JSON round-trips turn numbers into float64.
func payloadInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func payloadInt64(data map[string]interface{}, key string) int64 {
	switch v := data[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
