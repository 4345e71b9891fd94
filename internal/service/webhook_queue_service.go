// FILE: internal/service/webhook_queue_service.go
package service

import (
	"context"
	"encoding/json"

	"promptpix-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WebhookTopic is the in-process queue between the IPN endpoint and the
// worker that applies notifications. The endpoint can then acknowledge the
// gateway immediately regardless of how long processing takes.
const WebhookTopic = "payment_notifications"

type IWebhookQueueService interface {
	Enqueue(ctx context.Context, payload map[string]interface{}) error
}

type webhookQueueService struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewWebhookQueueService(pubSub *gochannel.GoChannel, topic string) IWebhookQueueService {
	return &webhookQueueService{
		pubSub: pubSub,
		topic:  topic,
	}
}

func (s *webhookQueueService) Enqueue(ctx context.Context, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return s.pubSub.Publish(s.topic, msg)
}

// IWebhookWorker drains the webhook queue.
type IWebhookWorker interface {
	Consume(ctx context.Context) error
}

type webhookWorker struct {
	pubSub   *gochannel.GoChannel
	topic    string
	payments IPaymentService
	log      logger.ILogger
}

func NewWebhookWorker(pubSub *gochannel.GoChannel, topic string, payments IPaymentService, log logger.ILogger) IWebhookWorker {
	return &webhookWorker{
		pubSub:   pubSub,
		topic:    topic,
		payments: payments,
		log:      log,
	}
}

func (w *webhookWorker) Consume(ctx context.Context) error {
	messages, err := w.pubSub.Subscribe(ctx, w.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			w.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (w *webhookWorker) processMessage(ctx context.Context, msg *message.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		w.log.Warn("webhook-worker", "Dropping malformed queue message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	if err := w.payments.HandleNotification(ctx, payload); err != nil {
		w.log.Error("webhook-worker", "Notification processing failed", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}
