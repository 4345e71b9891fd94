package bootstrap

import (
	"context"
	"log"

	"promptpix-be/internal/config"
	"promptpix-be/internal/controller"
	"promptpix-be/internal/handler"
	"promptpix-be/internal/pkg/logger"
	"promptpix-be/internal/pkg/mailer"
	"promptpix-be/internal/repository/memory"
	"promptpix-be/internal/repository/unitofwork"
	"promptpix-be/internal/service"
	"promptpix-be/internal/websocket"
	"promptpix-be/pkg/gateway"
	"promptpix-be/pkg/imagegen"
	llmGemini "promptpix-be/pkg/llm/gemini"

	pktNats "promptpix-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	PaymentController  controller.IPaymentController
	ChatController     controller.IChatController
	ImageController    controller.IImageController
	FeedbackController controller.IFeedbackController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ReconcilerService service.IReconcilerService
	ConsumerService   service.IConsumerService
	WebhookWorker     service.IWebhookWorker

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. In-process queue for webhook ingestion
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Domain adapters
	paymentGateway := gateway.NewMidtransGateway(cfg.Midtrans.ServerKey, cfg.Midtrans.IsProduction)
	if !paymentGateway.Configured() {
		log.Printf("[WARN] MIDTRANS_SERVER_KEY not set, checkout is disabled")
	}

	var promptKey string
	if len(cfg.Ai.GeminiAPIKeys) > 0 {
		promptKey = cfg.Ai.GeminiAPIKeys[0]
	}
	llmProvider := llmGemini.NewGeminiProvider(promptKey, cfg.Ai.LLMModel)
	imageGenerator := imagegen.NewGeminiGenerator(cfg.Ai.GeminiAPIKeys, cfg.Ai.ImageModel)

	draftRepo := memory.NewDraftRepository()

	// 4. Services
	var busPublisher service.EventPublisher
	if natsPub != nil {
		busPublisher = natsPub
	}

	authService := service.NewAuthService(uowFactory, busPublisher)
	userService := service.NewUserService(uowFactory)
	paymentService := service.NewPaymentService(uowFactory, paymentGateway, busPublisher, sysLogger, cfg.App.FrontendURL)
	chatService := service.NewChatService(uowFactory, llmProvider, draftRepo)
	imageService := service.NewImageService(uowFactory, imageGenerator, busPublisher, sysLogger)
	feedbackService := service.NewFeedbackService(uowFactory)
	adminService := service.NewAdminService(uowFactory, sysLogger)

	webhookQueue := service.NewWebhookQueueService(pubSub, service.WebhookTopic)
	webhookWorker := service.NewWebhookWorker(pubSub, service.WebhookTopic, paymentService, sysLogger)

	reconcilerService := service.NewReconcilerService(uowFactory, paymentGateway, busPublisher, sysLogger)

	var consumerService service.IConsumerService
	if natsSub != nil {
		consumerService = service.NewConsumerService(natsSub, uowFactory, emailService, wsHub, sysLogger)
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		UserController:     controller.NewUserController(userService),
		PaymentController:  controller.NewPaymentController(paymentService, webhookQueue, sysLogger, cfg.App.FrontendURL),
		ChatController:     controller.NewChatController(chatService),
		ImageController:    controller.NewImageController(imageService),
		FeedbackController: controller.NewFeedbackController(feedbackService),
		AdminController:    controller.NewAdminController(adminService),

		ReconcilerService: reconcilerService,
		ConsumerService:   consumerService,
		WebhookWorker:     webhookWorker,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
