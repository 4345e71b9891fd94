// FILE: internal/controller/payment_controller.go
package controller

import (
	"errors"

	"promptpix-be/internal/dto"
	"promptpix-be/internal/pkg/logger"
	"promptpix-be/internal/pkg/serverutils"
	"promptpix-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetPackages(ctx *fiber.Ctx) error
	CreatePayment(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	SuccessRedirect(ctx *fiber.Ctx) error
	ErrorRedirect(ctx *fiber.Ctx) error
	CancelRedirect(ctx *fiber.Ctx) error
	CheckTransaction(ctx *fiber.Ctx) error
	ManualUpdateCredit(ctx *fiber.Ctx) error
	ListTransactions(ctx *fiber.Ctx) error
}

type paymentController struct {
	service     service.IPaymentService
	queue       service.IWebhookQueueService
	log         logger.ILogger
	frontendURL string
}

func NewPaymentController(paymentService service.IPaymentService, queue service.IWebhookQueueService, log logger.ILogger, frontendURL string) IPaymentController {
	return &paymentController{service: paymentService, queue: queue, log: log, frontendURL: frontendURL}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Get("/packages", c.GetPackages)
	h.Post("/ipn", c.Webhook)

	// The provider redirects the browser back with either verb.
	h.Get("/success", c.SuccessRedirect)
	h.Post("/success", c.SuccessRedirect)
	h.Get("/error", c.ErrorRedirect)
	h.Post("/error", c.ErrorRedirect)
	h.Get("/cancel", c.CancelRedirect)
	h.Post("/cancel", c.CancelRedirect)

	h.Post("/create", serverutils.JwtMiddleware, c.CreatePayment)
	h.Get("/check-transaction/:invoiceNumber", serverutils.JwtMiddleware, c.CheckTransaction)
	h.Get("/transactions", serverutils.JwtMiddleware, c.ListTransactions)
	h.Post("/manual-update-credit/:invoiceNumber", serverutils.JwtMiddleware, c.ManualUpdateCredit)
}

func (c *paymentController) GetPackages(ctx *fiber.Ctx) error {
	res, err := c.service.GetPackages(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Credit packages", res))
}

func (c *paymentController) CreatePayment(ctx *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}

	res, err := c.service.CreatePayment(ctx.Context(), userId, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPackage):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		case errors.Is(err, service.ErrGatewayNotConfigured):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
		}
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Payment created", res))
}

// Webhook always acknowledges with 200. The gateway retries on anything else,
// and a payload we cannot process now will not become processable by retry.
func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := ctx.BodyParser(&payload); err != nil {
		c.log.Warn("payment", "Webhook body is not valid JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return ctx.SendStatus(fiber.StatusOK)
	}

	if c.queue != nil {
		if err := c.queue.Enqueue(ctx.Context(), payload); err != nil {
			c.log.Error("payment", "Failed to enqueue webhook payload", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return ctx.SendStatus(fiber.StatusOK)
	}

	if err := c.service.HandleNotification(ctx.Context(), payload); err != nil {
		c.log.Error("payment", "Webhook processing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *paymentController) SuccessRedirect(ctx *fiber.Ctx) error {
	invoice := firstQuery(ctx, "invoice_number", "invoice", "inv", "order_id")

	outcome, err := c.service.HandleSuccessRedirect(ctx.Context(), invoice)
	if err != nil {
		// The browser cannot act on an error page here; send it to the
		// frontend and let polling surface the eventual state.
		c.log.Error("payment", "Success redirect failed", map[string]interface{}{
			"invoice_number": invoice,
			"error":          err.Error(),
		})
		return ctx.Redirect(c.frontendURL+"/payment/error", fiber.StatusFound)
	}
	return ctx.Redirect(outcome.RedirectURL, fiber.StatusFound)
}

func (c *paymentController) ErrorRedirect(ctx *fiber.Ctx) error {
	invoice := firstQuery(ctx, "invoice_number", "invoice", "inv", "order_id")

	outcome, err := c.service.HandleFailureRedirect(ctx.Context(), invoice, false)
	if err != nil {
		c.log.Error("payment", "Error redirect failed", map[string]interface{}{
			"invoice_number": invoice,
			"error":          err.Error(),
		})
		return ctx.Redirect(c.frontendURL+"/payment/error", fiber.StatusFound)
	}
	return ctx.Redirect(outcome.RedirectURL, fiber.StatusFound)
}

func (c *paymentController) CancelRedirect(ctx *fiber.Ctx) error {
	invoice := firstQuery(ctx, "invoice_number", "invoice", "inv", "order_id")

	outcome, err := c.service.HandleFailureRedirect(ctx.Context(), invoice, true)
	if err != nil {
		c.log.Error("payment", "Cancel redirect failed", map[string]interface{}{
			"invoice_number": invoice,
			"error":          err.Error(),
		})
		return ctx.Redirect(c.frontendURL+"/payment/cancelled", fiber.StatusFound)
	}
	return ctx.Redirect(outcome.RedirectURL, fiber.StatusFound)
}

func (c *paymentController) CheckTransaction(ctx *fiber.Ctx) error {
	invoice := ctx.Params("invoiceNumber")
	if invoice == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invoice_number is required"))
	}

	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}

	res, err := c.service.CheckTransaction(ctx.Context(), userId, invoice)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		case errors.Is(err, service.ErrForbidden):
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Transaction status", res))
}

func (c *paymentController) ManualUpdateCredit(ctx *fiber.Ctx) error {
	invoice := ctx.Params("invoiceNumber")
	if invoice == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invoice_number is required"))
	}

	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}

	res, err := c.service.ManualUpdateCredit(ctx.Context(), userId, invoice)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		case errors.Is(err, service.ErrForbidden):
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Manual credit update", res))
}

func (c *paymentController) ListTransactions(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}

	res, err := c.service.ListTransactions(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Transaction history", res))
}

func firstQuery(ctx *fiber.Ctx, keys ...string) string {
	for _, key := range keys {
		if v := ctx.Query(key); v != "" {
			return v
		}
	}
	return ""
}
