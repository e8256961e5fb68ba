package http

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	domainErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/errors"
	pkgErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/errors"
	"go.uber.org/zap"
)

// Stripe rejects webhook payloads above this size.
const maxWebhookBody = 65536

// EventTranslator verifies a signed webhook payload and decodes it.
type EventTranslator interface {
	Translate(payload []byte, signature string) (entity.BillingEvent, error)
}

// EventProcessor applies billing events.
type EventProcessor interface {
	Process(ctx context.Context, event entity.BillingEvent) (entity.ProcessingResult, error)
	Acknowledge(result entity.ProcessingResult, err error) bool
}

type WebhookHandler struct {
	logger     *zap.Logger
	translator EventTranslator
	engine     EventProcessor
}

func NewWebhookHandler(logger *zap.Logger, translator EventTranslator, engine EventProcessor) *WebhookHandler {
	return &WebhookHandler{
		logger:     logger,
		translator: translator,
		engine:     engine,
	}
}

// HandleWebhook handles POST /webhook. A 2xx answer tells the provider to stop
// retrying, so it is only sent once the event is durably handled.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")
	event, err := h.translator.Translate(body, sig)
	if err != nil {
		h.logger.Warn("Rejected webhook payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid webhook payload"})
	}

	result, err := h.engine.Process(c.Request().Context(), event)
	if pkgErrors.Is(err, domainErrors.ErrInvalidEvent) {
		h.logger.Error("Webhook event failed validation",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid webhook payload"})
	}

	if !h.engine.Acknowledge(result, err) {
		h.logger.Error("Webhook event not processed, provider will retry",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": pkgErrors.GenericMessage})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"received": true,
		"outcome":  result.Outcome,
	})
}
