package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/payment"
)

// maxWebhookBody is Stripe's documented ceiling for event payloads.
const maxWebhookBody = 65536

type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*payment.Event, error)
}

type EventHandler interface {
	HandleEvent(ctx context.Context, event *payment.Event) error
}

type WebhookHandler struct {
	parser  WebhookParser
	handler EventHandler
	logger  *zap.Logger
}

func NewWebhookHandler(parser WebhookParser, handler EventHandler, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		parser:  parser,
		handler: handler,
		logger:  logger.Named("WebhookHandler"),
	}
}

// HandleStripe godoc
// @Summary     Stripe webhook endpoint
// @Description Receives payment events from Stripe. The Stripe-Signature header is verified against the webhook secret.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Stripe-Signature header string true "Stripe signature"
// @Success     200 {object} map[string]string "received"
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read request body",
			Message: err.Error(),
		})
		return
	}

	event, err := h.parser.ParseWebhook(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.logger.Warn("Rejected webhook with invalid signature", zap.String("clientIP", c.ClientIP()))
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid signature"})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid event", Message: err.Error()})
		return
	}

	// A 5xx makes Stripe redeliver the event later.
	if err := h.handler.HandleEvent(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to handle webhook event",
			zap.String("eventID", event.ID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to handle event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
