package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/payment"
)

type PaymentProcessor interface {
	Pay(ctx context.Context, principal models.Principal, surpriseID uuid.UUID, paymentMethodID string) (*payment.Intent, error)
}

type PaymentsHandler struct {
	payments PaymentProcessor
	logger   *zap.Logger
}

func NewPaymentsHandler(payments PaymentProcessor, logger *zap.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		payments: payments,
		logger:   logger.Named("PaymentsHandler"),
	}
}

// CreatePayment godoc
// @Summary     Pay for a surprise
// @Description Charges the plan price with a Stripe payment method. The surprise becomes active when the provider confirms the payment through the webhook.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.PaymentRequest true "Payment"
// @Success     200 {object} models.PaymentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     402 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /payments [post]
func (h *PaymentsHandler) CreatePayment(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	surpriseID, err := uuid.Parse(req.SurpriseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid surprise id"})
		return
	}

	intent, err := h.payments.Pay(c.Request.Context(), *principal, surpriseID, req.PaymentMethodID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.PaymentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Status:          intent.Status,
	})
}
