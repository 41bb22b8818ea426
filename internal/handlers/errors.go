package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"love-surprise-backend/internal/commit"
	"love-surprise-backend/internal/middleware"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/payment"
	"love-surprise-backend/internal/services"
	"love-surprise-backend/internal/wizard"
)

// respondError maps domain errors to HTTP responses. Anything unknown is a
// 500 with the detail kept in the log only.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if v, ok := wizard.AsValidation(err); ok {
		status := http.StatusBadRequest
		switch v.Code {
		case wizard.CodeStepOutOfOrder, wizard.CodeAlreadySaved, wizard.CodeDowngradeBlocked:
			status = http.StatusConflict
		case wizard.CodeStorageFull:
			status = http.StatusInsufficientStorage
		}
		c.JSON(status, models.ErrorResponse{Error: string(v.Code), Message: v.Message, Field: v.Field})
		return
	}

	var input *services.InputError
	switch {
	case errors.As(err, &input):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: input.Message, Field: input.Field})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found", Message: err.Error()})
	case errors.Is(err, services.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "already paid", Message: err.Error()})
	case errors.Is(err, services.ErrNotEditable):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "not editable", Message: "Surpresas ativas não podem ser editadas."})
	case errors.Is(err, commit.ErrCommitFailed):
		logger.Warn("Upload failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "upload failed", Message: "Não foi possível enviar as fotos. Tente novamente."})
	case errors.Is(err, payment.ErrPaymentDeclined):
		c.JSON(http.StatusPaymentRequired, models.ErrorResponse{Error: "payment declined", Message: err.Error()})
	default:
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("requestID", c.GetString(middleware.RequestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
	}
}

func requirePrincipal(c *gin.Context) (*models.Principal, bool) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return nil, false
	}
	return principal, true
}
