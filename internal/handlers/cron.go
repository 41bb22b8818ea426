package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/services"
)

type LifecycleRunner interface {
	ManageSurprises(ctx context.Context) (*services.LifecycleReport, error)
}

type CronHandler struct {
	lifecycle LifecycleRunner
	secret    string
	logger    *zap.Logger
}

func NewCronHandler(lifecycle LifecycleRunner, secret string, logger *zap.Logger) *CronHandler {
	return &CronHandler{
		lifecycle: lifecycle,
		secret:    secret,
		logger:    logger.Named("CronHandler"),
	}
}

// ManageSurprises godoc
// @Summary     Run the lifecycle job
// @Description Deletes drafts older than three days, expires basic surprises after thirty days and evicts stale ephemeral photos. Called by the scheduler with the cron secret.
// @Tags        cron
// @Produce     json
// @Param       Authorization header string true "Bearer <CRON_SECRET>"
// @Success     200 {object} models.LifecycleResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /cron/manage-surprises [get]
// @Router      /cron/manage-surprises [post]
func (h *CronHandler) ManageSurprises(c *gin.Context) {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization token"})
		return
	}

	report, err := h.lifecycle.ManageSurprises(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.LifecycleResponse{
		DeletedDrafts:   report.DeletedDrafts,
		ExpiredBasic:    report.ExpiredBasic,
		SweptFiles:      report.SweptFiles,
		PrunedWizards:   report.PrunedWizards,
		OrphanedObjects: report.OrphanedObjects,
	})
}
