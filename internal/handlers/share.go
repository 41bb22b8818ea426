package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/models"
	"rsc.io/qr"
)

// SharePath is the public page of an active surprise, relative to the
// frontend base URL.
const SharePath = "/s/"

// ShareURL returns the public link of a surprise.
func ShareURL(baseURL string, surpriseID uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + SharePath + surpriseID.String()
}

type SurpriseViewer interface {
	View(ctx context.Context, surpriseID uuid.UUID) (*models.Surprise, error)
}

type ShareHandler struct {
	viewer        SurpriseViewer
	publicBaseURL string
	logger        *zap.Logger
}

func NewShareHandler(viewer SurpriseViewer, publicBaseURL string, logger *zap.Logger) *ShareHandler {
	return &ShareHandler{
		viewer:        viewer,
		publicBaseURL: publicBaseURL,
		logger:        logger.Named("ShareHandler"),
	}
}

// GetShared godoc
// @Summary     Public surprise page
// @Description Returns an active surprise for its share page and counts the visit. Unpaid and expired surprises are not found.
// @Tags        share
// @Produce     json
// @Param       surprise_id path string true "Surprise ID (UUID)"
// @Success     200 {object} models.PublicSurpriseResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /share/{surprise_id} [get]
func (h *ShareHandler) GetShared(c *gin.Context) {
	surpriseID, ok := surpriseIDParam(c)
	if !ok {
		return
	}

	s, err := h.viewer.View(c.Request.Context(), surpriseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.NewPublicSurpriseResponse(s))
}

// QRCode godoc
// @Summary     QR code of the share link
// @Tags        share
// @Produce     image/png
// @Param       surprise_id path string true "Surprise ID (UUID)"
// @Success     200 {file} binary
// @Failure     400 {object} models.ErrorResponse
// @Router      /share/{surprise_id}/qr [get]
func (h *ShareHandler) QRCode(c *gin.Context) {
	surpriseID, ok := surpriseIDParam(c)
	if !ok {
		return
	}

	code, err := qr.Encode(ShareURL(h.publicBaseURL, surpriseID), qr.M)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	code.Scale = 8

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", code.PNG())
}
