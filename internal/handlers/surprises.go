package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"love-surprise-backend/internal/commit"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/services"
)

const defaultNotificationLimit = 20

type SurpriseManager interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Surprise, error)
	Get(ctx context.Context, surpriseID, userID uuid.UUID) (*models.Surprise, error)
	Update(ctx context.Context, surpriseID, userID uuid.UUID, in services.SurpriseUpdate) (*services.UpdateResult, error)
	Delete(ctx context.Context, surpriseID, userID uuid.UUID) error
	Notifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) error
}

// SurprisesHandler serves the signed-in user's dashboard.
type SurprisesHandler struct {
	surprises     SurpriseManager
	publicBaseURL string
	logger        *zap.Logger
}

func NewSurprisesHandler(surprises SurpriseManager, publicBaseURL string, logger *zap.Logger) *SurprisesHandler {
	return &SurprisesHandler{
		surprises:     surprises,
		publicBaseURL: publicBaseURL,
		logger:        logger.Named("SurprisesHandler"),
	}
}

func (h *SurprisesHandler) shareURL(s *models.Surprise) string {
	if s.Status != models.SurpriseStatusActive {
		return ""
	}
	return ShareURL(h.publicBaseURL, s.ID)
}

// ListSurprises godoc
// @Summary     List my surprises
// @Tags        surprises
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SurpriseListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /surprises [get]
func (h *SurprisesHandler) ListSurprises(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	list, err := h.surprises.List(c.Request.Context(), principal.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := models.SurpriseListResponse{Surprises: make([]models.SurpriseResponse, 0, len(list))}
	for i := range list {
		resp.Surprises = append(resp.Surprises, models.NewSurpriseResponse(&list[i], h.shareURL(&list[i])))
	}
	c.JSON(http.StatusOK, resp)
}

// GetSurprise godoc
// @Summary     Get one of my surprises
// @Tags        surprises
// @Produce     json
// @Security    Bearer
// @Param       surprise_id path string true "Surprise ID (UUID)"
// @Success     200 {object} models.SurpriseResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /surprises/{surprise_id} [get]
func (h *SurprisesHandler) GetSurprise(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	surpriseID, ok := surpriseIDParam(c)
	if !ok {
		return
	}

	s, err := h.surprises.Get(c.Request.Context(), surpriseID, principal.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.NewSurpriseResponse(s, h.shareURL(s)))
}

// UpdateSurprise godoc
// @Summary     Edit one of my surprises
// @Description Rewrites the details of a surprise that is not active yet, removes the listed photos and appends new ones within the plan limit. The plan cannot be changed.
// @Tags        surprises
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       surprise_id       path     string true  "Surprise ID (UUID)"
// @Param       couple_name       formData string true  "Couple name"
// @Param       start_date        formData string true  "Start date (YYYY-MM-DD)"
// @Param       message           formData string true  "Message"
// @Param       youtube_link      formData string false "YouTube link (premium only)"
// @Param       deleted_photo_ids formData []string false "Ids of photos to remove"
// @Param       photos            formData file   false "New photos (multiple files allowed)"
// @Success     200 {object} models.SurpriseUpdateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /surprises/{surprise_id} [put]
func (h *SurprisesHandler) UpdateSurprise(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	surpriseID, ok := surpriseIDParam(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid multipart form", Message: err.Error()})
		return
	}

	in := services.SurpriseUpdate{
		CoupleName:  c.PostForm("couple_name"),
		StartDate:   c.PostForm("start_date"),
		Message:     c.PostForm("message"),
		YoutubeLink: c.PostForm("youtube_link"),
	}
	for _, value := range form.Value["deleted_photo_ids"] {
		for _, raw := range strings.Split(value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid photo id", Message: raw, Field: "deleted_photo_ids"})
				return
			}
			in.DeletedPhotoIDs = append(in.DeletedPhotoIDs, id)
		}
	}
	for _, fh := range form.File[PhotosField] {
		f, err := readPhoto(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid file", Message: err.Error(), Field: PhotosField})
			return
		}
		in.NewPhotos = append(in.NewPhotos, commit.Photo{Filename: f.Filename, ContentType: f.ContentType, Data: f.Data})
	}

	result, err := h.surprises.Update(c.Request.Context(), surpriseID, principal.UserID, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.SurpriseUpdateResponse{
		Surprise:     models.NewSurpriseResponse(result.Surprise, h.shareURL(result.Surprise)),
		FailedPhotos: result.FailedPhotos,
	})
}

// DeleteSurprise godoc
// @Summary     Delete one of my surprises
// @Description Deletes the surprise and its stored photos.
// @Tags        surprises
// @Security    Bearer
// @Param       surprise_id path string true "Surprise ID (UUID)"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /surprises/{surprise_id} [delete]
func (h *SurprisesHandler) DeleteSurprise(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	surpriseID, ok := surpriseIDParam(c)
	if !ok {
		return
	}

	if err := h.surprises.Delete(c.Request.Context(), surpriseID, principal.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListNotifications godoc
// @Summary     List my notifications
// @Tags        notifications
// @Produce     json
// @Security    Bearer
// @Param       limit query int false "Maximum number of notifications" default(20)
// @Success     200 {object} models.NotificationListResponse
// @Router      /notifications [get]
func (h *SurprisesHandler) ListNotifications(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	limit := defaultNotificationLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	list, err := h.surprises.Notifications(c.Request.Context(), principal.UserID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := models.NotificationListResponse{Notifications: make([]models.NotificationResponse, 0, len(list))}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, models.NotificationResponse{
			ID:         n.ID.String(),
			SurpriseID: n.SurpriseID.String(),
			Type:       n.Type,
			Message:    n.Message,
			Read:       n.Read,
			CreatedAt:  n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// MarkNotificationRead godoc
// @Summary     Mark a notification as read
// @Tags        notifications
// @Security    Bearer
// @Param       notification_id path string true "Notification ID (UUID)"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /notifications/{notification_id}/read [post]
func (h *SurprisesHandler) MarkNotificationRead(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("notification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid notification id"})
		return
	}

	if err := h.surprises.MarkNotificationRead(c.Request.Context(), id, principal.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func surpriseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("surprise_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid surprise id"})
		return uuid.Nil, false
	}
	return id, true
}
