package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"love-surprise-backend/internal/filestore"
	"love-surprise-backend/internal/middleware"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/preview"
	"love-surprise-backend/internal/retry"
	"love-surprise-backend/internal/wizard"
)

// PhotosField is the multipart field the wizard reads photos from.
const PhotosField = "photos"

type WizardHandler struct {
	registry *wizard.Registry
	files    filestore.Backend
	previews *preview.Registry
	logger   *zap.Logger
}

func NewWizardHandler(registry *wizard.Registry, files filestore.Backend, previews *preview.Registry, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{
		registry: registry,
		files:    files,
		previews: previews,
		logger:   logger.Named("WizardHandler"),
	}
}

func (h *WizardHandler) wizardFor(c *gin.Context) *wizard.Wizard {
	return h.registry.Get(c.Request.Context(), middleware.ClientIDFrom(c))
}

// respond writes the wizard state after a successful action.
func (h *WizardHandler) respond(c *gin.Context, w *wizard.Wizard, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, w.State())
}

// GetState godoc
// @Summary     Current wizard state
// @Description Returns the step and draft of the caller's browser profile, restoring a saved draft if the profile has no live wizard.
// @Tags        create
// @Produce     json
// @Param       X-Client-ID header string false "Browser profile id"
// @Success     200 {object} wizard.State
// @Router      /create/state [get]
func (h *WizardHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.wizardFor(c).State())
}

// SelectPlan godoc
// @Summary     Choose a plan
// @Tags        create
// @Accept      json
// @Produce     json
// @Param       request body models.SelectPlanRequest true "Plan"
// @Success     200 {object} wizard.State
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /create/plan [post]
func (h *WizardHandler) SelectPlan(c *gin.Context) {
	var req models.SelectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	w := h.wizardFor(c)
	h.respond(c, w, w.SelectPlan(c.Request.Context(), req.Plan))
}

// SubmitCoupleInfo godoc
// @Summary     Submit the couple's name and start date
// @Tags        create
// @Accept      json
// @Produce     json
// @Param       request body models.CoupleInfoRequest true "Couple info"
// @Success     200 {object} wizard.State
// @Failure     400 {object} models.ErrorResponse
// @Router      /create/couple [post]
func (h *WizardHandler) SubmitCoupleInfo(c *gin.Context) {
	var req models.CoupleInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	w := h.wizardFor(c)
	h.respond(c, w, w.SubmitCoupleInfo(c.Request.Context(), req.CoupleName, req.StartDate))
}

// AddPhotos godoc
// @Summary     Add photos to the draft
// @Description Stores JPEG or PNG photos of up to 5MB each in the ephemeral store. A batch that would exceed the plan limit is rejected whole.
// @Tags        create
// @Accept      multipart/form-data
// @Produce     json
// @Param       photos formData file true "Photos (multiple files allowed)"
// @Success     200 {object} wizard.State
// @Failure     400 {object} models.ErrorResponse
// @Failure     507 {object} models.ErrorResponse
// @Router      /create/photos [post]
func (h *WizardHandler) AddPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid multipart form", Message: err.Error()})
		return
	}

	headers := form.File[PhotosField]
	files := make([]wizard.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readPhoto(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   string(wizard.CodeInvalidFile),
				Message: err.Error(),
				Field:   PhotosField,
			})
			return
		}
		files = append(files, f)
	}

	w := h.wizardFor(c)
	h.respond(c, w, w.AddPhotos(c.Request.Context(), files))
}

func readPhoto(fh *multipart.FileHeader) (wizard.File, error) {
	if fh.Size > retry.MaxPhotoSize {
		return wizard.File{}, fmt.Errorf("%s: %d bytes exceeds the %d byte limit", fh.Filename, fh.Size, retry.MaxPhotoSize)
	}
	src, err := fh.Open()
	if err != nil {
		return wizard.File{}, fmt.Errorf("%s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, retry.MaxPhotoSize+1))
	if err != nil {
		return wizard.File{}, fmt.Errorf("%s: %w", fh.Filename, err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return wizard.File{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}

// RemovePhoto godoc
// @Summary     Remove a photo from the draft
// @Tags        create
// @Produce     json
// @Param       index path int true "Photo position, starting at 0"
// @Success     200 {object} wizard.State
// @Failure     400 {object} models.ErrorResponse
// @Router      /create/photos/{index} [delete]
func (h *WizardHandler) RemovePhoto(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: string(wizard.CodeInvalidIndex), Message: "index must be a number"})
		return
	}
	w := h.wizardFor(c)
	h.respond(c, w, w.RemovePhoto(c.Request.Context(), index))
}

// ContinueFromPhotos godoc
// @Summary     Leave the photo step
// @Tags        create
// @Produce     json
// @Success     200 {object} wizard.State
// @Failure     400 {object} models.ErrorResponse
// @Router      /create/photos/continue [post]
func (h *WizardHandler) ContinueFromPhotos(c *gin.Context) {
	w := h.wizardFor(c)
	h.respond(c, w, w.ContinueFromPhotos(c.Request.Context()))
}

// SubmitMessage godoc
// @Summary     Submit the message and optional YouTube link
// @Tags        create
// @Accept      json
// @Produce     json
// @Param       request body models.MessageRequest true "Message"
// @Success     200 {object} wizard.State
// @Failure     400 {object} models.ErrorResponse
// @Router      /create/message [post]
func (h *WizardHandler) SubmitMessage(c *gin.Context) {
	var req models.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	w := h.wizardFor(c)
	h.respond(c, w, w.SubmitMessage(c.Request.Context(), req.Message, req.YoutubeLink))
}

// Save godoc
// @Summary     Save the surprise
// @Description Commits the draft for a signed-in user. Anonymous callers get the draft parked and a redirect to the login page.
// @Tags        create
// @Produce     json
// @Security    Bearer
// @Success     200 {object} authgate.Outcome
// @Failure     409 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /create/save [post]
func (h *WizardHandler) Save(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	w := h.wizardFor(c)
	outcome, err := w.RequestSave(c.Request.Context(), principal)
	if err != nil {
		if _, ok := wizard.AsValidation(err); ok {
			respondError(c, h.logger, err)
			return
		}
		h.logger.Warn("Save failed", zap.String("clientID", middleware.ClientIDFrom(c)), zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "save failed",
			Message: "Não foi possível salvar sua surpresa. Tente novamente.",
		})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// GoBack godoc
// @Summary     Go to the previous step
// @Tags        create
// @Produce     json
// @Success     200 {object} wizard.State
// @Router      /create/back [post]
func (h *WizardHandler) GoBack(c *gin.Context) {
	w := h.wizardFor(c)
	w.GoBack()
	c.JSON(http.StatusOK, w.State())
}

// GoTo godoc
// @Summary     Jump to an earlier step
// @Tags        create
// @Accept      json
// @Produce     json
// @Param       request body models.GoToRequest true "Step name or index"
// @Success     200 {object} wizard.State
// @Failure     400 {object} models.ErrorResponse
// @Router      /create/goto [post]
func (h *WizardHandler) GoTo(c *gin.Context) {
	var req models.GoToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	step, ok := wizard.ParseStep(req.Step)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid step", Message: req.Step})
		return
	}
	w := h.wizardFor(c)
	h.respond(c, w, w.GoTo(step))
}

// Reset godoc
// @Summary     Discard the draft
// @Tags        create
// @Produce     json
// @Success     200 {object} wizard.State
// @Router      /create/reset [post]
func (h *WizardHandler) Reset(c *gin.Context) {
	w := h.wizardFor(c)
	h.respond(c, w, w.Reset(c.Request.Context()))
}

// Checkpoint godoc
// @Summary     Persist the draft
// @Description Writes the draft to the profile's draft slot, for example before the page unloads.
// @Tags        create
// @Produce     json
// @Success     200 {object} wizard.State
// @Router      /create/checkpoint [post]
func (h *WizardHandler) Checkpoint(c *gin.Context) {
	w := h.wizardFor(c)
	h.respond(c, w, w.Checkpoint(c.Request.Context()))
}

// Preview godoc
// @Summary     Serve a photo preview
// @Description Streams a photo that is still in the ephemeral store. Handles only resolve for the profile that created them.
// @Tags        create
// @Produce     image/jpeg,image/png
// @Param       token path string true "Preview handle"
// @Success     200 {file} binary
// @Failure     404 {object} models.ErrorResponse
// @Router      /create/previews/{token} [get]
func (h *WizardHandler) Preview(c *gin.Context) {
	clientID := middleware.ClientIDFrom(c)
	ref, ok := h.previews.Resolve(clientID, c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "preview not found"})
		return
	}

	blob, err := h.files.ForClient(clientID).Get(c.Request.Context(), ref)
	if errors.Is(err, filestore.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "preview not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
