package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"love-surprise-backend/internal/authgate"
	"love-surprise-backend/internal/middleware"
	"love-surprise-backend/internal/models"
	"love-surprise-backend/internal/supabase"
)

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*models.AuthSession, error)
	SignUp(ctx context.Context, email, password, name string) (*models.AuthSession, error)
}

type Resumer interface {
	AfterAuth(ctx context.Context, clientID, returnTo, accessToken string) (*authgate.Outcome, error)
}

// WizardForgetter drops a live wizard once its draft has been committed
// elsewhere.
type WizardForgetter interface {
	Forget(clientID string)
}

type AuthHandler struct {
	auth           Authenticator
	gate           Resumer
	wizards        WizardForgetter
	confirmTimeout time.Duration
	logger         *zap.Logger
}

func NewAuthHandler(auth Authenticator, gate Resumer, wizards WizardForgetter, confirmTimeout time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:           auth,
		gate:           gate,
		wizards:        wizards,
		confirmTimeout: confirmTimeout,
		logger:         logger.Named("AuthHandler"),
	}
}

// Login godoc
// @Summary     Sign in
// @Description Signs in with e-mail and password. When return_url is the payment page and a draft is parked for this browser profile, the draft is committed before responding.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Credentials"
// @Success     200 {object} models.AuthResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, supabase.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials", Message: "E-mail ou senha incorretos."})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.resume(c, session, req.ReturnURL))
}

// Register godoc
// @Summary     Create an account
// @Description Registers a user. If the auth server issues a session right away, a parked draft is resumed exactly as on login.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.RegisterRequest true "Account"
// @Success     200 {object} models.AuthResponse
// @Success     202 {object} models.AuthResponse "E-mail confirmation pending"
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	session, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, supabase.ErrEmailTaken) {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "email taken", Message: "Este e-mail já está cadastrado."})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if session.AccessToken == "" {
		// The draft stays parked until the user confirms and signs in.
		c.JSON(http.StatusAccepted, models.AuthResponse{
			Session:  session,
			Redirect: authgate.LoginURL(authgate.SafeReturn(req.ReturnURL)),
			Message:  "Confirme seu e-mail para continuar.",
		})
		return
	}

	c.JSON(http.StatusOK, h.resume(c, session, req.ReturnURL))
}

func (h *AuthHandler) resume(c *gin.Context, session *models.AuthSession, returnURL string) models.AuthResponse {
	clientID := middleware.ClientIDFrom(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.confirmTimeout)
	defer cancel()

	resp := models.AuthResponse{Session: session}
	outcome, err := h.gate.AfterAuth(ctx, clientID, returnURL, session.AccessToken)
	if err != nil {
		h.logger.Warn("Resume after sign-in failed", zap.String("clientID", clientID), zap.Error(err))
	}
	if outcome == nil {
		resp.Redirect = authgate.ResumeFailurePath
		resp.Message = "Não foi possível confirmar sua sessão. Tente salvar novamente."
		return resp
	}

	resp.Saved = outcome.Saved
	resp.Redirect = outcome.Redirect
	resp.FailedPhotos = outcome.FailedPhotos
	resp.Message = outcome.Message
	if outcome.Saved {
		resp.SurpriseID = outcome.SurpriseID.String()
	}
	// Either way the live wizard no longer matches the draft slot; the next
	// request restores it, dropping photos that are gone.
	if outcome.Saved || outcome.Redirect == authgate.ResumeFailurePath {
		h.wizards.Forget(clientID)
	}
	return resp
}
