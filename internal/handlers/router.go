package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"love-surprise-backend/internal/config"
	"love-surprise-backend/internal/middleware"
)

// maxMultipartMemory keeps a full premium batch of photos in memory.
const maxMultipartMemory = 40 << 20

type Handlers struct {
	Health    *HealthHandler
	Wizard    *WizardHandler
	Auth      *AuthHandler
	Payments  *PaymentsHandler
	Webhook   *WebhookHandler
	Surprises *SurprisesHandler
	Share     *ShareHandler
	Cron      *CronHandler
}

// NewRouter mounts every route on a new engine.
func NewRouter(cfg *config.Config, logger *zap.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.ClientIDHeader},
		ExposeHeaders:    []string{middleware.ClientIDHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check (no auth)
	router.GET("/health", h.Health.Health)

	api := router.Group("/api/v1")

	// Wizard and sign-in work for anonymous visitors; both are scoped to a
	// browser profile.
	create := api.Group("/create")
	create.Use(middleware.ClientID(cfg.IsProduction()), middleware.OptionalAuthMiddleware(cfg))
	create.GET("/state", h.Wizard.GetState)
	create.POST("/plan", h.Wizard.SelectPlan)
	create.POST("/couple", h.Wizard.SubmitCoupleInfo)
	create.POST("/photos", h.Wizard.AddPhotos)
	create.POST("/photos/continue", h.Wizard.ContinueFromPhotos)
	create.DELETE("/photos/:index", h.Wizard.RemovePhoto)
	create.POST("/message", h.Wizard.SubmitMessage)
	create.POST("/save", h.Wizard.Save)
	create.POST("/back", h.Wizard.GoBack)
	create.POST("/goto", h.Wizard.GoTo)
	create.POST("/reset", h.Wizard.Reset)
	create.POST("/checkpoint", h.Wizard.Checkpoint)
	create.GET("/previews/:token", h.Wizard.Preview)

	auth := api.Group("/auth")
	auth.Use(middleware.ClientID(cfg.IsProduction()))
	auth.POST("/login", h.Auth.Login)
	auth.POST("/register", h.Auth.Register)

	// Public share page
	api.GET("/share/:surprise_id", h.Share.GetShared)
	api.GET("/share/:surprise_id/qr", h.Share.QRCode)

	// Webhook (no auth, uses the Stripe signature)
	api.POST("/webhooks/stripe", h.Webhook.HandleStripe)

	// Scheduler (uses the cron secret)
	api.GET("/cron/manage-surprises", h.Cron.ManageSurprises)
	api.POST("/cron/manage-surprises", h.Cron.ManageSurprises)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	authed.POST("/payments", h.Payments.CreatePayment)
	authed.GET("/surprises", h.Surprises.ListSurprises)
	authed.GET("/surprises/:surprise_id", h.Surprises.GetSurprise)
	authed.PUT("/surprises/:surprise_id", h.Surprises.UpdateSurprise)
	authed.DELETE("/surprises/:surprise_id", h.Surprises.DeleteSurprise)
	authed.GET("/notifications", h.Surprises.ListNotifications)
	authed.POST("/notifications/:notification_id/read", h.Surprises.MarkNotificationRead)

	return router
}
