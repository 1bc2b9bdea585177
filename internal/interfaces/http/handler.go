package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webautomy/relay/internal/infrastructure"
	"github.com/webautomy/relay/internal/repository"
	"github.com/webautomy/relay/internal/usecases"
)

type Handler struct {
	dispatch    *usecases.DispatchService
	automation  *usecases.AutomationService
	analytics   *usecases.AnalyticsUsecase
	wallets     *repository.WalletRepository
	channels    *repository.ChannelRepository
	rules       *repository.RuleRepository
	verifyToken string
	liveMode    bool
}

func NewHandler(dispatch *usecases.DispatchService, automation *usecases.AutomationService, analytics *usecases.AnalyticsUsecase, wallets *repository.WalletRepository, channels *repository.ChannelRepository, rules *repository.RuleRepository, verifyToken string, liveMode bool) *Handler {
	return &Handler{
		dispatch:    dispatch,
		automation:  automation,
		analytics:   analytics,
		wallets:     wallets,
		channels:    channels,
		rules:       rules,
		verifyToken: verifyToken,
		liveMode:    liveMode,
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, auth *usecases.AuthUsecase, middleware *Middleware, webhookLimiter *infrastructure.WebhookRateLimiter) {
	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20)) // 10MB max request size
	r.Use(middleware.CORSMiddleware())

	r.GET("/", h.Root)

	// Meta webhook (unauthenticated, throttled per source IP)
	webhook := r.Group("/webhook")
	webhook.Use(RateLimitPerIP(webhookLimiter))
	{
		webhook.GET("", h.VerifyWebhook)
		webhook.POST("", h.ReceiveWebhook)
	}

	// Public Auth Routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", func(c *gin.Context) {
			var loginReq struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&loginReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			token, err := auth.Login(c.Request.Context(), loginReq.Username, loginReq.Password)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})

		authGroup.POST("/register", func(c *gin.Context) {
			var regReq struct {
				Username string `json:"username"`
				Password string `json:"password"`
				OrgName  string `json:"org_name"`
			}
			if err := c.ShouldBindJSON(&regReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			// Validate inputs
			if !ValidSlug(regReq.Username) || len(regReq.Password) < 6 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password (min 6 chars)"})
				return
			}
			if regReq.OrgName == "" || !ValidateLength(regReq.OrgName, 1, MaxOrgNameLength) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization name"})
				return
			}
			if err := auth.Register(c.Request.Context(), SanitizeString(regReq.OrgName), regReq.Username, regReq.Password); err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "registered"})
		})
	}

	// Protected tenant-scoped routes
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.OrgRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.POST("/send-message", h.SendMessage)
		api.POST("/channels/connect", h.ConnectChannel)
		api.GET("/channels", h.ListChannels)

		api.GET("/analytics/summary", h.AnalyticsSummary)

		api.GET("/wallet", h.GetWallet)
		api.POST("/wallet/topup", h.TopUpWallet)

		api.GET("/rules", h.ListRules)
		api.POST("/rules", h.CreateRule)
		api.DELETE("/rules/:id", h.DeleteRule)
	}
}

func (h *Handler) Root(c *gin.Context) {
	mode := "SIMULATION"
	if h.liveMode {
		mode = "LIVE"
	}
	c.JSON(http.StatusOK, gin.H{"status": "running", "mode": mode})
}
