package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/infrastructure"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/usecases"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WhatsAppDevices is the per-tenant device control used by the dashboard.
type WhatsAppDevices interface {
	Status(clientID string) infrastructure.WhatsAppStatus
	Connect(ctx context.Context, clientID string) (infrastructure.WhatsAppStatus, error)
	QRCode(ctx context.Context, clientID string) (code string, loggedIn bool, err error)
	LogoutClient(ctx context.Context, clientID string) error
	Devices() map[string]infrastructure.WhatsAppStatus
}

// Deps carries everything the router serves.
type Deps struct {
	Auth          *usecases.AuthUsecase
	Dashboard     *usecases.DashboardUsecase
	Inbox         *usecases.InboxUsecase
	Leads         *usecases.LeadUsecase
	Products      *usecases.ProductUsecase
	Orders        *usecases.OrderUsecase
	BotRules      *usecases.BotRuleUsecase
	BotSettings   *usecases.BotSettingsUsecase
	Notifications *usecases.NotificationUsecase
	Campaigns     *usecases.CampaignUsecase
	Broker        interfaces.Broker
	WhatsApp      WhatsAppDevices // nil when WhatsApp is disabled
	Middleware    *Middleware

	// Ready reports whether backing services answer; used by /readyz.
	Ready          func(ctx context.Context) error
	PingInterval   time.Duration
	MaxBodyBytes   int64
	MetricsEnabled bool
}

type Handler struct {
	Deps
}

func NewHandler(deps Deps) *Handler {
	if deps.PingInterval <= 0 {
		deps.PingInterval = 25 * time.Second
	}
	return &Handler{Deps: deps}
}

// SetupRoutes registers every route on r.
func SetupRoutes(r *gin.Engine, deps Deps) *Handler {
	h := NewHandler(deps)
	m := deps.Middleware
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 << 20
	}

	r.Use(Recovery())
	r.Use(RequestID())
	r.Use(AccessLog())
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(maxBody))
	r.Use(m.CORSMiddleware())

	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	if deps.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", m.AuthRequired(), h.Me)
	}

	// Campaigns resolve the tenant themselves so a user without a profile
	// can still send with a null client_id.
	authed := r.Group("/api")
	authed.Use(m.CampaignAuthRequired(), m.RateLimitPerUser())
	authed.POST("/campaigns/send", h.SendCampaign)

	api := r.Group("/api")
	api.Use(m.AuthRequired(), m.RateLimitPerUser(), m.TenantRequired())
	{
		api.GET("/dashboard", h.GetDashboard)

		api.GET("/inbox/contacts", h.ListContacts)
		api.GET("/inbox/contacts/:phone/messages", h.GetConversation)
		api.POST("/inbox/contacts/:phone/reply", h.SendReply)

		api.GET("/leads", h.ListLeads)
		api.GET("/leads/:id", h.GetLead)
		api.PATCH("/leads/:id", h.UpdateLead)
		api.GET("/customers", h.ListCustomers)

		api.GET("/products", h.ListProducts)
		api.POST("/products", h.CreateProduct)
		api.PATCH("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)

		api.GET("/orders", h.ListOrders)
		api.POST("/orders", h.CreateOrder)
		api.PATCH("/orders/:id/status", h.UpdateOrderStatus)
		api.DELETE("/orders/:id", h.DeleteOrder)

		api.GET("/bot-rules", h.ListBotRules)
		api.POST("/bot-rules", h.CreateBotRule)
		api.PATCH("/bot-rules/:id", h.UpdateBotRule)
		api.PATCH("/bot-rules/:id/active", h.ToggleBotRule)
		api.DELETE("/bot-rules/:id", h.DeleteBotRule)

		api.GET("/bot-settings", h.GetBotSettings)
		api.PUT("/bot-settings", h.UpdateBotSettings)
		api.PUT("/bot-settings/active", h.ToggleBot)

		api.GET("/notifications", h.ListNotifications)
		api.POST("/notifications/read-all", h.MarkAllNotificationsRead)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)

		api.GET("/campaigns/history", h.CampaignHistory)

		api.GET("/realtime", h.Realtime)

		api.GET("/whatsapp/status", h.WhatsAppStatus)
		api.POST("/whatsapp/connect", h.ConnectWhatsApp)
		api.GET("/whatsapp/qr", h.WhatsAppQR)
		api.POST("/whatsapp/logout", h.LogoutWhatsApp)
	}

	admin := r.Group("/api/admin")
	admin.Use(m.AuthRequired(), m.AdminRequired())
	{
		admin.GET("/whatsapp", h.AdminDevices)
		admin.POST("/whatsapp/:clientId/logout", h.AdminLogoutDevice)
	}
	return h
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Readyz(c *gin.Context) {
	if h.Ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
