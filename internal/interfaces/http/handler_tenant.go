package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
)

// idParam returns the :id path parameter or answers 400.
func idParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !ValidID(id) {
		respondError(c, apperrors.BadRequest("Invalid id"))
		return "", false
	}
	return id, true
}

func phoneParam(c *gin.Context) (string, bool) {
	phone := c.Param("phone")
	if !ValidPhone(phone) {
		respondError(c, apperrors.BadRequest("Invalid phone"))
		return "", false
	}
	return phone, true
}

func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Inbox

func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.Inbox.ListContacts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *Handler) GetConversation(c *gin.Context) {
	phone, ok := phoneParam(c)
	if !ok {
		return
	}
	msgs, err := h.Inbox.Conversation(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) SendReply(c *gin.Context) {
	phone, ok := phoneParam(c)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.Inbox.SendReply(c.Request.Context(), phone, SanitizeString(req.Message))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Leads

func (h *Handler) ListLeads(c *gin.Context) {
	leads, err := h.Leads.List(c.Request.Context(), c.Query("status"), SanitizeString(c.Query("search")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (h *Handler) GetLead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	lead, err := h.Leads.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *Handler) UpdateLead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var patch entities.LeadPatch
	if !bindJSON(c, &patch) {
		return
	}
	lead, err := h.Leads.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *Handler) ListCustomers(c *gin.Context) {
	rows, err := h.Leads.Customer360(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Products

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.Products.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in entities.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Products.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var patch entities.ProductPatch
	if !bindJSON(c, &patch) {
		return
	}
	p, err := h.Products.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Orders

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var in entities.OrderInput
	if !bindJSON(c, &in) {
		return
	}
	o, err := h.Orders.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Status entities.OrderStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Bot rules

func (h *Handler) ListBotRules(c *gin.Context) {
	rules, err := h.BotRules.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *Handler) CreateBotRule(c *gin.Context) {
	var in entities.BotRuleInput
	if !bindJSON(c, &in) {
		return
	}
	rule, err := h.BotRules.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *Handler) UpdateBotRule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var patch entities.BotRulePatch
	if !bindJSON(c, &patch) {
		return
	}
	rule, err := h.BotRules.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

type activeRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *Handler) ToggleBotRule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req activeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.IsActive == nil {
		respondError(c, apperrors.Validation("is_active is required"))
		return
	}
	if err := h.BotRules.Toggle(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}

func (h *Handler) DeleteBotRule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.BotRules.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Bot settings

func (h *Handler) GetBotSettings(c *gin.Context) {
	s, err := h.BotSettings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) UpdateBotSettings(c *gin.Context) {
	var patch entities.BotSettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	s, err := h.BotSettings.Update(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) ToggleBot(c *gin.Context) {
	var req struct {
		BotActive *bool `json:"bot_active"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.BotActive == nil {
		respondError(c, apperrors.Validation("bot_active is required"))
		return
	}
	s, err := h.BotSettings.ToggleBot(c.Request.Context(), *req.BotActive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Notifications

func (h *Handler) ListNotifications(c *gin.Context) {
	feed, err := h.Notifications.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_read": true})
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.Notifications.MarkAllRead(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
