package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

var errWhatsAppDisabled = apperrors.New(apperrors.ErrUnavailable, "WhatsApp not configured")

func (h *Handler) WhatsAppStatus(c *gin.Context) {
	if h.WhatsApp == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false, "connected": false, "logged_in": false})
		return
	}
	status := h.WhatsApp.Status(c.GetString(ctxClientID))
	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"connected": status.Connected,
		"logged_in": status.LoggedIn,
		"phone":     status.Phone,
		"name":      status.Name,
		"has_qr":    status.HasQR,
	})
}

func (h *Handler) ConnectWhatsApp(c *gin.Context) {
	if h.WhatsApp == nil {
		respondError(c, errWhatsAppDisabled)
		return
	}
	status, err := h.WhatsApp.Connect(c.Request.Context(), c.GetString(ctxClientID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// WhatsAppQR renders the pending pairing code as a PNG. It answers 202 while
// the device has not produced a code yet.
func (h *Handler) WhatsAppQR(c *gin.Context) {
	if h.WhatsApp == nil {
		respondError(c, errWhatsAppDisabled)
		return
	}
	code, loggedIn, err := h.WhatsApp.QRCode(c.Request.Context(), c.GetString(ctxClientID))
	if err != nil {
		respondError(c, err)
		return
	}
	if code == "" {
		if loggedIn {
			c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "pending", "message": "QR code not yet available"})
		return
	}
	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// LogoutWhatsApp unpairs the tenant's device. Logout errors are logged only;
// the session is dropped locally either way.
func (h *Handler) LogoutWhatsApp(c *gin.Context) {
	if h.WhatsApp == nil {
		c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
		return
	}
	h.logout(c, c.GetString(ctxClientID))
}

func (h *Handler) logout(c *gin.Context, clientID string) {
	if err := h.WhatsApp.LogoutClient(c.Request.Context(), clientID); err != nil {
		logger.FromContext(c.Request.Context()).Warn("WhatsApp logout failed",
			zap.String("client_id", clientID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
