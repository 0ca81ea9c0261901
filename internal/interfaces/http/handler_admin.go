package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
)

// AdminDevices lists every loaded WhatsApp device keyed by client id.
func (h *Handler) AdminDevices(c *gin.Context) {
	if h.WhatsApp == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false, "devices": gin.H{}})
		return
	}
	devices := h.WhatsApp.Devices()
	connected := 0
	for _, d := range devices {
		if d.Connected {
			connected++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"devices":   devices,
		"total":     len(devices),
		"connected": connected,
	})
}

// AdminLogoutDevice force-logs out a tenant's device.
func (h *Handler) AdminLogoutDevice(c *gin.Context) {
	clientID := c.Param("clientId")
	if !ValidID(clientID) {
		respondError(c, apperrors.BadRequest("Invalid client id"))
		return
	}
	if h.WhatsApp == nil {
		respondError(c, errWhatsAppDisabled)
		return
	}
	h.logout(c, clientID)
}
