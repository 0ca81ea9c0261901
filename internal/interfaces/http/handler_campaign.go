package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
)

var errPhonesRequired = apperrors.BadRequest("Invalid request - phones array required")

// decodeCampaign reads the send-campaign body loosely: phones must be a JSON
// array of strings, a message of any other type counts as missing.
func decodeCampaign(body []byte) (entities.CampaignRequest, error) {
	var req entities.CampaignRequest
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return req, err
	}
	if p, ok := raw["phones"]; ok && string(p) != "null" {
		if err := json.Unmarshal(p, &req.Phones); err != nil {
			return req, errPhonesRequired
		}
	}
	if m, ok := raw["message"]; ok {
		var s string
		if json.Unmarshal(m, &s) == nil {
			req.Message = &s
		}
	}
	return req, nil
}

// SendCampaign forwards a broadcast to the campaign webhook. Unlike the
// other routes, unexpected failures expose the error text.
func (h *Handler) SendCampaign(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		if isMaxBytes(err) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		h.campaignError(c, err)
		return
	}
	req, err := decodeCampaign(body)
	if err != nil {
		h.campaignError(c, err)
		return
	}
	res, err := h.Campaigns.Send(c.Request.Context(), c.GetString(ctxUserID), req)
	if err != nil {
		h.campaignError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) campaignError(c *gin.Context, err error) {
	if statusFor(err) != http.StatusInternalServerError {
		respondError(c, err)
		return
	}
	msg, ok := apperrors.PublicMessage(err)
	if !ok {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (h *Handler) CampaignHistory(c *gin.Context) {
	rows, err := h.Campaigns.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
