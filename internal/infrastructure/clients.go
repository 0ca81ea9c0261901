package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

// CampaignWebhookClient posts campaigns to the delivery workflow webhook.
type CampaignWebhookClient struct {
	url  string
	http *http.Client
}

var _ interfaces.CampaignDispatcher = (*CampaignWebhookClient)(nil)

func NewCampaignWebhookClient(url string, timeout time.Duration) *CampaignWebhookClient {
	return &CampaignWebhookClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Dispatch sends payload once. A non-2xx answer is an apperrors.ErrUpstream;
// transport failures are returned as is.
func (c *CampaignWebhookClient) Dispatch(ctx context.Context, payload entities.CampaignDispatch) error {
	if c.url == "" {
		return fmt.Errorf("campaign webhook URL is not configured")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal campaign: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build campaign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("campaign webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.FromContext(ctx).Warn("Campaign webhook rejected request",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return fmt.Errorf("%w: campaign webhook returned %d", apperrors.ErrUpstream, resp.StatusCode)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
