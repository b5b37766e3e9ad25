package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/jouhou/internal/httpclient"
	"github.com/ternarybob/jouhou/internal/models"
)

// webhookPayload is the Discord-compatible message body. Content is always
// serialised, even when empty.
type webhookPayload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// WebhookNotifier posts messages to a chat webhook.
// Only 204 No Content counts as delivered.
type WebhookNotifier struct {
	url      string
	username string
	client   httpclient.HTTPDoer
	logger   arbor.ILogger
}

// NewWebhookNotifier creates a notifier for url. A nil client uses http.DefaultClient.
func NewWebhookNotifier(url, username string, client httpclient.HTTPDoer, logger arbor.ILogger) (*WebhookNotifier, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookNotifier{
		url:      url,
		username: username,
		client:   client,
		logger:   logger,
	}, nil
}

// Send posts content. Non-204 responses are logged and reported in the
// outcome; only transport failures are returned as errors.
func (n *WebhookNotifier) Send(ctx context.Context, content string) (*models.DeliveryOutcome, error) {
	payload, err := json.Marshal(webhookPayload{Content: content, Username: n.username})
	if err != nil {
		return nil, fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		n.logger.Warn().Err(err).Msg("Failed to read webhook response body")
	}

	outcome := &models.DeliveryOutcome{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Delivered:  resp.StatusCode == http.StatusNoContent,
	}

	if outcome.Delivered {
		n.logger.Info().
			Int("status", outcome.StatusCode).
			Int("content_length", len(content)).
			Msg("Webhook delivery succeeded")
	} else {
		n.logger.Error().
			Int("status", outcome.StatusCode).
			Str("body", outcome.Body).
			Msgf("Webhook delivery failed: %d / %s", outcome.StatusCode, outcome.Body)
	}

	return outcome, nil
}
