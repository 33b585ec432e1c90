package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lshigami/litdrill/internal/chat"
	"github.com/rs/zerolog/log"
)

// WebhookSender posts each message as JSON to the chat gateway.
type WebhookSender struct {
	url    string
	client *http.Client
}

func NewWebhookSender(url string, client *http.Client) *WebhookSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookSender{url: url, client: client}
}

func (s *WebhookSender) Send(ctx context.Context, msg chat.Outbound) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode outbound: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes messages to the log. Used when no gateway is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg chat.Outbound) error {
	log.Info().
		Str("kind", string(msg.Kind)).
		Int64("chatID", msg.ChatID).
		Str("messageRef", msg.MessageRef).
		Str("text", msg.Text).
		Msg("Operator notification")
	return nil
}

// NewSender picks the webhook sender when url is set.
func NewSender(url string) Sender {
	if url == "" {
		log.Warn().Msg("NOTIFY_WEBHOOK_URL is not set. Operator reports will only be logged.")
		return LogSender{}
	}
	return NewWebhookSender(url, nil)
}
