package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hieunt/fleetwatch/internal/logger"
)

// DiscordSink posts alerts to a Discord webhook. Each message is prefixed
// with a timestamp in the configured timezone.
type DiscordSink struct {
	webhookURL string
	tz         *time.Location
	httpClient *http.Client
	log        logger.Logger
	now        func() time.Time
}

// discordMessage is the webhook payload.
type discordMessage struct {
	Content string `json:"content"`
}

// NewDiscordSink creates a sink posting to webhookURL. utcOffset is the hour
// offset applied to the timestamp prefix (the fleet's home timezone, not
// necessarily the monitor's). An empty webhookURL yields a sink that logs a
// warning per message instead of sending.
func NewDiscordSink(webhookURL string, utcOffset int, log logger.Logger) *DiscordSink {
	if log == nil {
		log = logger.Noop()
	}
	return &DiscordSink{
		webhookURL: webhookURL,
		tz:         time.FixedZone(fmt.Sprintf("UTC%+d", utcOffset), utcOffset*3600),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// Send delivers the message. Failures are logged and swallowed.
func (s *DiscordSink) Send(ctx context.Context, message string) {
	if s.webhookURL == "" {
		s.log.Warn("webhook URL not set, skipping alert: %s", message)
		return
	}

	content := fmt.Sprintf("[%s] %s", s.now().In(s.tz).Format("2006-01-02 15:04:05"), message)

	payload, err := json.Marshal(discordMessage{Content: content})
	if err != nil {
		s.log.Error("failed to encode alert payload: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		s.log.Error("failed to build webhook request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Error("failed to send alert to Discord: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Error("Discord webhook returned %s", resp.Status)
	}
}
