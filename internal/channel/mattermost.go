package channel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"mattersend/internal/domain"

	"github.com/slack-go/slack"
)

// MattermostConfig configures the Mattermost webhook sender.
type MattermostConfig struct {
	WebhookURL     string
	DefaultChannel string // used when a message names no channel
	Timeout        time.Duration
	Proxy          string       // optional explicit proxy URL
	HTTPClient     *http.Client // optional, overrides Timeout and Proxy
	Logger         *slog.Logger
}

// Mattermost posts messages to an incoming webhook. Mattermost accepts the
// Slack webhook payload, so the wire format comes from slack-go.
type Mattermost struct {
	webhook        string
	defaultChannel string
	client         *http.Client
	logger         *slog.Logger
}

// NewMattermost validates the webhook URL and prepares the HTTP client.
func NewMattermost(cfg MattermostConfig) (*Mattermost, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("%w: no webhook defined", domain.ErrValidation)
	}
	if err := ValidateWebhookURL(cfg.WebhookURL); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client := cfg.HTTPClient
	if client == nil {
		var err error
		client, err = NewHTTPClient(cfg.Timeout, cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	return &Mattermost{
		webhook:        cfg.WebhookURL,
		defaultChannel: cfg.DefaultChannel,
		client:         client,
		logger:         cfg.Logger,
	}, nil
}

// ValidateWebhookURL checks that raw is an absolute http(s) URL.
func ValidateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: webhook must be an http(s) URL", domain.ErrValidation)
	}
	return nil
}

func (m *Mattermost) Name() string { return "mattermost" }

// Send posts a single message. It does not retry.
func (m *Mattermost) Send(ctx context.Context, msg domain.OutboundMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	channel := msg.Channel
	if channel == "" {
		channel = m.defaultChannel
	}
	payload := &slack.WebhookMessage{
		Username: msg.Username,
		IconURL:  msg.IconURL,
		Text:     msg.Text,
		Channel:  channel,
	}

	start := time.Now()
	if err := slack.PostWebhookCustomHTTPContext(ctx, m.webhook, m.client, payload); err != nil {
		return fmt.Errorf("%w: post to mattermost: %w", domain.ErrDelivery, err)
	}
	m.logger.Debug("message sent",
		"username", msg.Username,
		"channel", channel,
		"text_len", len(msg.Text),
		"elapsed", time.Since(start),
	)
	return nil
}
