package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
)

const (
	reportAttachmentName = "page-changes.html"
	maxDiscordFileSize   = 8 * 1024 * 1024 // 8MB, Discord's typical limit without Nitro
)

// DiscordConfig configures a DiscordNotifier.
type DiscordConfig struct {
	WebhookURL string
	// AttachHTML uploads the HTML body as a file next to the embeds.
	AttachHTML bool
	ReportLink string
}

// DiscordNotifier handles sending notifications to a Discord webhook.
type DiscordNotifier struct {
	cfg        DiscordConfig
	logger     zerolog.Logger
	httpClient *http.Client
	now        func() time.Time
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(cfg DiscordConfig, logger zerolog.Logger, httpClient *http.Client) (*DiscordNotifier, error) {
	moduleLogger := logger.With().Str("component", "DiscordNotifier").Logger()

	if _, err := url.ParseRequestURI(cfg.WebhookURL); err != nil {
		return nil, common.WrapError(err, "invalid discord webhook URL")
	}

	if httpClient == nil {
		moduleLogger.Debug().Msg("HTTP client is nil, using default HTTP client with 20s timeout.")
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	return &DiscordNotifier{
		cfg:        cfg,
		logger:     moduleLogger,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

// Send posts the report to the webhook as multipart form data.
func (dn *DiscordNotifier) Send(ctx context.Context, n models.Notification) error {
	payload := FormatChangeReport(n, dn.cfg.ReportLink, dn.now())

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}
	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return fmt.Errorf("failed to write payload_json to multipart: %w", err)
	}

	if dn.cfg.AttachHTML && n.HTMLBody != "" {
		if len(n.HTMLBody) > maxDiscordFileSize {
			dn.logger.Warn().Int("size", len(n.HTMLBody)).Msg("HTML report too large to attach, sending embeds only")
		} else {
			part, err := writer.CreateFormFile("file[0]", reportAttachmentName)
			if err != nil {
				return fmt.Errorf("failed to create form file: %w", err)
			}
			if _, err := io.WriteString(part, n.HTMLBody); err != nil {
				return fmt.Errorf("failed to copy report to form: %w", err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dn.cfg.WebhookURL, body)
	if err != nil {
		return fmt.Errorf("failed to create discord request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := dn.httpClient.Do(req)
	if err != nil {
		return common.NewNetworkError(dn.cfg.WebhookURL, "failed to send discord notification", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		dn.logger.Error().Int("status_code", resp.StatusCode).Str("response_body", string(respBody)).Msg("Discord notification failed")
		return common.NewHTTPErrorWithURL(resp.StatusCode, string(respBody), dn.cfg.WebhookURL)
	}

	dn.logger.Info().Int("status_code", resp.StatusCode).Int("embeds", len(payload.Embeds)).Msg("Discord notification sent")
	return nil
}
