package notifier

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
)

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Recipients []string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier sends the report as a multipart/alternative email.
type EmailNotifier struct {
	cfg      EmailConfig
	logger   zerolog.Logger
	sendMail sendMailFunc
	now      func() time.Time
}

// NewEmailNotifier creates a new EmailNotifier
func NewEmailNotifier(cfg EmailConfig, logger zerolog.Logger) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, common.NewValidationError("host", cfg.Host, "SMTP host is required")
	}
	if cfg.From == "" {
		return nil, common.NewValidationError("from", cfg.From, "sender address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return &EmailNotifier{
		cfg:      cfg,
		logger:   logger.With().Str("component", "EmailNotifier").Logger(),
		sendMail: smtp.SendMail,
		now:      time.Now,
	}, nil
}

// Send delivers n to its recipients, falling back to the configured list.
// net/smtp has no context support, so ctx is only checked before dialing.
func (en *EmailNotifier) Send(ctx context.Context, n models.Notification) error {
	recipients := n.Recipients
	if len(recipients) == 0 {
		recipients = en.cfg.Recipients
	}
	if len(recipients) == 0 {
		return common.NewValidationError("recipients", recipients, "no email recipients configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := en.buildMessage(recipients, n)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if en.cfg.Username != "" {
		auth = smtp.PlainAuth("", en.cfg.Username, en.cfg.Password, en.cfg.Host)
	}

	addr := net.JoinHostPort(en.cfg.Host, strconv.Itoa(en.cfg.Port))
	if err := en.sendMail(addr, auth, en.cfg.From, recipients, msg); err != nil {
		return common.NewNetworkError(addr, "failed to send email", err)
	}

	en.logger.Info().Strs("recipients", recipients).Msg("Email report sent")
	return nil
}

func (en *EmailNotifier) buildMessage(recipients []string, n models.Notification) ([]byte, error) {
	subject := n.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", en.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", en.now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", writer.Boundary())

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", n.TextBody},
		{"text/html; charset=utf-8", n.HTMLBody},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", p.contentType)
		header.Set("Content-Transfer-Encoding", "8bit")
		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, common.WrapError(err, "failed to create email part")
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, common.WrapError(err, "failed to write email part")
		}
	}

	if err := writer.Close(); err != nil {
		return nil, common.WrapError(err, "failed to finish email body")
	}
	return buf.Bytes(), nil
}
