package config

// NotificationConfig defines configuration for notifications. A channel is
// enabled when its address is set.
type NotificationConfig struct {
	SMTPHost          string   `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty"`
	SMTPPort          int      `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty" validate:"min=0,max=65535"`
	SMTPUsername      string   `json:"smtp_username,omitempty" yaml:"smtp_username,omitempty"`
	SMTPPassword      string   `json:"smtp_password,omitempty" yaml:"smtp_password,omitempty"`
	EmailFrom         string   `json:"email_from,omitempty" yaml:"email_from,omitempty" validate:"omitempty,email"`
	EmailRecipients   []string `json:"email_recipients,omitempty" yaml:"email_recipients,omitempty" validate:"dive,email"`
	Subject           string   `json:"subject,omitempty" yaml:"subject,omitempty"`
	DiscordWebhookURL string   `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	DiscordAttachHTML bool     `json:"discord_attach_html" yaml:"discord_attach_html"`
	ReportLink        string   `json:"report_link,omitempty" yaml:"report_link,omitempty" validate:"omitempty,url"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		SMTPPort:        DefaultSMTPPort,
		EmailRecipients: []string{},
		Subject:         DefaultNotificationSubject,
	}
}

// EmailEnabled reports whether an SMTP host is configured
func (nc NotificationConfig) EmailEnabled() bool {
	return nc.SMTPHost != ""
}

// DiscordEnabled reports whether a webhook is configured
func (nc NotificationConfig) DiscordEnabled() bool {
	return nc.DiscordWebhookURL != ""
}
