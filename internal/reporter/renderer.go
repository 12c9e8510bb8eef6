package reporter

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"strings"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
)

//go:embed templates/report_email.html.tmpl
var templatesFS embed.FS

const (
	emailTemplateName      = "report_email.html.tmpl"
	defaultReportLinkLabel = "Target Page Tracker"
)

// ErrEmptyReport is returned when there is nothing to render.
var ErrEmptyReport = errors.New("report has no changes")

// RendererConfig holds optional presentation settings.
type RendererConfig struct {
	// ReportLink points readers at the tracking sheet.
	ReportLink      string
	ReportLinkLabel string
}

// Renderer turns a ReportPayload into HTML and plain-text bodies.
type Renderer struct {
	cfg      RendererConfig
	template *template.Template
	logger   zerolog.Logger
}

type emailData struct {
	Clients         []models.ClientChanges
	ReportLink      string
	ReportLinkLabel string
}

// NewRenderer parses the embedded templates.
func NewRenderer(cfg RendererConfig, logger zerolog.Logger) (*Renderer, error) {
	if cfg.ReportLinkLabel == "" {
		cfg.ReportLinkLabel = defaultReportLinkLabel
	}

	tmpl, err := template.New(emailTemplateName).
		Funcs(templateFunctions()).
		ParseFS(templatesFS, "templates/"+emailTemplateName)
	if err != nil {
		return nil, common.WrapError(err, "failed to parse report template")
	}

	return &Renderer{
		cfg:      cfg,
		template: tmpl,
		logger:   logger.With().Str("component", "ReportRenderer").Logger(),
	}, nil
}

func templateFunctions() template.FuncMap {
	return template.FuncMap{
		"isStatus": func(f models.Field) bool {
			return f == models.FieldStatus
		},
		"segment": func(s models.DiffSegment) template.HTML {
			text := template.HTMLEscapeString(s.Text)
			switch s.Operation {
			case models.DiffInsert:
				return template.HTML("<ins>" + text + "</ins>")
			case models.DiffDelete:
				return template.HTML("<del>" + text + "</del>")
			default:
				return template.HTML(text)
			}
		},
	}
}

// RenderHTML renders the email body.
func (r *Renderer) RenderHTML(payload models.ReportPayload) (string, error) {
	if payload.IsEmpty() {
		return "", ErrEmptyReport
	}

	var buf bytes.Buffer
	data := emailData{
		Clients:         payload.Clients,
		ReportLink:      r.cfg.ReportLink,
		ReportLinkLabel: r.cfg.ReportLinkLabel,
	}
	if err := r.template.ExecuteTemplate(&buf, emailTemplateName, data); err != nil {
		return "", common.WrapError(err, "failed to execute report template")
	}

	r.logger.Debug().Int("clients", len(payload.Clients)).Int("bytes", buf.Len()).Msg("Rendered HTML report")
	return buf.String(), nil
}

// RenderText renders a plain-text body for chat and text-only channels.
func (r *Renderer) RenderText(payload models.ReportPayload) (string, error) {
	if payload.IsEmpty() {
		return "", ErrEmptyReport
	}

	var sb strings.Builder
	sb.WriteString("The following page changes were detected:\n")
	for _, c := range payload.Clients {
		sb.WriteString("\n## ")
		sb.WriteString(c.Client)
		sb.WriteString("\n")
		for _, change := range c.Changes {
			sb.WriteString("- ")
			sb.WriteString(change.Message())
			sb.WriteString("\n")
		}
	}
	if r.cfg.ReportLink != "" {
		sb.WriteString("\n")
		sb.WriteString(r.cfg.ReportLinkLabel)
		sb.WriteString(": ")
		sb.WriteString(r.cfg.ReportLink)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
