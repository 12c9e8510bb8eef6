package notifier

import (
	"time"
	"unicode/utf8"

	"github.com/aleister1102/seotracker/internal/models"
)

// DiscordEmbedBuilder helps in constructing models.DiscordEmbed objects.
type DiscordEmbedBuilder struct {
	embed models.DiscordEmbed
}

// NewDiscordEmbedBuilder creates a new instance of DiscordEmbedBuilder.
func NewDiscordEmbedBuilder() *DiscordEmbedBuilder {
	return &DiscordEmbedBuilder{}
}

func (b *DiscordEmbedBuilder) WithTitle(title string) *DiscordEmbedBuilder {
	b.embed.Title = truncateString(title, maxEmbedTitle)
	return b
}

func (b *DiscordEmbedBuilder) WithDescription(description string) *DiscordEmbedBuilder {
	b.embed.Description = truncateString(description, maxEmbedDescription)
	return b
}

func (b *DiscordEmbedBuilder) WithURL(url string) *DiscordEmbedBuilder {
	b.embed.URL = url
	return b
}

// WithTimestamp formats timestamp as RFC3339.
func (b *DiscordEmbedBuilder) WithTimestamp(timestamp time.Time) *DiscordEmbedBuilder {
	b.embed.Timestamp = timestamp.Format(time.RFC3339)
	return b
}

func (b *DiscordEmbedBuilder) WithColor(color int) *DiscordEmbedBuilder {
	b.embed.Color = color
	return b
}

func (b *DiscordEmbedBuilder) WithFooter(text string) *DiscordEmbedBuilder {
	b.embed.Footer = &models.DiscordEmbedFooter{Text: truncateString(text, maxFooterText)}
	return b
}

// AddField appends a field. Fields past Discord's per-embed limit are dropped;
// callers that must account for them check FieldCount first.
func (b *DiscordEmbedBuilder) AddField(name string, value string, inline bool) *DiscordEmbedBuilder {
	if len(b.embed.Fields) >= maxEmbedFields {
		return b
	}
	b.embed.Fields = append(b.embed.Fields, newEmbedField(name, value, inline))
	return b
}

// FieldCount returns the number of fields added so far.
func (b *DiscordEmbedBuilder) FieldCount() int {
	return len(b.embed.Fields)
}

// Length returns the text length of the embed as Discord counts it
// against the per-message total.
func (b *DiscordEmbedBuilder) Length() int {
	return embedLength(b.embed)
}

func newEmbedField(name, value string, inline bool) models.DiscordEmbedField {
	return models.DiscordEmbedField{
		Name:   truncateString(name, maxFieldName),
		Value:  truncateString(value, maxFieldValue),
		Inline: inline,
	}
}

func fieldLength(f models.DiscordEmbedField) int {
	return utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
}

func embedLength(e models.DiscordEmbed) int {
	n := utf8.RuneCountInString(e.Title) + utf8.RuneCountInString(e.Description)
	for _, f := range e.Fields {
		n += fieldLength(f)
	}
	if e.Footer != nil {
		n += utf8.RuneCountInString(e.Footer.Text)
	}
	return n
}

// Build returns the constructed models.DiscordEmbed object.
func (b *DiscordEmbedBuilder) Build() models.DiscordEmbed {
	return b.embed
}

func truncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength-3]) + "..."
}
