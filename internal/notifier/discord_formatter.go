package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/seotracker/internal/models"
)

// FormatChangeReport builds a webhook message with one embed per client.
// Changes that do not fit an embed are counted in its footer; clients past
// Discord's embed limits are summarised in the message content.
func FormatChangeReport(n models.Notification, reportLink string, now time.Time) models.DiscordMessagePayload {
	payload := models.DiscordMessagePayload{
		Username:        DiscordUsername,
		Content:         fmt.Sprintf("**%s**", n.Subject),
		AllowedMentions: &models.AllowedMentions{Parse: []string{}},
	}

	if n.Report.IsEmpty() {
		payload.Embeds = []models.DiscordEmbed{
			NewDiscordEmbedBuilder().
				WithTitle(n.Subject).
				WithDescription(n.TextBody).
				WithColor(ChangesEmbedColor).
				WithTimestamp(now).
				Build(),
		}
		return payload
	}

	total := 0
	for i, client := range n.Report.Clients {
		if i == maxEmbedsPerMessage {
			payload.Content += fmt.Sprintf("\n%d more client(s) changed, see the email report.", len(n.Report.Clients)-i)
			break
		}

		builder := NewDiscordEmbedBuilder().
			WithTitle(client.Client).
			WithColor(ChangesEmbedColor).
			WithTimestamp(now)
		if reportLink != "" {
			builder.WithURL(reportLink)
		}
		if total+builder.Length()+footerReserve > maxEmbedsTotal {
			payload.Content += fmt.Sprintf("\n%d more client(s) changed, see the email report.", len(n.Report.Clients)-i)
			break
		}

		for _, change := range client.Changes {
			field := newEmbedField(fmt.Sprintf("%s · %s", change.Field.Label(), change.URL), formatChangeValue(change), false)
			if builder.FieldCount() >= maxEmbedFields ||
				total+builder.Length()+fieldLength(field)+footerReserve > maxEmbedsTotal {
				break
			}
			builder.AddField(field.Name, field.Value, field.Inline)
		}

		footer := fmt.Sprintf("%d change(s)", len(client.Changes))
		if dropped := len(client.Changes) - builder.FieldCount(); dropped > 0 {
			footer += fmt.Sprintf(", %d more change(s) not shown", dropped)
		}
		builder.WithFooter(footer)

		total += builder.Length()
		payload.Embeds = append(payload.Embeds, builder.Build())
	}
	return payload
}

func formatChangeValue(change models.ChangeRecord) string {
	if change.Field == models.FieldStatus {
		return fmt.Sprintf("%s → %s", change.Old, change.New)
	}
	return fmt.Sprintf("Old: ~~%s~~\nNew: %s", escapeMarkdown(change.Old), escapeMarkdown(change.New))
}

var markdownEscaper = strings.NewReplacer("~", `\~`, "*", `\*`, "_", `\_`, "`", "\\`", "|", `\|`)

func escapeMarkdown(s string) string {
	if s == "" {
		return "(empty)"
	}
	return markdownEscaper.Replace(s)
}
