package notifier

// Discord formatting constants
const (
	DiscordUsername   = "SEO Page Tracker"
	ChangesEmbedColor = 0xC9A82D

	// Discord API limits
	maxEmbedTitle       = 256
	maxEmbedDescription = 4096
	maxEmbedFields      = 25
	maxFieldName        = 256
	maxFieldValue       = 1024
	maxFooterText       = 2048
	maxEmbedsPerMessage = 10
	// maxEmbedsTotal caps the combined text of all embeds in one message.
	maxEmbedsTotal = 6000
)

// footerReserve is kept free in the total budget for a client's footer.
const footerReserve = 64
