package extractor

import (
	"regexp"

	"github.com/aleister1102/seotracker/internal/models"
)

var entityPattern = regexp.MustCompile(`&[#0-9a-zA-Z]+;`)

// entityMap is the fixed set of entities decoded in extracted text. Anything
// else that looks like an entity is kept as-is.
var entityMap = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#039;": "'",
	"&#39;":  "'",
	"&apos;": "'",
	"&nbsp;": " ",
	"&copy;": "©",
	"&reg;":  "®",
}

// DecodeEntities replaces the known HTML entities in s. An empty input
// yields models.NotAvailable.
func DecodeEntities(s string) string {
	if s == "" {
		return models.NotAvailable
	}

	return entityPattern.ReplaceAllStringFunc(s, func(entity string) string {
		if decoded, ok := entityMap[entity]; ok {
			return decoded
		}
		return entity
	})
}
