package differ

import (
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// TextDiffer produces inline diffs of changed field values.
type TextDiffer struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config DiffConfig
}

// NewTextDiffer creates a new text differ
func NewTextDiffer(config DiffConfig) *TextDiffer {
	return &TextDiffer{
		dmp:    diffmatchpatch.New(),
		config: config,
	}
}

// Diff returns the segments turning oldText into newText, or nil when
// diffing is disabled or either value is over the configured length.
func (td *TextDiffer) Diff(oldText, newText string) []models.DiffSegment {
	if !td.config.Enabled {
		return nil
	}
	if td.config.MaxTextLength > 0 && (len(oldText) > td.config.MaxTextLength || len(newText) > td.config.MaxTextLength) {
		return nil
	}

	diffs := td.dmp.DiffMain(oldText, newText, false)
	if td.config.EnableSemanticCleanup {
		diffs = td.dmp.DiffCleanupSemantic(diffs)
	}

	segments := make([]models.DiffSegment, 0, len(diffs))
	for _, d := range diffs {
		segments = append(segments, models.DiffSegment{
			Operation: toOperation(d.Type),
			Text:      d.Text,
		})
	}
	return segments
}

func toOperation(op diffmatchpatch.Operation) models.DiffOperation {
	switch op {
	case diffmatchpatch.DiffInsert:
		return models.DiffInsert
	case diffmatchpatch.DiffDelete:
		return models.DiffDelete
	default:
		return models.DiffEqual
	}
}
