// Package differ compares the previous and current values of a tracked row.
package differ

import (
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
)

// ChangeDetector emits a ChangeRecord for every tracked field whose value
// changed between two cycles.
type ChangeDetector struct {
	textDiffer *TextDiffer
	logger     zerolog.Logger
}

// NewChangeDetector creates a new ChangeDetector. A nil textDiffer disables
// inline diff segments.
func NewChangeDetector(textDiffer *TextDiffer, logger zerolog.Logger) *ChangeDetector {
	return &ChangeDetector{
		textDiffer: textDiffer,
		logger:     logger.With().Str("component", "ChangeDetector").Logger(),
	}
}

// DetectChanges compares title, meta description, H1 and status in that
// order. Status values are compared in their string form so a numeric cell
// and its textual twin are equal.
func (cd *ChangeDetector) DetectChanges(row models.TrackedRow) []models.ChangeRecord {
	var changes []models.ChangeRecord

	textFields := []struct {
		field    models.Field
		previous string
		current  string
	}{
		{models.FieldTitle, row.PreviousTitle, row.CurrentTitle},
		{models.FieldMetaDescription, row.PreviousMeta, row.CurrentMeta},
		{models.FieldH1, row.PreviousH1, row.CurrentH1},
	}

	for _, f := range textFields {
		if f.previous == f.current {
			continue
		}
		record := models.ChangeRecord{
			Client: row.Client,
			URL:    row.URL,
			Field:  f.field,
			Old:    f.previous,
			New:    f.current,
		}
		if cd.textDiffer != nil {
			record.Segments = cd.textDiffer.Diff(f.previous, f.current)
		}
		changes = append(changes, record)
	}

	oldStatus := models.StatusString(row.PreviousStatus)
	newStatus := models.StatusString(row.CurrentStatus)
	if oldStatus != newStatus {
		changes = append(changes, models.ChangeRecord{
			Client: row.Client,
			URL:    row.URL,
			Field:  models.FieldStatus,
			Old:    oldStatus,
			New:    newStatus,
		})
	}

	if len(changes) > 0 {
		cd.logger.Debug().Str("url", row.URL).Int("changes", len(changes)).Msg("Detected changes")
	}
	return changes
}
