// Package sheetstore reads and writes the tracking grid.
package sheetstore

import (
	"context"

	"github.com/aleister1102/seotracker/internal/models"
)

// Store loads the tracked rows once per cycle and writes them back once.
type Store interface {
	Load(ctx context.Context) ([]models.TrackedRow, error)
	Save(ctx context.Context, rows []models.TrackedRow) error
}
