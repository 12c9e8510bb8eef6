// Package notifier delivers change reports over email and Discord webhooks.
package notifier

import (
	"context"

	"github.com/aleister1102/seotracker/internal/models"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "!!Changes to Target Pages Found!!"

// Notifier delivers a rendered report to one channel.
type Notifier interface {
	Send(ctx context.Context, n models.Notification) error
}
