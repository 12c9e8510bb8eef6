package notifier

import (
	"context"
	"time"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
)

const defaultSendTimeout = 30 * time.Second

// NotificationHelper fans a report out to every configured channel. A
// failing channel does not stop the others.
type NotificationHelper struct {
	channels map[string]Notifier
	order    []string
	logger   zerolog.Logger
}

// NewNotificationHelper creates a new NotificationHelper.
func NewNotificationHelper(logger zerolog.Logger) *NotificationHelper {
	return &NotificationHelper{
		channels: make(map[string]Notifier),
		logger:   logger.With().Str("component", "NotificationHelper").Logger(),
	}
}

// Register adds a named channel. Registering a name twice replaces it.
func (nh *NotificationHelper) Register(name string, n Notifier) {
	if n == nil {
		return
	}
	if _, ok := nh.channels[name]; !ok {
		nh.order = append(nh.order, name)
	}
	nh.channels[name] = n
}

// Channels returns the registered channel names in registration order.
func (nh *NotificationHelper) Channels() []string {
	return append([]string(nil), nh.order...)
}

// Send delivers n to every channel and returns the combined failures.
func (nh *NotificationHelper) Send(ctx context.Context, n models.Notification) error {
	if len(nh.order) == 0 {
		nh.logger.Debug().Msg("No notification channels configured, skipping")
		return nil
	}

	collector := common.NewErrorCollector()
	for _, name := range nh.order {
		sendCtx, cancel := context.WithTimeout(ctx, defaultSendTimeout)
		err := nh.channels[name].Send(sendCtx, n)
		cancel()

		if err != nil {
			nh.logger.Error().Err(err).Str("channel", name).Msg("Failed to send notification")
			collector.Add(common.WrapErrorf(err, "%s notification", name))
			continue
		}
		nh.logger.Info().Str("channel", name).Msg("Notification sent")
	}
	return collector.Error()
}
