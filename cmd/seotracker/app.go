package main

import (
	"context"
	"time"

	"github.com/aleister1102/seotracker/internal/cache"
	"github.com/aleister1102/seotracker/internal/config"
	"github.com/aleister1102/seotracker/internal/differ"
	"github.com/aleister1102/seotracker/internal/extractor"
	"github.com/aleister1102/seotracker/internal/httpclient"
	"github.com/aleister1102/seotracker/internal/notifier"
	"github.com/aleister1102/seotracker/internal/reporter"
	"github.com/aleister1102/seotracker/internal/sheetstore"
	"github.com/aleister1102/seotracker/internal/statuscheck"
	"github.com/aleister1102/seotracker/internal/tracker"

	"github.com/rs/zerolog"
)

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// newStatusChecker builds the cached status probe. It never follows
// redirects so 3xx codes are reported as-is.
func newStatusChecker(cfg *config.GlobalConfig, store cache.Store, logger zerolog.Logger) (*statuscheck.Checker, error) {
	sc := cfg.StatusCheckerConfig
	client, err := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(seconds(cfg.PageFetcherConfig.TimeoutSecs)).
		WithDialTimeout(seconds(sc.ConnectTimeoutSecs)).
		WithFollowRedirects(false).
		WithUserAgent(sc.UserAgent).
		Build()
	if err != nil {
		return nil, err
	}

	return statuscheck.NewChecker(client, store, logger,
		statuscheck.WithTTL(sc.CacheTTL()),
		statuscheck.WithKeyPrefix(sc.KeyPrefix),
		statuscheck.WithClassifier(statuscheck.NewClassifier(sc.Rules)),
	), nil
}

func newExtractor(cfg *config.GlobalConfig, logger zerolog.Logger) (*extractor.SEOExtractor, error) {
	pc := cfg.PageFetcherConfig
	client, err := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(seconds(pc.TimeoutSecs)).
		WithFollowRedirects(pc.FollowRedirects).
		WithUserAgent(pc.UserAgent).
		WithMaxContentSize(pc.MaxContentSizeMB*1024*1024).
		Build()
	if err != nil {
		return nil, err
	}
	return extractor.NewSEOExtractor(client, logger), nil
}

// newNotifier registers every configured channel. It returns nil when no
// channel is configured.
func newNotifier(nc config.NotificationConfig, logger zerolog.Logger) (notifier.Notifier, error) {
	helper := notifier.NewNotificationHelper(logger)

	if nc.EmailEnabled() {
		email, err := notifier.NewEmailNotifier(notifier.EmailConfig{
			Host:       nc.SMTPHost,
			Port:       nc.SMTPPort,
			Username:   nc.SMTPUsername,
			Password:   nc.SMTPPassword,
			From:       nc.EmailFrom,
			Recipients: nc.EmailRecipients,
		}, logger)
		if err != nil {
			return nil, err
		}
		helper.Register("email", email)
	}

	if nc.DiscordEnabled() {
		discord, err := notifier.NewDiscordNotifier(notifier.DiscordConfig{
			WebhookURL: nc.DiscordWebhookURL,
			AttachHTML: nc.DiscordAttachHTML,
			ReportLink: nc.ReportLink,
		}, logger, nil)
		if err != nil {
			return nil, err
		}
		helper.Register("discord", discord)
	}

	if len(helper.Channels()) == 0 {
		return nil, nil
	}
	return helper, nil
}

// newTracker wires a Tracker from cfg. The cache store is shared across
// cycles so it is passed in.
func newTracker(cfg *config.GlobalConfig, store cache.Store, logger zerolog.Logger) (*tracker.Tracker, error) {
	checker, err := newStatusChecker(cfg, store, logger)
	if err != nil {
		return nil, err
	}
	ext, err := newExtractor(cfg, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := reporter.NewRenderer(reporter.RendererConfig{
		ReportLink: cfg.NotificationConfig.ReportLink,
	}, logger)
	if err != nil {
		return nil, err
	}
	n, err := newNotifier(cfg.NotificationConfig, logger)
	if err != nil {
		return nil, err
	}

	var textDiffer *differ.TextDiffer
	if cfg.DiffConfig.Enabled {
		textDiffer = differ.NewTextDiffer(cfg.DiffConfig)
	}

	sheet := sheetstore.NewExcelStore(sheetstore.ExcelOptions{
		Path:       cfg.SheetConfig.Path,
		SheetName:  cfg.SheetConfig.SheetName,
		HeaderRows: cfg.SheetConfig.HeaderRows,
	}, logger)

	return tracker.New(
		sheet,
		ext,
		checker,
		differ.NewChangeDetector(textDiffer, logger),
		renderer,
		n,
		tracker.Options{
			Subject:    cfg.NotificationConfig.Subject,
			Recipients: cfg.NotificationConfig.EmailRecipients,
		},
		logger,
	), nil
}

// cycleRunner returns a function running one cycle with the latest
// configuration from cm.
func cycleRunner(cm *config.ConfigManager, store cache.Store, logger zerolog.Logger) func(ctx context.Context) (*tracker.CycleResult, error) {
	return func(ctx context.Context) (*tracker.CycleResult, error) {
		t, err := newTracker(cm.GetConfig(), store, logger)
		if err != nil {
			return nil, err
		}
		return t.RunCycle(ctx)
	}
}
