package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/aleister1102/seotracker/internal/cache"
	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/config"
	"github.com/aleister1102/seotracker/internal/logger"
	"github.com/aleister1102/seotracker/internal/scheduler"
	"github.com/aleister1102/seotracker/internal/sheetstore"

	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, err := ParseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "[FATAL] %v\n", err)
		return 2
	}

	cm, err := config.NewConfigManager(flags.GlobalConfigFile, config.ConfigManagerOptions{
		Logger:           zerolog.Nop(),
		HotReloadEnabled: flags.HotReload,
		ReloadDelay:      config.DefaultConfigManagerOptions().ReloadDelay,
	})
	if err != nil {
		fmt.Fprintf(stderr, "[FATAL] Could not load configuration: %v\n", err)
		return 1
	}
	defer cm.Close()

	gCfg := cm.GetConfig()
	if flags.Mode != "" {
		gCfg.Mode = flags.Mode
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		fmt.Fprintf(stderr, "[FATAL] %v\n", err)
		return 1
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		fmt.Fprintf(stderr, "[FATAL] Could not initialize logger: %v\n", err)
		return 1
	}
	cm.SetLogger(zLogger)
	zLogger.Info().
		Str("config", cm.ConfigPath()).
		Str("mode", gCfg.Mode).
		Str("command", flags.Command).
		Msg("SEO page tracker starting")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch flags.Command {
	case cmdStatus:
		err = runStatus(ctx, gCfg, flags.Args, stdout, zLogger)
	case cmdInitSheet:
		err = runInitSheet(gCfg, flags.Args[0], zLogger)
	case cmdHistory:
		err = runHistory(ctx, gCfg, flags.HistoryLimit, stdout, zLogger)
	default:
		err = runTracker(ctx, cm, gCfg, zLogger)
	}

	if err != nil {
		zLogger.Error().Err(err).Msg("Command failed")
		return 1
	}
	return 0
}

func openCache(ctx context.Context, cfg *config.GlobalConfig, zLogger zerolog.Logger) (cache.Store, func(), error) {
	store, err := cache.New(ctx, cfg.CacheConfig.Options(), zLogger)
	if err != nil {
		return nil, nil, common.WrapError(err, "failed to open status cache")
	}
	closeFn := func() {
		if err := cache.Close(store); err != nil {
			zLogger.Warn().Err(err).Msg("Failed to close status cache")
		}
	}
	return store, closeFn, nil
}

// runTracker runs one cycle in onetime mode, or cycles until interrupted in
// automated mode.
func runTracker(ctx context.Context, cm *config.ConfigManager, gCfg *config.GlobalConfig, zLogger zerolog.Logger) error {
	store, closeCache, err := openCache(ctx, gCfg, zLogger)
	if err != nil {
		return err
	}
	defer closeCache()

	var history *scheduler.HistoryDB
	if path := gCfg.SchedulerConfig.HistoryDBPath; path != "" {
		history, err = scheduler.NewHistoryDB(path, zLogger)
		if err != nil {
			zLogger.Warn().Err(err).Msg("Cycle history disabled")
			history = nil
		} else {
			defer history.Close()
		}
	}

	sched, err := scheduler.NewScheduler(cycleRunner(cm, store, zLogger), gCfg.SchedulerConfig.Interval(), history, zLogger)
	if err != nil {
		return err
	}

	if strings.EqualFold(gCfg.Mode, config.ModeAutomated) {
		cm.StartHotReload(ctx)
		return sched.Start(ctx)
	}

	result, err := sched.RunOnce(ctx)
	if err != nil {
		return err
	}
	zLogger.Info().
		Str("cycle_id", result.CycleID).
		Int("changes", result.Changes).
		Bool("notified", result.Notified).
		Msg("SEO page tracker finished (onetime mode)")
	return nil
}

// runStatus prints the status string of each URL, one per line.
func runStatus(ctx context.Context, gCfg *config.GlobalConfig, urls []string, stdout io.Writer, zLogger zerolog.Logger) error {
	store, closeCache, err := openCache(ctx, gCfg, zLogger)
	if err != nil {
		return err
	}
	defer closeCache()

	checker, err := newStatusChecker(gCfg, store, zLogger)
	if err != nil {
		return err
	}

	for _, u := range urls {
		fmt.Fprintf(stdout, "%s\t%s\n", u, checker.CheckStatus(ctx, u))
	}
	return nil
}

// runInitSheet creates the tracking workbook from a client,url CSV file.
func runInitSheet(gCfg *config.GlobalConfig, csvPath string, zLogger zerolog.Logger) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return common.WrapError(err, "failed to open targets file")
	}
	defer f.Close()

	targets, err := readTargets(f)
	if err != nil {
		return err
	}

	if err := sheetstore.CreateWorkbook(gCfg.SheetConfig.Path, gCfg.SheetConfig.SheetName, targets); err != nil {
		return err
	}
	zLogger.Info().Str("path", gCfg.SheetConfig.Path).Int("targets", len(targets)).Msg("Tracking workbook created")
	return nil
}

// readTargets parses client,url records. Blank lines and lines starting with
// '#' are ignored.
func readTargets(r io.Reader) ([][2]string, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, common.WrapError(err, "failed to parse targets file")
	}

	targets := make([][2]string, 0, len(records))
	for i, rec := range records {
		if len(rec) != 2 {
			return nil, common.NewValidationError("targets", i+1, "expected client,url")
		}
		targets = append(targets, [2]string{strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])})
	}
	return targets, nil
}

// runHistory lists the most recent cycles.
func runHistory(ctx context.Context, gCfg *config.GlobalConfig, limit int, stdout io.Writer, zLogger zerolog.Logger) error {
	if gCfg.SchedulerConfig.HistoryDBPath == "" {
		return errors.New("cycle history is disabled (scheduler_config.history_db_path is empty)")
	}
	history, err := scheduler.NewHistoryDB(gCfg.SchedulerConfig.HistoryDBPath, zLogger)
	if err != nil {
		return err
	}
	defer history.Close()

	entries, err := history.ListRecent(ctx, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CYCLE\tSTARTED\tSTATUS\tCHECKED\tSKIPPED\tCHANGES\tNOTIFIED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%t\n",
			e.CycleID, e.StartTime.Format("2006-01-02 15:04:05"), e.Status,
			e.RowsChecked, e.RowsSkipped, e.Changes, e.Notified)
	}
	return w.Flush()
}
