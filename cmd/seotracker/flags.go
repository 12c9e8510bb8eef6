package main

import (
	"flag"
	"fmt"
	"io"
)

// Subcommands
const (
	cmdRun       = "run"
	cmdStatus    = "status"
	cmdInitSheet = "init-sheet"
	cmdHistory   = "history"
)

type AppFlags struct {
	GlobalConfigFile string
	Mode             string
	HotReload        bool
	HistoryLimit     int
	Command          string
	Args             []string
}

// ParseFlags parses args (without the program name). The first positional
// argument selects the subcommand and defaults to run.
func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("seotracker", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, "Usage: seotracker [flags] [run | status <url>... | init-sheet <targets.csv> | history]")
		fs.PrintDefaults()
	}

	globalConfigFile := fs.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("c", "", "Alias for -config")

	modeFlag := fs.String("mode", "", "Mode to run the tracker: onetime or automated (overrides config file if set)")
	modeFlagAlias := fs.String("m", "", "Alias for -mode")

	hotReload := fs.Bool("hot-reload", false, "Reload the configuration file between automated cycles when it changes")
	historyLimit := fs.Int("limit", 20, "Number of cycles listed by the history command")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{
		HotReload:    *hotReload,
		HistoryLimit: *historyLimit,
		Command:      cmdRun,
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *modeFlag != "" {
		flags.Mode = *modeFlag
	} else {
		flags.Mode = *modeFlagAlias
	}

	if rest := fs.Args(); len(rest) > 0 {
		flags.Command = rest[0]
		flags.Args = rest[1:]
	}

	switch flags.Command {
	case cmdRun, cmdHistory:
	case cmdStatus:
		if len(flags.Args) == 0 {
			return AppFlags{}, fmt.Errorf("%s requires at least one URL", cmdStatus)
		}
	case cmdInitSheet:
		if len(flags.Args) != 1 {
			return AppFlags{}, fmt.Errorf("%s requires a targets CSV file", cmdInitSheet)
		}
	default:
		return AppFlags{}, fmt.Errorf("unknown command %q", flags.Command)
	}

	return flags, nil
}
