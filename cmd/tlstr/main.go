package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"typelib-go/internal/fn"
	"typelib-go/pkg/config"
	"typelib-go/pkg/log"
)

// Version information - will be set at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// cfg is loaded once by setup before any subcommand runs.
var cfg = config.DefaultConfig()

func newApp() *cli.App {
	// -v belongs to --verbose.
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
	return &cli.App{
		Name:    "tlstr",
		Usage:   "split, substitute and format text with growable buffers",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration `FILE`",
			},
			&cli.StringFlag{
				Name:  "log-db",
				Usage: "Record logs in the SQLite database `PATH` instead of stderr",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log at debug level",
			},
		},
		Before: setup,
		After: func(c *cli.Context) error {
			return log.Close()
		},
		Commands: []*cli.Command{
			splitCommand,
			substCommand,
			printfCommand,
			logsCommand,
		},
	}
}

func setup(c *cli.Context) error {
	loaded, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading configuration: %v", err), 1)
	}
	cfg = loaded

	dbFile := fn.T(c.IsSet("log-db"), c.String("log-db"), cfg.LogDB)
	if dbFile != "" {
		if err := log.Init(dbFile); err != nil {
			return cli.Exit(fmt.Sprintf("Error initializing logger: %v", err), 1)
		}
	} else {
		log.SetStd()
	}
	if err := log.SetLevel(fn.T(c.Bool("verbose"), "debug", cfg.LogLevel)); err != nil {
		return cli.Exit(fmt.Sprintf("Error setting log level: %v", err), 1)
	}
	log.Debug().Str("config", cfg.ConfigFile).Str("log_db", dbFile).Msg("configuration loaded")
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
