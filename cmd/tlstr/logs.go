package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"typelib-go/pkg/appdir"
	"typelib-go/pkg/log"
)

var logsCommand = &cli.Command{
	Name:        "logs",
	Usage:       "Print the most recent entries of the log database",
	UsageText:   "tlstr [--log-db PATH] logs [command options]",
	Description: `Reads the SQLite log database given by --log-db, log_db in the configuration, or -f/--dbfile.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dbfile",
			Aliases: []string{"f"},
			Usage:   "Read the SQLite log database `PATH` instead of the configured one",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Number of entries `NUMBER`",
			Value:   100,
		},
		&cli.BoolFlag{
			Name:    "pretty",
			Aliases: []string{"p"},
			Usage:   "Output logs in a human-readable format instead of raw JSON",
		},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	count := c.Int("count")
	if count <= 0 {
		return cli.Exit("Error: --count (-n) must be a positive number.", 1)
	}

	if c.IsSet("dbfile") {
		dbFile := c.String("dbfile")
		if _, err := os.Stat(appdir.Path(dbFile)); err != nil {
			return cli.Exit(fmt.Sprintf("Error: Database file not found at '%s'", dbFile), 1)
		}
		if err := log.Close(); err != nil {
			return cli.Exit(fmt.Sprintf("Error closing current log database: %v", err), 1)
		}
		if err := log.Init(dbFile); err != nil {
			return cli.Exit(fmt.Sprintf("Error opening log database: %v", err), 1)
		}
	}

	results, err := log.GetLastNLogs(count)
	if err != nil {
		if errors.Is(err, log.ErrNotInitialized) {
			return cli.Exit("Error: no log database; pass --log-db, set log_db or use --dbfile.", 1)
		}
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", err), 1)
	}
	if len(results) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "No log entries found.")
		return nil
	}

	if c.Bool("pretty") {
		cw := zerolog.ConsoleWriter{Out: c.App.Writer, NoColor: true, TimeFormat: time.RFC3339}
		for _, entry := range results {
			if _, err := cw.Write([]byte(entry.Data)); err != nil {
				fmt.Fprintf(c.App.Writer, "%d %s %s\n", entry.ID, entry.InsertedAt.Format(time.RFC3339), entry.Data)
			}
		}
		return nil
	}
	for _, entry := range results {
		fmt.Fprintln(c.App.Writer, entry.Data)
	}
	return nil
}
