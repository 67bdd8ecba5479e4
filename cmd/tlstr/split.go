package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"typelib-go/internal/fn"
	"typelib-go/pkg/log"
	"typelib-go/pkg/strsplit"
)

var splitCommand = &cli.Command{
	Name:      "split",
	Usage:     "Split input on a literal delimiter and print one token per line",
	UsageText: "tlstr split [command options] [FILE|-]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "delimiter",
			Aliases: []string{"d"},
			Usage:   "Delimiter `STRING` (defaults to the configured delimiter)",
		},
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Token mode `MODE`: keep, zreplace or detach",
		},
		&cli.BoolFlag{
			Name:  "count",
			Usage: "Only print the number of tokens",
		},
		&cli.IntFlag{
			Name:    "max",
			Aliases: []string{"n"},
			Usage:   "Fail when the input holds more than `NUMBER` tokens",
		},
		&cli.BoolFlag{
			Name:  "offsets",
			Usage: "Prefix each token with its offset and length",
		},
		decompressFlag,
		trimFlag,
	},
	Action: splitCmd,
}

func splitCmd(c *cli.Context) error {
	delim := fn.FirstNonZero(c.String("delimiter"), cfg.Delimiter)
	mode, err := strsplit.ParseMode(fn.FirstNonZero(c.String("mode"), cfg.SplitMode))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	alloc := allocator()
	buf, err := readInput(c, alloc)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error reading input: %v", err), 1)
	}
	defer buf.Cleanup()
	if c.Bool("trim") {
		if err := trimNewline(buf); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
	}

	if c.Bool("count") {
		fmt.Fprintln(c.App.Writer, strsplit.Count(buf.Bytes(), []byte(delim)))
		return nil
	}

	splitter := strsplit.Splitter{Alloc: alloc}
	var toks []strsplit.Token
	if limit := c.Int("max"); limit > 0 {
		toks = make([]strsplit.Token, limit)
		n, err := splitter.SplitInto(buf.Bytes(), []byte(delim), toks, mode)
		if errors.Is(err, strsplit.ErrTooManyTokens) {
			return cli.Exit(fmt.Sprintf("Error: input has more than %d tokens", limit), 1)
		}
		if n > 0 {
			toks = toks[:n]
		} else {
			toks = nil
		}
		if err != nil {
			strsplit.Release(toks)
			return cli.Exit(fmt.Sprintf("Error splitting input: %v", err), 1)
		}
	} else {
		toks, err = splitter.Split(buf.Bytes(), []byte(delim), mode)
		if err != nil {
			strsplit.Release(toks)
			return cli.Exit(fmt.Sprintf("Error splitting input: %v", err), 1)
		}
	}
	defer strsplit.Release(toks)

	log.Debug().Str("delimiter", delim).Str("mode", mode.String()).Int("tokens", len(toks)).Msg("split")
	for _, t := range toks {
		if c.Bool("offsets") {
			fmt.Fprintf(c.App.Writer, "%d\t%d\t%s\n", t.Offset, t.Length, t.Bytes())
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s\n", t.Bytes())
	}
	return nil
}
