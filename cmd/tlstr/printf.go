package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"typelib-go/pkg/strbuf"
)

var printfCommand = &cli.Command{
	Name:      "printf",
	Usage:     "Render a format string with its arguments",
	UsageText: "tlstr printf [command options] FORMAT [ARG...]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "repeat",
			Usage: "Append the rendering `NUMBER` times",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:    "no-newline",
			Aliases: []string{"n"},
			Usage:   "Do not print a trailing newline",
		},
	},
	Action: printfCmd,
}

func printfCmd(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return cli.Exit("Error: a format string is required.", 1)
	}
	format := c.Args().First()
	rest := c.Args().Tail()
	args := make([]any, len(rest))
	for i, a := range rest {
		args[i] = a
	}

	buf := strbuf.New(allocator())
	defer buf.Cleanup()
	for i := 0; i < c.Int("repeat"); i++ {
		if err := buf.Appendf(format, args...); err != nil {
			return cli.Exit(fmt.Sprintf("Error formatting: %v", err), 1)
		}
	}
	if !c.Bool("no-newline") {
		if err := buf.WriteByte('\n'); err != nil {
			return cli.Exit(fmt.Sprintf("Error formatting: %v", err), 1)
		}
	}
	_, err := c.App.Writer.Write(buf.Bytes())
	return err
}
