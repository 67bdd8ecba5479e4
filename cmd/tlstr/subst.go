package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"typelib-go/internal/fn"
	"typelib-go/pkg/log"
	"typelib-go/pkg/strbuf"
	"typelib-go/pkg/transform"
)

var substCommand = &cli.Command{
	Name:      "subst",
	Usage:     "Replace every occurrence of a pattern in the input",
	UsageText: "tlstr subst --pattern OLD --replace NEW [command options] [FILE|-]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "pattern",
			Aliases:  []string{"p"},
			Usage:    "Literal `STRING` to look for",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "replace",
			Aliases: []string{"r"},
			Usage:   "Replacement `STRING` (may be empty)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the result to `FILE` instead of stdout",
		},
		&cli.StringFlag{
			Name:  "compress",
			Usage: "Compress the result with `NAME`: none, gzip or zstd (defaults to the configured compression)",
		},
		&cli.IntFlag{
			Name:  "level",
			Usage: "Compression `LEVEL`; 0 picks the compressor default",
		},
		decompressFlag,
	},
	Action: substCmd,
}

func substCmd(c *cli.Context) error {
	alloc := allocator()
	buf, err := readInput(c, alloc)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error reading input: %v", err), 1)
	}
	defer buf.Cleanup()

	before := buf.Len()
	if err := buf.SubstString(c.String("pattern"), c.String("replace")); err != nil {
		return cli.Exit(fmt.Sprintf("Error substituting: %v", err), 1)
	}
	log.Debug().Str("pattern", c.String("pattern")).Int("before", before).Int("after", buf.Len()).Msg("subst")

	name := fn.FirstNonZero(c.String("compress"), cfg.Compression)
	level := fn.T(c.IsSet("level"), c.Int("level"), cfg.CompressionLevel)
	tr, err := transform.ByName(name, level)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	p, err := transform.NewPipeline(alloc, tr)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	encoded := strbuf.New(alloc)
	defer encoded.Cleanup()
	if err := p.Encode(encoded, buf.Bytes()); err != nil {
		return cli.Exit(fmt.Sprintf("Error compressing output: %v", err), 1)
	}

	var w io.Writer = c.App.Writer
	if out := c.String("output"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error creating output: %v", err), 1)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(encoded.Bytes()); err != nil {
		return cli.Exit(fmt.Sprintf("Error writing output: %v", err), 1)
	}
	return nil
}
