package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"typelib-go/pkg/buffers"
	"typelib-go/pkg/log"
	"typelib-go/pkg/strbuf"
	"typelib-go/pkg/transform"
)

// allocator backs every buffer a command builds. max_buffer caps the bytes
// held at once.
func allocator() buffers.Allocator {
	if cfg.MaxBuffer > 0 {
		return buffers.NewLimit(buffers.SharedPool, cfg.MaxBuffer)
	}
	return buffers.SharedPool
}

// readInput loads the first argument (or stdin when it is absent or "-")
// into a new buffer, decompressing zstd or gzip input when asked to.
func readInput(c *cli.Context, alloc buffers.Allocator) (*strbuf.Buffer, error) {
	var r io.Reader = os.Stdin
	name := "stdin"
	if c.Args().Len() > 0 && c.Args().First() != "-" {
		name = c.Args().First()
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else if c.App.Reader != nil {
		r = c.App.Reader
	}

	buf := strbuf.New(alloc)
	if _, err := io.Copy(buf, r); err != nil {
		buf.Cleanup()
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	log.Debug().Str("input", name).Int("bytes", buf.Len()).Msg("input loaded")

	if !c.Bool("decompress") {
		return buf, nil
	}
	kind := transform.Detect(buf.Bytes())
	if kind == "none" {
		return buf, nil
	}
	defer buf.Cleanup()

	tr, err := transform.ByName(kind, 0)
	if err != nil {
		return nil, err
	}
	p, err := transform.NewPipeline(alloc, tr)
	if err != nil {
		return nil, err
	}
	plain := strbuf.New(alloc)
	if err := p.Decode(plain, buf.Bytes()); err != nil {
		plain.Cleanup()
		return nil, fmt.Errorf("decompressing %s: %w", name, err)
	}
	log.Debug().Str("input", name).Str("transform", kind).Int("bytes", plain.Len()).Msg("input decompressed")
	return plain, nil
}

// trimNewline drops one trailing "\n" (and a preceding "\r").
func trimNewline(buf *strbuf.Buffer) error {
	for _, c := range []byte{'\n', '\r'} {
		b := buf.Bytes()
		if len(b) == 0 || b[len(b)-1] != c {
			return nil
		}
		if err := buf.EraseEnd(1); err != nil {
			return err
		}
	}
	return nil
}

var decompressFlag = &cli.BoolFlag{
	Name:  "decompress",
	Usage: "Transparently decompress zstd or gzip input",
	Value: true,
}

var trimFlag = &cli.BoolFlag{
	Name:  "trim",
	Usage: "Drop a single trailing newline from the input",
	Value: true,
}
