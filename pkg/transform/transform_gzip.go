package transform

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"typelib-go/pkg/strbuf"
)

type gzipTransform struct {
	level int
}

// NewGzipTransform creates a gzip transform; level 0 means gzip.DefaultCompression.
func NewGzipTransform(level int) (Transform, error) {
	if level == 0 {
		level = gzip.DefaultCompression
	}
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, fmt.Errorf("gzip: invalid compression level %d", level)
	}
	return &gzipTransform{level: level}, nil
}

func (g *gzipTransform) Name() string { return "gzip" }

func (g *gzipTransform) Apply(dst *strbuf.Buffer, data []byte) error {
	gz, err := gzip.NewWriterLevel(dst, g.level)
	if err != nil {
		return fmt.Errorf("gzip apply (compress): %w", err)
	}
	if _, err := gz.Write(data); err != nil {
		_ = gz.Close()
		return fmt.Errorf("gzip apply (compress): failed to write data: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("gzip apply (compress): failed to close writer: %w", err)
	}
	return nil
}

func (g *gzipTransform) Reverse(dst *strbuf.Buffer, data []byte) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("gzip reverse (decompress): failed to create reader: %w", err)
	}
	defer gz.Close()
	if _, err := io.Copy(dst, gz); err != nil {
		return fmt.Errorf("gzip reverse (decompress): failed to read data: %w", err)
	}
	return nil
}
