// Package transform applies reversible byte transforms (compression) to
// text, writing the result straight into a strbuf.Buffer.
package transform

import (
	"bytes"
	"fmt"
	"strings"

	"typelib-go/pkg/strbuf"
)

// Transform encodes data into dst with Apply and decodes it with Reverse.
// Both append to dst; on error dst may hold a partial result.
type Transform interface {
	Name() string
	Apply(dst *strbuf.Buffer, data []byte) error
	Reverse(dst *strbuf.Buffer, data []byte) error
}

type noOpTransform struct{}

func NewNoOpTransform() Transform { return noOpTransform{} }

func (noOpTransform) Name() string { return "none" }

func (noOpTransform) Apply(dst *strbuf.Buffer, data []byte) error { return dst.Append(data) }

func (noOpTransform) Reverse(dst *strbuf.Buffer, data []byte) error { return dst.Append(data) }

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Detect guesses which transform produced data from its magic bytes and
// returns its name, or "none".
func Detect(data []byte) string {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return "zstd"
	case bytes.HasPrefix(data, gzipMagic):
		return "gzip"
	}
	return "none"
}

// ByName builds the transform called name. level is passed to compressors
// and ignored otherwise; 0 picks the compressor's default.
func ByName(name string, level int) (Transform, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return NewNoOpTransform(), nil
	case "zstd":
		return NewZstdTransform(level)
	case "gzip", "gz":
		return NewGzipTransform(level)
	}
	return nil, fmt.Errorf("transform: unknown transform %q", name)
}
