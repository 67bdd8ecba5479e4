package transform

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"typelib-go/pkg/strbuf"
)

type zstdTransform struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdTransform creates a Zstandard transform. level follows the zstd
// command line numbering (1 fastest .. 22 best); 0 means the default.
func NewZstdTransform(level int) (Transform, error) {
	encLevel := zstd.SpeedDefault
	if level > 0 {
		encLevel = zstd.EncoderLevelFromZstd(level)
	}
	// One encoder/decoder pair is reused across calls via Reset.
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encLevel))
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to initialize encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to initialize decoder: %w", err)
	}
	return &zstdTransform{encoder: enc, decoder: dec}, nil
}

func (s *zstdTransform) Name() string { return "zstd" }

// Apply compresses data into dst.
func (s *zstdTransform) Apply(dst *strbuf.Buffer, data []byte) error {
	s.encoder.Reset(dst)
	if _, err := s.encoder.Write(data); err != nil {
		_ = s.encoder.Close()
		return fmt.Errorf("zstd apply (compress): failed to write data: %w", err)
	}
	// Close flushes the last block.
	if err := s.encoder.Close(); err != nil {
		return fmt.Errorf("zstd apply (compress): failed to close writer: %w", err)
	}
	return nil
}

// Reverse decompresses data into dst.
func (s *zstdTransform) Reverse(dst *strbuf.Buffer, data []byte) error {
	if err := s.decoder.Reset(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("zstd reverse (decompress): failed to reset decoder: %w", err)
	}
	if _, err := s.decoder.WriteTo(dst); err != nil {
		return fmt.Errorf("zstd reverse (decompress): failed to read data: %w", err)
	}
	return nil
}
