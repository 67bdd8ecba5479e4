package strbuf

import "fmt"

// countWriter measures output without storing it.
type countWriter int

func (c *countWriter) Write(p []byte) (int, error) {
	*c += countWriter(len(p))
	return len(p), nil
}

// tailWriter renders into a fixed region, dropping what doesn't fit but
// counting everything so the caller can tell it was short.
type tailWriter struct {
	dst []byte
	n   int
}

func (w *tailWriter) Write(p []byte) (int, error) {
	if w.n < len(w.dst) {
		copy(w.dst[w.n:], p)
	}
	w.n += len(p)
	return len(p), nil
}

// Appendf renders format with args in the manner of fmt.Sprintf and appends
// the result. The output is measured first and rendered straight into the
// reserved tail, so no intermediate string is built. On failure the content
// is unchanged.
func (b *Buffer) Appendf(format string, args ...any) error {
	var c countWriter
	fmt.Fprintf(&c, format, args...)
	need := int(c)

	if err := b.Reserve(need); err != nil {
		return fmt.Errorf("strbuf: appendf: %w", err)
	}
	if need == 0 {
		return nil
	}
	w := tailWriter{dst: b.Tail()}
	fmt.Fprintf(&w, format, args...)
	if w.n <= need {
		return b.Added(w.n)
	}

	// An argument rendered longer the second time round. Restore the
	// terminator the partial render clobbered, then render once more into
	// a scratch buffer that grows as it goes.
	b.base[b.nused] = 0
	scratch := Buffer{alloc: b.alloc}
	defer scratch.Cleanup()
	if _, err := fmt.Fprintf(&scratch, format, args...); err != nil {
		return fmt.Errorf("strbuf: appendf: %w", err)
	}
	return b.Append(scratch.Bytes())
}
