package strbuf

import (
	"bytes"
	"fmt"
)

// Subst replaces every non-overlapping occurrence of pattern, scanning left
// to right, with repl. An empty pattern matches nothing. The new content is
// built in a scratch buffer from the same allocator and moved into b, so on
// failure b keeps its original content.
func (b *Buffer) Subst(pattern, repl []byte) error {
	if len(pattern) == 0 || b.nused == 0 {
		return nil
	}
	src := b.base[:b.nused]
	i := bytes.Index(src, pattern)
	if i < 0 {
		return nil
	}

	size := len(src) + bytes.Count(src, pattern)*(len(repl)-len(pattern))
	if size == 0 {
		b.Clear()
		return nil
	}

	scratch := Buffer{alloc: b.alloc}
	if err := scratch.Reserve(size); err != nil {
		return fmt.Errorf("strbuf: substitute %q: %w", pattern, err)
	}
	for i >= 0 {
		if err := scratch.Append(src[:i]); err != nil {
			scratch.Cleanup()
			return err
		}
		if err := scratch.Append(repl); err != nil {
			scratch.Cleanup()
			return err
		}
		src = src[i+len(pattern):]
		i = bytes.Index(src, pattern)
	}
	if err := scratch.Append(src); err != nil {
		scratch.Cleanup()
		return err
	}
	scratch.reserved = 0

	b.Cleanup()
	return Transfer(&scratch, b)
}

// SubstString is Subst for string arguments.
func (b *Buffer) SubstString(pattern, repl string) error {
	return b.Subst([]byte(pattern), []byte(repl))
}
