package strsplit

import "typelib-go/pkg/buffers"

// Kind records who owns a token's bytes.
type Kind uint8

const (
	// Raw tokens point into the original text, which is left untouched.
	// Length is authoritative; there is no terminator.
	Raw Kind = iota
	// Borrowed tokens point into the original text, with the first byte of
	// the delimiter that followed each token overwritten by NUL.
	Borrowed
	// Detached tokens live in their own NUL-terminated allocation and must be
	// released by the caller.
	Detached
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Borrowed:
		return "borrowed"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// Token describes one field found by a split.
type Token struct {
	// Offset is the position of the token within the split text.
	Offset int
	// Length is the token size in bytes, excluding any terminator.
	Length int
	Kind   Kind

	// data is the split text for Raw and Borrowed tokens, or the token's
	// own Length+1 byte block for Detached ones.
	data  []byte
	alloc buffers.Allocator
}

// Bytes returns the token's content without a terminator.
func (t Token) Bytes() []byte {
	if t.Kind == Detached {
		if t.data == nil {
			return nil
		}
		return t.data[:t.Length:t.Length]
	}
	end := t.Offset + t.Length
	return t.data[t.Offset:end:end]
}

// String returns a copy of the token's content.
func (t Token) String() string {
	return string(t.Bytes())
}

// CString returns the token followed by its NUL terminator. ok is false
// for a Raw token, or a Borrowed one at the very end of text that had no
// terminator of its own.
func (t Token) CString() (z []byte, ok bool) {
	if t.Kind == Detached {
		if t.data == nil {
			return nil, false
		}
		return t.data, true
	}
	end := t.Offset + t.Length
	if t.Kind == Raw || end >= len(t.data) || t.data[end] != 0 {
		return nil, false
	}
	return t.data[t.Offset : end+1], true
}

// Release gives a Detached token's block back to its allocator. It is a
// no-op for borrowed tokens and for tokens already released.
func (t *Token) Release() {
	if t.Kind != Detached || t.data == nil {
		return
	}
	t.alloc.Free(t.data)
	t.data = nil
}

// Release releases every token in toks.
func Release(toks []Token) {
	for i := range toks {
		toks[i].Release()
	}
}
