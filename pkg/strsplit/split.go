// Package strsplit breaks text into tokens separated by a literal delimiter.
//
// The delimiter is matched as one contiguous byte string, not as a set of
// separator characters. Text is scanned up to its first NUL byte or the end
// of the slice, whichever comes first, so the terminated output of
// strbuf.Buffer.CString can be split directly.
//
// If the delimiter never occurs, or either the text or the delimiter is
// empty, no tokens are produced. Otherwise every delimiter closes one token
// and whatever follows the last one is the final token, so adjacent, leading
// and trailing delimiters yield empty tokens.
package strsplit

import (
	"bytes"
	"errors"
	"fmt"

	"typelib-go/pkg/buffers"
)

var (
	ErrOutOfMemory     = buffers.ErrOutOfMemory
	ErrInvalidArgument = buffers.ErrInvalidArgument

	// ErrTooManyTokens is returned by SplitInto when the caller's slots can't
	// hold every token. It matches ErrInvalidArgument.
	ErrTooManyTokens = fmt.Errorf("too many tokens for output slots: %w", ErrInvalidArgument)
)

// Mode selects what a split does with each token.
type Mode uint8

const (
	// KeepText leaves text untouched and returns Raw tokens.
	KeepText Mode = iota
	// ZReplace overwrites the first byte of every delimiter in text with
	// NUL and returns Borrowed tokens.
	ZReplace
	// Detach copies every token into its own NUL-terminated block and
	// returns Detached tokens. text is left untouched.
	Detach
)

func (m Mode) String() string {
	switch m {
	case KeepText:
		return "keep"
	case ZReplace:
		return "zreplace"
	case Detach:
		return "detach"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode maps a mode name as printed by Mode.String back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "keep", "raw":
		return KeepText, nil
	case "zreplace", "nul":
		return ZReplace, nil
	case "detach":
		return Detach, nil
	}
	return 0, fmt.Errorf("strsplit: unknown mode %q: %w", s, ErrInvalidArgument)
}

// Splitter splits using a specific allocator for detached tokens.
type Splitter struct {
	// Alloc backs Detached tokens; nil means buffers.Default.
	Alloc buffers.Allocator
}

func (s Splitter) allocator() buffers.Allocator {
	if s.Alloc == nil {
		return buffers.Default
	}
	return s.Alloc
}

// span limits text to the part before its terminator.
func span(text []byte) []byte {
	if i := bytes.IndexByte(text, 0); i >= 0 {
		return text[:i]
	}
	return text
}

// Count returns how many tokens a split of text on delim produces.
func Count(text, delim []byte) int {
	sp := span(text)
	if len(delim) == 0 || len(sp) == 0 {
		return 0
	}
	n := bytes.Count(sp, delim)
	if n == 0 {
		return 0
	}
	return n + 1
}

// Split returns the tokens of text in order in a newly allocated slice.
// With Detach, the caller must Release the tokens. If a detached copy can't be
// allocated, the tokens detached so far are returned along with the error
// and must still be released.
func (s Splitter) Split(text, delim []byte, mode Mode) ([]Token, error) {
	if mode > Detach {
		return nil, fmt.Errorf("strsplit: %v: %w", mode, ErrInvalidArgument)
	}
	n := Count(text, delim)
	if n == 0 {
		return nil, nil
	}
	toks := make([]Token, n)
	k, err := s.fill(text, delim, toks, mode)
	return toks[:k], err
}

// SplitInto writes the tokens of text into out and returns how many there
// are. If out is too small it returns -1 and ErrTooManyTokens without
// touching text or out.
func (s Splitter) SplitInto(text, delim []byte, out []Token, mode Mode) (int, error) {
	if mode > Detach {
		return 0, fmt.Errorf("strsplit: %v: %w", mode, ErrInvalidArgument)
	}
	n := Count(text, delim)
	if n > len(out) {
		return -1, fmt.Errorf("strsplit: %d tokens, %d slots: %w", n, len(out), ErrTooManyTokens)
	}
	if n == 0 {
		return 0, nil
	}
	return s.fill(text, delim, out[:n], mode)
}

// fill scans text and stores one token per slot of out, which must have
// exactly Count(text, delim) entries.
func (s Splitter) fill(text, delim []byte, out []Token, mode Mode) (int, error) {
	sp := span(text)
	pos := 0
	for k := range out {
		end := len(sp)
		i := bytes.Index(sp[pos:], delim)
		if i >= 0 {
			end = pos + i
		}

		tok := Token{Offset: pos, Length: end - pos, data: text}
		switch mode {
		case ZReplace:
			tok.Kind = Borrowed
			if i >= 0 {
				text[end] = 0
			}
		case Detach:
			block, err := s.allocator().Alloc(tok.Length + 1)
			if err != nil {
				if !errors.Is(err, ErrOutOfMemory) {
					err = fmt.Errorf("%w: %v", ErrOutOfMemory, err)
				}
				return k, fmt.Errorf("strsplit: detach token %d: %w", k, err)
			}
			copy(block, sp[pos:end])
			block[tok.Length] = 0
			tok.Kind = Detached
			tok.data = block
			tok.alloc = s.allocator()
		}
		out[k] = tok

		if i < 0 {
			return k + 1, nil
		}
		pos = end + len(delim)
	}
	return len(out), nil
}

// Split splits text using buffers.Default for detached tokens.
func Split(text, delim []byte, mode Mode) ([]Token, error) {
	return Splitter{}.Split(text, delim, mode)
}

// SplitInto is Splitter.SplitInto using buffers.Default.
func SplitInto(text, delim []byte, out []Token, mode Mode) (int, error) {
	return Splitter{}.SplitInto(text, delim, out, mode)
}

// SplitString splits text on delim and returns copies of the fields. Unlike
// strings.Split, text without delim yields no fields.
func SplitString(text, delim string) []string {
	toks, _ := Split([]byte(text), []byte(delim), KeepText)
	fields := make([]string, len(toks))
	for i, t := range toks {
		fields[i] = t.String()
	}
	return fields
}
