package strsplit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typelib-go/pkg/buffers"
	"typelib-go/pkg/strbuf"
)

func TestSplitZReplaceUserSlots(t *testing.T) {
	s := []byte("foo,bar,baz\x00")
	var locs [3]Token

	n, err := SplitInto(s, []byte(","), locs[:], ZReplace)
	if err != nil {
		t.Fatalf("SplitInto failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("Expected 3 tokens, got %d", n)
	}

	want := []string{"foo", "bar", "baz"}
	for i, w := range want {
		if locs[i].Length != 3 {
			t.Errorf("Token %d: expected length 3, got %d", i, locs[i].Length)
		}
		if locs[i].Kind != Borrowed {
			t.Errorf("Token %d: expected borrowed, got %v", i, locs[i].Kind)
		}
		z, ok := locs[i].CString()
		if !ok || string(z) != w+"\x00" {
			t.Errorf("Token %d: expected %q NUL-terminated, got %q (ok=%v)", i, w, z, ok)
		}
	}
	if string(s) != "foo\x00bar\x00baz\x00" {
		t.Errorf("Unexpected text after zreplace: %q", s)
	}
}

func TestSplitDetach(t *testing.T) {
	s := []byte("foo,bar,baz")
	var locs [3]Token

	n, err := SplitInto(s, []byte(","), locs[:], Detach)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	for i, w := range []string{"foo", "bar", "baz"} {
		assert.Equal(t, Detached, locs[i].Kind)
		assert.Equal(t, 3, locs[i].Length)
		assert.Equal(t, w, locs[i].String())
		z, ok := locs[i].CString()
		assert.True(t, ok)
		assert.Equal(t, w+"\x00", string(z))
	}
	assert.Equal(t, "foo,bar,baz", string(s), "detach must not touch the text")

	// Detached copies outlive changes to the text.
	s[0] = 'X'
	assert.Equal(t, "foo", locs[0].String())
	Release(locs[:n])
	assert.Nil(t, locs[0].Bytes())
}

func TestSplitKeepText(t *testing.T) {
	s := []byte("foo,bar,baz")
	toks, err := Split(s, []byte(","), KeepText)
	require.NoError(t, err)
	require.Len(t, toks, 3)

	offsets := []int{0, 4, 8}
	for i, tok := range toks {
		assert.Equal(t, Raw, tok.Kind)
		assert.Equal(t, offsets[i], tok.Offset)
		assert.Equal(t, 3, tok.Length)
		_, ok := tok.CString()
		assert.False(t, ok, "raw tokens are not terminated")
	}
	assert.Equal(t, "baz", toks[2].String())
	assert.Equal(t, "foo,bar,baz", string(s))
}

func TestSplitEmpty(t *testing.T) {
	n, err := SplitInto([]byte("foo,bar,baz"), []byte(""), nil, KeepText)
	require.NoError(t, err)
	assert.Zero(t, n)

	toks, err := Split([]byte(""), []byte("blah"), KeepText)
	require.NoError(t, err)
	assert.Empty(t, toks)

	toks, err = Split(nil, []byte(","), Detach)
	require.NoError(t, err)
	assert.Empty(t, toks)
}

func TestSplitMiss(t *testing.T) {
	toks, err := Split([]byte("foo,bar,baz"), []byte("|"), KeepText)
	require.NoError(t, err)
	assert.Empty(t, toks, "a missing delimiter yields no tokens, not the whole text")
}

func TestSplitEmptyResults(t *testing.T) {
	for _, mode := range []Mode{KeepText, Detach, ZReplace} {
		t.Run(mode.String(), func(t *testing.T) {
			s := []byte(",,,,\x00")
			toks, err := Split(s, []byte(","), mode)
			require.NoError(t, err)
			require.Len(t, toks, 5)
			for i, tok := range toks {
				assert.Zero(t, tok.Length, "token %d", i)
				assert.Empty(t, tok.Bytes())
				if mode != KeepText {
					z, ok := tok.CString()
					require.True(t, ok, "token %d", i)
					assert.Equal(t, []byte{0}, z)
				}
			}
			Release(toks)
		})
	}
}

func TestSplitUserSlotsTooSmall(t *testing.T) {
	s := []byte("foo,bar,baz")
	var locs [3]Token

	for _, mode := range []Mode{KeepText, ZReplace, Detach} {
		n, err := SplitInto(s, []byte(","), locs[:2], mode)
		if !errors.Is(err, ErrTooManyTokens) {
			t.Fatalf("%v: expected ErrTooManyTokens, got %v", mode, err)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%v: ErrTooManyTokens should match ErrInvalidArgument", mode)
		}
		if n != -1 {
			t.Errorf("%v: expected -1, got %d", mode, n)
		}
	}
	if string(s) != "foo,bar,baz" {
		t.Errorf("Text was modified: %q", s)
	}
	assert.Equal(t, Token{}, locs[0], "slots were written")

	n, err := SplitInto(s, []byte(","), locs[:], KeepText)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "exactly enough slots is fine")
}

func TestSplitMultiByteDelimiter(t *testing.T) {
	s := []byte("a::b:c::::d")
	toks, err := Split(s, []byte("::"), ZReplace)
	require.NoError(t, err)

	got := make([]string, len(toks))
	for i, tok := range toks {
		got[i] = tok.String()
	}
	assert.Equal(t, []string{"a", "b:c", "", "d"}, got)
	assert.Equal(t, "a\x00:b:c\x00:\x00:d", string(s), "only the first delimiter byte is replaced")
}

func TestSplitStopsAtTerminator(t *testing.T) {
	toks, err := Split([]byte("a,b\x00,c"), []byte(","), KeepText)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "b", toks[1].String())
}

func TestSplitBufferContent(t *testing.T) {
	var str strbuf.Buffer
	defer str.Cleanup()
	require.NoError(t, str.Appendf("%s|%d|%s", "key", 42, "value"))

	toks, err := Split(str.CString(), []byte("|"), ZReplace)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	for _, tok := range toks {
		_, ok := tok.CString()
		assert.True(t, ok, "the buffer's own terminator ends the last token")
	}
	assert.Equal(t, "42", toks[1].String())
}

func TestSplitDetachOutOfMemory(t *testing.T) {
	// Room for the first two detached tokens only.
	limit := buffers.NewLimit(nil, 8)
	sp := Splitter{Alloc: limit}
	s := []byte("foo,bar,baz")

	toks, err := sp.Split(s, []byte(","), Detach)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Len(t, toks, 2)
	assert.Equal(t, "foo", toks[0].String())
	assert.Equal(t, "bar", toks[1].String())
	assert.Equal(t, 8, limit.InUse())

	Release(toks)
	assert.Zero(t, limit.InUse(), "partial results must still be releasable")
	assert.Equal(t, "foo,bar,baz", string(s))

	var locs [3]Token
	n, err := sp.SplitInto(s, []byte(","), locs[:], Detach)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 2, n)
	Release(locs[:n])
	assert.Zero(t, limit.InUse())
}

func TestSplitPooledDetach(t *testing.T) {
	sp := Splitter{Alloc: buffers.NewPool()}
	toks, err := sp.Split([]byte("alpha beta gamma"), []byte(" "), Detach)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "gamma", toks[2].String())
	Release(toks)
	Release(toks) // second release is a no-op
}

func TestSplitString(t *testing.T) {
	tests := []struct {
		text  string
		delim string
		want  []string
	}{
		{"a,b,c", ",", []string{"a", "b", "c"}},
		{"a,b,", ",", []string{"a", "b", ""}},
		{",a", ",", []string{"", "a"}},
		{"abc", ",", []string{}},
		{"", ",", []string{}},
		{"abc", "", []string{}},
		{"k=v&&x=y", "&&", []string{"k=v", "x=y"}},
	}
	for _, tt := range tests {
		got := SplitString(tt.text, tt.delim)
		assert.Equal(t, tt.want, got, "SplitString(%q, %q)", tt.text, tt.delim)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{KeepText, ZReplace, Detach} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("bogus")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Split([]byte("a,b"), []byte(","), Mode(9))
	require.ErrorIs(t, err, ErrInvalidArgument)
}
