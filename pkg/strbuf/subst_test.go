package strbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typelib-go/pkg/buffers"
)

func TestSubst(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pattern string
		repl    string
		want    string
	}{
		{"replace all", "foofoofoo", "foo", "bar", "barbarbar"},
		{"no match", "nonmatching", "foo", "bar", "nonmatching"},
		{"empty replacement", "foofoofoo", "foo", "", ""},
		{"empty pattern", "foofoofoo", "", "bar", "foofoofoo"},
		{"remove middle", "~~REMOVEME~~", "REMOVEME", "", "~~~~"},
		{"empty buffer", "", "nonexist", "", ""},
		{"grow", "a.b.c", ".", "::", "a::b::c"},
		{"no overlap", "aaaa", "aa", "b", "bb"},
		{"no overlap odd", "aaa", "aa", "b", "ba"},
		{"replacement contains pattern", "xx", "x", "xx", "xxxx"},
		{"whole content", "abc", "abc", "z", "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var str Buffer
			require.NoError(t, str.AppendString(tt.input))
			require.NoError(t, str.SubstString(tt.pattern, tt.repl))
			assert.Equal(t, tt.want, str.String())
			assert.Equal(t, len(tt.want), str.Len())
			checkInvariant(t, &str)
			str.Cleanup()
		})
	}
}

func TestSubstNoMatchKeepsAllocation(t *testing.T) {
	var str Buffer
	require.NoError(t, str.AppendString("nonmatching"))
	before := &str.Bytes()[0]
	require.NoError(t, str.SubstString("foo", "bar"))
	assert.Same(t, before, &str.Bytes()[0])
}

func TestSubstOutOfMemoryLeavesContent(t *testing.T) {
	limit := buffers.NewLimit(nil, 14)
	str := New(limit)
	require.NoError(t, str.AppendString("foofoofoo"))

	err := str.SubstString("foo", "barbar")
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, "foofoofoo", str.String())
	checkInvariant(t, str)

	// Shrinking fits in what's left of the budget.
	require.NoError(t, str.SubstString("foo", "f"))
	assert.Equal(t, "fff", str.String())
	str.Cleanup()
	assert.Zero(t, limit.InUse())
}

func TestSubstReturnsOldBlock(t *testing.T) {
	limit := buffers.NewLimit(nil, 1<<20)
	str := New(limit)
	require.NoError(t, str.AppendString("one two one"))
	require.NoError(t, str.SubstString("one", "three"))
	assert.Equal(t, "three two three", str.String())
	assert.Equal(t, str.Cap()+1, limit.InUse(), "only the new block is outstanding")
}
