package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"typelib-go/pkg/strbuf"
	"typelib-go/pkg/transform"
)

func init() {
	cli.OsExiter = func(int) {}
}

// run executes tlstr with args, feeding stdin and returning stdout.
func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	app := newApp()
	app.Reader = bytes.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"tlstr"}, args...))
	return out.String(), err
}

func TestVersionAndVerboseFlags(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		got, err := run(t, nil, flag)
		require.NoError(t, err)
		assert.Contains(t, got, Version)
	}

	for _, flag := range []string{"--verbose", "-v"} {
		got, err := run(t, []byte("a,b"), flag, "split", "-")
		require.NoError(t, err)
		assert.Equal(t, "a\nb\n", got)
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"default delimiter", "a,b,,c\n", []string{"split", "-"}, "a\nb\n\nc\n"},
		{"multi-byte delimiter", "x::y::z", []string{"split", "-d", "::", "-"}, "x\ny\nz\n"},
		{"detach", "x::y", []string{"split", "-d", "::", "-m", "detach", "-"}, "x\ny\n"},
		{"zreplace", "k=v;q=w", []string{"split", "-d", ";", "-m", "zreplace", "-"}, "k=v\nq=w\n"},
		{"no delimiter", "plain\n", []string{"split", "-"}, ""},
		{"count", "a,b,c", []string{"split", "--count", "-"}, "3\n"},
		{"offsets", "ab,c", []string{"split", "--offsets", "-"}, "0\t2\tab\n3\t1\tc\n"},
		{"keep newline", "a,b\n", []string{"split", "--trim=false", "-"}, "a\nb\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, []byte(tt.input), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitMaxTokens(t *testing.T) {
	got, err := run(t, []byte("a,b"), "split", "-n", "2", "-")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", got)

	_, err = run(t, []byte("a,b,c"), "split", "-n", "2", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than 2 tokens")
}

func TestSplitBadMode(t *testing.T) {
	_, err := run(t, []byte("a,b"), "split", "-m", "shred", "-")
	require.Error(t, err)
}

func TestSplitCompressedInput(t *testing.T) {
	for _, name := range []string{"gzip", "zstd"} {
		t.Run(name, func(t *testing.T) {
			tr, err := transform.ByName(name, 0)
			require.NoError(t, err)
			var enc strbuf.Buffer
			defer enc.Cleanup()
			require.NoError(t, tr.Apply(&enc, []byte("one|two|three")))

			got, err := run(t, enc.Bytes(), "split", "-d", "|", "-")
			require.NoError(t, err)
			assert.Equal(t, "one\ntwo\nthree\n", got)
		})
	}
}

func TestSubstCommand(t *testing.T) {
	got, err := run(t, []byte("hello world"), "subst", "-p", "o", "-r", "0", "-")
	require.NoError(t, err)
	assert.Equal(t, "hell0 w0rld", got)

	got, err = run(t, []byte("a-b-c"), "subst", "-p", "-", "-")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestSubstCompressedOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zst")
	_, err := run(t, []byte(strings.Repeat("cat ", 100)), "subst", "-p", "cat", "-r", "dog", "--compress", "zstd", "-o", out, "-")
	require.NoError(t, err)

	got, err := run(t, nil, "subst", "-p", "dog", "-r", "cat", out)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("cat ", 100), got)
}

func TestPrintfCommand(t *testing.T) {
	got, err := run(t, nil, "printf", "%s=%s", "key", "value")
	require.NoError(t, err)
	assert.Equal(t, "key=value\n", got)

	got, err = run(t, nil, "printf", "--repeat", "3", "-n", "ab")
	require.NoError(t, err)
	assert.Equal(t, "ababab", got)

	_, err = run(t, nil, "printf")
	require.Error(t, err)
}

func TestLogsCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tlstr.db")

	_, err := run(t, []byte("a,b"), "--log-db", db, "--verbose", "split", "-")
	require.NoError(t, err)

	got, err := run(t, nil, "--log-db", db, "logs", "-n", "10")
	require.NoError(t, err)
	assert.Contains(t, got, `"message":"split"`)
	assert.Contains(t, got, `"tokens":2`)

	got, err = run(t, nil, "logs", "-f", db, "--pretty", "-n", "1")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.NotContains(t, got, `"message"`)
}

func TestLogsWithoutDatabase(t *testing.T) {
	_, err := run(t, nil, "logs")
	require.Error(t, err)
}
