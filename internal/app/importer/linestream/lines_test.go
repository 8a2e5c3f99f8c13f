package linestream

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, l *Lines) []string {
	t.Helper()
	var out []string
	for l.Next() {
		out = append(out, l.Line())
	}
	require.NoError(t, l.Err())
	return out
}

func TestLines_StripsTrailingWhitespace(t *testing.T) {
	t.Parallel()

	l := NewLines("test", strings.NewReader("alpha  \r\nbeta\t\n  gamma\n\n"))
	got := collect(t, l)

	assert.Equal(t, []string{"alpha", "beta", "  gamma", ""}, got)
}

func TestLines_DecodesLatin1(t *testing.T) {
	t.Parallel()

	raw := []byte{'C', 'a', 'f', 0xE9, '\t', 0xC5, 'r', 0xF8, '\n'}
	l := NewLines("test", strings.NewReader(string(raw)))
	got := collect(t, l)

	require.Len(t, got, 1)
	assert.Equal(t, "Café\tÅrø", got[0])
}

func TestLines_Unread(t *testing.T) {
	t.Parallel()

	l := NewLines("test", strings.NewReader("one\ntwo\nthree\n"))

	require.True(t, l.Next())
	require.True(t, l.Next())
	assert.Equal(t, "two", l.Line())
	assert.Equal(t, 2, l.LineNo())

	l.Unread()
	require.True(t, l.Next())
	assert.Equal(t, "two", l.Line())

	require.True(t, l.Next())
	assert.Equal(t, "three", l.Line())
	assert.False(t, l.Next())
	assert.False(t, l.Next(), "Next after end stays false")
}

func TestLines_UnreadBeforeFirstLineIsNoop(t *testing.T) {
	t.Parallel()

	l := NewLines("test", strings.NewReader("only\n"))
	l.Unread()

	assert.Equal(t, []string{"only"}, collect(t, l))
}

type trackingCloser struct {
	io.Reader
	closed int
}

func (c *trackingCloser) Close() error {
	c.closed++
	return nil
}

func TestLines_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	rc := &trackingCloser{Reader: strings.NewReader("a\nb\n")}
	l := NewLines("test", rc)

	require.True(t, l.Next())
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	assert.Equal(t, 1, rc.closed)
	assert.False(t, l.Next(), "Next after Close must stop")
}

func TestLines_LineTooLong(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", maxLineSize+10)
	l := NewLines("huge.list", strings.NewReader("short\n"+long+"\n"))

	require.True(t, l.Next())
	assert.False(t, l.Next())

	err := l.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, bufio.ErrTooLong))

	var tooLong *LineTooLongError
	require.ErrorAs(t, err, &tooLong)
	assert.Equal(t, "huge.list", tooLong.Source)
	assert.Equal(t, 2, tooLong.LineNo)
}
