// Package linestream turns dump files into positioned sequences of decoded lines.
// It resolves a logical list name to a plain or gzipped file, decodes latin1,
// strips trailing whitespace, and seeks past the preamble of a list.
package linestream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// maxLineSize is the longest physical line the scanner accepts (1 MB).
const maxLineSize = 1 << 20

// asciiSpace is the set stripped from the end of every line.
const asciiSpace = " \t\n\r\v\f"

// Lines is a forward-only pull iterator over the decoded lines of one source.
// It holds the underlying reader open until Close is called.
//
//	for lines.Next() {
//		line := lines.Line()
//	}
//	if err := lines.Err(); err != nil { ... }
type Lines struct {
	name   string
	sc     *bufio.Scanner
	closer io.Closer

	line   string
	unread bool
	done   bool
	closed bool
	err    error
	lineNo int
}

// NewLines wraps r as a latin1-encoded line source called name. If r is an
// io.Closer it is closed by Lines.Close.
func NewLines(name string, r io.Reader) *Lines {
	sc := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(r))
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	l := &Lines{name: name, sc: sc}
	if c, ok := r.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// Next advances to the next line. It returns false at end of input, on a read
// error, or after Close.
func (l *Lines) Next() bool {
	if l.unread {
		l.unread = false
		return true
	}
	if l.done || l.closed {
		return false
	}
	if !l.sc.Scan() {
		l.done = true
		l.err = l.sc.Err()
		l.line = ""
		return false
	}
	l.line = strings.TrimRight(l.sc.Text(), asciiSpace)
	l.lineNo++
	return true
}

// Line returns the current line.
func (l *Lines) Line() string {
	return l.line
}

// Unread pushes the current line back so the following Next yields it again.
// Only one line of push-back is kept.
func (l *Lines) Unread() {
	if l.lineNo == 0 || l.done {
		return
	}
	l.unread = true
}

// LineNo returns the 1-based physical line number of the current line.
func (l *Lines) LineNo() int {
	return l.lineNo
}

// Name identifies the source, typically the file base name.
func (l *Lines) Name() string {
	return l.name
}

// Err returns the first read error, if any. Reaching the end is not an error.
func (l *Lines) Err() error {
	if errors.Is(l.err, bufio.ErrTooLong) {
		return &LineTooLongError{Source: l.name, LineNo: l.lineNo + 1}
	}
	return l.err
}

// Close releases the underlying reader. It is safe to call more than once.
func (l *Lines) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.unread = false
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// LineTooLongError reports a physical line longer than the scanner buffer.
type LineTooLongError struct {
	Source string
	LineNo int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("%s: line %d exceeds %d bytes", e.Source, e.LineNo, maxLineSize)
}

func (e *LineTooLongError) Unwrap() error { return bufio.ErrTooLong }
