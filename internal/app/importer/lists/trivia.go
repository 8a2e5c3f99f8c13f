package lists

import (
	"fmt"
	"iter"
	"strings"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

const (
	entryPrefix  = "- "
	indentLength = 2
)

// Trivia is one bullet entry of the trivia or goofs list.
type Trivia struct {
	Movie string
	Text  string
}

// Bullets reads lists made of "# movie" headers and "- " entries. An entry
// runs until the next blank line; its continuation lines lose their two-character
// indent and all parts are joined with a single space. Input that ends inside
// an entry yields a *domain.ParseError.
func Bullets(lines *linestream.Lines) iter.Seq2[Trivia, error] {
	return func(yield func(Trivia, error) bool) {
		var movie string

		for lines.Next() {
			line := lines.Line()
			switch {
			case strings.HasPrefix(line, moviePrefix):
				movie = line[len(moviePrefix):]
			case strings.HasPrefix(line, entryPrefix):
				text, err := consumeEntry(lines, movie, line)
				if err != nil {
					yield(Trivia{}, err)
					return
				}
				if !yield(Trivia{Movie: movie, Text: text}, nil) {
					return
				}
			}
		}

		if err := lines.Err(); err != nil {
			yield(Trivia{}, err)
		}
	}
}

// consumeEntry reads the continuation lines of the entry started by first up to
// and including the terminating blank line.
func consumeEntry(lines *linestream.Lines, movie, first string) (string, error) {
	parts := []string{first[len(entryPrefix):]}

	for lines.Next() {
		line := lines.Line()
		if line == "" {
			return strings.Join(parts, " "), nil
		}
		parts = append(parts, dropRunes(line, indentLength))
	}

	if err := lines.Err(); err != nil {
		return "", err
	}
	return "", domain.NewParseErrorAt(lines.Name(), lines.LineNo(),
		fmt.Sprintf("a blank line ending the entry of %q", movie))
}

// dropRunes removes the first n characters of s.
func dropRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}
