package linestream

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

// DefaultSeparator is the character IMDb-style lists use to underline titles.
const DefaultSeparator = '='

// Guard is a compiled full-line preamble marker.
type Guard struct {
	pattern string
	re      *regexp.Regexp
}

// CompileGuard compiles pattern as a regular expression anchored at both ends.
func CompileGuard(pattern string) (Guard, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return Guard{}, fmt.Errorf("compile guard %q: %w", pattern, err)
	}
	return Guard{pattern: pattern, re: re}, nil
}

// MustCompileGuard is like CompileGuard but panics on a bad pattern.
func MustCompileGuard(pattern string) Guard {
	g, err := CompileGuard(pattern)
	if err != nil {
		panic(err)
	}
	return g
}

// Match reports whether line is a guard line.
func (g Guard) Match(line string) bool {
	return g.re != nil && g.re.MatchString(line)
}

func (g Guard) String() string { return g.pattern }

// Seek discards lines up to and including the first guard line, then discards
// the separator lines that follow it (empty, or made only of sep). The first
// content line is pushed back, so the next lines.Next yields it.
//
// A source that ends before the guard yields a *domain.ParseError. A source
// that ends during the separator run is positioned at its end.
func Seek(lines *Lines, guard Guard, sep byte) error {
	found := false
	for lines.Next() {
		if guard.Match(lines.Line()) {
			found = true
			break
		}
	}
	if !found {
		if err := lines.Err(); err != nil {
			return fmt.Errorf("seek %s: %w", lines.Name(), err)
		}
		return domain.NewParseErrorAt(lines.Name(), lines.LineNo(), fmt.Sprintf("the line '%s'", guard))
	}

	for lines.Next() {
		if !isSeparator(lines.Line(), sep) {
			lines.Unread()
			return nil
		}
	}
	if err := lines.Err(); err != nil {
		return fmt.Errorf("seek %s: %w", lines.Name(), err)
	}
	return nil
}

// isSeparator reports whether line is empty or a run of sep.
func isSeparator(line string, sep byte) bool {
	return strings.Trim(line, string(sep)) == ""
}
