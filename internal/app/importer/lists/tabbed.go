package lists

import (
	"iter"
	"strings"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
)

// Pair is one row of a tab-separated list: the movie and the row value.
type Pair struct {
	Movie string
	Value string
}

// Year is one row of the movies list.
type Year struct {
	Movie string
	Year  string
}

// Tabbed yields one Pair per line. The movie is the first tab-separated field
// and the value is the last one; fields in between are ignored. A line without
// a tab yields the whole line as both movie and value.
func Tabbed(lines *linestream.Lines) iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		for lines.Next() {
			movie, value := splitFirstLast(lines.Line())
			if !yield(Pair{Movie: movie, Value: value}, nil) {
				return
			}
		}
		if err := lines.Err(); err != nil {
			yield(Pair{}, err)
		}
	}
}

// Years yields one Year per line of the movies list.
func Years(lines *linestream.Lines) iter.Seq2[Year, error] {
	return func(yield func(Year, error) bool) {
		for p, err := range Tabbed(lines) {
			if !yield(Year{Movie: p.Movie, Year: p.Value}, err) || err != nil {
				return
			}
		}
	}
}

func splitFirstLast(line string) (first, last string) {
	first, _, _ = strings.Cut(line, "\t")
	if i := strings.LastIndexByte(line, '\t'); i >= 0 {
		return first, line[i+1:]
	}
	return first, line
}
