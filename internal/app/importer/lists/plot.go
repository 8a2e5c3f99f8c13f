package lists

import (
	"iter"
	"strings"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
)

const (
	plotMoviePrefix  = "MV: "
	plotLinePrefix   = "PL: "
	plotAuthorPrefix = "BY: "
)

// Plot is one attributed plot summary.
type Plot struct {
	Movie string
	Text  string
	By    string
}

// Plots dispatches the plot list on line prefixes. "MV: " opens a movie and
// clears the pending text, "PL: " lines accumulate into it, and every "BY: "
// line emits the pending text with that author. Other lines are ignored.
func Plots(lines *linestream.Lines) iter.Seq2[Plot, error] {
	return func(yield func(Plot, error) bool) {
		var (
			movie string
			text  []string
		)

		for lines.Next() {
			line := lines.Line()
			switch {
			case strings.HasPrefix(line, plotMoviePrefix):
				movie = line[len(plotMoviePrefix):]
				text = text[:0]
			case strings.HasPrefix(line, plotLinePrefix):
				text = append(text, line[len(plotLinePrefix):])
			case strings.HasPrefix(line, plotAuthorPrefix):
				p := Plot{
					Movie: movie,
					Text:  strings.Join(text, " "),
					By:    line[len(plotAuthorPrefix):],
				}
				if !yield(p, nil) {
					return
				}
			}
		}

		if err := lines.Err(); err != nil {
			yield(Plot{}, err)
		}
	}
}
