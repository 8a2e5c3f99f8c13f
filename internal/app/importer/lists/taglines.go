package lists

import (
	"iter"
	"strings"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
)

const moviePrefix = "# "

// Taglines is the tagline block of one movie.
type Taglines struct {
	Movie string
	Lines []string
}

// TaglineBlocks groups the taglines list by movie. A "# " line opens a movie,
// blank lines are ignored, any other line is a tagline of the open movie.
// Lines before the first movie are dropped. The last movie is flushed at the
// end of input.
func TaglineBlocks(lines *linestream.Lines) iter.Seq2[Taglines, error] {
	return func(yield func(Taglines, error) bool) {
		var cur Taglines
		open := false

		for lines.Next() {
			line := lines.Line()
			switch {
			case strings.HasPrefix(line, moviePrefix):
				if open && !yield(cur, nil) {
					return
				}
				cur = Taglines{Movie: line[len(moviePrefix):]}
				open = true
			case line != "":
				cur.Lines = append(cur.Lines, line)
			}
		}

		if err := lines.Err(); err != nil {
			yield(Taglines{}, err)
			return
		}
		if open {
			yield(cur, nil)
		}
	}
}
