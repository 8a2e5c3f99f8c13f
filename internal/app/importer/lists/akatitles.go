package lists

import (
	"iter"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
)

// AkaTitles is the block of alternate titles of one movie.
type AkaTitles struct {
	Movie  string
	Titles []string
}

// AkaBlocks splits the aka-titles list into blank-line separated blocks. The
// first non-blank line of a block names the movie, the rest are its titles.
// The last block is flushed at the end of input.
func AkaBlocks(lines *linestream.Lines) iter.Seq2[AkaTitles, error] {
	return func(yield func(AkaTitles, error) bool) {
		var cur AkaTitles
		open := false
		newMovie := true

		for lines.Next() {
			line := lines.Line()
			switch {
			case line == "":
				newMovie = true
			case newMovie:
				if open && !yield(cur, nil) {
					return
				}
				cur = AkaTitles{Movie: line}
				open = true
				newMovie = false
			default:
				cur.Titles = append(cur.Titles, line)
			}
		}

		if err := lines.Err(); err != nil {
			yield(AkaTitles{}, err)
			return
		}
		if open {
			yield(cur, nil)
		}
	}
}
