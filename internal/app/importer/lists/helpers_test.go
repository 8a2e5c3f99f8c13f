package lists

import (
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

func linesOf(s string) *linestream.Lines {
	return linestream.NewLines("test.list", strings.NewReader(s))
}

// openSeeked opens a testdata list and positions it after guard.
func openSeeked(t *testing.T, name, guard string) *linestream.Lines {
	t.Helper()
	f, err := os.Open(testdataPath(t, name))
	if err != nil {
		t.Fatal(err)
	}
	lines := linestream.NewLines(name, f)
	t.Cleanup(func() { lines.Close() })

	if err := linestream.Seek(lines, linestream.MustCompileGuard(guard), linestream.DefaultSeparator); err != nil {
		t.Fatalf("seek %s: %v", name, err)
	}
	return lines
}

// drain collects every record; it stops at and returns the first error.
func drain[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for rec, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}
