package linestream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/pgzip"

	"github.com/heartmarshall/mmovies-importer/internal/domain"
)

// opener opens one physical variant of a logical source lazily.
type opener interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// plainFile opens an uncompressed list file.
type plainFile struct {
	path string
}

func (f plainFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(f.path)
}

func (f plainFile) Name() string { return f.path }

// gzipFile opens a gzip-compressed list file.
type gzipFile struct {
	path string
}

func (f gzipFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	zr, err := pgzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("gzip header %s: %w", f.path, err)
	}
	return &gzipReadCloser{Reader: zr, file: file}, nil
}

func (f gzipFile) Name() string { return f.path }

// gzipReadCloser closes both the decompressor and the file beneath it.
type gzipReadCloser struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	zerr := g.Reader.Close()
	ferr := g.file.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// candidates lists the variants of list in dir in resolution order.
func candidates(dir, list string) []opener {
	base := filepath.Join(dir, list+".list")
	return []opener{
		plainFile{path: base},
		gzipFile{path: base + ".gz"},
	}
}

// Open resolves the logical list name in dir, trying <list>.list first and
// <list>.list.gz second, and returns its decoded lines. When neither file exists
// the error wraps domain.ErrNotFound. The caller must Close the result.
func Open(ctx context.Context, dir, list string) (*Lines, error) {
	ops := candidates(dir, list)
	tried := make([]string, 0, len(ops))

	for _, op := range ops {
		rc, err := op.Open(ctx)
		if err == nil {
			return NewLines(filepath.Base(op.Name()), rc), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", op.Name(), err)
		}
		tried = append(tried, op.Name())
	}

	return nil, &domain.SourceError{Source: list, Tried: tried}
}
