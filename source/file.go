package source

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/drix00/xray-spectrum-analyzer/errors"
)

// FileSource reads a table from the local filesystem.
type FileSource struct {
	path string
	// resolve against the working directory at each Stat/Open
	relative bool
}

// File returns a source for the file at path.
func File(path string) *FileSource {
	return &FileSource{path: path}
}

// WorkingDir returns a source for rel resolved against the process working
// directory at the time of each Stat or Open, not at construction.
func WorkingDir(rel string) *FileSource {
	return &FileSource{path: rel, relative: true}
}

func (f *FileSource) resolve() (string, error) {
	if !f.relative || filepath.IsAbs(f.path) {
		return f.path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "working directory")
	}
	return filepath.Join(wd, f.path), nil
}

// Path returns the resolved path.
func (f *FileSource) Path() string {
	p, err := f.resolve()
	if err != nil {
		return f.path
	}
	return p
}

func (f *FileSource) Stat(ctx context.Context) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	p, err := f.resolve()
	if err != nil {
		return Info{}, errors.Mark(err, errors.ErrSourceMissing)
	}
	fi, err := os.Stat(p)
	if err != nil {
		err = errors.Wrapf(errors.Mark(err, errors.ErrSourceMissing), "table %s", p)
		return Info{}, errors.WithHintf(err, "expected the table at %s", p)
	}
	if !fi.Mode().IsRegular() {
		err := errors.Wrapf(errors.ErrSourceMissing, "table %s is not a regular file", p)
		return Info{}, errors.WithHintf(err, "expected the table at %s", p)
	}
	return Info{Name: p, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

func (f *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := f.resolve()
	if err != nil {
		return nil, errors.Mark(err, errors.ErrSourceUnreadable)
	}
	fh, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrSourceUnreadable), "open %s", p)
	}
	return fh, nil
}

func (f *FileSource) String() string { return f.path }
