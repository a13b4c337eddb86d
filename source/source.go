// Package source abstracts where a backing table lives.
//
// Stores never write to a source. A source is asked two things: does the
// table exist (Stat) and give me its bytes (Open). The distinction matters:
// a missing table is an error reported to the caller, while a table that
// exists but cannot be streamed is treated as "no data yet".
package source

import (
	"context"
	"io"
	"time"
)

// Info describes a table that exists.
type Info struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Source is a read-only handle to one table.
type Source interface {
	// Stat fails with errors.ErrSourceMissing if the table does not exist.
	Stat(ctx context.Context) (Info, error)
	// Open fails with errors.ErrSourceUnreadable if the table cannot be streamed.
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}
