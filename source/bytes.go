package source

import (
	"bytes"
	"context"
	"io"
	"time"
)

// BytesSource serves a table held in memory. It always exists.
type BytesSource struct {
	name    string
	data    []byte
	modTime time.Time
}

// Bytes returns an in-memory source. data is not copied; do not modify it afterwards.
func Bytes(name string, data []byte) *BytesSource {
	return &BytesSource{name: name, data: data, modTime: time.Now()}
}

func (b *BytesSource) Stat(ctx context.Context) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	return Info{Name: b.name, Size: int64(len(b.data)), ModTime: b.modTime}, nil
}

func (b *BytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func (b *BytesSource) String() string { return b.name }
