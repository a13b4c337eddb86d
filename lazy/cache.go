// Package lazy holds one parsed table per source and loads it on first use.
//
// The load protocol is the same for every table kind:
//
//   - the source must exist (Stat); otherwise the error goes to the caller
//     and nothing is cached
//   - if the source exists but cannot be opened, the load is a silent no-op:
//     nothing is cached, no error is returned, and the next Get retries
//   - a decode error (malformed number) fails the whole load; no partial
//     data is ever visible
//   - once a load succeeds it is never repeated by Get, even when a lookup
//     misses; only Reload parses the source again
package lazy

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/logger"
	"github.com/drix00/xray-spectrum-analyzer/source"
)

// Decoder parses a table stream into a dataset and reports how many records it holds.
type Decoder[D any] func(ctx context.Context, r io.Reader) (D, int, error)

// Cache owns the dataset decoded from one source.
type Cache[D any] struct {
	name   string
	src    source.Source
	decode Decoder[D]
	log    *zap.SugaredLogger
	obs    Observer

	mu     sync.RWMutex
	data   D
	loaded bool
	reads  atomic.Int64
}

// New creates an empty cache; nothing is read until Get or Reload.
func New[D any](name string, src source.Source, decode Decoder[D], opts ...Option) *Cache[D] {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	return &Cache[D]{
		name:   name,
		src:    src,
		decode: decode,
		log:    logger.ChildLogger(logger.OrNop(s.log), logger.FieldTable, name, logger.FieldSource, src.String()),
		obs:    orNopObserver(s.obs),
	}
}

// Get returns the dataset, loading it first if no load has succeeded yet.
// The bool is false when the source exists but could not be read; D is then
// the zero value and callers should treat every lookup as a miss.
func (c *Cache[D]) Get(ctx context.Context) (D, bool, error) {
	c.mu.RLock()
	if c.loaded {
		data := c.data
		c.mu.RUnlock()
		return data, true, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	// another caller may have loaded while we waited
	if c.loaded {
		return c.data, true, nil
	}

	var zero D
	data, err := c.load(ctx)
	if err != nil {
		if errors.IsSourceUnreadable(err) && ctx.Err() == nil {
			c.log.Warnw("table unreadable, serving no data", logger.FieldError, err)
			return zero, false, nil
		}
		return zero, false, err
	}
	c.data = data
	c.loaded = true
	return data, true, nil
}

// Reload parses the source again and swaps the result in only if the whole
// parse succeeds. On failure the previous dataset stays in place and the
// error is returned, including for an unreadable source.
func (c *Cache[D]) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.load(ctx)
	if err != nil {
		if c.loaded {
			c.log.Warnw("reload failed, keeping previous data", logger.FieldError, err)
		}
		return err
	}
	c.data = data
	c.loaded = true
	return nil
}

// Loaded reports whether a load has succeeded.
func (c *Cache[D]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Reads returns how many times the source has been opened.
func (c *Cache[D]) Reads() int {
	return int(c.reads.Load())
}

// Name returns the table name used in logs and metrics.
func (c *Cache[D]) Name() string { return c.name }

// Source returns the backing source.
func (c *Cache[D]) Source() source.Source { return c.src }

// RecordLookup reports a lookup outcome to the observer.
func (c *Cache[D]) RecordLookup(hit bool) {
	c.obs.ObserveLookup(c.name, hit)
}

// load must be called with mu held.
func (c *Cache[D]) load(ctx context.Context) (D, error) {
	var zero D
	start := time.Now()

	if _, err := c.src.Stat(ctx); err != nil {
		c.log.Debugw("table missing", logger.FieldError, err)
		c.obs.ObserveLoad(c.name, time.Since(start), 0, err)
		return zero, err
	}

	rc, err := c.src.Open(ctx)
	if err != nil {
		c.obs.ObserveLoad(c.name, time.Since(start), 0, err)
		return zero, err
	}
	c.reads.Add(1)
	defer rc.Close()

	data, n, err := c.decode(ctx, rc)
	elapsed := time.Since(start)
	if err != nil {
		err = errors.Wrapf(err, "load %s table from %s", c.name, c.src)
		c.obs.ObserveLoad(c.name, elapsed, 0, err)
		return zero, err
	}

	c.obs.ObserveLoad(c.name, elapsed, n, nil)
	c.log.Infow("table loaded",
		logger.FieldRecords, n,
		logger.FieldDurationMS, elapsed.Milliseconds())
	return data, nil
}
