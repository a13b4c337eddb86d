package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/lazy"
	"github.com/drix00/xray-spectrum-analyzer/source"
)

var _ lazy.Observer = (*Recorder)(nil)

func TestRecorderLoads(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)

	rec.ObserveLoad("relax", 20*time.Millisecond, 42, nil)
	rec.ObserveLoad("relax", 5*time.Millisecond, 0, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.loads.WithLabelValues("relax", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.loads.WithLabelValues("relax", ResultError)))
	assert.Equal(t, 42.0, testutil.ToFloat64(rec.records.WithLabelValues("relax")), "failed loads keep the last count")
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration))

	snap := rec.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "relax", snap[0].Table)
	assert.EqualValues(t, 2, snap[0].Loads)
	assert.EqualValues(t, 1, snap[0].LoadErrors)
	assert.Equal(t, 42, snap[0].Records)
	assert.InDelta(t, 25.0, snap[0].LoadTimeMS, 1e-9)
}

func TestRecorderLookups(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)

	rec.ObserveLookup("intensity", true)
	rec.ObserveLookup("intensity", true)
	rec.ObserveLookup("intensity", false)
	rec.ObserveLookup("relax", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.lookups.WithLabelValues("intensity", ResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.lookups.WithLabelValues("intensity", ResultMiss)))

	snap := rec.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "intensity", snap[0].Table)
	assert.EqualValues(t, 2, snap[0].LookupHits)
	assert.EqualValues(t, 1, snap[0].LookupMisses)
	assert.Equal(t, "relax", snap[1].Table)
}

func TestRecorderDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register table metrics")
}

func TestRecorderObservesCache(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)

	lines := func(_ context.Context, r io.Reader) (int, int, error) {
		b, err := io.ReadAll(r)
		if err != nil {
			return 0, 0, err
		}
		n := strings.Count(string(b), "\n")
		return n, n, nil
	}
	c := lazy.New("lines", source.Bytes("lines.txt", []byte("a\nb\nc\n")), lines, lazy.WithObserver(rec))

	n, ok, err := c.Get(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, n)
	c.RecordLookup(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.loads.WithLabelValues("lines", ResultSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.records.WithLabelValues("lines")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.lookups.WithLabelValues("lines", ResultHit)))
}

func TestRecorderHandler(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)
	rec.ObserveLoad("spectrum", time.Millisecond, 1000, nil)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `xrsa_table_loads_total{result="success",table="spectrum"} 1`)
	assert.Contains(t, string(body), `xrsa_table_records{table="spectrum"} 1000`)
}
