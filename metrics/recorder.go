// Package metrics exports table load and lookup outcomes to Prometheus.
//
// A Recorder is passed to stores with lazy.WithObserver. It also keeps
// process-local totals so the CLI can print a summary without scraping.
package metrics

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drix00/xray-spectrum-analyzer/errors"
)

const namespace = "xrsa"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// Recorder implements lazy.Observer. Safe for concurrent use.
type Recorder struct {
	loads    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	records  *prometheus.GaugeVec
	lookups  *prometheus.CounterVec
	gatherer prometheus.Gatherer

	mu     sync.Mutex
	totals map[string]*TableTotals
}

// TableTotals is the local view of one table's activity.
type TableTotals struct {
	Table        string  `json:"table"`
	Loads        int64   `json:"loads"`
	LoadErrors   int64   `json:"load_errors"`
	Records      int     `json:"records"`
	LoadTimeMS   float64 `json:"load_time_ms_total"`
	LookupHits   int64   `json:"lookup_hits"`
	LookupMisses int64   `json:"lookup_misses"`
}

// NewRecorder registers the collectors on reg. A nil reg gets a private registry.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	rec := &Recorder{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_loads_total",
			Help:      "Table load attempts by outcome.",
		}, []string{"table", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_load_duration_seconds",
			Help:      "Time spent reading and decoding a table.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"table"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_records",
			Help:      "Records held after the last successful load.",
		}, []string{"table"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Lookups by outcome.",
		}, []string{"table", "result"}),
		gatherer: gatherer,
		totals:   make(map[string]*TableTotals),
	}

	for _, c := range []prometheus.Collector{rec.loads, rec.duration, rec.records, rec.lookups} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register table metrics")
		}
	}
	return rec, nil
}

func (r *Recorder) tableLocked(table string) *TableTotals {
	t, ok := r.totals[table]
	if !ok {
		t = &TableTotals{Table: table}
		r.totals[table] = t
	}
	return t
}

// ObserveLoad records one load attempt.
func (r *Recorder) ObserveLoad(table string, d time.Duration, records int, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.loads.WithLabelValues(table, result).Inc()
	r.duration.WithLabelValues(table).Observe(d.Seconds())
	if err == nil {
		r.records.WithLabelValues(table).Set(float64(records))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tableLocked(table)
	t.Loads++
	t.LoadTimeMS += float64(d) / float64(time.Millisecond)
	if err != nil {
		t.LoadErrors++
		return
	}
	t.Records = records
}

// ObserveLookup records one lookup.
func (r *Recorder) ObserveLookup(table string, hit bool) {
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	r.lookups.WithLabelValues(table, result).Inc()

	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.tableLocked(table)
	if hit {
		t.LookupHits++
	} else {
		t.LookupMisses++
	}
}

// Snapshot returns a copy of the local totals ordered by table name.
func (r *Recorder) Snapshot() []TableTotals {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TableTotals, 0, len(r.totals))
	for _, t := range r.totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out
}

// Handler serves the registered metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
