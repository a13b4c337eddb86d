// Package commands implements the xrsa subcommands.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/drix00/xray-spectrum-analyzer/am"
	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/lazy"
	"github.com/drix00/xray-spectrum-analyzer/logger"
	"github.com/drix00/xray-spectrum-analyzer/metrics"
	"github.com/drix00/xray-spectrum-analyzer/penepma"
	"github.com/drix00/xray-spectrum-analyzer/relax"
	"github.com/drix00/xray-spectrum-analyzer/source"
	"github.com/drix00/xray-spectrum-analyzer/subshell"
)

// recorder is shared by every store built for one invocation; nil unless
// metrics were requested.
var recorder *metrics.Recorder

// EnableMetrics makes every store built afterwards report to a Prometheus
// recorder. Calling it twice keeps the first recorder.
func EnableMetrics() error {
	if recorder != nil {
		return nil
	}
	rec, err := metrics.NewRecorder(nil)
	if err != nil {
		return err
	}
	recorder = rec
	return nil
}

// PrintMetrics writes the per-table totals collected so far.
func PrintMetrics(w io.Writer) error {
	if recorder == nil {
		return nil
	}
	snap := recorder.Snapshot()
	if len(snap) == 0 {
		return nil
	}
	data := pterm.TableData{{"Table", "Loads", "Errors", "Records", "Load ms", "Hits", "Misses"}}
	for _, t := range snap {
		data = append(data, []string{
			t.Table,
			strconv.FormatInt(t.Loads, 10),
			strconv.FormatInt(t.LoadErrors, 10),
			strconv.Itoa(t.Records),
			fmt.Sprintf("%.2f", t.LoadTimeMS),
			strconv.FormatInt(t.LookupHits, 10),
			strconv.FormatInt(t.LookupMisses, 10),
		})
	}
	fmt.Fprintln(w)
	return renderTable(w, data)
}

func storeOptions() []lazy.Option {
	opts := []lazy.Option{lazy.WithLogger(logger.Logger)}
	if recorder != nil {
		opts = append(opts, lazy.WithObserver(recorder))
	}
	return opts
}

func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return cfg, nil
}

// stores builds sources for the configured tables.
type stores struct {
	cfg     *am.Config
	factory *source.Factory
}

func openStores(ctx context.Context) (*stores, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	f, err := source.NewFactory(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	return &stores{cfg: cfg, factory: f}, nil
}

func (s *stores) relax() *relax.Store {
	return relax.New(s.factory.Source(s.cfg.Data.Relax), storeOptions()...)
}

// table picks the flag value over the configured name.
func (s *stores) table(flagValue, configured, key string) (source.Source, error) {
	name := flagValue
	if name == "" {
		name = configured
	}
	if name == "" {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("no %s table given", key),
			fmt.Sprintf("pass --file or set data.%s in am.toml", key))
	}
	return s.factory.Source(name), nil
}

func (s *stores) intensities(file string) (*penepma.Intensities, error) {
	src, err := s.table(file, s.cfg.Data.Intensities, "intensities")
	if err != nil {
		return nil, err
	}
	return penepma.NewIntensities(src, storeOptions()...), nil
}

func parseZ(arg string) (int, error) {
	z, err := strconv.Atoi(arg)
	if err != nil || z < 1 {
		return 0, errors.NewInvalidRequestError("atomic number %q is not a positive integer", arg)
	}
	return z, nil
}

// parseSubshell accepts a label ("L3") or a table code ("4").
func parseSubshell(arg string) (subshell.Subshell, error) {
	if code, err := strconv.Atoi(arg); err == nil {
		return subshell.FromCode(code)
	}
	return subshell.Parse(arg)
}

func parseSubshells(args ...string) ([]subshell.Subshell, error) {
	out := make([]subshell.Subshell, len(args))
	for i, a := range args {
		s, err := parseSubshell(a)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "format JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderTable(w io.Writer, data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
