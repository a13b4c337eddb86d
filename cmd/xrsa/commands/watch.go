package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/drix00/xray-spectrum-analyzer/catalog"
	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/logger"
	"github.com/drix00/xray-spectrum-analyzer/penepma"
	"github.com/drix00/xray-spectrum-analyzer/relax"
	"github.com/drix00/xray-spectrum-analyzer/source"
	"github.com/drix00/xray-spectrum-analyzer/sym"
	"github.com/drix00/xray-spectrum-analyzer/watch"
)

// WatchCmd reloads tables when their files change
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: sym.Watch + " Reload tables when their files change",
	Long: sym.Watch + ` watch — Keep configured tables loaded and reload them on change

Every table named in the data section of am.toml is loaded, then reloaded
whenever its file is rewritten. A reload that fails keeps the previous
data. Only the fs source driver can be watched.

Examples:
  xrsa watch                               # reload until interrupted
  xrsa watch --export                      # also refresh the catalog
  xrsa watch --metrics-addr :9464          # serve Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchExport      bool
	watchMetricsAddr string
)

func init() {
	WatchCmd.Flags().BoolVar(&watchExport, "export", false, "Re-export the catalog after each relaxation table reload")
	WatchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
}

// watchTarget is one table file and the store reloaded when it changes.
type watchTarget struct {
	table    string
	path     string
	reloader watch.Reloader
}

// pather is implemented by file sources.
type pather interface {
	Path() string
}

func watchTargets(s *stores, db *sql.DB) ([]watchTarget, error) {
	if s.factory.Driver() != source.DriverFS {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("cannot watch tables on the %s driver", s.factory.Driver()),
			"set source.driver = \"fs\" to use watch")
	}

	var targets []watchTarget
	add := func(table, name string, r watch.Reloader) error {
		p, ok := s.factory.Source(name).(pather)
		if !ok {
			return errors.Newf("%s table %s is not a file", table, name)
		}
		targets = append(targets, watchTarget{table: table, path: p.Path(), reloader: r})
		return nil
	}

	store := s.relax()
	var r watch.Reloader = store
	if db != nil {
		r = watch.ReloaderFunc(func(ctx context.Context) error {
			if err := store.Reload(ctx); err != nil {
				return err
			}
			totals, err := catalog.Export(ctx, db, store)
			if err != nil {
				return err
			}
			logger.Infow("catalog refreshed", logger.FieldCount, totals.AtomicNumbers)
			return nil
		})
	}
	if err := add(relax.TableName, s.cfg.Data.Relax, r); err != nil {
		return nil, err
	}

	data := s.cfg.Data
	if data.Intensities != "" {
		if err := add(penepma.IntensitiesTable, data.Intensities,
			penepma.NewIntensities(s.factory.Source(data.Intensities), storeOptions()...)); err != nil {
			return nil, err
		}
	}
	if data.Spectrum != "" {
		if err := add(penepma.SpectrumTable, data.Spectrum,
			penepma.NewSpectrum(s.factory.Source(data.Spectrum), storeOptions()...)); err != nil {
			return nil, err
		}
	}
	if data.ConvolvedSpectrum != "" {
		if err := add(penepma.ConvolvedSpectrumTable, data.ConvolvedSpectrum,
			penepma.NewConvolvedSpectrum(s.factory.Source(data.ConvolvedSpectrum), storeOptions()...)); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchMetricsAddr != "" {
		if err := EnableMetrics(); err != nil {
			return err
		}
	}

	s, err := openStores(ctx)
	if err != nil {
		return err
	}

	var db *sql.DB
	if watchExport {
		db, err = catalog.OpenWithMigrations(s.cfg.Catalog.Path, logger.Logger)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	targets, err := watchTargets(s, db)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	watchers, err := startWatchers(ctx, targets, s.cfg.Watch.Debounce(), w)
	defer func() {
		for _, wt := range watchers {
			wt.Stop()
		}
	}()
	if err != nil {
		return err
	}

	if watchMetricsAddr != "" {
		srv := &http.Server{Addr: watchMetricsAddr, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorw("metrics server stopped", logger.FieldError, err)
			}
		}()
		defer srv.Close()
		pterm.Info.WithWriter(w).Printfln("Serving metrics on %s/metrics", watchMetricsAddr)
	}

	pterm.Info.WithWriter(w).Printfln("%s Watching %d tables, press Ctrl+C to stop", sym.Watch, len(targets))
	<-ctx.Done()
	return nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	return mux
}

// startWatchers loads every target once, then watches it. Watchers started
// before a failure are returned so the caller can stop them.
func startWatchers(ctx context.Context, targets []watchTarget, debounce time.Duration, out io.Writer) ([]*watch.Watcher, error) {
	var opts []watch.Option
	if debounce > 0 {
		opts = append(opts, watch.WithDebounce(debounce))
	}
	opts = append(opts, watch.WithResultHook(func(path string, err error) {
		if err != nil {
			pterm.Error.WithWriter(out).Printfln("Reload of %s failed: %v", path, err)
			return
		}
		pterm.Success.WithWriter(out).Printfln("Reloaded %s", path)
	}))

	var watchers []*watch.Watcher
	for _, t := range targets {
		// a missing file is not fatal; it is loaded once it appears
		if err := t.reloader.Reload(ctx); err != nil {
			logger.Warnw("initial load failed", logger.FieldTable, t.table, logger.FieldPath, t.path, logger.FieldError, err)
		}

		wt, err := watch.New(t.path, logger.Logger, opts...)
		if err != nil {
			return watchers, errors.Wrapf(err, "watch %s table", t.table)
		}
		wt.OnChange(t.reloader)
		if err := wt.Start(ctx); err != nil {
			wt.Stop()
			return watchers, err
		}
		watchers = append(watchers, wt)
		fmt.Fprintf(out, "  %s %-20s %s\n", sym.Watch, t.table, t.path)
	}
	return watchers, nil
}
