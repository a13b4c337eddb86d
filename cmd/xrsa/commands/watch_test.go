package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drix00/xray-spectrum-analyzer/am"
	"github.com/drix00/xray-spectrum-analyzer/catalog"
	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/penepma"
	"github.com/drix00/xray-spectrum-analyzer/relax"
	"github.com/drix00/xray-spectrum-analyzer/source"
)

func TestWatchTargets(t *testing.T) {
	fx := setup(t)
	t.Setenv("XRSA_DATA_INTENSITIES", fx.intensities)
	t.Setenv("XRSA_DATA_CONVOLVED_SPECTRUM", "chspect-05.dat")

	s, err := openStores(context.Background())
	require.NoError(t, err)
	targets, err := watchTargets(s, nil)
	require.NoError(t, err)

	require.Len(t, targets, 3)
	assert.Equal(t, relax.TableName, targets[0].table)
	assert.Equal(t, fx.relax, targets[0].path)
	assert.Equal(t, penepma.IntensitiesTable, targets[1].table)
	assert.Equal(t, penepma.ConvolvedSpectrumTable, targets[2].table)
	assert.Equal(t, filepath.Join(fx.dir, "chspect-05.dat"), targets[2].path, "relative names resolve against the working directory")
}

func TestWatchTargetsRequireFilesystem(t *testing.T) {
	setup(t)
	cfg, err := am.Load()
	require.NoError(t, err)
	src := cfg.Source
	src.S3.Bucket = "tables"

	s := &stores{cfg: cfg, factory: source.NewFactoryWithClient(src, nil)}
	_, err = watchTargets(s, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestWatchTargetExportsCatalog(t *testing.T) {
	fx := setup(t)
	db, err := catalog.OpenWithMigrations(filepath.Join(fx.dir, "watch.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	s, err := openStores(context.Background())
	require.NoError(t, err)
	targets, err := watchTargets(s, db)
	require.NoError(t, err)
	require.Len(t, targets, 1)

	require.NoError(t, targets[0].reloader.Reload(context.Background()))
	totals, err := catalog.Counts(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, catalog.Totals{AtomicNumbers: 5, Xray: 20, Auger: 15}, totals)
}

func TestStartWatchersReloadsOnChange(t *testing.T) {
	fx := setup(t)
	table := filepath.Join(fx.dir, "pdrelax.p11")
	data, err := os.ReadFile(fx.relax)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(table, data, 0o644))
	t.Setenv("XRSA_DATA_RELAX", table)

	s, err := openStores(context.Background())
	require.NoError(t, err)
	targets, err := watchTargets(s, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out syncBuffer
	watchers, err := startWatchers(ctx, targets, 20*time.Millisecond, &out)
	require.NoError(t, err)
	require.Len(t, watchers, 1)
	defer watchers[0].Stop()
	assert.Contains(t, out.String(), table)

	next := table + ".tmp"
	require.NoError(t, os.WriteFile(next, data, 0o644))
	require.NoError(t, os.Rename(next, table))

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Reloaded "+table)
	}, 5*time.Second, 10*time.Millisecond)
}
