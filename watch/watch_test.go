package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/relax"
	"github.com/drix00/xray-spectrum-analyzer/source"
	"github.com/drix00/xray-spectrum-analyzer/subshell"
)

const waitFor = 5 * time.Second

func newWatcher(t *testing.T, path string, results chan error) *Watcher {
	t.Helper()
	w, err := New(path, zaptest.NewLogger(t).Sugar(),
		WithDebounce(20*time.Millisecond),
		WithResultHook(func(_ string, err error) { results <- err }),
	)
	require.NoError(t, err)
	return w
}

func TestWatcherReloadsStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdrelax.p11")
	header := " IZ IS0 IS1 IS2  Probability  Energy (eV)\n"
	require.NoError(t, os.WriteFile(path, []byte(header+"  6   1   4   0  1.0E-03  2.82030E+02\n"), 0o644))

	store := relax.New(source.File(path))
	ctx := context.Background()
	_, err := store.XrayTransition(ctx, 6, subshell.K, subshell.L3)
	require.NoError(t, err)

	results := make(chan error, 8)
	w := newWatcher(t, path, results)
	w.OnChange(store)
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// replace atomically so no reload can see a half-written table
	next := filepath.Join(dir, "pdrelax.p11.tmp")
	require.NoError(t, os.WriteFile(next, []byte(header+
		"  6   1   4   0  1.0E-03  2.82030E+02\n"+
		"  6   1   3   0  5.0E-04  2.82020E+02\n"), 0o644))
	require.NoError(t, os.Rename(next, path))

	select {
	case err := <-results:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("no reload after write")
	}

	kl2, err := store.XrayTransition(ctx, 6, subshell.K, subshell.L2)
	require.NoError(t, err)
	assert.InDelta(t, 282.02, kl2.EnergyEV, 1e-9)
	assert.GreaterOrEqual(t, store.Reads(), 2)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chspect-05.dat")
	require.NoError(t, os.WriteFile(path, []byte("0\n"), 0o644))

	var calls atomic.Int32
	results := make(chan error, 8)
	w, err := New(path, nil,
		WithDebounce(200*time.Millisecond),
		WithResultHook(func(_ string, err error) { results <- err }),
	)
	require.NoError(t, err)
	w.OnChange(ReloaderFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	}))
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('0' + i), '\n'}, 0o644))
	}

	select {
	case <-results:
	case <-time.After(waitFor):
		t.Fatal("no reload after burst")
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestWatcherKeepsGoingAfterFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pe-intens-05.dat")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	var good atomic.Int32
	results := make(chan error, 8)
	w := newWatcher(t, path, results)
	w.OnChange(ReloaderFunc(func(context.Context) error { return errors.New("malformed") }))
	w.OnChange(ReloaderFunc(func(context.Context) error {
		good.Add(1)
		return nil
	}))
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for round := 1; round <= 2; round++ {
		require.NoError(t, os.WriteFile(path, []byte("y\n"), 0o644))
		select {
		case err := <-results:
			require.Error(t, err)
			assert.Contains(t, err.Error(), "malformed")
		case <-time.After(waitFor):
			t.Fatalf("no reload in round %d", round)
		}
		assert.EqualValues(t, round, good.Load())
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdrelax.p11")
	require.NoError(t, os.WriteFile(path, []byte("0\n"), 0o644))

	results := make(chan error, 8)
	w := newWatcher(t, path, results)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pdrelax.p11.back1"), []byte("0\n"), 0o644))

	select {
	case <-results:
		t.Fatal("reloaded for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdrelax.p11")

	t.Run("directory must exist", func(t *testing.T) {
		_, err := New(filepath.Join(path, "missing", "file"), nil)
		require.Error(t, err)
	})

	t.Run("start twice", func(t *testing.T) {
		w, err := New(path, nil)
		require.NoError(t, err)
		require.NoError(t, w.Start(context.Background()))
		assert.Error(t, w.Start(context.Background()))
		assert.NoError(t, w.Stop())
	})

	t.Run("stop without start", func(t *testing.T) {
		w, err := New(path, nil)
		require.NoError(t, err)
		assert.NoError(t, w.Stop())
	})

	t.Run("context cancel stops the loop", func(t *testing.T) {
		w, err := New(path, nil)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, w.Start(ctx))
		cancel()

		select {
		case <-w.done:
		case <-time.After(waitFor):
			t.Fatal("loop still running after cancel")
		}
		assert.Equal(t, filepath.Clean(path), w.Path())
	})
}
