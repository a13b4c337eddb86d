package catalog

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	xrsatest "github.com/drix00/xray-spectrum-analyzer/internal/testing"
	"github.com/drix00/xray-spectrum-analyzer/relax"
	"github.com/drix00/xray-spectrum-analyzer/source"
	"github.com/drix00/xray-spectrum-analyzer/subshell"
)

func migratedDB(t *testing.T) *sql.DB {
	t.Helper()
	db := xrsatest.CreateTestDB(t)
	require.NoError(t, Migrate(db, nil))
	return db
}

func fixtureStore(t *testing.T) *relax.Store {
	t.Helper()
	return relax.New(source.File(xrsatest.Fixture(t, xrsatest.RelaxTable)))
}

func TestExportAll(t *testing.T) {
	db := migratedDB(t)
	ctx := context.Background()

	totals, err := Export(ctx, db, fixtureStore(t))
	require.NoError(t, err)
	assert.Equal(t, Totals{AtomicNumbers: 5, Xray: 20, Auger: 15}, totals)

	counted, err := Counts(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, totals, counted)

	var fraction, energy float64
	require.NoError(t, db.QueryRow(
		"SELECT fraction, energy_ev FROM xray_transitions WHERE atomic_number = 29 AND initial = 'K' AND final = 'L3'",
	).Scan(&fraction, &energy))
	assert.InDelta(t, 0.295/0.5005, fraction, 1e-9)
	assert.InDelta(t, 8047.78, energy, 1e-9)

	var first string
	require.NoError(t, db.QueryRow(
		"SELECT initial || '-' || final FROM xray_transitions WHERE atomic_number = 29 ORDER BY seq LIMIT 1",
	).Scan(&first))
	assert.Equal(t, "K-L2", first, "table order is kept")
}

func TestExportReplacesRows(t *testing.T) {
	db := migratedDB(t)
	ctx := context.Background()
	store := fixtureStore(t)

	_, err := Export(ctx, db, store)
	require.NoError(t, err)

	totals, err := Export(ctx, db, store, 29)
	require.NoError(t, err)
	assert.Equal(t, Totals{AtomicNumbers: 1, Xray: 11, Auger: 3}, totals)

	counted, err := Counts(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Totals{AtomicNumbers: 5, Xray: 20, Auger: 15}, counted)
}

func TestExportUnknownAtomicNumber(t *testing.T) {
	db := migratedDB(t)

	totals, err := Export(context.Background(), db, fixtureStore(t), 92)
	require.NoError(t, err)
	assert.Equal(t, Totals{AtomicNumbers: 1}, totals)
}

func TestExportMissingTable(t *testing.T) {
	db := migratedDB(t)
	store := relax.New(source.File(filepath.Join(t.TempDir(), "pdrelax.p11")))

	_, err := Export(context.Background(), db, store)
	require.Error(t, err)
	assert.True(t, errors.IsSourceMissing(err))

	counted, err := Counts(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, Totals{}, counted)
}

type lockedTable struct{}

func (lockedTable) Stat(context.Context) (source.Info, error) { return source.Info{Name: "locked"}, nil }
func (lockedTable) Open(context.Context) (io.ReadCloser, error) {
	return nil, errors.Wrap(errors.ErrSourceUnreadable, "permission denied")
}
func (lockedTable) String() string { return "locked" }

func TestExportUnreadableTableKeepsRows(t *testing.T) {
	db := migratedDB(t)
	ctx := context.Background()

	before, err := Export(ctx, db, fixtureStore(t))
	require.NoError(t, err)

	for _, zs := range [][]int{{29}, nil} {
		_, err = Export(ctx, db, relax.New(lockedTable{}), zs...)
		require.Error(t, err)
		assert.True(t, errors.IsSourceUnreadable(err))

		counted, err := Counts(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, before, counted)
	}
}

type fixedSource struct {
	xray  []relax.XrayTransition
	auger []relax.AugerTransition
}

func (f fixedSource) AtomicNumbers(context.Context) ([]int, error) { return []int{29}, nil }

func (f fixedSource) Loaded() bool { return true }

func (f fixedSource) XrayTransitions(context.Context, int) ([]relax.XrayTransition, error) {
	return f.xray, nil
}

func (f fixedSource) AugerTransitions(context.Context, int) ([]relax.AugerTransition, error) {
	return f.auger, nil
}

func TestExportRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	src := fixedSource{xray: []relax.XrayTransition{
		{Initial: subshell.K, Final: subshell.L3, Probability: 0.295, EnergyEV: 8047.78, Fraction: 0.5894},
	}}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM xray_transitions").WithArgs(29).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM auger_transitions").WithArgs(29).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO xray_transitions").
		WithArgs(29, 0, "K", "L3", 0.295, 8047.78, 0.5894).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err = Export(context.Background(), db, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert Z=29 K-L3")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM xray_transitions").WithArgs(29).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM auger_transitions").WithArgs(29).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	_, err = Export(context.Background(), db, fixedSource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit export")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportClosedCatalog(t *testing.T) {
	db := migratedDB(t)
	db.Close()

	_, err := Export(context.Background(), db, fixedSource{})
	require.Error(t, err)
	assert.True(t, IsCatalogClosed(err))
	assert.True(t, errors.Is(err, ErrCatalogClosed))
}

func TestCountsQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("no such table: xray_transitions"))

	_, err = Counts(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count catalog rows")
	assert.False(t, IsCatalogClosed(err))
}
