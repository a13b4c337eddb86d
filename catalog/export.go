package catalog

import (
	"context"
	"database/sql"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/relax"
)

// TransitionSource is the read side of a relaxation store.
type TransitionSource interface {
	AtomicNumbers(ctx context.Context) ([]int, error)
	XrayTransitions(ctx context.Context, z int) ([]relax.XrayTransition, error)
	AugerTransitions(ctx context.Context, z int) ([]relax.AugerTransition, error)
	// Loaded is false when the table exists but could not be read; lookups
	// then come back empty without an error.
	Loaded() bool
}

// Totals counts catalog rows.
type Totals struct {
	AtomicNumbers int `json:"atomic_numbers"`
	Xray          int `json:"xray_transitions"`
	Auger         int `json:"auger_transitions"`
}

type elementRows struct {
	z     int
	xray  []relax.XrayTransition
	auger []relax.AugerTransition
}

// Export replaces the catalog rows of each atomic number in zs with the
// records held by src, in one transaction. No zs exports every atomic number
// src knows. The returned totals count the rows written. If src could not be
// read the catalog is left untouched and ErrSourceUnreadable is returned.
func Export(ctx context.Context, db *sql.DB, src TransitionSource, zs ...int) (Totals, error) {
	if len(zs) == 0 {
		all, err := src.AtomicNumbers(ctx)
		if err != nil {
			return Totals{}, errors.Wrap(err, "list atomic numbers")
		}
		zs = all
	}

	// read everything before touching the catalog so a load failure leaves it as is
	rows := make([]elementRows, 0, len(zs))
	for _, z := range zs {
		x, err := src.XrayTransitions(ctx, z)
		if err != nil {
			return Totals{}, errors.Wrapf(err, "x-ray transitions for Z=%d", z)
		}
		a, err := src.AugerTransitions(ctx, z)
		if err != nil {
			return Totals{}, errors.Wrapf(err, "Auger transitions for Z=%d", z)
		}
		rows = append(rows, elementRows{z: z, xray: x, auger: a})
	}
	if !src.Loaded() {
		return Totals{}, errors.Wrap(errors.ErrSourceUnreadable, "relaxation table not loaded; catalog left unchanged")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Totals{}, errors.Wrap(markClosed(err), "begin export")
	}

	var totals Totals
	for _, r := range rows {
		if err := writeElement(ctx, tx, r); err != nil {
			tx.Rollback()
			return Totals{}, markClosed(err)
		}
		totals.AtomicNumbers++
		totals.Xray += len(r.xray)
		totals.Auger += len(r.auger)
	}

	if err := tx.Commit(); err != nil {
		return Totals{}, errors.Wrap(markClosed(err), "commit export")
	}
	return totals, nil
}

func writeElement(ctx context.Context, tx *sql.Tx, r elementRows) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM xray_transitions WHERE atomic_number = ?", r.z); err != nil {
		return errors.Wrapf(err, "clear x-ray transitions for Z=%d", r.z)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM auger_transitions WHERE atomic_number = ?", r.z); err != nil {
		return errors.Wrapf(err, "clear Auger transitions for Z=%d", r.z)
	}

	for i, t := range r.xray {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO xray_transitions (atomic_number, seq, initial, final, probability, energy_ev, fraction)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.z, i, t.Initial.Label(), t.Final.Label(), t.Probability, t.EnergyEV, t.Fraction)
		if err != nil {
			return errors.Wrapf(err, "insert Z=%d %s", r.z, t.Label())
		}
	}
	for i, t := range r.auger {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO auger_transitions (atomic_number, seq, initial, intermediate, final, probability, energy_ev)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.z, i, t.Initial.Label(), t.Intermediate.Label(), t.Final.Label(), t.Probability, t.EnergyEV)
		if err != nil {
			return errors.Wrapf(err, "insert Z=%d %s", r.z, t.Label())
		}
	}
	return nil
}

// Counts reports what the catalog currently holds.
func Counts(ctx context.Context, db *sql.DB) (Totals, error) {
	var t Totals
	queries := []struct {
		sql string
		dst *int
	}{
		{"SELECT COUNT(*) FROM xray_transitions", &t.Xray},
		{"SELECT COUNT(*) FROM auger_transitions", &t.Auger},
		{`SELECT COUNT(*) FROM (
			SELECT atomic_number FROM xray_transitions
			UNION
			SELECT atomic_number FROM auger_transitions)`, &t.AtomicNumbers},
	}
	for _, q := range queries {
		if err := db.QueryRowContext(ctx, q.sql).Scan(q.dst); err != nil {
			return Totals{}, errors.Wrap(markClosed(err), "count catalog rows")
		}
	}
	return t, nil
}
