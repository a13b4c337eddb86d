package relax

import (
	"context"
	"io"

	"github.com/drix00/xray-spectrum-analyzer/lazy"
	"github.com/drix00/xray-spectrum-analyzer/subshell"
	"github.com/drix00/xray-spectrum-analyzer/table"
)

type dataset struct {
	xray  lazy.Index[XrayTransition]
	auger lazy.Index[AugerTransition]
}

// decode parses the combined relaxation table. A row whose fourth column is
// 0 is an x-ray transition (final = intermediate); any other value makes it
// an Auger transition.
func decode(ctx context.Context, r io.Reader) (dataset, int, error) {
	var d dataset
	err := table.Scan(r, table.RelaxFormat, func(row table.Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		z, err := row.Int(0)
		if err != nil {
			return err
		}
		initial, err := row.Subshell(1)
		if err != nil {
			return err
		}
		intermediate, err := row.Subshell(2)
		if err != nil {
			return err
		}
		finalCode, err := row.Int(3)
		if err != nil {
			return err
		}
		probability, err := row.Float(4)
		if err != nil {
			return err
		}
		energy, err := row.Float(5)
		if err != nil {
			return err
		}

		if finalCode == 0 {
			d.xray.Add(z, XrayTransition{
				Initial:     initial,
				Final:       intermediate,
				Probability: probability,
				EnergyEV:    energy,
			})
			return nil
		}

		final, err := row.Subshell(3)
		if err != nil {
			return err
		}
		d.auger.Add(z, AugerTransition{
			Initial:      initial,
			Intermediate: intermediate,
			Final:        final,
			Probability:  probability,
			EnergyEV:     energy,
		})
		return nil
	})
	if err != nil {
		return dataset{}, 0, err
	}

	for _, z := range d.xray.Keys() {
		d.xray.Mutate(z, normalizeFractions)
	}
	return d, d.xray.Count() + d.auger.Count(), nil
}

// normalizeFractions sets each record's Fraction within its principal shell.
// A shell whose probabilities sum to zero leaves its fractions at 0.
func normalizeFractions(recs []XrayTransition) {
	var totals [subshell.ShellQ + 1]float64
	for _, r := range recs {
		if sh := r.Initial.Shell(); sh != subshell.NoShell {
			totals[sh] += r.Probability
		}
	}
	for i := range recs {
		sh := recs[i].Initial.Shell()
		if sh == subshell.NoShell || totals[sh] == 0 {
			recs[i].Fraction = 0
			continue
		}
		recs[i].Fraction = recs[i].Probability / totals[sh]
	}
}
