// Package penepma reads PENEPMA simulation output: characteristic line
// intensities (pe-intens-NN.dat), the raw spectrum with uncertainties
// (pe-spect-NN.dat) and the detector-convolved spectrum (chspect-NN.dat).
//
// Every store is lazy: the file is read on first use, then served from memory
// until Reload. Intensities are per unit solid angle and per primary electron (1/sr/e).
package penepma

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/lazy"
	"github.com/drix00/xray-spectrum-analyzer/logger"
	"github.com/drix00/xray-spectrum-analyzer/source"
	"github.com/drix00/xray-spectrum-analyzer/subshell"
	"github.com/drix00/xray-spectrum-analyzer/table"
)

// IntensitiesTable identifies intensity files in logs and metrics.
const IntensitiesTable = "intensity"

// Intensity is one simulated characteristic line. Uncertainties are 3 sigma.
type Intensity struct {
	Initial  subshell.Subshell `json:"initial"`
	Final    subshell.Subshell `json:"final"`
	EnergyEV float64           `json:"energy_ev"`

	// photons from electron interactions
	Primary      float64 `json:"primary"`
	PrimaryError float64 `json:"primary_error"`
	// fluorescence from characteristic x rays
	CharacteristicFluorescence      float64 `json:"characteristic_fluorescence"`
	CharacteristicFluorescenceError float64 `json:"characteristic_fluorescence_error"`
	// fluorescence from bremsstrahlung
	BremsstrahlungFluorescence      float64 `json:"bremsstrahlung_fluorescence"`
	BremsstrahlungFluorescenceError float64 `json:"bremsstrahlung_fluorescence_error"`
	TotalFluorescence               float64 `json:"total_fluorescence"`
	TotalFluorescenceError          float64 `json:"total_fluorescence_error"`
	Total                           float64 `json:"total"`
	TotalError                      float64 `json:"total_error"`
}

// Label returns the line notation, e.g. "K-L3".
func (i Intensity) Label() string {
	return i.Initial.Label() + "-" + i.Final.Label()
}

func decodeIntensities(ctx context.Context, r io.Reader) (lazy.Index[Intensity], int, error) {
	var ix lazy.Index[Intensity]
	err := table.Scan(r, table.IntensityFormat, func(row table.Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		z, err := row.Int(0)
		if err != nil {
			return err
		}
		var rec Intensity
		if rec.Initial, err = row.SubshellLabel(1); err != nil {
			return err
		}
		if rec.Final, err = row.SubshellLabel(2); err != nil {
			return err
		}
		values := []*float64{
			&rec.EnergyEV,
			&rec.Primary, &rec.PrimaryError,
			&rec.CharacteristicFluorescence, &rec.CharacteristicFluorescenceError,
			&rec.BremsstrahlungFluorescence, &rec.BremsstrahlungFluorescenceError,
			&rec.TotalFluorescence, &rec.TotalFluorescenceError,
			&rec.Total, &rec.TotalError,
		}
		for i, dst := range values {
			if *dst, err = row.Float(3 + i); err != nil {
				return err
			}
		}
		ix.Add(z, rec)
		return nil
	})
	if err != nil {
		return lazy.Index[Intensity]{}, 0, err
	}
	return ix, ix.Count(), nil
}

// Intensities serves one pe-intens-NN.dat file. Safe for concurrent use.
type Intensities struct {
	cache *lazy.Cache[lazy.Index[Intensity]]
	log   *zap.SugaredLogger
}

// NewIntensities returns a store reading src on first use.
func NewIntensities(src source.Source, opts ...lazy.Option) *Intensities {
	return &Intensities{
		cache: lazy.New(IntensitiesTable, src, decodeIntensities, opts...),
		log:   logger.AddIntensitySymbol(lazy.Logger(opts...)),
	}
}

func (s *Intensities) data(ctx context.Context) (lazy.Index[Intensity], error) {
	ix, _, err := s.cache.Get(ctx)
	return ix, err
}

// Intensity returns the line of z from initial to final.
func (s *Intensities) Intensity(ctx context.Context, z int, initial, final subshell.Subshell) (Intensity, error) {
	ix, err := s.data(ctx)
	if err != nil {
		return Intensity{}, err
	}
	if !ix.Has(z) {
		s.cache.RecordLookup(false)
		return Intensity{}, errors.Wrapf(errors.ErrAtomicNumberNotFound, "intensities for Z=%d", z)
	}

	var found *Intensity
	ix.Each(z, func(r *Intensity) bool {
		if r.Initial == initial && r.Final == final {
			found = r
			return false
		}
		return true
	})
	if found == nil {
		s.log.Debugw("intensity not found",
			logger.FieldAtomicNumber, z,
			logger.FieldInitial, initial.Label(),
			logger.FieldFinal, final.Label())
		s.cache.RecordLookup(false)
		return Intensity{}, errors.Wrapf(errors.ErrTransitionNotFound, "Z=%d %s-%s", z, initial.Label(), final.Label())
	}
	s.cache.RecordLookup(true)
	return *found, nil
}

// IntensitiesOf returns every line of z in file order; empty for an unknown atomic number.
func (s *Intensities) IntensitiesOf(ctx context.Context, z int) ([]Intensity, error) {
	ix, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.RecordLookup(ix.Has(z))
	return ix.Records(z), nil
}

// IntensitiesFrom returns the lines of z whose initial subshell is initial.
func (s *Intensities) IntensitiesFrom(ctx context.Context, z int, initial subshell.Subshell) ([]Intensity, error) {
	ix, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	var out []Intensity
	ix.Each(z, func(r *Intensity) bool {
		if r.Initial == initial {
			out = append(out, *r)
		}
		return true
	})
	s.cache.RecordLookup(len(out) > 0)
	return out, nil
}

// AtomicNumbers returns the atomic numbers present, ascending.
func (s *Intensities) AtomicNumbers(ctx context.Context) ([]int, error) {
	ix, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Keys(), nil
}

// Reload re-reads the file; the previous data stays in place if it fails.
func (s *Intensities) Reload(ctx context.Context) error { return s.cache.Reload(ctx) }

// Loaded reports whether the file has been read successfully.
func (s *Intensities) Loaded() bool { return s.cache.Loaded() }

// Reads returns how many times the file has been opened.
func (s *Intensities) Reads() int { return s.cache.Reads() }

// Source returns the backing file.
func (s *Intensities) Source() source.Source { return s.cache.Source() }
