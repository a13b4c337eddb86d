package penepma

import (
	"context"
	"io"
	"slices"

	"github.com/drix00/xray-spectrum-analyzer/lazy"
	"github.com/drix00/xray-spectrum-analyzer/source"
	"github.com/drix00/xray-spectrum-analyzer/table"
)

// Table names for logs and metrics.
const (
	SpectrumTable          = "spectrum"
	ConvolvedSpectrumTable = "convolved-spectrum"
)

// Spectrum holds parallel per-channel samples. Errors is nil for a convolved spectrum.
type Spectrum struct {
	EnergiesEV  []float64 `json:"energies_ev"`
	Intensities []float64 `json:"intensities"` // 1/(eV sr e)
	Errors      []float64 `json:"errors,omitempty"`
}

// Len returns the number of channels.
func (s Spectrum) Len() int { return len(s.EnergiesEV) }

func (s Spectrum) clone() Spectrum {
	return Spectrum{
		EnergiesEV:  slices.Clone(s.EnergiesEV),
		Intensities: slices.Clone(s.Intensities),
		Errors:      slices.Clone(s.Errors),
	}
}

func spectrumDecoder(f table.Format) lazy.Decoder[Spectrum] {
	withErrors := f.Fields >= 3
	return func(ctx context.Context, r io.Reader) (Spectrum, int, error) {
		var sp Spectrum
		err := table.Scan(r, f, func(row table.Row) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := row.Float(0)
			if err != nil {
				return err
			}
			v, err := row.Float(1)
			if err != nil {
				return err
			}
			if withErrors {
				u, err := row.Float(2)
				if err != nil {
					return err
				}
				sp.Errors = append(sp.Errors, u)
			}
			sp.EnergiesEV = append(sp.EnergiesEV, e)
			sp.Intensities = append(sp.Intensities, v)
			return nil
		})
		if err != nil {
			return Spectrum{}, 0, err
		}
		return sp, sp.Len(), nil
	}
}

type spectrumStore struct {
	cache *lazy.Cache[Spectrum]
}

func (s *spectrumStore) get(ctx context.Context) (Spectrum, error) {
	sp, ok, err := s.cache.Get(ctx)
	if err == nil {
		s.cache.RecordLookup(ok && sp.Len() > 0)
	}
	return sp, err
}

// Energies returns a copy of the channel energies in eV.
func (s *spectrumStore) Energies(ctx context.Context) ([]float64, error) {
	sp, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(sp.EnergiesEV), nil
}

// Intensities returns a copy of the channel intensities.
func (s *spectrumStore) Intensities(ctx context.Context) ([]float64, error) {
	sp, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(sp.Intensities), nil
}

// Samples returns a copy of the whole spectrum.
func (s *spectrumStore) Samples(ctx context.Context) (Spectrum, error) {
	sp, err := s.get(ctx)
	if err != nil {
		return Spectrum{}, err
	}
	return sp.clone(), nil
}

// Reload re-reads the file; the previous data stays in place if it fails.
func (s *spectrumStore) Reload(ctx context.Context) error { return s.cache.Reload(ctx) }

// Loaded reports whether the file has been read successfully.
func (s *spectrumStore) Loaded() bool { return s.cache.Loaded() }

// Reads returns how many times the file has been opened.
func (s *spectrumStore) Reads() int { return s.cache.Reads() }

// Source returns the backing file.
func (s *spectrumStore) Source() source.Source { return s.cache.Source() }

// ConvolvedSpectrumStore serves one chspect-NN.dat file: energy and intensity
// after the detector response has been applied.
type ConvolvedSpectrumStore struct {
	spectrumStore
}

// NewConvolvedSpectrum returns a store reading src on first use.
func NewConvolvedSpectrum(src source.Source, opts ...lazy.Option) *ConvolvedSpectrumStore {
	return &ConvolvedSpectrumStore{spectrumStore{
		cache: lazy.New(ConvolvedSpectrumTable, src, spectrumDecoder(table.ConvolvedSpectrumFormat), opts...),
	}}
}

// SpectrumStore serves one pe-spect-NN.dat file: energy, intensity and its
// 3 sigma statistical uncertainty.
type SpectrumStore struct {
	spectrumStore
}

// NewSpectrum returns a store reading src on first use.
func NewSpectrum(src source.Source, opts ...lazy.Option) *SpectrumStore {
	return &SpectrumStore{spectrumStore{
		cache: lazy.New(SpectrumTable, src, spectrumDecoder(table.SpectrumFormat), opts...),
	}}
}

// IntensityErrors returns a copy of the per-channel uncertainties.
func (s *SpectrumStore) IntensityErrors(ctx context.Context) ([]float64, error) {
	sp, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(sp.Errors), nil
}
