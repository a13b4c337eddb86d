// Package relax serves atomic relaxation data (x-ray and Auger transition
// probabilities and energies) from the PENELOPE table pdrelax.p11.
//
// The table is read on first lookup and kept for the life of the Store:
//
//	store := relax.NewDefault()
//	kl3, err := store.XrayTransition(ctx, 29, subshell.K, subshell.L3)
//
// Single lookups fail with ErrAtomicNumberNotFound or ErrTransitionNotFound;
// enumerations return an empty slice for an unknown atomic number.
package relax

import (
	"context"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/lazy"
	"github.com/drix00/xray-spectrum-analyzer/logger"
	"github.com/drix00/xray-spectrum-analyzer/source"
	"github.com/drix00/xray-spectrum-analyzer/subshell"
)

// DefaultPath is where NewDefault looks for the table, relative to the working directory.
const DefaultPath = "data/pdrelax.p11"

// TableName identifies the relaxation table in logs and metrics.
const TableName = "relax"

var (
	// ErrAtomicNumberNotFound means the table has no records for the atomic number.
	ErrAtomicNumberNotFound = errors.ErrAtomicNumberNotFound

	// ErrTransitionNotFound means the atomic number is known but the subshell
	// combination is not.
	ErrTransitionNotFound = errors.ErrTransitionNotFound
)

// Store is safe for concurrent use.
type Store struct {
	cache *lazy.Cache[dataset]
	log   *zap.SugaredLogger
}

// New returns a store reading src. Nothing is read until the first lookup.
func New(src source.Source, opts ...lazy.Option) *Store {
	return &Store{
		cache: lazy.New(TableName, src, decode, opts...),
		log:   logger.AddXraySymbol(lazy.Logger(opts...)),
	}
}

// NewDefault returns a store reading DefaultPath under the working directory.
func NewDefault(opts ...lazy.Option) *Store {
	return New(source.WorkingDir(DefaultPath), opts...)
}

func (s *Store) data(ctx context.Context) (dataset, error) {
	d, _, err := s.cache.Get(ctx)
	return d, err
}

func (s *Store) miss(err error) error {
	s.cache.RecordLookup(false)
	return err
}

// XrayTransition returns the x-ray transition of atomic number z from initial to final.
func (s *Store) XrayTransition(ctx context.Context, z int, initial, final subshell.Subshell) (XrayTransition, error) {
	d, err := s.data(ctx)
	if err != nil {
		return XrayTransition{}, err
	}
	if !d.xray.Has(z) {
		return XrayTransition{}, s.miss(errors.Wrapf(ErrAtomicNumberNotFound, "x-ray transitions for Z=%d", z))
	}

	var found *XrayTransition
	d.xray.Each(z, func(r *XrayTransition) bool {
		if r.Initial == initial && r.Final == final {
			found = r
			return false
		}
		return true
	})
	if found == nil {
		s.log.Debugw("x-ray transition not found",
			logger.FieldAtomicNumber, z,
			logger.FieldInitial, initial.Label(),
			logger.FieldFinal, final.Label())
		return XrayTransition{}, s.miss(errors.Wrapf(ErrTransitionNotFound, "Z=%d %s-%s", z, initial.Label(), final.Label()))
	}
	s.cache.RecordLookup(true)
	return *found, nil
}

// XrayTransitions returns every x-ray transition of z in table order.
// An unknown atomic number yields an empty slice and no error.
func (s *Store) XrayTransitions(ctx context.Context, z int) ([]XrayTransition, error) {
	d, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.RecordLookup(d.xray.Has(z))
	return d.xray.Records(z), nil
}

// XrayTransitionsFrom returns the x-ray transitions of z whose initial subshell is initial.
func (s *Store) XrayTransitionsFrom(ctx context.Context, z int, initial subshell.Subshell) ([]XrayTransition, error) {
	d, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	var out []XrayTransition
	d.xray.Each(z, func(r *XrayTransition) bool {
		if r.Initial == initial {
			out = append(out, *r)
		}
		return true
	})
	s.cache.RecordLookup(len(out) > 0)
	return out, nil
}

// XrayTransitionsNear returns the x-ray transitions of z whose energy lies
// strictly within windowEV of energyEV, closest first.
func (s *Store) XrayTransitionsNear(ctx context.Context, z int, energyEV, windowEV float64) ([]XrayTransition, error) {
	if !(windowEV > 0) {
		return nil, errors.NewInvalidRequestError("energy window must be positive, got %g eV", windowEV)
	}
	d, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	var out []XrayTransition
	d.xray.Each(z, func(r *XrayTransition) bool {
		if math.Abs(r.EnergyEV-energyEV) < windowEV {
			out = append(out, *r)
		}
		return true
	})
	slices.SortStableFunc(out, func(a, b XrayTransition) int {
		da, db := math.Abs(a.EnergyEV-energyEV), math.Abs(b.EnergyEV-energyEV)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	s.cache.RecordLookup(len(out) > 0)
	return out, nil
}

// AugerTransition returns the Auger transition of z for the given subshells.
func (s *Store) AugerTransition(ctx context.Context, z int, initial, intermediate, final subshell.Subshell) (AugerTransition, error) {
	d, err := s.data(ctx)
	if err != nil {
		return AugerTransition{}, err
	}
	if !d.auger.Has(z) {
		return AugerTransition{}, s.miss(errors.Wrapf(ErrAtomicNumberNotFound, "Auger transitions for Z=%d", z))
	}

	var found *AugerTransition
	d.auger.Each(z, func(r *AugerTransition) bool {
		if r.Initial == initial && r.Intermediate == intermediate && r.Final == final {
			found = r
			return false
		}
		return true
	})
	if found == nil {
		return AugerTransition{}, s.miss(errors.Wrapf(ErrTransitionNotFound, "Z=%d %s-%s%s",
			z, initial.Label(), intermediate.Label(), final.Label()))
	}
	s.cache.RecordLookup(true)
	return *found, nil
}

// AugerTransitions returns every Auger transition of z in table order.
// An unknown atomic number yields an empty slice and no error.
func (s *Store) AugerTransitions(ctx context.Context, z int) ([]AugerTransition, error) {
	d, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.RecordLookup(d.auger.Has(z))
	return d.auger.Records(z), nil
}

// AtomicNumbers returns every atomic number with x-ray or Auger data, ascending.
func (s *Store) AtomicNumbers(ctx context.Context) ([]int, error) {
	d, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	zs := append(d.xray.Keys(), d.auger.Keys()...)
	slices.Sort(zs)
	return slices.Compact(zs), nil
}

// Reload re-reads the table. The previous data stays in place if it fails.
func (s *Store) Reload(ctx context.Context) error {
	return s.cache.Reload(ctx)
}

// Loaded reports whether the table has been read successfully.
func (s *Store) Loaded() bool { return s.cache.Loaded() }

// Reads returns how many times the table has been opened.
func (s *Store) Reads() int { return s.cache.Reads() }

// Source returns the backing table.
func (s *Store) Source() source.Source { return s.cache.Source() }
