// Package table reads the whitespace-separated text tables written by
// PENELOPE and PENEPMA.
//
// Each table kind is described by a Format: how many header lines to drop,
// how many fields a data row carries, and an optional comment prefix.
// Rows that do not have the expected field count are noise and skipped.
package table

// Format describes the layout of one table kind.
type Format struct {
	Name        string
	HeaderLines int
	MinFields   int
	Fields      int
	Comment     string
}

var (
	// RelaxFormat is the combined x-ray and Auger relaxation table (pdrelax.p11):
	// Z, initial, intermediate, final (0 for x-ray), probability, energy (eV).
	RelaxFormat = Format{Name: "relax", HeaderLines: 1, MinFields: 6, Fields: 6}

	// IntensityFormat is PENEPMA pe-intens-NN.dat: Z, two subshell labels,
	// line energy (eV), then five intensity/uncertainty pairs.
	IntensityFormat = Format{Name: "intensity", HeaderLines: 1, MinFields: 14, Fields: 14}

	// ConvolvedSpectrumFormat is PENEPMA chspect-NN.dat: energy (eV), intensity.
	ConvolvedSpectrumFormat = Format{Name: "convolved-spectrum", HeaderLines: 1, MinFields: 2, Fields: 2, Comment: "#"}

	// SpectrumFormat is PENEPMA pe-spect-NN.dat: energy (eV), intensity, uncertainty.
	SpectrumFormat = Format{Name: "spectrum", HeaderLines: 1, MinFields: 3, Fields: 3, Comment: "#"}
)

func (f Format) String() string { return f.Name }

// accepts reports whether a row with n fields is data for this format.
func (f Format) accepts(n int) bool {
	if n < f.MinFields {
		return false
	}
	return f.Fields == 0 || n == f.Fields
}
