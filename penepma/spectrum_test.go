package penepma

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/lazy"
	"github.com/drix00/xray-spectrum-analyzer/source"
)

func TestConvolvedSpectrum(t *testing.T) {
	store := NewConvolvedSpectrum(fixture("chspect-05.dat"), lazy.WithLogger(zaptest.NewLogger(t).Sugar()))
	ctx := context.Background()

	energies, err := store.Energies(ctx)
	require.NoError(t, err)
	require.Len(t, energies, 3150)
	assert.InEpsilon(t, 10.0, energies[0], 1e-5)
	assert.InEpsilon(t, 15.0, energies[1], 1e-5)
	assert.InEpsilon(t, 8010.0, energies[1600], 1e-5)
	assert.InEpsilon(t, 15755.0, energies[3149], 1e-5)

	intensities, err := store.Intensities(ctx)
	require.NoError(t, err)
	require.Len(t, intensities, 3150)
	assert.InEpsilon(t, 1e-25, intensities[0], 1e-5)
	assert.InEpsilon(t, 1.99467e-07, intensities[1], 1e-5)
	assert.InEpsilon(t, 1.89679e-07, intensities[1600], 1e-5)
	assert.InEpsilon(t, 1e-25, intensities[3149], 1e-5)

	sp, err := store.Samples(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3150, sp.Len())
	assert.Nil(t, sp.Errors)
}

func TestSpectrumReadOnce(t *testing.T) {
	ctx := context.Background()

	convolved := NewConvolvedSpectrum(fixture("chspect-05.dat"))
	for range 3 {
		_, err := convolved.Energies(ctx)
		require.NoError(t, err)
		_, err = convolved.Samples(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, convolved.Reads())

	full := NewSpectrum(fixture("pe-spect-05.dat"))
	for range 3 {
		_, err := full.IntensityErrors(ctx)
		require.NoError(t, err)
		_, err = full.Intensities(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, full.Reads())
}

func TestSpectrumWithUncertainties(t *testing.T) {
	store := NewSpectrum(fixture("pe-spect-05.dat"), lazy.WithLogger(zaptest.NewLogger(t).Sugar()))
	ctx := context.Background()

	energies, err := store.Energies(ctx)
	require.NoError(t, err)
	require.Len(t, energies, 1000)
	assert.InEpsilon(t, 7.500001, energies[0], 1e-5)
	assert.InEpsilon(t, 7.492501e+03, energies[499], 1e-5)
	assert.InEpsilon(t, 1.49925e+04, energies[999], 1e-5)

	intensities, err := store.Intensities(ctx)
	require.NoError(t, err)
	assert.InEpsilon(t, 1e-35, intensities[0], 1e-5)
	assert.InEpsilon(t, 5.4931e-09, intensities[499], 1e-5)
	assert.InEpsilon(t, 4.063026e-11, intensities[999], 1e-5)

	uncertainties, err := store.IntensityErrors(ctx)
	require.NoError(t, err)
	require.Len(t, uncertainties, 1000)
	assert.InEpsilon(t, 1e-35, uncertainties[0], 1e-5)
	assert.InEpsilon(t, 7.685423e-11, uncertainties[499], 1e-5)
	assert.InEpsilon(t, 7.198716e-12, uncertainties[999], 1e-5)
}

func TestSpectrumCopies(t *testing.T) {
	store := NewSpectrum(fixture("pe-spect-05.dat"))
	ctx := context.Background()

	energies, err := store.Energies(ctx)
	require.NoError(t, err)
	energies[0] = -1

	sp, err := store.Samples(ctx)
	require.NoError(t, err)
	assert.InEpsilon(t, 7.500001, sp.EnergiesEV[0], 1e-5)
	sp.Errors[0] = -1

	uncertainties, err := store.IntensityErrors(ctx)
	require.NoError(t, err)
	assert.InEpsilon(t, 1e-35, uncertainties[0], 1e-5)
}

func TestSpectrumSkipsCommentsAndNoise(t *testing.T) {
	data := []byte(" # first\n # second\n\n 10 1.0 0.1\n # mid\n 20 2.0\n 30 3.0 0.3\n")
	store := NewSpectrum(source.Bytes("noisy.dat", data))

	sp, err := store.Samples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 30}, sp.EnergiesEV)
	assert.Equal(t, []float64{1, 3}, sp.Intensities)
	assert.Equal(t, []float64{0.1, 0.3}, sp.Errors)
}

func TestSpectrumMalformed(t *testing.T) {
	store := NewConvolvedSpectrum(source.Bytes("bad.dat", []byte(" # header\n 10 abc\n")))

	_, err := store.Energies(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsMalformed(err))
	assert.False(t, store.Loaded())
}

func TestSpectrumMissingFile(t *testing.T) {
	store := NewConvolvedSpectrum(source.File(t.TempDir() + "/chspect-01.dat"))

	_, err := store.Samples(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSourceMissing(err))
}
