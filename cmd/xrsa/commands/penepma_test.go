package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drix00/xray-spectrum-analyzer/am"
	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/penepma"
)

func TestIntensityCommand(t *testing.T) {
	fx := setup(t)

	t.Run("one line", func(t *testing.T) {
		out, err := execute(t, IntensityCmd, "29", "L1", "M3", "--file", fx.intensities)
		require.NoError(t, err)
		assert.Contains(t, out, "Z=29 L1-M3 at 1022.8 eV")
		assert.Contains(t, out, "2.37027e-06")
		assert.Contains(t, out, "Bremsstrahlung fluorescence")
	})

	t.Run("every line of an element", func(t *testing.T) {
		out, err := execute(t, IntensityCmd, "29", "--file", fx.intensities)
		require.NoError(t, err)
		assert.Contains(t, out, "Z=29: 9 lines")
		assert.Contains(t, out, "K-L3")
	})

	t.Run("filtered by initial subshell as JSON", func(t *testing.T) {
		out, err := execute(t, IntensityCmd, "29", "--file", fx.intensities, "--initial", "L3", "--json")
		require.NoError(t, err)

		var lines []penepma.Intensity
		require.NoError(t, json.Unmarshal([]byte(out), &lines))
		require.Len(t, lines, 2)
		assert.Equal(t, "L3-M5", lines[0].Label())
		intensityJSON = false
		intensityInitial = ""
	})

	t.Run("unknown element", func(t *testing.T) {
		_, err := execute(t, IntensityCmd, "26", "K", "L3", "--file", fx.intensities)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrAtomicNumberNotFound))
	})
}

func TestIntensityTableFromConfig(t *testing.T) {
	fx := setup(t)
	t.Setenv("XRSA_DATA_INTENSITIES", fx.intensities)

	out, err := execute(t, IntensityCmd, "29", "K", "L3")
	require.NoError(t, err)
	assert.Contains(t, out, "Z=29 K-L3")
}

func TestIntensityWithoutTable(t *testing.T) {
	setup(t)

	_, err := execute(t, IntensityCmd, "29")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Contains(t, errors.FlattenHints(err), "data.intensities")
}

func TestSpectrumCommand(t *testing.T) {
	fx := setup(t)

	t.Run("convolved", func(t *testing.T) {
		out, err := execute(t, SpectrumCmd, "--file", fx.convolved)
		require.NoError(t, err)
		assert.Contains(t, out, "3150 channels")
		assert.Contains(t, out, "Energy range (eV): 10 to 15755")
		assert.NotContains(t, out, "Uncertainty")
	})

	t.Run("full with head", func(t *testing.T) {
		out, err := execute(t, SpectrumCmd, "--file", fx.spectrum, "--full", "--head", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "1000 channels")
		assert.Contains(t, out, "Uncertainty")
		assert.Contains(t, out, "7.5")
		spectrumFull = false
		spectrumHead = 0
	})

	t.Run("full as JSON from config", func(t *testing.T) {
		t.Setenv("XRSA_DATA_SPECTRUM", fx.spectrum)
		am.Reset()
		out, err := execute(t, SpectrumCmd, "--full", "--json", "--file", "")
		require.NoError(t, err)

		var sp penepma.Spectrum
		require.NoError(t, json.Unmarshal([]byte(out), &sp))
		assert.Equal(t, 1000, sp.Len())
		assert.Len(t, sp.Errors, 1000)
	})

	t.Run("negative head", func(t *testing.T) {
		_, err := execute(t, SpectrumCmd, "--head", "-1")
		require.Error(t, err)
		assert.True(t, errors.IsInvalidRequestError(err))
	})
}

func TestSpectrumWithoutTable(t *testing.T) {
	setup(t)

	_, err := execute(t, SpectrumCmd)
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "data.convolved_spectrum")
}
