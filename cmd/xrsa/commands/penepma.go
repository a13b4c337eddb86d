package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/penepma"
	"github.com/drix00/xray-spectrum-analyzer/sym"
)

// IntensityCmd shows simulated line intensities
var IntensityCmd = &cobra.Command{
	Use:   "intensity <Z> [<initial> <final>]",
	Short: sym.Intensity + " Show simulated line intensities",
	Long: sym.Intensity + ` intensity — PENEPMA characteristic line intensities (pe-intens-NN.dat)

With only Z, lists every line of the element. With two subshells, shows
the primary, fluorescence and total intensities of that line with their
uncertainties. The table defaults to data.intensities in am.toml.

Examples:
  xrsa intensity 29 --file run/pe-intens-05.dat
  xrsa intensity 29 L1 M3
  xrsa intensity 29 --initial K`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return errors.NewInvalidRequestError("intensity takes Z alone or Z with two subshells, got %d arguments", len(args))
		}
		return nil
	},
	RunE: runIntensity,
}

// SpectrumCmd summarizes a simulated spectrum
var SpectrumCmd = &cobra.Command{
	Use:   "spectrum",
	Short: sym.Spectrum + " Summarize a simulated spectrum",
	Long: sym.Spectrum + ` spectrum — PENEPMA energy spectrum

Reads the detector-convolved spectrum (chspect-NN.dat) by default, or the
full spectrum with uncertainties (pe-spect-NN.dat) with --full. Tables
default to data.convolved_spectrum and data.spectrum in am.toml.

Examples:
  xrsa spectrum --file run/chspect-05.dat
  xrsa spectrum --full --head 20
  xrsa spectrum --full --json > spectrum.json`,
	Args: cobra.NoArgs,
	RunE: runSpectrum,
}

var (
	intensityFile    string
	intensityInitial string
	intensityJSON    bool

	spectrumFile string
	spectrumFull bool
	spectrumHead int
	spectrumJSON bool
)

func init() {
	IntensityCmd.Flags().StringVarP(&intensityFile, "file", "f", "", "Intensity table (default data.intensities)")
	IntensityCmd.Flags().StringVar(&intensityInitial, "initial", "", "Only lines filling this subshell")
	IntensityCmd.Flags().BoolVarP(&intensityJSON, "json", "j", false, "Output as JSON")

	SpectrumCmd.Flags().StringVarP(&spectrumFile, "file", "f", "", "Spectrum table (default from am.toml)")
	SpectrumCmd.Flags().BoolVar(&spectrumFull, "full", false, "Read the full spectrum with uncertainties")
	SpectrumCmd.Flags().IntVar(&spectrumHead, "head", 0, "Also print the first N channels")
	SpectrumCmd.Flags().BoolVarP(&spectrumJSON, "json", "j", false, "Output every channel as JSON")
}

func runIntensity(cmd *cobra.Command, args []string) error {
	z, err := parseZ(args[0])
	if err != nil {
		return err
	}
	s, err := openStores(cmd.Context())
	if err != nil {
		return err
	}
	store, err := s.intensities(intensityFile)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(args) == 3 {
		ss, err := parseSubshells(args[1:]...)
		if err != nil {
			return err
		}
		line, err := store.Intensity(cmd.Context(), z, ss[0], ss[1])
		if err != nil {
			return err
		}
		if intensityJSON {
			return printJSON(w, line)
		}
		fmt.Fprintln(w, sym.Header("intensity", fmt.Sprintf("Z=%d %s at %s eV", z, line.Label(), formatFloat(line.EnergyEV))))
		return renderTable(w, pterm.TableData{
			{"Component", "Intensity", "Uncertainty"},
			{"Primary", formatFloat(line.Primary), formatFloat(line.PrimaryError)},
			{"Characteristic fluorescence", formatFloat(line.CharacteristicFluorescence), formatFloat(line.CharacteristicFluorescenceError)},
			{"Bremsstrahlung fluorescence", formatFloat(line.BremsstrahlungFluorescence), formatFloat(line.BremsstrahlungFluorescenceError)},
			{"Total fluorescence", formatFloat(line.TotalFluorescence), formatFloat(line.TotalFluorescenceError)},
			{"Total", formatFloat(line.Total), formatFloat(line.TotalError)},
		})
	}

	var lines []penepma.Intensity
	if intensityInitial != "" {
		initial, err := parseSubshell(intensityInitial)
		if err != nil {
			return err
		}
		lines, err = store.IntensitiesFrom(cmd.Context(), z, initial)
		if err != nil {
			return err
		}
	} else {
		lines, err = store.IntensitiesOf(cmd.Context(), z)
		if err != nil {
			return err
		}
	}

	if intensityJSON {
		return printJSON(w, lines)
	}
	if len(lines) == 0 {
		pterm.Info.WithWriter(w).Printfln("No intensities for Z=%d in %s", z, store.Source())
		return nil
	}
	fmt.Fprintln(w, sym.Header("intensity", fmt.Sprintf("Z=%d: %d lines", z, len(lines))))
	data := pterm.TableData{{"Line", "Energy (eV)", "Primary", "Fluorescence", "Total", "Total ±"}}
	for _, l := range lines {
		data = append(data, []string{
			l.Label(),
			formatFloat(l.EnergyEV),
			formatFloat(l.Primary),
			formatFloat(l.TotalFluorescence),
			formatFloat(l.Total),
			formatFloat(l.TotalError),
		})
	}
	return renderTable(w, data)
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	if spectrumHead < 0 {
		return errors.NewInvalidRequestError("--head must not be negative, got %d", spectrumHead)
	}
	s, err := openStores(cmd.Context())
	if err != nil {
		return err
	}

	var sp penepma.Spectrum
	if spectrumFull {
		src, err := s.table(spectrumFile, s.cfg.Data.Spectrum, "spectrum")
		if err != nil {
			return err
		}
		sp, err = penepma.NewSpectrum(src, storeOptions()...).Samples(cmd.Context())
		if err != nil {
			return err
		}
	} else {
		src, err := s.table(spectrumFile, s.cfg.Data.ConvolvedSpectrum, "convolved_spectrum")
		if err != nil {
			return err
		}
		sp, err = penepma.NewConvolvedSpectrum(src, storeOptions()...).Samples(cmd.Context())
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if spectrumJSON {
		return printJSON(w, sp)
	}
	if sp.Len() == 0 {
		pterm.Warning.WithWriter(w).Println("Spectrum has no channels")
		return nil
	}

	peak := 0
	total := 0.0
	for i, v := range sp.Intensities {
		total += v
		if v > sp.Intensities[peak] {
			peak = i
		}
	}

	fmt.Fprintln(w, sym.Header("spectrum", fmt.Sprintf("%d channels", sp.Len())))
	fmt.Fprintf(w, "Energy range (eV): %s to %s\n", formatFloat(sp.EnergiesEV[0]), formatFloat(sp.EnergiesEV[sp.Len()-1]))
	fmt.Fprintf(w, "Peak:              %s at %s eV\n", formatFloat(sp.Intensities[peak]), formatFloat(sp.EnergiesEV[peak]))
	fmt.Fprintf(w, "Sum:               %s\n", formatFloat(total))

	if spectrumHead == 0 {
		return nil
	}
	header := []string{"Energy (eV)", "Intensity"}
	if sp.Errors != nil {
		header = append(header, "Uncertainty")
	}
	data := pterm.TableData{header}
	for i := 0; i < spectrumHead && i < sp.Len(); i++ {
		row := []string{formatFloat(sp.EnergiesEV[i]), formatFloat(sp.Intensities[i])}
		if sp.Errors != nil {
			row = append(row, formatFloat(sp.Errors[i]))
		}
		data = append(data, row)
	}
	fmt.Fprintln(w)
	return renderTable(w, data)
}
