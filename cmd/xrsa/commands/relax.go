package commands

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/relax"
	"github.com/drix00/xray-spectrum-analyzer/sym"
)

// TransitionCmd looks up one x-ray transition
var TransitionCmd = &cobra.Command{
	Use:   "transition <Z> <initial> <final>",
	Short: sym.Xray + " Show one x-ray transition",
	Long: sym.Xray + ` transition — Probability, energy and fraction of one radiative transition

Subshells are given by label (K, L1, ..., Q1, Outer) or by table code.

Examples:
  xrsa transition 29 K L3         # Cu Ka1
  xrsa transition 29 1 4 --json   # same, by code`,
	Args: cobra.ExactArgs(3),
	RunE: runTransition,
}

// TransitionsCmd lists x-ray transitions of one element
var TransitionsCmd = &cobra.Command{
	Use:   "transitions <Z>",
	Short: sym.Xray + " List the x-ray transitions of an element",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransitions,
}

// AugerCmd looks up Auger transitions
var AugerCmd = &cobra.Command{
	Use:   "auger <Z> [<initial> <intermediate> <final>]",
	Short: sym.Auger + " Show Auger transitions",
	Long: sym.Auger + ` auger — Non-radiative transitions

With only Z, lists every Auger transition of the element. With three
subshells, shows that one transition.

Examples:
  xrsa auger 29              # all Cu Auger transitions
  xrsa auger 29 K L2 L3      # Cu K-L2L3`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 4 {
			return errors.NewInvalidRequestError("auger takes Z alone or Z with three subshells, got %d arguments", len(args))
		}
		return nil
	},
	RunE: runAuger,
}

// NearCmd identifies x-ray lines close to an energy
var NearCmd = &cobra.Command{
	Use:   "near <Z> <energy_eV>",
	Short: sym.Near + " Find x-ray lines near an energy",
	Long: sym.Near + ` near — X-ray lines of an element within a window of an energy

Lines are sorted closest first. Only lines strictly inside the window are listed.

Examples:
  xrsa near 29 8040                # Cu lines within 50 eV of 8040 eV
  xrsa near 29 930 --window 30`,
	Args: cobra.ExactArgs(2),
	RunE: runNear,
}

// ElementsCmd lists the atomic numbers in the relaxation table
var ElementsCmd = &cobra.Command{
	Use:   "elements",
	Short: "List the atomic numbers present in the relaxation table",
	Args:  cobra.NoArgs,
	RunE:  runElements,
}

// DefaultWindowEV is the default half width for near.
const DefaultWindowEV = 50.0

var (
	relaxJSON    bool
	initialFlag  string
	nearWindowEV float64
)

func init() {
	for _, c := range []*cobra.Command{TransitionCmd, TransitionsCmd, AugerCmd, NearCmd, ElementsCmd} {
		c.Flags().BoolVarP(&relaxJSON, "json", "j", false, "Output as JSON")
	}
	TransitionsCmd.Flags().StringVar(&initialFlag, "initial", "", "Only transitions filling this subshell")
	NearCmd.Flags().Float64Var(&nearWindowEV, "window", DefaultWindowEV, "Half width of the energy window in eV")
}

func runTransition(cmd *cobra.Command, args []string) error {
	z, err := parseZ(args[0])
	if err != nil {
		return err
	}
	ss, err := parseSubshells(args[1:]...)
	if err != nil {
		return err
	}
	s, err := openStores(cmd.Context())
	if err != nil {
		return err
	}

	x, err := s.relax().XrayTransition(cmd.Context(), z, ss[0], ss[1])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if relaxJSON {
		return printJSON(w, x)
	}
	fmt.Fprintf(w, "%s Z=%d %s\n", sym.Xray, z, x.Label())
	fmt.Fprintf(w, "Probability: %s\n", formatFloat(x.Probability))
	fmt.Fprintf(w, "Fraction:    %s\n", formatFloat(x.Fraction))
	fmt.Fprintf(w, "Energy (eV): %s\n", formatFloat(x.EnergyEV))
	return nil
}

func runTransitions(cmd *cobra.Command, args []string) error {
	z, err := parseZ(args[0])
	if err != nil {
		return err
	}
	s, err := openStores(cmd.Context())
	if err != nil {
		return err
	}
	store := s.relax()

	var xs []relax.XrayTransition
	if initialFlag != "" {
		initial, err := parseSubshell(initialFlag)
		if err != nil {
			return err
		}
		xs, err = store.XrayTransitionsFrom(cmd.Context(), z, initial)
		if err != nil {
			return err
		}
	} else {
		xs, err = store.XrayTransitions(cmd.Context(), z)
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if relaxJSON {
		return printJSON(w, xs)
	}
	if len(xs) == 0 {
		pterm.Info.WithWriter(w).Printfln("No x-ray transitions for Z=%d", z)
		return nil
	}
	fmt.Fprintln(w, sym.Header("transition", fmt.Sprintf("Z=%d: %d x-ray transitions", z, len(xs))))
	return renderTable(w, xrayRows(xs, nil))
}

func xrayRows(xs []relax.XrayTransition, distanceFrom *float64) pterm.TableData {
	header := []string{"Line", "Initial", "Final", "Probability", "Fraction", "Energy (eV)"}
	if distanceFrom != nil {
		header = append(header, "ΔE (eV)")
	}
	data := pterm.TableData{header}
	for _, x := range xs {
		row := []string{
			x.Label(),
			strconv.Itoa(x.Initial.Code()),
			strconv.Itoa(x.Final.Code()),
			formatFloat(x.Probability),
			formatFloat(x.Fraction),
			formatFloat(x.EnergyEV),
		}
		if distanceFrom != nil {
			row = append(row, fmt.Sprintf("%.2f", math.Abs(x.EnergyEV-*distanceFrom)))
		}
		data = append(data, row)
	}
	return data
}

func runAuger(cmd *cobra.Command, args []string) error {
	z, err := parseZ(args[0])
	if err != nil {
		return err
	}
	s, err := openStores(cmd.Context())
	if err != nil {
		return err
	}
	store := s.relax()
	w := cmd.OutOrStdout()

	if len(args) == 4 {
		ss, err := parseSubshells(args[1:]...)
		if err != nil {
			return err
		}
		a, err := store.AugerTransition(cmd.Context(), z, ss[0], ss[1], ss[2])
		if err != nil {
			return err
		}
		if relaxJSON {
			return printJSON(w, a)
		}
		fmt.Fprintf(w, "%s Z=%d %s\n", sym.Auger, z, a.Label())
		fmt.Fprintf(w, "Probability: %s\n", formatFloat(a.Probability))
		fmt.Fprintf(w, "Energy (eV): %s\n", formatFloat(a.EnergyEV))
		return nil
	}

	as, err := store.AugerTransitions(cmd.Context(), z)
	if err != nil {
		return err
	}
	if relaxJSON {
		return printJSON(w, as)
	}
	if len(as) == 0 {
		pterm.Info.WithWriter(w).Printfln("No Auger transitions for Z=%d", z)
		return nil
	}
	fmt.Fprintln(w, sym.Header("auger", fmt.Sprintf("Z=%d: %d Auger transitions", z, len(as))))
	data := pterm.TableData{{"Transition", "Probability", "Energy (eV)"}}
	for _, a := range as {
		data = append(data, []string{a.Label(), formatFloat(a.Probability), formatFloat(a.EnergyEV)})
	}
	return renderTable(w, data)
}

func runNear(cmd *cobra.Command, args []string) error {
	z, err := parseZ(args[0])
	if err != nil {
		return err
	}
	energy, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return errors.NewInvalidRequestError("energy %q is not a number", args[1])
	}
	s, err := openStores(cmd.Context())
	if err != nil {
		return err
	}

	xs, err := s.relax().XrayTransitionsNear(cmd.Context(), z, energy, nearWindowEV)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if relaxJSON {
		return printJSON(w, xs)
	}
	if len(xs) == 0 {
		pterm.Info.WithWriter(w).Printfln("No lines of Z=%d within %g eV of %g eV", z, nearWindowEV, energy)
		return nil
	}
	fmt.Fprintln(w, sym.Header("near", fmt.Sprintf("Z=%d: %d lines within %g eV of %g eV", z, len(xs), nearWindowEV, energy)))
	return renderTable(w, xrayRows(xs, &energy))
}

func runElements(cmd *cobra.Command, args []string) error {
	s, err := openStores(cmd.Context())
	if err != nil {
		return err
	}
	zs, err := s.relax().AtomicNumbers(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if relaxJSON {
		return printJSON(w, zs)
	}
	fmt.Fprintf(w, "%d elements:", len(zs))
	for _, z := range zs {
		fmt.Fprintf(w, " %d", z)
	}
	fmt.Fprintln(w)
	return nil
}
