package relax

import (
	"github.com/drix00/xray-spectrum-analyzer/subshell"
)

// XrayTransition is a radiative transition: a vacancy in Initial is filled
// from Final with emission of a photon of EnergyEV.
type XrayTransition struct {
	Initial     subshell.Subshell `json:"initial"`
	Final       subshell.Subshell `json:"final"`
	Probability float64           `json:"probability"`
	EnergyEV    float64           `json:"energy_ev"`
	// Fraction is Probability over the summed probability of every x-ray
	// transition from the same principal shell. 0 for Outer initial subshells.
	Fraction float64 `json:"fraction"`
}

// Label returns the IUPAC line notation, e.g. "K-L3".
func (x XrayTransition) Label() string {
	return x.Initial.Label() + "-" + x.Final.Label()
}

// AugerTransition is a non-radiative transition: a vacancy in Initial is
// filled from Intermediate and an electron is ejected from Final.
type AugerTransition struct {
	Initial      subshell.Subshell `json:"initial"`
	Intermediate subshell.Subshell `json:"intermediate"`
	Final        subshell.Subshell `json:"final"`
	Probability  float64           `json:"probability"`
	EnergyEV     float64           `json:"energy_ev"`
}

// Label returns the Auger notation, e.g. "K-L1L2".
func (a AugerTransition) Label() string {
	return a.Initial.Label() + "-" + a.Intermediate.Label() + a.Final.Label()
}
