// Package subshell enumerates atomic electron subshells in the order used by
// the PENELOPE relaxation tables: K=1, L1..L3, M1..M5, N1..N7, O1..O7,
// P1..P5, Q1, then Outer=30 for the outer (valence) shells.
package subshell

import (
	"strconv"

	"github.com/drix00/xray-spectrum-analyzer/errors"
)

// Subshell identifies one electron subshell by its table code.
type Subshell int

const (
	K Subshell = iota + 1
	L1
	L2
	L3
	M1
	M2
	M3
	M4
	M5
	N1
	N2
	N3
	N4
	N5
	N6
	N7
	O1
	O2
	O3
	O4
	O5
	O6
	O7
	P1
	P2
	P3
	P4
	P5
	Q1
	Outer
)

// Shell is a principal shell grouping subshells.
type Shell int

const (
	NoShell Shell = iota
	ShellK
	ShellL
	ShellM
	ShellN
	ShellO
	ShellP
	ShellQ
)

var shellNames = [...]string{"", "K", "L", "M", "N", "O", "P", "Q"}

// String returns the shell letter, or "" for NoShell.
func (s Shell) String() string {
	if s < NoShell || int(s) >= len(shellNames) {
		return ""
	}
	return shellNames[s]
}

type info struct {
	label   string
	orbital string
	shell   Shell
}

// indexed by code; entry 0 is unused
var table = [...]info{
	{},
	{"K", "1s1/2", ShellK},
	{"L1", "2s1/2", ShellL},
	{"L2", "2p1/2", ShellL},
	{"L3", "2p3/2", ShellL},
	{"M1", "3s1/2", ShellM},
	{"M2", "3p1/2", ShellM},
	{"M3", "3p3/2", ShellM},
	{"M4", "3d3/2", ShellM},
	{"M5", "3d5/2", ShellM},
	{"N1", "4s1/2", ShellN},
	{"N2", "4p1/2", ShellN},
	{"N3", "4p3/2", ShellN},
	{"N4", "4d3/2", ShellN},
	{"N5", "4d5/2", ShellN},
	{"N6", "4f5/2", ShellN},
	{"N7", "4f7/2", ShellN},
	{"O1", "5s1/2", ShellO},
	{"O2", "5p1/2", ShellO},
	{"O3", "5p3/2", ShellO},
	{"O4", "5d3/2", ShellO},
	{"O5", "5d5/2", ShellO},
	{"O6", "5f5/2", ShellO},
	{"O7", "5f7/2", ShellO},
	{"P1", "6s1/2", ShellP},
	{"P2", "6p1/2", ShellP},
	{"P3", "6p3/2", ShellP},
	{"P4", "6d3/2", ShellP},
	{"P5", "6d5/2", ShellP},
	{"Q1", "7s1/2", ShellQ},
	{"Outer", "", NoShell},
}

var byLabel = func() map[string]Subshell {
	m := make(map[string]Subshell, len(table)-1)
	for code := 1; code < len(table); code++ {
		m[table[code].label] = Subshell(code)
	}
	return m
}()

// FromCode converts a numeric table code to a Subshell.
func FromCode(code int) (Subshell, error) {
	s := Subshell(code)
	if !s.Valid() {
		return 0, errors.NewInvalidRequestError("subshell code %d outside 1..%d", code, int(Outer))
	}
	return s, nil
}

// Parse converts a label ("K", "L3", "Outer") to a Subshell. Labels are case sensitive.
func Parse(label string) (Subshell, error) {
	if s, ok := byLabel[label]; ok {
		return s, nil
	}
	return 0, errors.NewInvalidRequestError("unknown subshell label %q", label)
}

// All returns every subshell in code order.
func All() []Subshell {
	out := make([]Subshell, 0, len(table)-1)
	for code := 1; code < len(table); code++ {
		out = append(out, Subshell(code))
	}
	return out
}

// Valid reports whether s is one of the declared subshells.
func (s Subshell) Valid() bool {
	return s >= K && s <= Outer
}

// Code returns the numeric table code.
func (s Subshell) Code() int { return int(s) }

// Label returns the canonical label, or "" for an invalid value.
func (s Subshell) Label() string {
	if !s.Valid() {
		return ""
	}
	return table[s].label
}

func (s Subshell) String() string {
	if !s.Valid() {
		return "Subshell(" + strconv.Itoa(int(s)) + ")"
	}
	return table[s].label
}

// Orbital returns the spectroscopic orbital ("2p3/2"); Outer has none.
func (s Subshell) Orbital() string {
	if !s.Valid() {
		return ""
	}
	return table[s].orbital
}

// Shell returns the principal shell; Outer belongs to none.
func (s Subshell) Shell() Shell {
	if !s.Valid() {
		return NoShell
	}
	return table[s].shell
}

func (s Subshell) IsK() bool { return s.Shell() == ShellK }
func (s Subshell) IsL() bool { return s.Shell() == ShellL }
func (s Subshell) IsM() bool { return s.Shell() == ShellM }
func (s Subshell) IsN() bool { return s.Shell() == ShellN }
func (s Subshell) IsO() bool { return s.Shell() == ShellO }
func (s Subshell) IsP() bool { return s.Shell() == ShellP }
func (s Subshell) IsQ() bool { return s.Shell() == ShellQ }

// MarshalText encodes the label, so JSON and TOML output read "L3" not 4.
func (s Subshell) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.NewInvalidRequestError("subshell code %d outside 1..%d", int(s), int(Outer))
	}
	return []byte(table[s].label), nil
}

// UnmarshalText decodes a label.
func (s *Subshell) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
