// Package calculator maps force-calculator identifiers to their
// physical unit conventions: the conversion factor from sqrt(force
// constant/mass) eigenvalues to THz, the unit factor for
// non-analytical term correction, the length unit relative to
// Angstrom, and the default cell filename to look for.
package calculator

import (
	"fmt"
	"sort"
	"strings"
)

// Unit conversion constants.
const (
	Bohr    = 0.5291772109 // Angstrom
	Hartree = 27.211386245 // eV

	VaspToTHz      = 15.633302
	Wien2kToTHz    = 3.44595837
	AbinitToTHz    = 21.49068
	PwscfToTHz     = 108.97077
	ElkToTHz       = 154.10794
	SiestaToTHz    = 21.49068
	CrystalToTHz   = 15.633302
	TurbomoleToTHz = 154.10794
)

// Units collects the per-calculator physical unit conventions.
type Units struct {
	// Factor converts phonon frequencies to THz.
	Factor float64
	// NACFactor converts Born charge / dielectric input into the
	// internal NAC units.
	NACFactor float64
	// DistanceToA converts the calculator's length unit to Angstrom.
	DistanceToA float64
	// CellFilename is the default cell file looked up when no cell
	// source is given.
	CellFilename string
}

var unitsTable = map[string]Units{
	"vasp":      {VaspToTHz, Hartree * Bohr, 1.0, "POSCAR"},
	"qe":        {PwscfToTHz, 2.0, Bohr, "unitcell.in"},
	"abinit":    {AbinitToTHz, Hartree / Bohr, Bohr, "unitcell.in"},
	"wien2k":    {Wien2kToTHz, 2000.0, Bohr, "case.struct"},
	"elk":       {ElkToTHz, 1.0, Bohr, "elk.in"},
	"siesta":    {SiestaToTHz, Hartree / Bohr, Bohr, "input.fdf"},
	"crystal":   {CrystalToTHz, Hartree * Bohr, 1.0, "crystal.o"},
	"turbomole": {TurbomoleToTHz, 1.0, Bohr, "control"},
}

// DefaultUnits returns the unit set for a calculator name. The empty
// string means vasp. Names are case-insensitive.
func DefaultUnits(name string) (Units, error) {
	if name == "" {
		name = "vasp"
	}
	u, ok := unitsTable[strings.ToLower(name)]
	if !ok {
		return Units{}, fmt.Errorf("calculator: unknown calculator %q (supported: %s)",
			name, strings.Join(Names(), ", "))
	}
	return u, nil
}

// Names lists the supported calculator identifiers, sorted.
func Names() []string {
	names := make([]string, 0, len(unitsTable))
	for n := range unitsTable {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
