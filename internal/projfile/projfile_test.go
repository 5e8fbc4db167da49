package projfile

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const fullDoc = `supercell_matrix:
- [2, 0, 0]
- [0, 2, 0]
- [0, 0, 2]
phonon_supercell_matrix:
- [4, 0, 0]
- [0, 4, 0]
- [0, 0, 4]
primitive_matrix:
- [0.0, 0.5, 0.5]
- [0.5, 0.0, 0.5]
- [0.5, 0.5, 0.0]
unit_cell:
  lattice:
  - [5.64, 0.0, 0.0]
  - [0.0, 5.64, 0.0]
  - [0.0, 0.0, 5.64]
  points:
  - symbol: Na
    coordinates: [0.0, 0.0, 0.0]
    mass: 22.98976928
  - symbol: Cl
    coordinates: [0.5, 0.5, 0.5]
    mass: 35.453
nac:
  born_effective_charge:
  - [[1.08, 0.0, 0.0], [0.0, 1.08, 0.0], [0.0, 0.0, 1.08]]
  - [[-1.08, 0.0, 0.0], [0.0, -1.08, 0.0], [0.0, 0.0, -1.08]]
  dielectric_constant:
  - [2.43, 0.0, 0.0]
  - [0.0, 2.43, 0.0]
  - [0.0, 0.0, 2.43]
  factor: 14.4
`

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phono3py.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFullDocument(t *testing.T) {
	pf, err := Read(write(t, fullDoc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pf.Unitcell.NumAtoms() != 2 {
		t.Fatalf("expected 2 atoms, got %d", pf.Unitcell.NumAtoms())
	}
	if pf.Unitcell.Symbols[1] != "Cl" {
		t.Errorf("symbols = %v", pf.Unitcell.Symbols)
	}
	if pf.SupercellMatrix == nil || pf.SupercellMatrix[0][0] != 2 {
		t.Errorf("supercell matrix = %v", pf.SupercellMatrix)
	}
	if pf.PhononSupercellMatrix == nil || pf.PhononSupercellMatrix[2][2] != 4 {
		t.Errorf("phonon supercell matrix = %v", pf.PhononSupercellMatrix)
	}
	if pf.PrimitiveMatrix == nil || math.Abs(pf.PrimitiveMatrix[0][1]-0.5) > 1e-12 {
		t.Errorf("primitive matrix = %v", pf.PrimitiveMatrix)
	}
	if pf.NACParams == nil {
		t.Fatal("nac block not parsed")
	}
	if len(pf.NACParams.Born) != 2 || pf.NACParams.Factor != 14.4 {
		t.Errorf("nac params = %+v", pf.NACParams)
	}
}

func TestReadMinimalDocument(t *testing.T) {
	minimal := `unit_cell:
  lattice:
  - [4.05, 0.0, 0.0]
  - [0.0, 4.05, 0.0]
  - [0.0, 0.0, 4.05]
  points:
  - symbol: Al
    coordinates: [0.0, 0.0, 0.0]
`
	pf, err := Read(write(t, minimal))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pf.SupercellMatrix != nil || pf.PhononSupercellMatrix != nil || pf.PrimitiveMatrix != nil || pf.NACParams != nil {
		t.Error("absent blocks should parse to nil")
	}
	// mass must come from the table when the document omits it
	if math.Abs(pf.Unitcell.Masses[0]-26.9815386) > 1e-6 {
		t.Errorf("Al mass = %f", pf.Unitcell.Masses[0])
	}
}

func TestReadNoUnitCell(t *testing.T) {
	if _, err := Read(write(t, "supercell_matrix:\n- [2, 0, 0]\n- [0, 2, 0]\n- [0, 0, 2]\n")); err == nil {
		t.Fatal("expected error without unit_cell")
	}
}

func TestReadBadMatrix(t *testing.T) {
	doc := `supercell_matrix:
- [2, 0]
- [0, 2]
unit_cell:
  lattice:
  - [1.0, 0.0, 0.0]
  - [0.0, 1.0, 0.0]
  - [0.0, 0.0, 1.0]
  points:
  - symbol: Cu
    coordinates: [0.0, 0.0, 0.0]
`
	if _, err := Read(write(t, doc)); err == nil {
		t.Fatal("expected error for malformed matrix")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
