package fc

import "fmt"

// Displacement is one displaced-supercell record: one atom moved by a
// cartesian vector (Angstrom), with the resulting forces on every
// supercell atom (eV/Angstrom) once they have been attached from a
// forces file.
type Displacement struct {
	Atom   int // supercell atom index, 0-based
	Vector [3]float64
	Forces [][3]float64
}

// Dataset is a second-order (single-displacement) dataset.
type Dataset struct {
	NAtoms        int
	Displacements []Displacement
}

// AttachForces pairs force blocks with displacements in file order.
func (d *Dataset) AttachForces(blocks [][][3]float64) error {
	if len(blocks) != len(d.Displacements) {
		return fmt.Errorf("fc: %d force blocks for %d displacements", len(blocks), len(d.Displacements))
	}
	for i, b := range blocks {
		if len(b) != d.NAtoms {
			return fmt.Errorf("fc: force block %d has %d atoms, want %d", i, len(b), d.NAtoms)
		}
		d.Displacements[i].Forces = b
	}
	return nil
}

// PairDisplacement is a second displacement on top of a first one,
// as used for third-order datasets.
type PairDisplacement struct {
	Atom   int
	Vector [3]float64
	Forces [][3]float64
}

// FirstDisplacement groups the second displacements sharing the same
// first displaced atom.
type FirstDisplacement struct {
	Atom   int
	Vector [3]float64
	Forces [][3]float64 // forces of the single-displacement supercell
	Pairs  []PairDisplacement
}

// Dataset3 is a third-order (pair-displacement) dataset.
type Dataset3 struct {
	NAtoms int
	First  []FirstDisplacement
}

// NumSupercells counts the displaced supercells the dataset expects
// forces for: one per pair displacement (the phono3py FORCES_FC3
// layout).
func (d *Dataset3) NumSupercells() int {
	n := 0
	for _, f := range d.First {
		n += len(f.Pairs)
	}
	return n
}

// AttachForces pairs force blocks with pair displacements in file
// order.
func (d *Dataset3) AttachForces(blocks [][][3]float64) error {
	if len(blocks) != d.NumSupercells() {
		return fmt.Errorf("fc: %d force blocks for %d displaced supercells", len(blocks), d.NumSupercells())
	}
	k := 0
	for fi := range d.First {
		for pi := range d.First[fi].Pairs {
			b := blocks[k]
			if len(b) != d.NAtoms {
				return fmt.Errorf("fc: force block %d has %d atoms, want %d", k, len(b), d.NAtoms)
			}
			d.First[fi].Pairs[pi].Forces = b
			k++
		}
	}
	return nil
}
