package fc

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ProduceFC2 fits second-order force constants from a displacement
// dataset by finite differences: for each displaced atom the force
// response is solved in the least-squares sense over all its
// displacement vectors. Atoms never displaced keep zero rows, so a
// symmetry-complete dataset is the caller's responsibility.
func ProduceFC2(d *Dataset) (*FC2, error) {
	if d == nil || len(d.Displacements) == 0 {
		return nil, fmt.Errorf("fc: empty displacement dataset")
	}
	n := d.NAtoms

	// group displacements by displaced atom
	byAtom := map[int][]Displacement{}
	for _, disp := range d.Displacements {
		if disp.Forces == nil {
			return nil, fmt.Errorf("fc: displacement of atom %d has no forces attached", disp.Atom)
		}
		if disp.Atom < 0 || disp.Atom >= n {
			return nil, fmt.Errorf("fc: displaced atom %d out of range (natoms %d)", disp.Atom, n)
		}
		byAtom[disp.Atom] = append(byAtom[disp.Atom], disp)
	}

	out := NewFC2(n, n)
	for atom, disps := range byAtom {
		k := len(disps)
		u := mat.NewDense(k, 3, nil)
		for r, disp := range disps {
			u.SetRow(r, disp.Vector[:])
		}
		// F = -U Phi, one right-hand side per (atom j, axis b)
		rhs := mat.NewDense(k, n*3, nil)
		for r, disp := range disps {
			for j := 0; j < n; j++ {
				for b := 0; b < 3; b++ {
					rhs.Set(r, j*3+b, -disp.Forces[j][b])
				}
			}
		}
		var phi mat.Dense
		if err := phi.Solve(u, rhs); err != nil {
			return nil, fmt.Errorf("fc: displacements of atom %d are degenerate: %w", atom, err)
		}
		for a := 0; a < 3; a++ {
			for j := 0; j < n; j++ {
				for b := 0; b < 3; b++ {
					out.Set(atom, j, a, b, phi.At(a, j*3+b))
				}
			}
		}
	}
	return out, nil
}

// ApplyTranslationalInvariance adjusts the self terms so each row of
// the force-constant matrix sums to zero (acoustic sum rule).
func ApplyTranslationalInvariance(f *FC2) {
	if f.IsCompact() {
		return // self terms are not addressable in compact shape
	}
	for i := 0; i < f.N1; i++ {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				sum := 0.0
				for j := 0; j < f.N2; j++ {
					if j != i {
						sum += f.At(i, j, a, b)
					}
				}
				f.Set(i, i, a, b, -sum)
			}
		}
	}
}
