package crystal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Primitive is a reduced cell together with the map from its atoms to
// their images in a supercell (p2s map).
type Primitive struct {
	Cell
	P2SMap []int
}

// Centering matrices for the conventional lattice types, applied as
// (a_p b_p c_p) = (a b c) M with basis vectors as columns.
var centeringMatrices = map[string][3][3]float64{
	"F": {{0, 0.5, 0.5}, {0.5, 0, 0.5}, {0.5, 0.5, 0}},
	"I": {{-0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, -0.5}},
	"A": {{1, 0, 0}, {0, 0.5, -0.5}, {0, 0.5, 0.5}},
	"C": {{0.5, 0.5, 0}, {-0.5, 0.5, 0}, {0, 0, 1}},
	"R": {{2. / 3, -1. / 3, -1. / 3}, {1. / 3, 1. / 3, -2. / 3}, {1. / 3, 1. / 3, 1. / 3}},
}

// CenteringMatrix returns the primitive matrix for a centering letter
// (F, I, A, C or R).
func CenteringMatrix(letter string) ([3][3]float64, error) {
	m, ok := centeringMatrices[letter]
	if !ok {
		return m, fmt.Errorf("crystal: unknown centering %q", letter)
	}
	return m, nil
}

// IdentityPrimitiveMatrix is the default primitive matrix.
func IdentityPrimitiveMatrix() [3][3]float64 {
	return [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// BuildPrimitive reduces the unit cell by the primitive matrix and
// records where each primitive atom sits in a supercell built with
// ncells lattice translations per unit-cell atom (the ordering of
// BuildSupercell). No symmetry search is performed: atoms mapping to
// the same wrapped primitive coordinate are folded together, which is
// exact for ideal centered cells.
func BuildPrimitive(unitcell *Cell, pmat [3][3]float64, ncells int, symprec float64) (*Primitive, error) {
	det := det3(pmat)
	if math.Abs(det) < 1e-12 {
		return nil, fmt.Errorf("crystal: singular primitive matrix")
	}
	nPrim := float64(unitcell.NumAtoms()) * math.Abs(det)
	if math.Abs(nPrim-math.Round(nPrim)) > 1e-8 {
		return nil, fmt.Errorf("crystal: primitive matrix det %.6f incompatible with %d atoms", det, unitcell.NumAtoms())
	}

	// L_p = M^T L with row-vector lattices
	var lattice [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				lattice[i][j] += pmat[k][i] * unitcell.Lattice[k][j]
			}
		}
	}

	// x_p = x_u (M^T)^-1
	mt := mat.NewDense(3, 3, []float64{
		pmat[0][0], pmat[1][0], pmat[2][0],
		pmat[0][1], pmat[1][1], pmat[2][1],
		pmat[0][2], pmat[1][2], pmat[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(mt); err != nil {
		return nil, fmt.Errorf("crystal: singular primitive matrix")
	}

	prim := &Primitive{}
	prim.Lattice = lattice
	seen := map[[3]int64]bool{}
	for i := 0; i < unitcell.NumAtoms(); i++ {
		x := unitcell.Positions[i]
		var p [3]float64
		for k := 0; k < 3; k++ {
			p[k] = wrap(x[0]*inv.At(0, k)+x[1]*inv.At(1, k)+x[2]*inv.At(2, k), symprec)
		}
		key := quantize(p, symprec)
		if seen[key] {
			continue
		}
		seen[key] = true
		prim.Positions = append(prim.Positions, p)
		prim.Symbols = append(prim.Symbols, unitcell.Symbols[i])
		prim.Masses = append(prim.Masses, unitcell.Masses[i])
		prim.P2SMap = append(prim.P2SMap, i*ncells)
	}

	if want := int(math.Round(nPrim)); len(prim.Positions) != want {
		return nil, fmt.Errorf("crystal: primitive reduction found %d atoms, expected %d", len(prim.Positions), want)
	}
	return prim, nil
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
