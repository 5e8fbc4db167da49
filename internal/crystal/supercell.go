package crystal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NormalizeSupercellMatrix accepts either a length-3 slice (treated
// as a diagonal matrix) or a flattened 3x3 integer matrix in row
// order.
func NormalizeSupercellMatrix(v []int) ([3][3]int, error) {
	var m [3][3]int
	switch len(v) {
	case 3:
		m[0][0], m[1][1], m[2][2] = v[0], v[1], v[2]
	case 9:
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m[i][j] = v[3*i+j]
			}
		}
	default:
		return m, fmt.Errorf("crystal: supercell matrix needs 3 or 9 elements, got %d", len(v))
	}
	if detInt(m) == 0 {
		return m, fmt.Errorf("crystal: singular supercell matrix %v", m)
	}
	return m, nil
}

// IdentityMatrix is the trivial supercell matrix.
func IdentityMatrix() [3][3]int {
	return [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func detInt(m [3][3]int) int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// BuildSupercell replicates the unit cell by an integer supercell
// matrix S: the supercell lattice is S L (rows are basis vectors).
// Atoms are ordered unit-cell atom major, lattice translations minor,
// with the origin translation first, so the first image of unit-cell
// atom i sits at supercell index i*det(S).
func BuildSupercell(unitcell *Cell, smat [3][3]int, symprec float64) (*Cell, error) {
	det := detInt(smat)
	if det < 0 {
		det = -det
	}
	if det == 0 {
		return nil, fmt.Errorf("crystal: singular supercell matrix %v", smat)
	}

	var lattice [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				lattice[i][j] += float64(smat[i][k]) * unitcell.Lattice[k][j]
			}
		}
	}

	sinv, err := invertIntMatrix(smat)
	if err != nil {
		return nil, err
	}
	translations := latticePoints(smat, sinv, det, symprec)
	if len(translations) != det {
		return nil, fmt.Errorf("crystal: found %d lattice points, expected %d", len(translations), det)
	}

	n := unitcell.NumAtoms()
	positions := make([][3]float64, 0, n*det)
	symbols := make([]string, 0, n*det)
	masses := make([]float64, 0, n*det)
	for i := 0; i < n; i++ {
		p := unitcell.Positions[i]
		for _, t := range translations {
			x := [3]float64{p[0] + t[0], p[1] + t[1], p[2] + t[2]}
			positions = append(positions, toSuperFrac(x, sinv, symprec))
			symbols = append(symbols, unitcell.Symbols[i])
			masses = append(masses, unitcell.Masses[i])
		}
	}
	return &Cell{Lattice: lattice, Positions: positions, Symbols: symbols, Masses: masses}, nil
}

// toSuperFrac converts unit-cell fractional coordinates x (row
// vector) into wrapped supercell fractional coordinates x S^-1.
func toSuperFrac(x [3]float64, sinv [3][3]float64, symprec float64) [3]float64 {
	var s [3]float64
	for k := 0; k < 3; k++ {
		s[k] = wrap(x[0]*sinv[0][k]+x[1]*sinv[1][k]+x[2]*sinv[2][k], symprec)
	}
	return s
}

// latticePoints enumerates the det(S) unit-cell translations interior
// to the supercell, origin first.
func latticePoints(smat [3][3]int, sinv [3][3]float64, det int, symprec float64) [][3]float64 {
	bound := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if a := smat[i][j]; a > bound {
				bound = a
			} else if -a > bound {
				bound = -a
			}
		}
	}
	bound *= 3

	points := [][3]float64{{0, 0, 0}}
	seen := map[[3]int64]bool{{0, 0, 0}: true}
	for a := -bound; a <= bound && len(points) < det; a++ {
		for b := -bound; b <= bound && len(points) < det; b++ {
			for c := -bound; c <= bound && len(points) < det; c++ {
				t := [3]float64{float64(a), float64(b), float64(c)}
				s := toSuperFrac(t, sinv, symprec)
				key := quantize(s, symprec)
				if seen[key] {
					continue
				}
				seen[key] = true
				points = append(points, t)
			}
		}
	}
	return points
}

func quantize(s [3]float64, symprec float64) [3]int64 {
	eps := math.Max(symprec, 1e-10)
	var q [3]int64
	for k := 0; k < 3; k++ {
		q[k] = int64(math.Round(s[k] / eps))
	}
	return q
}

func invertIntMatrix(m [3][3]int) ([3][3]float64, error) {
	d := mat.NewDense(3, 3, []float64{
		float64(m[0][0]), float64(m[0][1]), float64(m[0][2]),
		float64(m[1][0]), float64(m[1][1]), float64(m[1][2]),
		float64(m[2][0]), float64(m[2][1]), float64(m[2][2]),
	})
	var inv mat.Dense
	if err := inv.Inverse(d); err != nil {
		return [3][3]float64{}, fmt.Errorf("crystal: singular matrix %v", m)
	}
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}
