package ph3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GammaFrequencies diagonalizes the mass-weighted fc2 matrix of the
// phonon supercell at the zone center and returns frequencies in THz.
// Imaginary modes come back negative, following the usual phonon code
// convention. Compact fc2 cannot be diagonalized directly.
func (p *Phono3py) GammaFrequencies() ([]float64, error) {
	if p.fc2 == nil {
		return nil, ErrNoForceConstants
	}
	if p.fc2.IsCompact() {
		return nil, fmt.Errorf("%w: compact fc2 cannot build a supercell dynamical matrix", ErrShapeMismatch)
	}
	cell := p.phononSupercell
	n := cell.NumAtoms()

	dyn := mat.NewSymDense(3*n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			w := 1 / math.Sqrt(cell.Masses[i]*cell.Masses[j])
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					// symmetrize ij/ji before factorization
					v := 0.5 * (p.fc2.At(i, j, a, b) + p.fc2.At(j, i, b, a)) * w
					if 3*i+a <= 3*j+b {
						dyn.SetSym(3*i+a, 3*j+b, v)
					}
				}
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(dyn, false) {
		return nil, fmt.Errorf("ph3: eigendecomposition failed")
	}
	vals := eig.Values(nil)

	freqs := make([]float64, len(vals))
	for i, v := range vals {
		f := math.Sqrt(math.Abs(v)) * p.cfg.FrequencyFactor
		if v < 0 {
			f = -f
		}
		freqs[i] = f
	}
	return freqs, nil
}
