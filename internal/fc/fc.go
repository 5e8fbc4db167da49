// Package fc defines force-constant containers and the displacement
// datasets they are produced from. Second-order constants can be
// produced here by finite differences; third-order production is left
// to dedicated force-constant calculators.
package fc

import "fmt"

// FC2 holds second-order force constants with shape (N1, N2, 3, 3) in
// eV/Angstrom^2. N1 equals N2 for the full representation or the
// number of primitive atoms for the compact one.
type FC2 struct {
	N1, N2 int
	Elems  []float64
}

// NewFC2 allocates a zeroed container.
func NewFC2(n1, n2 int) *FC2 {
	return &FC2{N1: n1, N2: n2, Elems: make([]float64, n1*n2*9)}
}

// WrapFC2 validates a flat buffer against the given shape.
func WrapFC2(n1, n2 int, elems []float64) (*FC2, error) {
	if len(elems) != n1*n2*9 {
		return nil, fmt.Errorf("fc: fc2 buffer has %d elements, shape (%d,%d,3,3) needs %d",
			len(elems), n1, n2, n1*n2*9)
	}
	return &FC2{N1: n1, N2: n2, Elems: elems}, nil
}

func (f *FC2) index(i, j, a, b int) int { return ((i*f.N2+j)*3+a)*3 + b }

func (f *FC2) At(i, j, a, b int) float64     { return f.Elems[f.index(i, j, a, b)] }
func (f *FC2) Set(i, j, a, b int, v float64) { f.Elems[f.index(i, j, a, b)] = v }
func (f *FC2) Add(i, j, a, b int, v float64) { f.Elems[f.index(i, j, a, b)] += v }

// IsCompact reports whether the first axis is shorter than the
// second, i.e. the constants are stored per primitive atom.
func (f *FC2) IsCompact() bool { return f.N1 != f.N2 }

// FC3 holds third-order force constants with shape (N1, N2, N3, 3, 3, 3)
// in eV/Angstrom^3.
type FC3 struct {
	N1, N2, N3 int
	Elems      []float64
}

// WrapFC3 validates a flat buffer against the given shape.
func WrapFC3(n1, n2, n3 int, elems []float64) (*FC3, error) {
	if len(elems) != n1*n2*n3*27 {
		return nil, fmt.Errorf("fc: fc3 buffer has %d elements, shape (%d,%d,%d,3,3,3) needs %d",
			len(elems), n1, n2, n3, n1*n2*n3*27)
	}
	return &FC3{N1: n1, N2: n2, N3: n3, Elems: elems}, nil
}

func (f *FC3) At(i, j, k, a, b, c int) float64 {
	return f.Elems[((((i*f.N2+j)*f.N3+k)*3+a)*3+b)*3+c]
}

// IsCompact reports whether the first axis is primitive-compact.
func (f *FC3) IsCompact() bool { return f.N1 != f.N2 }
