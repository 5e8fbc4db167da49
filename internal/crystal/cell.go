package crystal

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Cell describes a periodic crystal cell. Lattice rows are basis
// vectors in Angstrom, Positions are fractional coordinates in that
// basis.
type Cell struct {
	Lattice   [3][3]float64
	Positions [][3]float64
	Symbols   []string
	Masses    []float64
}

// NewCell builds a cell, filling masses from the atomic mass table
// when masses is nil.
func NewCell(lattice [3][3]float64, positions [][3]float64, symbols []string, masses []float64) (*Cell, error) {
	if len(positions) != len(symbols) {
		return nil, fmt.Errorf("crystal: %d positions for %d symbols", len(positions), len(symbols))
	}
	if masses == nil {
		masses = make([]float64, len(symbols))
		for i, s := range symbols {
			m, ok := AtomicMass(s)
			if !ok {
				return nil, fmt.Errorf("crystal: no tabulated mass for element %q", s)
			}
			masses[i] = m
		}
	} else if len(masses) != len(symbols) {
		return nil, fmt.Errorf("crystal: %d masses for %d symbols", len(masses), len(symbols))
	}
	c := &Cell{
		Lattice:   lattice,
		Positions: append([][3]float64(nil), positions...),
		Symbols:   append([]string(nil), symbols...),
		Masses:    append([]float64(nil), masses...),
	}
	return c, nil
}

func (c *Cell) NumAtoms() int { return len(c.Positions) }

// Volume returns the cell volume in cubic Angstrom.
func (c *Cell) Volume() float64 {
	m := c.latticeDense()
	return mat.Det(m)
}

// Cartesian returns the cartesian coordinates of atom i.
func (c *Cell) Cartesian(i int) [3]float64 {
	p := c.Positions[i]
	var r [3]float64
	for k := 0; k < 3; k++ {
		r[k] = p[0]*c.Lattice[0][k] + p[1]*c.Lattice[1][k] + p[2]*c.Lattice[2][k]
	}
	return r
}

// Copy returns a deep copy.
func (c *Cell) Copy() *Cell {
	cp := &Cell{Lattice: c.Lattice}
	cp.Positions = append([][3]float64(nil), c.Positions...)
	cp.Symbols = append([]string(nil), c.Symbols...)
	cp.Masses = append([]float64(nil), c.Masses...)
	return cp
}

// ScaleDistances multiplies the lattice by a length unit conversion
// factor (e.g. Bohr to Angstrom), leaving fractional positions alone.
func (c *Cell) ScaleDistances(factor float64) {
	for i := range c.Lattice {
		for j := range c.Lattice[i] {
			c.Lattice[i][j] *= factor
		}
	}
}

func (c *Cell) latticeDense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		c.Lattice[0][0], c.Lattice[0][1], c.Lattice[0][2],
		c.Lattice[1][0], c.Lattice[1][1], c.Lattice[1][2],
		c.Lattice[2][0], c.Lattice[2][1], c.Lattice[2][2],
	})
}

// wrap maps a fractional coordinate into [0, 1) with tolerance eps so
// values like 0.9999999 land on 0.
func wrap(x, eps float64) float64 {
	for x < -eps {
		x++
	}
	for x >= 1-eps {
		x--
	}
	if x < 0 {
		x = 0
	}
	return x
}
