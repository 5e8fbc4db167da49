// Package projfile reads phono3py.yaml-like project descriptors: a
// single YAML document carrying the unit cell, the fc3 and fc2
// supercell matrices, the primitive matrix and optionally the
// non-analytical correction parameters.
package projfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonahhaber/phono3py/internal/crystal"
	"github.com/jonahhaber/phono3py/internal/nac"
)

type document struct {
	SupercellMatrix       [][]int     `yaml:"supercell_matrix"`
	PhononSupercellMatrix [][]int     `yaml:"phonon_supercell_matrix"`
	PrimitiveMatrix       [][]float64 `yaml:"primitive_matrix"`
	UnitCell              *cellBlock  `yaml:"unit_cell"`
	NAC                   *nacBlock   `yaml:"nac"`
}

type cellBlock struct {
	Lattice [][]float64 `yaml:"lattice"`
	Points  []point     `yaml:"points"`
}

type point struct {
	Symbol      string    `yaml:"symbol"`
	Coordinates []float64 `yaml:"coordinates"`
	Mass        float64   `yaml:"mass"`
}

type nacBlock struct {
	BornEffectiveCharge [][][]float64 `yaml:"born_effective_charge"`
	DielectricConstant  [][]float64   `yaml:"dielectric_constant"`
	Factor              float64       `yaml:"factor"`
}

// ProjectFile is the parsed descriptor. Matrix fields are nil when
// the document does not carry them.
type ProjectFile struct {
	Unitcell              *crystal.Cell
	SupercellMatrix       *[3][3]int
	PhononSupercellMatrix *[3][3]int
	PrimitiveMatrix       *[3][3]float64
	NACParams             *nac.Params
}

// Read parses a descriptor file.
func Read(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("projfile: parse %s: %w", path, err)
	}
	if doc.UnitCell == nil {
		return nil, fmt.Errorf("projfile: %s: no unit_cell block", path)
	}

	pf := &ProjectFile{}
	if pf.Unitcell, err = doc.UnitCell.toCell(); err != nil {
		return nil, fmt.Errorf("projfile: %s: %w", path, err)
	}
	if pf.SupercellMatrix, err = intMatrix(doc.SupercellMatrix); err != nil {
		return nil, fmt.Errorf("projfile: %s: supercell_matrix: %w", path, err)
	}
	if pf.PhononSupercellMatrix, err = intMatrix(doc.PhononSupercellMatrix); err != nil {
		return nil, fmt.Errorf("projfile: %s: phonon_supercell_matrix: %w", path, err)
	}
	if pf.PrimitiveMatrix, err = floatMatrix(doc.PrimitiveMatrix); err != nil {
		return nil, fmt.Errorf("projfile: %s: primitive_matrix: %w", path, err)
	}
	if doc.NAC != nil {
		if pf.NACParams, err = doc.NAC.toParams(); err != nil {
			return nil, fmt.Errorf("projfile: %s: nac: %w", path, err)
		}
	}
	return pf, nil
}

func (b *cellBlock) toCell() (*crystal.Cell, error) {
	if len(b.Lattice) != 3 {
		return nil, fmt.Errorf("unit_cell lattice needs 3 rows, got %d", len(b.Lattice))
	}
	var lattice [3][3]float64
	for i, row := range b.Lattice {
		if len(row) != 3 {
			return nil, fmt.Errorf("unit_cell lattice row %d has %d entries", i, len(row))
		}
		copy(lattice[i][:], row)
	}
	if len(b.Points) == 0 {
		return nil, fmt.Errorf("unit_cell has no points")
	}
	positions := make([][3]float64, len(b.Points))
	symbols := make([]string, len(b.Points))
	masses := make([]float64, len(b.Points))
	haveMasses := true
	for i, pt := range b.Points {
		if len(pt.Coordinates) != 3 {
			return nil, fmt.Errorf("point %d has %d coordinates", i, len(pt.Coordinates))
		}
		copy(positions[i][:], pt.Coordinates)
		symbols[i] = pt.Symbol
		masses[i] = pt.Mass
		if pt.Mass == 0 {
			haveMasses = false
		}
	}
	if !haveMasses {
		masses = nil // fall back to the mass table
	}
	return crystal.NewCell(lattice, positions, symbols, masses)
}

func (b *nacBlock) toParams() (*nac.Params, error) {
	p := &nac.Params{Factor: b.Factor}
	if len(b.DielectricConstant) != 3 {
		return nil, fmt.Errorf("dielectric_constant needs 3 rows, got %d", len(b.DielectricConstant))
	}
	for i, row := range b.DielectricConstant {
		if len(row) != 3 {
			return nil, fmt.Errorf("dielectric_constant row %d has %d entries", i, len(row))
		}
		copy(p.Dielectric[i][:], row)
	}
	for n, z := range b.BornEffectiveCharge {
		if len(z) != 3 {
			return nil, fmt.Errorf("born_effective_charge %d needs 3 rows", n)
		}
		var t [3][3]float64
		for i, row := range z {
			if len(row) != 3 {
				return nil, fmt.Errorf("born_effective_charge %d row %d has %d entries", n, i, len(row))
			}
			copy(t[i][:], row)
		}
		p.Born = append(p.Born, t)
	}
	return p, nil
}

func intMatrix(rows [][]int) (*[3][3]int, error) {
	if rows == nil {
		return nil, nil
	}
	if len(rows) != 3 {
		return nil, fmt.Errorf("needs 3 rows, got %d", len(rows))
	}
	var m [3][3]int
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("row %d has %d entries", i, len(row))
		}
		copy(m[i][:], row)
	}
	return &m, nil
}

func floatMatrix(rows [][]float64) (*[3][3]float64, error) {
	if rows == nil {
		return nil, nil
	}
	if len(rows) != 3 {
		return nil, fmt.Errorf("needs 3 rows, got %d", len(rows))
	}
	var m [3][3]float64
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("row %d has %d entries", i, len(row))
		}
		copy(m[i][:], row)
	}
	return &m, nil
}
