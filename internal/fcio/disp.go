package fcio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonahhaber/phono3py/internal/fc"
)

// Displacement descriptor documents use 1-based atom numbers; the
// datasets returned here are 0-based.

type dispDoc struct {
	NAtom      int             `yaml:"natom"`
	FirstAtoms []dispFirstAtom `yaml:"first_atoms"`
}

type dispFirstAtom struct {
	Number       int              `yaml:"number"`
	Displacement []float64        `yaml:"displacement"`
	SecondAtoms  []dispSecondAtom `yaml:"second_atoms"`
}

type dispSecondAtom struct {
	Number       int       `yaml:"number"`
	Displacement []float64 `yaml:"displacement"`
}

// ReadDispFC2 parses a disp_fc2.yaml-style file.
func ReadDispFC2(path string) (*fc.Dataset, error) {
	doc, err := readDispDoc(path)
	if err != nil {
		return nil, err
	}
	ds := &fc.Dataset{NAtoms: doc.NAtom}
	for i, fa := range doc.FirstAtoms {
		atom, vec, err := checkDispAtom(fa.Number, fa.Displacement, doc.NAtom)
		if err != nil {
			return nil, fmt.Errorf("fcio: %s: first_atoms[%d]: %w", path, i, err)
		}
		ds.Displacements = append(ds.Displacements, fc.Displacement{Atom: atom, Vector: vec})
	}
	if len(ds.Displacements) == 0 {
		return nil, fmt.Errorf("fcio: %s: no displacements", path)
	}
	return ds, nil
}

// ReadDispFC3 parses a disp_fc3.yaml-style file with pair
// displacements.
func ReadDispFC3(path string) (*fc.Dataset3, error) {
	doc, err := readDispDoc(path)
	if err != nil {
		return nil, err
	}
	ds := &fc.Dataset3{NAtoms: doc.NAtom}
	for i, fa := range doc.FirstAtoms {
		atom, vec, err := checkDispAtom(fa.Number, fa.Displacement, doc.NAtom)
		if err != nil {
			return nil, fmt.Errorf("fcio: %s: first_atoms[%d]: %w", path, i, err)
		}
		first := fc.FirstDisplacement{Atom: atom, Vector: vec}
		for j, sa := range fa.SecondAtoms {
			atom2, vec2, err := checkDispAtom(sa.Number, sa.Displacement, doc.NAtom)
			if err != nil {
				return nil, fmt.Errorf("fcio: %s: first_atoms[%d].second_atoms[%d]: %w", path, i, j, err)
			}
			first.Pairs = append(first.Pairs, fc.PairDisplacement{Atom: atom2, Vector: vec2})
		}
		ds.First = append(ds.First, first)
	}
	if len(ds.First) == 0 {
		return nil, fmt.Errorf("fcio: %s: no displacements", path)
	}
	return ds, nil
}

func readDispDoc(path string) (*dispDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc dispDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fcio: parse %s: %w", path, err)
	}
	if doc.NAtom <= 0 {
		return nil, fmt.Errorf("fcio: %s: natom missing or non-positive", path)
	}
	return &doc, nil
}

func checkDispAtom(number int, displacement []float64, natoms int) (int, [3]float64, error) {
	var vec [3]float64
	if number < 1 || number > natoms {
		return 0, vec, fmt.Errorf("atom number %d out of range [1,%d]", number, natoms)
	}
	if len(displacement) != 3 {
		return 0, vec, fmt.Errorf("displacement has %d components", len(displacement))
	}
	copy(vec[:], displacement)
	return number - 1, vec, nil
}
