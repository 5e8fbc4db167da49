package fc

import (
	"math"
	"testing"
)

func TestWrapFC2ShapeCheck(t *testing.T) {
	if _, err := WrapFC2(2, 2, make([]float64, 36)); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if _, err := WrapFC2(2, 2, make([]float64, 35)); err == nil {
		t.Error("short buffer accepted")
	}
}

func TestFC2Indexing(t *testing.T) {
	f := NewFC2(3, 3)
	f.Set(1, 2, 0, 1, 4.5)
	if f.At(1, 2, 0, 1) != 4.5 {
		t.Error("set/get mismatch")
	}
	if f.At(2, 1, 1, 0) != 0 {
		t.Error("transposed element should stay zero")
	}
	if f.IsCompact() {
		t.Error("square fc2 reported compact")
	}
	if c := (&FC2{N1: 1, N2: 3, Elems: make([]float64, 27)}); !c.IsCompact() {
		t.Error("compact fc2 not detected")
	}
}

func TestWrapFC3ShapeCheck(t *testing.T) {
	if _, err := WrapFC3(2, 2, 2, make([]float64, 216)); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if _, err := WrapFC3(2, 2, 2, make([]float64, 215)); err == nil {
		t.Error("short buffer accepted")
	}
}

// springDataset builds the exact force response of two unit-mass
// atoms coupled by a scalar spring k acting on every cartesian axis.
func springDataset(k, d float64) *Dataset {
	ds := &Dataset{NAtoms: 2}
	for atom := 0; atom < 2; atom++ {
		other := 1 - atom
		for axis := 0; axis < 3; axis++ {
			var v [3]float64
			v[axis] = d
			forces := make([][3]float64, 2)
			forces[atom][axis] = -k * d
			forces[other][axis] = k * d
			ds.Displacements = append(ds.Displacements, Displacement{Atom: atom, Vector: v, Forces: forces})
		}
	}
	return ds
}

func TestProduceFC2Spring(t *testing.T) {
	k := 3.7
	f, err := ProduceFC2(springDataset(k, 0.01))
	if err != nil {
		t.Fatalf("ProduceFC2: %v", err)
	}
	for a := 0; a < 3; a++ {
		if math.Abs(f.At(0, 0, a, a)-k) > 1e-9 {
			t.Errorf("self term [%d][%d] = %f, want %f", a, a, f.At(0, 0, a, a), k)
		}
		if math.Abs(f.At(0, 1, a, a)+k) > 1e-9 {
			t.Errorf("cross term [%d][%d] = %f, want %f", a, a, f.At(0, 1, a, a), -k)
		}
	}
	// off-axis couplings vanish for a scalar spring
	if math.Abs(f.At(0, 1, 0, 1)) > 1e-9 {
		t.Errorf("unexpected xy coupling %f", f.At(0, 1, 0, 1))
	}
}

func TestProduceFC2MissingForces(t *testing.T) {
	ds := &Dataset{NAtoms: 1, Displacements: []Displacement{{Atom: 0, Vector: [3]float64{0.01, 0, 0}}}}
	if _, err := ProduceFC2(ds); err == nil {
		t.Fatal("expected error for displacement without forces")
	}
}

func TestProduceFC2Empty(t *testing.T) {
	if _, err := ProduceFC2(&Dataset{NAtoms: 2}); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestApplyTranslationalInvariance(t *testing.T) {
	f := NewFC2(2, 2)
	f.Set(0, 1, 0, 0, -2.0)
	f.Set(0, 0, 0, 0, 5.0) // wrong self term, rule must fix it
	ApplyTranslationalInvariance(f)
	if f.At(0, 0, 0, 0) != 2.0 {
		t.Errorf("self term = %f, want 2.0", f.At(0, 0, 0, 0))
	}
}

func TestAttachForces(t *testing.T) {
	ds := &Dataset{NAtoms: 2, Displacements: []Displacement{
		{Atom: 0, Vector: [3]float64{0.01, 0, 0}},
		{Atom: 1, Vector: [3]float64{0, 0.01, 0}},
	}}
	blocks := [][][3]float64{
		{{1, 0, 0}, {-1, 0, 0}},
		{{0, -1, 0}, {0, 1, 0}},
	}
	if err := ds.AttachForces(blocks); err != nil {
		t.Fatalf("AttachForces: %v", err)
	}
	if ds.Displacements[1].Forces[1][1] != 1 {
		t.Error("forces not attached in order")
	}
	if err := ds.AttachForces(blocks[:1]); err == nil {
		t.Error("block count mismatch accepted")
	}
}

func TestDataset3Counts(t *testing.T) {
	d3 := &Dataset3{NAtoms: 2, First: []FirstDisplacement{
		{Atom: 0, Pairs: []PairDisplacement{{Atom: 0}, {Atom: 1}}},
		{Atom: 1, Pairs: []PairDisplacement{{Atom: 1}}},
	}}
	if d3.NumSupercells() != 3 {
		t.Errorf("NumSupercells = %d, want 3", d3.NumSupercells())
	}
	blocks := [][][3]float64{
		{{0, 0, 0}, {0, 0, 0}},
		{{0, 0, 0}, {0, 0, 0}},
		{{0, 0, 0}, {0, 0, 0}},
	}
	if err := d3.AttachForces(blocks); err != nil {
		t.Fatalf("AttachForces: %v", err)
	}
	if d3.First[1].Pairs[0].Forces == nil {
		t.Error("pair forces not attached")
	}
}
