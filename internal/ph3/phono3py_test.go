package ph3

import (
	"errors"
	"math"
	"testing"

	"github.com/jonahhaber/phono3py/internal/calculator"
	"github.com/jonahhaber/phono3py/internal/crystal"
	"github.com/jonahhaber/phono3py/internal/fc"
	"github.com/jonahhaber/phono3py/internal/nac"
)

func testCell(t *testing.T) *crystal.Cell {
	t.Helper()
	c, err := crystal.NewCell(
		[3][3]float64{{3.0, 0, 0}, {0, 3.0, 0}, {0, 0, 3.0}},
		[][3]float64{{0, 0, 0}, {0.5, 0.5, 0.5}},
		[]string{"Na", "Cl"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newInstance(t *testing.T, cfg Config) *Phono3py {
	t.Helper()
	if cfg.Unitcell == nil {
		cfg.Unitcell = testCell(t)
	}
	if cfg.SupercellMatrix == ([3][3]int{}) {
		cfg.SupercellMatrix = crystal.IdentityMatrix()
	}
	if cfg.PrimitiveMatrix == ([3][3]float64{}) {
		cfg.PrimitiveMatrix = crystal.IdentityPrimitiveMatrix()
	}
	if cfg.FrequencyFactor == 0 {
		cfg.FrequencyFactor = calculator.VaspToTHz
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewBuildsCells(t *testing.T) {
	smat := [3][3]int{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}
	p := newInstance(t, Config{SupercellMatrix: smat})
	if p.Supercell().NumAtoms() != 16 {
		t.Errorf("supercell atoms = %d", p.Supercell().NumAtoms())
	}
	if p.PhononSupercell() != p.Supercell() {
		t.Error("phonon supercell should default to the fc3 supercell")
	}
	if got := p.PhononSupercellMatrix(); got != smat {
		t.Errorf("phonon supercell matrix = %v", got)
	}
	if len(p.P2SMap()) != 2 {
		t.Errorf("p2s map = %v", p.P2SMap())
	}
}

func TestNewSeparatePhononSupercell(t *testing.T) {
	ph := [3][3]int{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}
	p := newInstance(t, Config{PhononSupercellMatrix: &ph})
	if p.Supercell().NumAtoms() != 2 {
		t.Errorf("fc3 supercell atoms = %d", p.Supercell().NumAtoms())
	}
	if p.PhononSupercell().NumAtoms() != 16 {
		t.Errorf("phonon supercell atoms = %d", p.PhononSupercell().NumAtoms())
	}
	if p.PhononSupercellMatrix() != ph {
		t.Errorf("phonon supercell matrix = %v", p.PhononSupercellMatrix())
	}
}

func TestNewRequiresCellAndFactor(t *testing.T) {
	_, err := New(Config{SupercellMatrix: crystal.IdentityMatrix()})
	if err == nil {
		t.Error("expected error without unit cell")
	}
	_, err = New(Config{Unitcell: testCell(t), SupercellMatrix: crystal.IdentityMatrix(),
		PrimitiveMatrix: crystal.IdentityPrimitiveMatrix()})
	if err == nil {
		t.Error("expected error without frequency factor")
	}
}

func TestSetFC2ShapeCheck(t *testing.T) {
	p := newInstance(t, Config{})
	if err := p.SetFC2(fc.NewFC2(2, 2)); err != nil {
		t.Errorf("full-shape fc2 rejected: %v", err)
	}
	err := p.SetFC2(fc.NewFC2(3, 3))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("wrong shape error = %v", err)
	}
}

func TestSetFC3ShapeCheck(t *testing.T) {
	p := newInstance(t, Config{})
	f, err := fc.WrapFC3(2, 2, 2, make([]float64, 2*2*2*27))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetFC3(f); err != nil {
		t.Errorf("full-shape fc3 rejected: %v", err)
	}
	bad, _ := fc.WrapFC3(2, 2, 3, make([]float64, 2*2*3*27))
	if err := p.SetFC3(bad); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("wrong shape error = %v", err)
	}
}

func TestSetPhPhInteraction(t *testing.T) {
	p := newInstance(t, Config{})
	if err := p.SetPhPhInteraction(nil, 0); !errors.Is(err, ErrNoMesh) {
		t.Errorf("expected ErrNoMesh, got %v", err)
	}

	mesh := [3]int{11, 11, 11}
	p = newInstance(t, Config{Mesh: &mesh, IsMeshSymmetry: true})
	params := &nac.Params{Factor: 14.4}
	if err := p.SetPhPhInteraction(params, 1.02); err != nil {
		t.Fatalf("SetPhPhInteraction: %v", err)
	}
	got := p.Interaction()
	if got == nil || got.Mesh != mesh {
		t.Fatalf("interaction = %+v", got)
	}
	// NAC params must pass through unchanged
	if got.NACParams != params || got.FrequencyScaleFactor != 1.02 {
		t.Error("interaction settings not passed through")
	}
	if !got.MeshSymmetry {
		t.Error("mesh symmetry flag lost")
	}
}

func TestProduceFC2FromDataset(t *testing.T) {
	p := newInstance(t, Config{})
	if err := p.ProduceFC2(); err == nil {
		t.Fatal("expected error without dataset")
	}

	k := 2.5
	ds := &fc.Dataset{NAtoms: 2}
	for atom := 0; atom < 2; atom++ {
		for axis := 0; axis < 3; axis++ {
			var v [3]float64
			v[axis] = 0.01
			forces := make([][3]float64, 2)
			forces[atom][axis] = -k * 0.01
			forces[1-atom][axis] = k * 0.01
			ds.Displacements = append(ds.Displacements, fc.Displacement{Atom: atom, Vector: v, Forces: forces})
		}
	}
	if err := p.SetDataset(ds); err != nil {
		t.Fatalf("SetDataset: %v", err)
	}
	if err := p.ProduceFC2(); err != nil {
		t.Fatalf("ProduceFC2: %v", err)
	}
	if p.FC2() == nil || math.Abs(p.FC2().At(0, 1, 0, 0)+k) > 1e-9 {
		t.Errorf("produced fc2 = %v", p.FC2())
	}
}

func TestGammaFrequencies(t *testing.T) {
	p := newInstance(t, Config{})
	if _, err := p.GammaFrequencies(); !errors.Is(err, ErrNoForceConstants) {
		t.Fatalf("expected ErrNoForceConstants, got %v", err)
	}

	// scalar spring k between the two atoms, acoustic sum rule built in
	k := 4.0
	f := fc.NewFC2(2, 2)
	for a := 0; a < 3; a++ {
		f.Set(0, 0, a, a, k)
		f.Set(1, 1, a, a, k)
		f.Set(0, 1, a, a, -k)
		f.Set(1, 0, a, a, -k)
	}
	if err := p.SetFC2(f); err != nil {
		t.Fatal(err)
	}
	freqs, err := p.GammaFrequencies()
	if err != nil {
		t.Fatalf("GammaFrequencies: %v", err)
	}
	if len(freqs) != 6 {
		t.Fatalf("expected 6 modes, got %d", len(freqs))
	}
	// three acoustic zeros and three optic modes at sqrt(k/mu)*factor
	mu := 1 / (1/p.Unitcell().Masses[0] + 1/p.Unitcell().Masses[1])
	want := math.Sqrt(k/mu) * p.FrequencyFactor()
	for i := 0; i < 3; i++ {
		if math.Abs(freqs[i]) > 1e-6*want {
			t.Errorf("acoustic mode %d = %f", i, freqs[i])
		}
	}
	for i := 3; i < 6; i++ {
		if math.Abs(freqs[i]-want) > 1e-6*want {
			t.Errorf("optic mode %d = %f, want %f", i, freqs[i], want)
		}
	}
}
