package crystal

import (
	"math"
	"testing"
)

func TestNormalizeSupercellMatrix(t *testing.T) {
	tests := []struct {
		name    string
		in      []int
		want    [3][3]int
		wantErr bool
	}{
		{"diagonal", []int{2, 2, 3}, [3][3]int{{2, 0, 0}, {0, 2, 0}, {0, 0, 3}}, false},
		{"full", []int{1, 1, 0, 0, 1, 0, 0, 0, 1}, [3][3]int{{1, 1, 0}, {0, 1, 0}, {0, 0, 1}}, false},
		{"singular", []int{0, 0, 0}, [3][3]int{}, true},
		{"bad length", []int{2, 2}, [3][3]int{}, true},
	}
	for _, tt := range tests {
		got, err := NormalizeSupercellMatrix(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBuildSupercellDiagonal(t *testing.T) {
	uc := siCell(t)
	sc, err := BuildSupercell(uc, [3][3]int{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}, 1e-5)
	if err != nil {
		t.Fatalf("BuildSupercell: %v", err)
	}
	if sc.NumAtoms() != 64 {
		t.Fatalf("expected 64 atoms, got %d", sc.NumAtoms())
	}
	if math.Abs(sc.Lattice[0][0]-2*5.43) > 1e-10 {
		t.Errorf("supercell lattice a = %f", sc.Lattice[0][0])
	}
	// 8x the unit cell volume
	if math.Abs(sc.Volume()-8*uc.Volume()) > 1e-6 {
		t.Errorf("supercell volume = %f", sc.Volume())
	}
	// origin image of atom i sits at index i*ncells
	for i := 0; i < uc.NumAtoms(); i++ {
		p := sc.Positions[i*8]
		for k := 0; k < 3; k++ {
			if math.Abs(p[k]-uc.Positions[i][k]/2) > 1e-8 {
				t.Fatalf("atom %d origin image at %v", i, p)
			}
		}
	}
}

func TestBuildSupercellNonDiagonal(t *testing.T) {
	uc := siCell(t)
	smat := [3][3]int{{1, 1, 0}, {-1, 1, 0}, {0, 0, 1}} // det 2
	sc, err := BuildSupercell(uc, smat, 1e-5)
	if err != nil {
		t.Fatalf("BuildSupercell: %v", err)
	}
	if sc.NumAtoms() != 16 {
		t.Errorf("expected 16 atoms, got %d", sc.NumAtoms())
	}
	if math.Abs(sc.Volume()-2*uc.Volume()) > 1e-6 {
		t.Errorf("supercell volume = %f", sc.Volume())
	}
}

func TestBuildSupercellPositionsWrapped(t *testing.T) {
	uc := siCell(t)
	sc, err := BuildSupercell(uc, [3][3]int{{3, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 1e-5)
	if err != nil {
		t.Fatalf("BuildSupercell: %v", err)
	}
	for i, p := range sc.Positions {
		for k := 0; k < 3; k++ {
			if p[k] < 0 || p[k] >= 1 {
				t.Fatalf("atom %d coordinate %d out of cell: %f", i, k, p[k])
			}
		}
	}
}

func TestBuildPrimitiveIdentity(t *testing.T) {
	uc := siCell(t)
	prim, err := BuildPrimitive(uc, IdentityPrimitiveMatrix(), 8, 1e-5)
	if err != nil {
		t.Fatalf("BuildPrimitive: %v", err)
	}
	if prim.NumAtoms() != uc.NumAtoms() {
		t.Fatalf("expected %d atoms, got %d", uc.NumAtoms(), prim.NumAtoms())
	}
	for i, s := range prim.P2SMap {
		if s != i*8 {
			t.Errorf("p2s[%d] = %d, want %d", i, s, i*8)
		}
	}
}

func TestBuildPrimitiveFCC(t *testing.T) {
	// conventional fcc Al cell reduces to one atom with F centering
	a := 4.05
	uc, err := NewCell(
		[3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		[][3]float64{{0, 0, 0}, {0.5, 0.5, 0}, {0.5, 0, 0.5}, {0, 0.5, 0.5}},
		[]string{"Al", "Al", "Al", "Al"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fmat, err := CenteringMatrix("F")
	if err != nil {
		t.Fatal(err)
	}
	prim, err := BuildPrimitive(uc, fmat, 1, 1e-5)
	if err != nil {
		t.Fatalf("BuildPrimitive: %v", err)
	}
	if prim.NumAtoms() != 1 {
		t.Fatalf("expected 1 primitive atom, got %d", prim.NumAtoms())
	}
	if math.Abs(math.Abs(prim.Volume())-uc.Volume()/4) > 1e-6 {
		t.Errorf("primitive volume = %f, want %f", prim.Volume(), uc.Volume()/4)
	}
}

func TestCenteringMatrixUnknown(t *testing.T) {
	if _, err := CenteringMatrix("Q"); err == nil {
		t.Error("expected error for unknown centering letter")
	}
}
