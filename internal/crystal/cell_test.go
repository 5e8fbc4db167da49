package crystal

import (
	"math"
	"testing"
)

func siCell(t *testing.T) *Cell {
	t.Helper()
	a := 5.43
	c, err := NewCell(
		[3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		[][3]float64{
			{0, 0, 0}, {0.5, 0.5, 0}, {0.5, 0, 0.5}, {0, 0.5, 0.5},
			{0.25, 0.25, 0.25}, {0.75, 0.75, 0.25}, {0.75, 0.25, 0.75}, {0.25, 0.75, 0.75},
		},
		[]string{"Si", "Si", "Si", "Si", "Si", "Si", "Si", "Si"},
		nil,
	)
	if err != nil {
		t.Fatalf("NewCell: %v", err)
	}
	return c
}

func TestNewCellFillsMasses(t *testing.T) {
	c := siCell(t)
	if len(c.Masses) != 8 {
		t.Fatalf("expected 8 masses, got %d", len(c.Masses))
	}
	if math.Abs(c.Masses[0]-28.0855) > 1e-6 {
		t.Errorf("Si mass = %f", c.Masses[0])
	}
}

func TestNewCellUnknownElement(t *testing.T) {
	_, err := NewCell([3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][3]float64{{0, 0, 0}}, []string{"Xx"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown element")
	}
}

func TestNewCellLengthMismatch(t *testing.T) {
	_, err := NewCell([3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][3]float64{{0, 0, 0}, {0.5, 0.5, 0.5}}, []string{"Na"}, nil)
	if err == nil {
		t.Fatal("expected error for position/symbol mismatch")
	}
}

func TestVolume(t *testing.T) {
	c := siCell(t)
	want := 5.43 * 5.43 * 5.43
	if math.Abs(c.Volume()-want) > 1e-8 {
		t.Errorf("volume = %f, want %f", c.Volume(), want)
	}
}

func TestCartesian(t *testing.T) {
	c := siCell(t)
	r := c.Cartesian(4)
	for k := 0; k < 3; k++ {
		if math.Abs(r[k]-0.25*5.43) > 1e-10 {
			t.Errorf("cartesian[%d] = %f", k, r[k])
		}
	}
}

func TestCopyIsDeep(t *testing.T) {
	c := siCell(t)
	cp := c.Copy()
	cp.Positions[0][0] = 0.9
	cp.Masses[0] = 1.0
	if c.Positions[0][0] != 0 || c.Masses[0] == 1.0 {
		t.Error("Copy shares backing arrays with the original")
	}
}
