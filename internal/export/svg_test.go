package export

import (
	"strings"
	"testing"
)

func TestSpectrumToSVG(t *testing.T) {
	svg := SpectrumToSVG([]float64{0, 0, 0, 4.2, 4.2, 7.5}, 400, 200, "#00ff00")
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing xml header")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color not applied")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("no path element")
	}
	if strings.Contains(svg, "<line") {
		t.Error("zero axis drawn without imaginary modes")
	}
}

func TestSpectrumToSVGImaginaryAxis(t *testing.T) {
	svg := SpectrumToSVG([]float64{-1.5, 0, 3.0}, 400, 200, "#00ff00")
	if !strings.Contains(svg, "<line") {
		t.Error("zero axis expected when spectrum crosses zero")
	}
}

func TestSpectrumToSVGTooFewPoints(t *testing.T) {
	if SpectrumToSVG([]float64{1.0}, 400, 200, "#fff") != "" {
		t.Error("single point should render nothing")
	}
}
