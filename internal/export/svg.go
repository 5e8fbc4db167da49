package export

import (
	"fmt"
	"strings"
)

// SpectrumToSVG renders a frequency spectrum as an SVG polyline, one
// point per mode in ascending order.
func SpectrumToSVG(freqs []float64, width, height int, strokeColor string) string {
	if len(freqs) < 2 {
		return ""
	}

	minF, maxF := freqs[0], freqs[0]
	for _, f := range freqs {
		if f < minF {
			minF = f
		}
		if f > maxF {
			maxF = f
		}
	}

	// pad the value range so the extremes stay off the border
	rangeF := maxF - minF
	if rangeF == 0 {
		rangeF = 1
	}
	minF -= rangeF * 0.1
	maxF += rangeF * 0.1
	rangeF = maxF - minF

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// zero-frequency axis, useful for spotting imaginary modes
	if minF < 0 && maxF > 0 {
		y0 := float64(height) - (0-minF)/rangeF*float64(height)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444444" stroke-width="1"/>
`, y0, width, y0))
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, f := range freqs {
		x := float64(i) / float64(len(freqs)-1) * float64(width)
		y := float64(height) - (f-minF)/rangeF*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
