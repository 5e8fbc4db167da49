// Package nac handles non-analytical term correction parameters:
// Born effective charges and the dielectric tensor, read from BORN
// files or passed through from in-memory values. The package resolves
// which source wins but never judges the physics.
package nac

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilename is looked up in the working directory when NAC is
// enabled and no explicit source is given.
const DefaultFilename = "BORN"

// Params holds non-analytical term correction input.
type Params struct {
	// Born effective charge tensor per independent atom, 3x3 each.
	Born [][3][3]float64
	// Dielectric constant tensor.
	Dielectric [3][3]float64
	// Factor is the unit conversion factor. Zero means "use the
	// calculator default".
	Factor float64
}

// Copy returns a deep copy.
func (p *Params) Copy() *Params {
	cp := &Params{Dielectric: p.Dielectric, Factor: p.Factor}
	cp.Born = append([][3][3]float64(nil), p.Born...)
	return cp
}

// Resolve picks the NAC parameter source by priority: explicit params
// > born file > default BORN file in dir, all gated by enabled. A nil
// result with nil error means NAC is off. Missing factors are filled
// from defaultFactor.
func Resolve(params *Params, bornFilename string, enabled bool, defaultFactor float64, dir string) (*Params, error) {
	if !enabled {
		return nil, nil
	}
	if params != nil {
		out := params.Copy()
		if out.Factor == 0 {
			out.Factor = defaultFactor
		}
		return out, nil
	}
	path := bornFilename
	if path == "" {
		candidate := filepath.Join(dir, DefaultFilename)
		if _, err := os.Stat(candidate); err != nil {
			return nil, nil // no BORN file, NAC silently off
		}
		path = candidate
	}
	out, err := ReadBORN(path)
	if err != nil {
		return nil, fmt.Errorf("nac: %w", err)
	}
	if out.Factor == 0 {
		out.Factor = defaultFactor
	}
	return out, nil
}
