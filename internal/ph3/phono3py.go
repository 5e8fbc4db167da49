package ph3

import (
	"errors"
	"fmt"

	"github.com/jonahhaber/phono3py/internal/crystal"
	"github.com/jonahhaber/phono3py/internal/fc"
	"github.com/jonahhaber/phono3py/internal/nac"
)

// Domain errors surfaced by the simulation object.
var (
	// ErrNoMesh indicates phonon-phonon interaction setup without a
	// sampling mesh.
	ErrNoMesh = errors.New("ph3: no sampling mesh set")

	// ErrNoForceConstants indicates an operation that needs fc2
	// before it was set.
	ErrNoForceConstants = errors.New("ph3: second-order force constants not set")

	// ErrShapeMismatch indicates force constants whose shape does not
	// fit the resolved cells.
	ErrShapeMismatch = errors.New("ph3: force constant shape mismatch")
)

// Config carries everything the loader resolved for the instance.
type Config struct {
	Unitcell              *crystal.Cell
	SupercellMatrix       [3][3]int
	PhononSupercellMatrix *[3][3]int
	PrimitiveMatrix       [3][3]float64
	Mesh                  *[3]int
	FrequencyFactor       float64 // eigenvalue to THz conversion
	Calculator            string
	Symprec               float64
	IsSymmetry            bool
	IsMeshSymmetry        bool
}

// Phono3py is the assembled simulation instance. It owns the resolved
// cells, force constants and interaction configuration; the numerics
// consuming them live elsewhere.
type Phono3py struct {
	cfg Config

	supercell       *crystal.Cell
	phononSupercell *crystal.Cell
	primitive       *crystal.Primitive

	fc2      *fc.FC2
	fc3      *fc.FC3
	dataset  *fc.Dataset
	dataset3 *fc.Dataset3

	interaction *Interaction
}

// Interaction is the stored phonon-phonon interaction setup.
type Interaction struct {
	Mesh                 [3]int
	NACParams            *nac.Params
	FrequencyScaleFactor float64
	MeshSymmetry         bool
}

// New derives supercells and the primitive cell from the resolved
// configuration.
func New(cfg Config) (*Phono3py, error) {
	if cfg.Unitcell == nil {
		return nil, fmt.Errorf("ph3: no unit cell")
	}
	if cfg.Symprec <= 0 {
		cfg.Symprec = 1e-5
	}
	if cfg.FrequencyFactor == 0 {
		return nil, fmt.Errorf("ph3: frequency factor not set")
	}

	p := &Phono3py{cfg: cfg}
	var err error
	if p.supercell, err = crystal.BuildSupercell(cfg.Unitcell, cfg.SupercellMatrix, cfg.Symprec); err != nil {
		return nil, err
	}
	if cfg.PhononSupercellMatrix != nil {
		if p.phononSupercell, err = crystal.BuildSupercell(cfg.Unitcell, *cfg.PhononSupercellMatrix, cfg.Symprec); err != nil {
			return nil, err
		}
	} else {
		p.phononSupercell = p.supercell
	}
	ncells := p.supercell.NumAtoms() / cfg.Unitcell.NumAtoms()
	if p.primitive, err = crystal.BuildPrimitive(cfg.Unitcell, cfg.PrimitiveMatrix, ncells, cfg.Symprec); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Phono3py) Unitcell() *crystal.Cell        { return p.cfg.Unitcell }
func (p *Phono3py) Supercell() *crystal.Cell       { return p.supercell }
func (p *Phono3py) PhononSupercell() *crystal.Cell { return p.phononSupercell }
func (p *Phono3py) Primitive() *crystal.Primitive  { return p.primitive }
func (p *Phono3py) SupercellMatrix() [3][3]int     { return p.cfg.SupercellMatrix }
func (p *Phono3py) PrimitiveMatrix() [3][3]float64 { return p.cfg.PrimitiveMatrix }
func (p *Phono3py) Calculator() string             { return p.cfg.Calculator }
func (p *Phono3py) Symprec() float64               { return p.cfg.Symprec }
func (p *Phono3py) FrequencyFactor() float64       { return p.cfg.FrequencyFactor }

// PhononSupercellMatrix returns the fc2 supercell matrix, which is
// the fc3 one unless it was set separately.
func (p *Phono3py) PhononSupercellMatrix() [3][3]int {
	if p.cfg.PhononSupercellMatrix != nil {
		return *p.cfg.PhononSupercellMatrix
	}
	return p.cfg.SupercellMatrix
}

// Mesh returns the sampling mesh, or nil.
func (p *Phono3py) Mesh() *[3]int { return p.cfg.Mesh }

// P2SMap maps primitive atoms to supercell indices.
func (p *Phono3py) P2SMap() []int { return p.primitive.P2SMap }

// SetFC2 validates shape against the fc2 (phonon) supercell and
// stores the constants.
func (p *Phono3py) SetFC2(f *fc.FC2) error {
	n := p.phononSupercell.NumAtoms()
	if f.N2 != n || (f.N1 != n && f.N1 != p.primitive.NumAtoms()) {
		return fmt.Errorf("%w: fc2 (%d,%d) vs %d supercell atoms", ErrShapeMismatch, f.N1, f.N2, n)
	}
	p.fc2 = f
	return nil
}

// SetFC3 validates shape against the supercell and stores the
// constants.
func (p *Phono3py) SetFC3(f *fc.FC3) error {
	n := p.supercell.NumAtoms()
	if f.N2 != n || f.N3 != n || (f.N1 != n && f.N1 != p.primitive.NumAtoms()) {
		return fmt.Errorf("%w: fc3 (%d,%d,%d) vs %d supercell atoms", ErrShapeMismatch, f.N1, f.N2, f.N3, n)
	}
	p.fc3 = f
	return nil
}

func (p *Phono3py) FC2() *fc.FC2 { return p.fc2 }
func (p *Phono3py) FC3() *fc.FC3 { return p.fc3 }

// SetDataset stores a second-order displacement dataset for later
// force-constant production.
func (p *Phono3py) SetDataset(d *fc.Dataset) error {
	if d.NAtoms != p.phononSupercell.NumAtoms() {
		return fmt.Errorf("%w: dataset for %d atoms vs %d supercell atoms", ErrShapeMismatch, d.NAtoms, p.phononSupercell.NumAtoms())
	}
	p.dataset = d
	return nil
}

// SetDataset3 stores a third-order displacement dataset.
func (p *Phono3py) SetDataset3(d *fc.Dataset3) error {
	if d.NAtoms != p.supercell.NumAtoms() {
		return fmt.Errorf("%w: dataset for %d atoms vs %d supercell atoms", ErrShapeMismatch, d.NAtoms, p.supercell.NumAtoms())
	}
	p.dataset3 = d
	return nil
}

func (p *Phono3py) Dataset() *fc.Dataset   { return p.dataset }
func (p *Phono3py) Dataset3() *fc.Dataset3 { return p.dataset3 }

// ProduceFC2 fits second-order force constants from the stored
// dataset by finite differences and sets them on the instance.
func (p *Phono3py) ProduceFC2() error {
	if p.dataset == nil {
		return fmt.Errorf("ph3: no displacement dataset to produce fc2 from")
	}
	f, err := fc.ProduceFC2(p.dataset)
	if err != nil {
		return err
	}
	fc.ApplyTranslationalInvariance(f)
	return p.SetFC2(f)
}

// SetPhPhInteraction stores the phonon-phonon interaction setup. NAC
// parameters and the frequency scale factor pass through unchanged; a
// sampling mesh must have been given to the constructor.
func (p *Phono3py) SetPhPhInteraction(nacParams *nac.Params, frequencyScaleFactor float64) error {
	if p.cfg.Mesh == nil {
		return ErrNoMesh
	}
	p.interaction = &Interaction{
		Mesh:                 *p.cfg.Mesh,
		NACParams:            nacParams,
		FrequencyScaleFactor: frequencyScaleFactor,
		MeshSymmetry:         p.cfg.IsMeshSymmetry,
	}
	return nil
}

// Interaction returns the stored setup, or nil before
// SetPhPhInteraction.
func (p *Phono3py) Interaction() *Interaction { return p.interaction }
