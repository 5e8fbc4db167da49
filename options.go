package phono3py

import (
	"go.uber.org/zap"

	"github.com/jonahhaber/phono3py/internal/crystal"
	"github.com/jonahhaber/phono3py/internal/nac"
)

// Option customizes a Load call.
type Option func(*config)

type config struct {
	projectFile string

	supercellMatrix       []int
	phononSupercellMatrix []int
	primitiveMatrix       *[3][3]float64
	primitiveCentering    string
	primitiveAuto         bool

	mesh *[3]int

	isNAC      bool
	calculator string

	unitcell  *crystal.Cell
	supercell *crystal.Cell
	nacParams *nac.Params

	unitcellFilename  string
	supercellFilename string
	bornFilename      string
	forcesFC3Filename string
	forcesFC2Filename string
	fc3Filename       string
	fc2Filename       string

	fcCalculator string

	factor               float64
	frequencyScaleFactor float64

	isSymmetry     bool
	isMeshSymmetry bool
	symprec        float64

	workDir string
	logger  *zap.Logger
}

func defaultConfig() *config {
	return &config{
		isNAC:          true,
		isSymmetry:     true,
		isMeshSymmetry: true,
		symprec:        1e-5,
		workDir:        ".",
		logger:         zap.NewNop(),
	}
}

// WithProjectFile names a phono3py.yaml-like descriptor. When given,
// cell, matrices and NAC parameters come from the descriptor and all
// other cell sources are ignored.
func WithProjectFile(path string) Option {
	return func(c *config) { c.projectFile = path }
}

// WithSupercellMatrix sets the fc3 supercell matrix: 3 elements for a
// diagonal matrix or 9 in row order.
func WithSupercellMatrix(v ...int) Option {
	return func(c *config) { c.supercellMatrix = v }
}

// WithPhononSupercellMatrix sets a separate, usually larger,
// supercell matrix for fc2. Requires a unitcell source.
func WithPhononSupercellMatrix(v ...int) Option {
	return func(c *config) { c.phononSupercellMatrix = v }
}

// WithPrimitiveMatrix sets an explicit primitive matrix.
func WithPrimitiveMatrix(m [3][3]float64) Option {
	return func(c *config) { c.primitiveMatrix = &m }
}

// WithPrimitiveCentering selects the conventional centering matrix
// for the letter F, I, A, C or R.
func WithPrimitiveCentering(letter string) Option {
	return func(c *config) { c.primitiveCentering = letter }
}

// WithPrimitiveAuto requests automatic primitive matrix choice. With
// a project descriptor this keeps the descriptor's matrix out of the
// resolution; without one it is the identity.
func WithPrimitiveAuto() Option {
	return func(c *config) { c.primitiveAuto = true }
}

// WithMesh sets the reciprocal sampling mesh and makes Load finish by
// setting up the phonon-phonon interaction.
func WithMesh(m [3]int) Option {
	return func(c *config) { c.mesh = &m }
}

// WithoutNAC disables the non-analytical term correction lookup
// entirely, including the default BORN file.
func WithoutNAC() Option {
	return func(c *config) { c.isNAC = false }
}

// WithCalculator selects the force calculator whose physical units
// and default cell filename apply. Empty means vasp.
func WithCalculator(name string) Option {
	return func(c *config) { c.calculator = name }
}

// WithUnitcell supplies an in-memory unit cell.
func WithUnitcell(cell *crystal.Cell) Option {
	return func(c *config) { c.unitcell = cell }
}

// WithSupercell supplies an in-memory supercell. The supercell matrix
// is ignored for this source.
func WithSupercell(cell *crystal.Cell) Option {
	return func(c *config) { c.supercell = cell }
}

// WithNACParams supplies in-memory NAC parameters, taking priority
// over any BORN file.
func WithNACParams(p *nac.Params) Option {
	return func(c *config) { c.nacParams = p }
}

// WithUnitcellFilename names the unit cell file to read.
func WithUnitcellFilename(path string) Option {
	return func(c *config) { c.unitcellFilename = path }
}

// WithSupercellFilename names a supercell file to read. The supercell
// matrix is ignored for this source.
func WithSupercellFilename(path string) Option {
	return func(c *config) { c.supercellFilename = path }
}

// WithBornFilename names the BORN file to read NAC parameters from.
func WithBornFilename(path string) Option {
	return func(c *config) { c.bornFilename = path }
}

// WithForcesFC3Filename names a FORCES_FC3-style file of raw forces.
func WithForcesFC3Filename(path string) Option {
	return func(c *config) { c.forcesFC3Filename = path }
}

// WithForcesFC2Filename names a FORCES_FC2-style file of raw forces.
func WithForcesFC2Filename(path string) Option {
	return func(c *config) { c.forcesFC2Filename = path }
}

// WithFC3Filename names an fc3.hdf5-style force-constant file.
func WithFC3Filename(path string) Option {
	return func(c *config) { c.fc3Filename = path }
}

// WithFC2Filename names an fc2.hdf5-style force-constant file.
func WithFC2Filename(path string) Option {
	return func(c *config) { c.fc2Filename = path }
}

// WithFCCalculator names the external force-constant calculator that
// will consume stored datasets.
func WithFCCalculator(name string) Option {
	return func(c *config) { c.fcCalculator = name }
}

// WithFrequencyFactor overrides the calculator's frequency unit
// conversion factor.
func WithFrequencyFactor(f float64) Option {
	return func(c *config) { c.factor = f }
}

// WithFrequencyScaleFactor multiplies computed frequencies; passed
// through to the interaction setup unchanged.
func WithFrequencyScaleFactor(f float64) Option {
	return func(c *config) { c.frequencyScaleFactor = f }
}

// WithoutSymmetry drops crystal symmetry except lattice translations.
func WithoutSymmetry() Option {
	return func(c *config) { c.isSymmetry = false }
}

// WithoutMeshSymmetry drops reciprocal mesh symmetry.
func WithoutMeshSymmetry() Option {
	return func(c *config) { c.isMeshSymmetry = false }
}

// WithSymprec sets the symmetry tolerance.
func WithSymprec(eps float64) Option {
	return func(c *config) { c.symprec = eps }
}

// WithWorkDir sets the directory default files (POSCAR, BORN,
// fc3.hdf5, FORCES_FC3, ...) are looked up in. Defaults to the
// process working directory.
func WithWorkDir(dir string) Option {
	return func(c *config) { c.workDir = dir }
}

// WithLogger attaches a logger for load-time diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
