package phono3py

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonahhaber/phono3py/internal/calculator"
	"github.com/jonahhaber/phono3py/internal/crystal"
	"github.com/jonahhaber/phono3py/internal/fcio"
	"github.com/jonahhaber/phono3py/internal/nac"
	"github.com/jonahhaber/phono3py/internal/ph3"
	"github.com/jonahhaber/phono3py/internal/projfile"
)

// Default filenames looked up in the working directory.
const (
	DefaultFC3Filename = "fc3.hdf5"
	DefaultFC2Filename = "fc2.hdf5"
	DefaultForcesFC3   = "FORCES_FC3"
	DefaultForcesFC2   = "FORCES_FC2"
	DefaultDispFC3     = "disp_fc3.yaml"
	DefaultDispFC2     = "disp_fc2.yaml"
)

var (
	// ErrNoCellSource indicates that no cell was given and the
	// calculator's default cell file does not exist.
	ErrNoCellSource = errors.New("phono3py: no unit cell source")

	// ErrPhononSupercellMatrix indicates a phonon supercell matrix
	// without a unitcell source to apply it to.
	ErrPhononSupercellMatrix = errors.New("phono3py: phonon supercell matrix needs a unitcell source")
)

// Load assembles a Phono3py instance from on-disk files and in-memory
// parameters.
//
// Cell priority: unitcell filename > supercell filename > in-memory
// unitcell > in-memory supercell > the calculator's default cell file
// in the working directory. A project descriptor (WithProjectFile)
// replaces all of these.
//
// NAC priority: in-memory params > born filename > default BORN file,
// all gated by the NAC toggle.
//
// Force constants per order: explicit hdf5 filename > raw-forces
// filename > default hdf5 file > default forces+displacements pair.
//
// When a mesh is set the phonon-phonon interaction is initialized
// with the resolved NAC parameters and the frequency scale factor.
func Load(opts ...Option) (*ph3.Phono3py, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger

	units, err := calculator.DefaultUnits(cfg.calculator)
	if err != nil {
		return nil, err
	}

	var (
		cell      *crystal.Cell
		smat      [3][3]int
		phSmat    *[3][3]int
		pmat      [3][3]float64
		nacParams *nac.Params
	)

	if cfg.projectFile == "" {
		cell, smat, pmat, err = resolveCellSettings(cfg, units)
		if err != nil {
			return nil, err
		}
		if cfg.phononSupercellMatrix != nil {
			if cfg.unitcell == nil && cfg.unitcellFilename == "" {
				return nil, ErrPhononSupercellMatrix
			}
			m, err := crystal.NormalizeSupercellMatrix(cfg.phononSupercellMatrix)
			if err != nil {
				return nil, err
			}
			phSmat = &m
		}
		nacParams = cfg.nacParams
	} else {
		pf, err := projfile.Read(cfg.projectFile)
		if err != nil {
			return nil, err
		}
		log.Debug("cell from project descriptor", zap.String("file", cfg.projectFile))
		cell = pf.Unitcell
		if pf.SupercellMatrix != nil {
			smat = *pf.SupercellMatrix
		} else {
			smat = crystal.IdentityMatrix()
		}
		phSmat = pf.PhononSupercellMatrix
		// an explicit auto request wins over the descriptor matrix
		if pf.PrimitiveMatrix != nil && !cfg.primitiveAuto {
			pmat = *pf.PrimitiveMatrix
		} else {
			pmat = crystal.IdentityPrimitiveMatrix()
		}
		if cfg.isNAC {
			nacParams = pf.NACParams
		}
	}

	factor := cfg.factor
	if factor == 0 {
		factor = units.Factor
	}

	inst, err := ph3.New(ph3.Config{
		Unitcell:              cell,
		SupercellMatrix:       smat,
		PhononSupercellMatrix: phSmat,
		PrimitiveMatrix:       pmat,
		Mesh:                  cfg.mesh,
		FrequencyFactor:       factor,
		Calculator:            cfg.calculator,
		Symprec:               cfg.symprec,
		IsSymmetry:            cfg.isSymmetry,
		IsMeshSymmetry:        cfg.isMeshSymmetry,
	})
	if err != nil {
		return nil, err
	}
	log.Info("cells resolved",
		zap.Int("unitcell_atoms", inst.Unitcell().NumAtoms()),
		zap.Int("supercell_atoms", inst.Supercell().NumAtoms()),
		zap.Int("primitive_atoms", inst.Primitive().NumAtoms()))

	resolvedNAC, err := nac.Resolve(nacParams, cfg.bornFilename, cfg.isNAC, units.NACFactor, cfg.workDir)
	if err != nil {
		return nil, err
	}
	if resolvedNAC != nil {
		log.Debug("nac parameters resolved", zap.Float64("factor", resolvedNAC.Factor))
	}

	if err := setForceConstants(inst, cfg); err != nil {
		return nil, err
	}

	if cfg.mesh != nil {
		if err := inst.SetPhPhInteraction(resolvedNAC, cfg.frequencyScaleFactor); err != nil {
			return nil, err
		}
		log.Debug("phonon-phonon interaction configured", zap.Ints("mesh", cfg.mesh[:]))
	}
	return inst, nil
}

// resolveCellSettings picks the cell source by priority and returns
// the cell with its supercell and primitive matrices.
func resolveCellSettings(cfg *config, units calculator.Units) (*crystal.Cell, [3][3]int, [3][3]float64, error) {
	var zeroS [3][3]int
	var zeroP [3][3]float64

	smat := crystal.IdentityMatrix()
	if cfg.supercellMatrix != nil {
		var err error
		if smat, err = crystal.NormalizeSupercellMatrix(cfg.supercellMatrix); err != nil {
			return nil, zeroS, zeroP, err
		}
	}

	pmat := crystal.IdentityPrimitiveMatrix()
	if cfg.primitiveCentering != "" {
		var err error
		if pmat, err = crystal.CenteringMatrix(cfg.primitiveCentering); err != nil {
			return nil, zeroS, zeroP, err
		}
	} else if cfg.primitiveMatrix != nil {
		pmat = *cfg.primitiveMatrix
	}

	switch {
	case cfg.unitcellFilename != "":
		cell, err := crystal.ReadPOSCAR(cfg.unitcellFilename)
		if err != nil {
			return nil, zeroS, zeroP, err
		}
		return cell, smat, pmat, nil
	case cfg.supercellFilename != "":
		cell, err := crystal.ReadPOSCAR(cfg.supercellFilename)
		if err != nil {
			return nil, zeroS, zeroP, err
		}
		// the file is already the supercell
		return cell, crystal.IdentityMatrix(), pmat, nil
	case cfg.unitcell != nil:
		return cfg.unitcell.Copy(), smat, pmat, nil
	case cfg.supercell != nil:
		return cfg.supercell.Copy(), crystal.IdentityMatrix(), pmat, nil
	}

	path := filepath.Join(cfg.workDir, units.CellFilename)
	if _, err := os.Stat(path); err != nil {
		return nil, zeroS, zeroP, fmt.Errorf("%w: %s not found", ErrNoCellSource, path)
	}
	cell, err := crystal.ReadPOSCAR(path)
	if err != nil {
		return nil, zeroS, zeroP, err
	}
	return cell, smat, pmat, nil
}

// setForceConstants applies the per-order source priority. Raw-forces
// sources are read into datasets; they still shadow the later
// fallbacks even when their displacement descriptor is absent.
func setForceConstants(inst *ph3.Phono3py, cfg *config) error {
	log := cfg.logger
	p2s := inst.P2SMap()
	dir := cfg.workDir

	switch {
	case cfg.fc3Filename != "":
		f, err := fcio.ReadFC3HDF5(cfg.fc3Filename, p2s, inst.Supercell().NumAtoms())
		if err != nil {
			return err
		}
		if err := inst.SetFC3(f); err != nil {
			return err
		}
	case cfg.forcesFC3Filename != "":
		if err := readDataset3(inst, cfg.forcesFC3Filename, filepath.Join(dir, DefaultDispFC3), log); err != nil {
			return err
		}
	case fileExists(filepath.Join(dir, DefaultFC3Filename)):
		f, err := fcio.ReadFC3HDF5(filepath.Join(dir, DefaultFC3Filename), p2s, inst.Supercell().NumAtoms())
		if err != nil {
			return err
		}
		if err := inst.SetFC3(f); err != nil {
			return err
		}
	case fileExists(filepath.Join(dir, DefaultForcesFC3)) && fileExists(filepath.Join(dir, DefaultDispFC3)):
		if err := readDataset3(inst, filepath.Join(dir, DefaultForcesFC3), filepath.Join(dir, DefaultDispFC3), log); err != nil {
			return err
		}
	}

	switch {
	case cfg.fc2Filename != "":
		f, err := fcio.ReadFC2HDF5(cfg.fc2Filename, p2s, inst.PhononSupercell().NumAtoms())
		if err != nil {
			return err
		}
		if err := inst.SetFC2(f); err != nil {
			return err
		}
	case cfg.forcesFC2Filename != "":
		if err := readDataset2(inst, cfg.forcesFC2Filename, filepath.Join(dir, DefaultDispFC2), log); err != nil {
			return err
		}
	case fileExists(filepath.Join(dir, DefaultFC2Filename)):
		f, err := fcio.ReadFC2HDF5(filepath.Join(dir, DefaultFC2Filename), p2s, inst.PhononSupercell().NumAtoms())
		if err != nil {
			return err
		}
		if err := inst.SetFC2(f); err != nil {
			return err
		}
	case fileExists(filepath.Join(dir, DefaultForcesFC2)) && fileExists(filepath.Join(dir, DefaultDispFC2)):
		if err := readDataset2(inst, filepath.Join(dir, DefaultForcesFC2), filepath.Join(dir, DefaultDispFC2), log); err != nil {
			return err
		}
	}

	// a named force-constant calculator turns stored raw forces into
	// constants right away
	if cfg.fcCalculator != "" && inst.FC2() == nil && inst.Dataset() != nil {
		if err := inst.ProduceFC2(); err != nil {
			return err
		}
		log.Debug("fc2 produced from dataset", zap.String("fc_calculator", cfg.fcCalculator))
	}
	return nil
}

func readDataset3(inst *ph3.Phono3py, forcesPath, dispPath string, log *zap.Logger) error {
	if !fileExists(dispPath) {
		log.Debug("forces file given but no displacement descriptor, leaving fc3 unset",
			zap.String("forces", forcesPath), zap.String("missing", dispPath))
		return nil
	}
	ds, err := fcio.ReadForcesFC3(forcesPath, dispPath)
	if err != nil {
		return err
	}
	return inst.SetDataset3(ds)
}

func readDataset2(inst *ph3.Phono3py, forcesPath, dispPath string, log *zap.Logger) error {
	if !fileExists(dispPath) {
		log.Debug("forces file given but no displacement descriptor, leaving fc2 unset",
			zap.String("forces", forcesPath), zap.String("missing", dispPath))
		return nil
	}
	ds, err := fcio.ReadForcesFC2(forcesPath, dispPath)
	if err != nil {
		return err
	}
	return inst.SetDataset(ds)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
