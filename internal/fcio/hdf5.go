// Package fcio reads force-constant containers and force/displacement
// datasets from their on-disk formats: fc3.hdf5/fc2.hdf5 HDF5 files,
// FORCES_FC3/FORCES_FC2 text files and disp_fc3.yaml/disp_fc2.yaml
// displacement descriptors.
package fcio

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/jonahhaber/phono3py/internal/fc"
)

// ReadFC2HDF5 reads second-order force constants from an HDF5 file.
// The first axis may be the full supercell (natoms) or compact
// (len(p2s)); anything else is rejected. When the file carries its
// own p2s_map it must agree with the supplied one.
func ReadFC2HDF5(filename string, p2s []int, natoms int) (*fc.FC2, error) {
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("fcio: open %s: %w", filename, err)
	}
	defer f.Close()

	dims, elems, err := readFloatDataset(f, "fc2", 4)
	if err != nil {
		return nil, fmt.Errorf("fcio: %s: %w", filename, err)
	}
	n1, n2 := int(dims[0]), int(dims[1])
	if dims[2] != 3 || dims[3] != 3 {
		return nil, fmt.Errorf("fcio: %s: fc2 trailing dims are (%d,%d), want (3,3)", filename, dims[2], dims[3])
	}
	if n2 != natoms || (n1 != natoms && n1 != len(p2s)) {
		return nil, fmt.Errorf("fcio: %s: fc2 shape (%d,%d) does not fit %d supercell atoms / %d primitive atoms",
			filename, n1, n2, natoms, len(p2s))
	}
	if err := checkStoredP2S(f, p2s); err != nil {
		return nil, fmt.Errorf("fcio: %s: %w", filename, err)
	}
	return fc.WrapFC2(n1, n2, elems)
}

// ReadFC3HDF5 reads third-order force constants from an HDF5 file,
// with the same shape rules as ReadFC2HDF5.
func ReadFC3HDF5(filename string, p2s []int, natoms int) (*fc.FC3, error) {
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("fcio: open %s: %w", filename, err)
	}
	defer f.Close()

	dims, elems, err := readFloatDataset(f, "fc3", 6)
	if err != nil {
		return nil, fmt.Errorf("fcio: %s: %w", filename, err)
	}
	n1, n2, n3 := int(dims[0]), int(dims[1]), int(dims[2])
	if dims[3] != 3 || dims[4] != 3 || dims[5] != 3 {
		return nil, fmt.Errorf("fcio: %s: fc3 trailing dims are (%d,%d,%d), want (3,3,3)",
			filename, dims[3], dims[4], dims[5])
	}
	if n2 != natoms || n3 != natoms || (n1 != natoms && n1 != len(p2s)) {
		return nil, fmt.Errorf("fcio: %s: fc3 shape (%d,%d,%d) does not fit %d supercell atoms / %d primitive atoms",
			filename, n1, n2, n3, natoms, len(p2s))
	}
	if err := checkStoredP2S(f, p2s); err != nil {
		return nil, fmt.Errorf("fcio: %s: %w", filename, err)
	}
	return fc.WrapFC3(n1, n2, n3, elems)
}

func readFloatDataset(f *hdf5.File, name string, rank int) ([]uint, []float64, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, nil, fmt.Errorf("no %q dataset: %w", name, err)
	}
	defer dset.Close()

	space := dset.Space()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, nil, err
	}
	if len(dims) != rank {
		return nil, nil, fmt.Errorf("%q has rank %d, want %d", name, len(dims), rank)
	}
	total := uint(1)
	for _, d := range dims {
		total *= d
	}
	elems := make([]float64, total)
	if err := dset.Read(&elems); err != nil {
		return nil, nil, fmt.Errorf("read %q: %w", name, err)
	}
	return dims, elems, nil
}

// checkStoredP2S verifies an embedded p2s_map dataset, if any,
// against the loader's own map.
func checkStoredP2S(f *hdf5.File, p2s []int) error {
	dset, err := f.OpenDataset("p2s_map")
	if err != nil {
		return nil // older files have no p2s_map
	}
	defer dset.Close()

	space := dset.Space()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return err
	}
	if len(dims) != 1 {
		return fmt.Errorf("p2s_map has rank %d", len(dims))
	}
	stored := make([]int32, dims[0])
	if err := dset.Read(&stored); err != nil {
		return fmt.Errorf("read p2s_map: %w", err)
	}
	if len(stored) != len(p2s) {
		return fmt.Errorf("stored p2s_map has %d entries, loader has %d", len(stored), len(p2s))
	}
	for i, s := range stored {
		if int(s) != p2s[i] {
			return fmt.Errorf("stored p2s_map[%d]=%d disagrees with loader's %d", i, s, p2s[i])
		}
	}
	return nil
}
