package fcio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jonahhaber/phono3py/internal/fc"
)

// ReadForceBlocks parses a FORCES_FC3/FORCES_FC2 style text file:
// blocks of natoms force rows (three floats each), one block per
// displaced supercell. Comment lines starting with '#' separate
// blocks in files written by some frontends and are ignored here.
func ReadForceBlocks(path string, natoms int) ([][][3]float64, error) {
	if natoms <= 0 {
		return nil, fmt.Errorf("fcio: natoms must be positive, got %d", natoms)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var blocks [][][3]float64
	var current [][3]float64
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("fcio: %s:%d: expected 3 force components", path, lineNo)
		}
		var row [3]float64
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(fields[k], 64)
			if err != nil {
				return nil, fmt.Errorf("fcio: %s:%d: %w", path, lineNo, err)
			}
			row[k] = v
		}
		current = append(current, row)
		if len(current) == natoms {
			blocks = append(blocks, current)
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(current) != 0 {
		return nil, fmt.Errorf("fcio: %s: %d trailing force rows do not fill a %d-atom block",
			path, len(current), natoms)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("fcio: %s: no force data", path)
	}
	return blocks, nil
}

// ReadForcesFC2 reads a displacement descriptor and its matching
// forces file into a complete second-order dataset.
func ReadForcesFC2(forcesPath, dispPath string) (*fc.Dataset, error) {
	ds, err := ReadDispFC2(dispPath)
	if err != nil {
		return nil, err
	}
	blocks, err := ReadForceBlocks(forcesPath, ds.NAtoms)
	if err != nil {
		return nil, err
	}
	if err := ds.AttachForces(blocks); err != nil {
		return nil, fmt.Errorf("fcio: %s vs %s: %w", forcesPath, dispPath, err)
	}
	return ds, nil
}

// ReadForcesFC3 reads a pair-displacement descriptor and its matching
// forces file into a complete third-order dataset.
func ReadForcesFC3(forcesPath, dispPath string) (*fc.Dataset3, error) {
	ds, err := ReadDispFC3(dispPath)
	if err != nil {
		return nil, err
	}
	blocks, err := ReadForceBlocks(forcesPath, ds.NAtoms)
	if err != nil {
		return nil, err
	}
	if err := ds.AttachForces(blocks); err != nil {
		return nil, fmt.Errorf("fcio: %s vs %s: %w", forcesPath, dispPath, err)
	}
	return ds, nil
}
