package crystal

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ReadPOSCAR parses a VASP POSCAR/CONTCAR style cell file (vasp5
// format with a symbols line). Both Direct and Cartesian coordinate
// blocks are accepted; Cartesian positions are converted to
// fractional.
func ReadPOSCAR(path string) (*Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 8 {
		return nil, fmt.Errorf("crystal: %s: truncated POSCAR", path)
	}

	// line 0 is a comment, line 1 the universal scale factor
	scale, err := strconv.ParseFloat(strings.Fields(lines[1])[0], 64)
	if err != nil {
		return nil, fmt.Errorf("crystal: %s: bad scale factor: %w", path, err)
	}

	var lattice [3][3]float64
	for i := 0; i < 3; i++ {
		v, err := parseFloats(lines[2+i], 3)
		if err != nil {
			return nil, fmt.Errorf("crystal: %s: lattice row %d: %w", path, i, err)
		}
		for j := 0; j < 3; j++ {
			lattice[i][j] = v[j] * scale
		}
	}

	symbolNames := strings.Fields(lines[5])
	countFields := strings.Fields(lines[6])
	if len(symbolNames) != len(countFields) {
		return nil, fmt.Errorf("crystal: %s: %d symbols but %d counts", path, len(symbolNames), len(countFields))
	}
	var symbols []string
	total := 0
	for i, cf := range countFields {
		n, err := strconv.Atoi(cf)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("crystal: %s: bad atom count %q", path, cf)
		}
		for k := 0; k < n; k++ {
			symbols = append(symbols, symbolNames[i])
		}
		total += n
	}

	idx := 7
	if strings.HasPrefix(strings.ToLower(lines[idx]), "s") { // selective dynamics
		idx++
	}
	cartesian := false
	switch strings.ToLower(lines[idx])[0] {
	case 'd':
	case 'c', 'k':
		cartesian = true
	default:
		return nil, fmt.Errorf("crystal: %s: unknown coordinate mode %q", path, lines[idx])
	}
	idx++

	if len(lines) < idx+total {
		return nil, fmt.Errorf("crystal: %s: expected %d position lines", path, total)
	}
	positions := make([][3]float64, total)
	for i := 0; i < total; i++ {
		v, err := parseFloats(lines[idx+i], 3)
		if err != nil {
			return nil, fmt.Errorf("crystal: %s: position %d: %w", path, i, err)
		}
		copy(positions[i][:], v)
	}

	if cartesian {
		inv := mat.NewDense(3, 3, nil)
		lat := mat.NewDense(3, 3, []float64{
			lattice[0][0], lattice[0][1], lattice[0][2],
			lattice[1][0], lattice[1][1], lattice[1][2],
			lattice[2][0], lattice[2][1], lattice[2][2],
		})
		if err := inv.Inverse(lat.T()); err != nil {
			return nil, fmt.Errorf("crystal: %s: singular lattice", path)
		}
		for i := range positions {
			var cart [3]float64
			for k := 0; k < 3; k++ {
				cart[k] = positions[i][k] * scale
			}
			for k := 0; k < 3; k++ {
				positions[i][k] = inv.At(k, 0)*cart[0] + inv.At(k, 1)*cart[1] + inv.At(k, 2)*cart[2]
			}
		}
	}

	return NewCell(lattice, positions, symbols, nil)
}

// WritePOSCAR writes the cell in vasp5 POSCAR format with Direct
// coordinates.
func WritePOSCAR(path string, c *Cell, comment string) error {
	var sb strings.Builder
	if comment == "" {
		comment = "generated cell"
	}
	fmt.Fprintln(&sb, comment)
	fmt.Fprintln(&sb, "1.0")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&sb, " %20.16f %20.16f %20.16f\n", c.Lattice[i][0], c.Lattice[i][1], c.Lattice[i][2])
	}

	// collapse consecutive runs of the same symbol
	var names []string
	var counts []int
	for _, s := range c.Symbols {
		if len(names) > 0 && names[len(names)-1] == s {
			counts[len(counts)-1]++
			continue
		}
		names = append(names, s)
		counts = append(counts, 1)
	}
	fmt.Fprintln(&sb, strings.Join(names, " "))
	for i, n := range counts {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d", n)
	}
	sb.WriteString("\nDirect\n")
	for _, p := range c.Positions {
		fmt.Fprintf(&sb, " %18.16f %18.16f %18.16f\n", p[0], p[1], p[2])
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func parseFloats(line string, n int) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
