package nac

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadBORN parses a BORN file. The first data line carries the unit
// conversion factor (the word "default" leaves it to the calculator
// table), the second the nine dielectric tensor components, and each
// following line nine Born charge components for one independent
// atom. Lines starting with '#' are comments.
func ReadBORN(path string) (*Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var dataLines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dataLines = append(dataLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(dataLines) < 3 {
		return nil, fmt.Errorf("%s: BORN file needs factor, dielectric and at least one Born charge line", path)
	}

	p := &Params{}

	factorField := strings.Fields(dataLines[0])[0]
	if !strings.EqualFold(factorField, "default") {
		v, err := strconv.ParseFloat(factorField, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad conversion factor %q", path, factorField)
		}
		p.Factor = v
	}

	eps, err := nineFloats(dataLines[1])
	if err != nil {
		return nil, fmt.Errorf("%s: dielectric tensor: %w", path, err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p.Dielectric[i][j] = eps[3*i+j]
		}
	}

	for n, line := range dataLines[2:] {
		z, err := nineFloats(line)
		if err != nil {
			return nil, fmt.Errorf("%s: Born charge %d: %w", path, n, err)
		}
		var t [3][3]float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t[i][j] = z[3*i+j]
			}
		}
		p.Born = append(p.Born, t)
	}
	return p, nil
}

func nineFloats(line string) ([9]float64, error) {
	var out [9]float64
	fields := strings.Fields(line)
	if len(fields) < 9 {
		return out, fmt.Errorf("expected 9 values, got %d", len(fields))
	}
	for i := 0; i < 9; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}
