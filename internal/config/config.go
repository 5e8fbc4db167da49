// Package config reads and writes the yaml settings file accepted by
// the CLI. Every field maps to a command-line flag and flags given
// explicitly win over file values.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCalculator = "vasp"
	DefaultTolerance  = 1e-5
)

type Config struct {
	ProjectFile string  `yaml:"project_file"`
	Calculator  string  `yaml:"calculator"`
	Tolerance   float64 `yaml:"tolerance"`

	Cells  CellConfig  `yaml:"cells"`
	Forces ForceConfig `yaml:"forces"`

	Mesh          []int  `yaml:"mesh"`
	PrimitiveAxes string `yaml:"primitive_axes"`
	NAC           *bool  `yaml:"nac"`
	Symmetry      *bool  `yaml:"symmetry"`
}

type CellConfig struct {
	UnitcellFilename  string `yaml:"unitcell_filename"`
	SupercellFilename string `yaml:"supercell_filename"`
	Dim               []int  `yaml:"dim"`
	DimFC2            []int  `yaml:"dim_fc2"`
}

type ForceConfig struct {
	FC3Filename       string `yaml:"fc3_filename"`
	FC2Filename       string `yaml:"fc2_filename"`
	ForcesFC3Filename string `yaml:"forces_fc3_filename"`
	ForcesFC2Filename string `yaml:"forces_fc2_filename"`
	BornFilename      string `yaml:"born_filename"`
}

func DefaultConfig() *Config {
	return &Config{
		Calculator: DefaultCalculator,
		Tolerance:  DefaultTolerance,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
