package population

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/qtree-sim/sim"
)

// File is the on-disk form of a fixed population.
//
//	bits: 8
//	ids:
//	  - "00000000"
//	  - "00000011"
type File struct {
	Bits int      `yaml:"bits,omitempty"` // optional; checked against every id when set
	IDs  []string `yaml:"ids"`
}

// LoadFile reads a YAML population file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadFile(path string) (*sim.Population, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading population file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML population document.
func Parse(data []byte) (*sim.Population, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing population file: %w", err)
	}
	pop, err := sim.ParsePopulation(f.IDs)
	if err != nil {
		return nil, err
	}
	if f.Bits != 0 && pop.Len() > 0 && pop.Bits() != f.Bits {
		return nil, fmt.Errorf("%w: file declares %d bits, ids have %d", sim.ErrInvalidPopulation, f.Bits, pop.Bits())
	}
	return pop, nil
}

// Save writes pop as a YAML population file.
func Save(path string, pop *sim.Population) error {
	f := File{Bits: pop.Bits(), IDs: make([]string, pop.Len())}
	for i := 0; i < pop.Len(); i++ {
		f.IDs[i] = string(pop.At(i))
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encoding population: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing population file: %w", err)
	}
	return nil
}
