package sweep

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config describes a population-size sweep.
// Loaded from YAML via LoadConfig(path) or built from CLI flags.
type Config struct {
	Bits    int   `yaml:"bits" json:"bits" validate:"min=1,max=64"`
	MinTags int   `yaml:"min_tags" json:"min_tags" validate:"min=0"`
	MaxTags int   `yaml:"max_tags" json:"max_tags" validate:"gtefield=MinTags"`
	Step    int   `yaml:"step" json:"step" validate:"min=1"`
	Trials  int   `yaml:"trials" json:"trials" validate:"min=1"`
	Seed    int64 `yaml:"seed" json:"seed"`
	Workers int   `yaml:"workers,omitempty" json:"workers" validate:"min=0"` // 0 = one per CPU
}

// DefaultConfig mirrors the classic experiment: 32-bit tags, 10 to 100 tags
// in steps of 10, one trial each.
func DefaultConfig() Config {
	return Config{
		Bits:    32,
		MinTags: 10,
		MaxTags: 100,
		Step:    10,
		Trials:  1,
		Seed:    42,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report YAML key names so errors point at the config file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks that all fields in the config are valid.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("sweep config: %s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("sweep config: %w", err)
	}
	if c.Bits < 64 && uint64(c.MaxTags) > uint64(1)<<c.Bits {
		return fmt.Errorf("sweep config: max_tags %d exceeds the %d identifiers of a %d-bit space", c.MaxTags, uint64(1)<<c.Bits, c.Bits)
	}
	return nil
}

// Sizes lists the population sizes the sweep visits, in order.
func (c Config) Sizes() []int {
	var sizes []int
	for n := c.MinTags; n <= c.MaxTags; n += c.Step {
		sizes = append(sizes, n)
	}
	return sizes
}

// LoadConfig reads a YAML sweep file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading sweep config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing sweep config: %w", err)
	}
	return cfg, nil
}
