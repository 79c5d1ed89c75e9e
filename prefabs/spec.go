package prefabs

import (
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSpec decodes a YAML prefab into a fresh T.
func LoadSpec[T any](filename string) (T, error) {
	var spec T
	err := LoadSpecInto(filename, &spec)
	return spec, err
}

// LoadSpecInto decodes a YAML prefab over spec, so fields missing from the
// file keep whatever spec already held.
func LoadSpecInto[T any](filename string, spec *T) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i*2 < len(s); i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return fmt.Errorf("invalid color format: %s", value.Value)
		}
		rgba[i] = uint8(v)
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}

// Or returns the color, or fallback when none was configured.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

// fixer applies normalizations to a decoded spec and logs each one.
type fixer struct {
	logger *log.Logger
	file   string
}

func newFixer(logger *log.Logger, file string) *fixer {
	if logger == nil {
		logger = log.Default()
	}
	return &fixer{logger: logger, file: file}
}

// nonNegative clamps v to zero, for durations where zero means "always ready".
func (f *fixer) nonNegative(field string, v *float64) {
	if *v < 0 {
		f.logger.Printf("prefabs: %s: %s=%v is negative, using 0", f.file, field, *v)
		*v = 0
	}
}

// positive replaces a non-positive v with def.
func (f *fixer) positive(field string, v *float64, def float64) {
	if *v <= 0 {
		f.logger.Printf("prefabs: %s: %s=%v must be positive, using %v", f.file, field, *v, def)
		*v = def
	}
}

func (f *fixer) clamp(field string, v *float64, lo, hi float64) {
	switch {
	case *v < lo:
		f.logger.Printf("prefabs: %s: %s=%v below %v, clamping", f.file, field, *v, lo)
		*v = lo
	case *v > hi:
		f.logger.Printf("prefabs: %s: %s=%v above %v, clamping", f.file, field, *v, hi)
		*v = hi
	}
}
