package datasizes

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Size is a byte count that unmarshals from either a plain number or a
// string with units in YAML and TOML configuration files.
type Size uint64

func (s Size) Uint64() uint64 {
	return uint64(s)
}

func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	var value any
	if err := node.Decode(&value); err != nil {
		return err
	}
	parsed, err := decodeSize(value)
	if err != nil {
		return err
	}
	*s = Size(parsed)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Size) UnmarshalTOML(data any) error {
	parsed, err := decodeSize(data)
	if err != nil {
		return err
	}
	*s = Size(parsed)
	return nil
}

func decodeSize(v any) (uint64, error) {
	switch value := v.(type) {
	case string:
		return Parse(value)
	case int:
		if value < 0 {
			return 0, fmt.Errorf("cannot be negative: %d", value)
		}
		return uint64(value), nil
	case int64:
		if value < 0 {
			return 0, fmt.Errorf("cannot be negative: %d", value)
		}
		return uint64(value), nil
	case uint64:
		return value, nil
	default:
		return 0, fmt.Errorf("failed to convert value %v (%T) to a size", v, v)
	}
}
