package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func ParseYAMLOptions(reader io.Reader) (map[string]any, error) {
	var options map[string]any
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&options); err != nil {
		return nil, fmt.Errorf("failed to parse YAML options: %w", err)
	}

	return options, nil
}
