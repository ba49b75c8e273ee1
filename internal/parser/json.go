package parser

import (
	"encoding/json"
	"fmt"
	"io"
)

func ParseJSONOptions(reader io.Reader) (map[string]any, error) {
	var options map[string]any
	decoder := json.NewDecoder(reader)

	if err := decoder.Decode(&options); err != nil {
		return nil, fmt.Errorf("failed to parse JSON options: %w", err)
	}

	return options, nil
}
