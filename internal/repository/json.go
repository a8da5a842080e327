package repository

import (
	"encoding/json"
	"fmt"
)

// Collection-valued fields (id lists, reward lists, condition trees) are
// stored as JSON text columns.

func encodeJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encoding json column: %w", err)
	}
	return string(data), nil
}

func decodeJSON(data string, target any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), target); err != nil {
		return fmt.Errorf("decoding json column: %w", err)
	}
	return nil
}
