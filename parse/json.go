package parse

import (
	"encoding/json"
	"fmt"
	"os"
)

// FromJSON decodes a serialized parse tree.
func FromJSON(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid parse tree JSON: %w", err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("parse tree has no library name")
	}
	return &f, nil
}

// ToJSON encodes a parse tree with indentation.
func ToJSON(f *File) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// Load reads and decodes a parse tree from a file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return FromJSON(data)
}
