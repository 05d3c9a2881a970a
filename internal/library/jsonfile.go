package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// JSONFile loads a library from a JSON dump:
//
//	{"songs": [...], "tags": [...], "categories": [...]}
//
// Catalogs missing from the dump are derived from the songs.
type JSONFile struct {
	Path string
}

// Load reads and decodes the file.
func (f JSONFile) Load(ctx context.Context) (*Library, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse song library %s: %w", f.Path, err)
	}
	lib.Complete()

	return &lib, nil
}

// SaveJSON writes a library as an indented JSON dump.
func SaveJSON(path string, lib *Library) error {
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
