package notion

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a query result (the JSON body of a database query, or an
// export of one) from r.
func Decode(r io.Reader) (*QueryResult, error) {
	var result QueryResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode notion export: %w", err)
	}
	return &result, nil
}

// LoadFile decodes a query result from the file at path.
func LoadFile(path string) (*QueryResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open notion export: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile writes result to path as indented JSON.
func WriteFile(path string, result *QueryResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode notion export: %w", err)
	}
	return nil
}

// Merge concatenates the pages of several results into one batch.
func Merge(results ...*QueryResult) *QueryResult {
	merged := &QueryResult{Object: "list", Results: []Page{}}
	for _, r := range results {
		if r == nil {
			continue
		}
		merged.Results = append(merged.Results, r.Results...)
	}
	return merged
}
