package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/skyops/nightplan/core/model"
)

// LoadFile populates a store from a JSON catalog file containing an array of
// targets. Entries that fail validation abort the load so a broken catalog is
// caught up front.
func LoadFile(path string, store Store) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}
	var targets []model.Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}
	for _, t := range targets {
		if err := store.Set(t); err != nil {
			return 0, fmt.Errorf("catalog entry: %w", err)
		}
	}
	return len(targets), nil
}
