// internal/store/gob.go
package store

import (
	"encoding/gob"
	"fmt"
	"os"

	"kcorr/internal/profile"
)

// LoadGob reads a serialized-object profile store (same shape as the JSON
// document, encoded with encoding/gob).
func LoadGob(path, organismFilter string) (profile.Store, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	var doc Document
	if err := gob.NewDecoder(fh).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return toStore(doc, organismFilter), nil
}

// SaveGob writes the store as a gob-encoded document.
func SaveGob(path string, s profile.Store) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(fh).Encode(fromStore(s)); err != nil {
		_ = fh.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return fh.Close()
}
