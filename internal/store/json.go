// internal/store/json.go
package store

import (
	"fmt"
	"os"

	"kcorr/internal/jsonutil"
	"kcorr/internal/profile"
)

// LoadJSON reads an accession-keyed profile document.
func LoadJSON(path, organismFilter string) (profile.Store, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	var doc Document
	if err := jsonutil.Decode(fh, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return toStore(doc, organismFilter), nil
}

// SaveJSON writes the store as an indented JSON document.
func SaveJSON(path string, s profile.Store) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jsonutil.EncodePretty(fh, fromStore(s)); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return fh.Close()
}
