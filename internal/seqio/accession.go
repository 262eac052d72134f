// internal/seqio/accession.go
package seqio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MissingAccessionError means no source (override, embedded metadata,
// filename) could name a profile. Callers must treat it as fatal; a
// profile without a key cannot enter the store.
type MissingAccessionError struct {
	Path string
}

func (e *MissingAccessionError) Error() string {
	return fmt.Sprintf("cannot determine accession for %s: no override, embedded metadata, or usable filename", e.Path)
}

// ResolveAccession picks the accession for one profile, in precedence
// order: explicit override, then record metadata (Accession, then ID),
// then the filename stem.
func ResolveAccession(override string, rec Record, path string) (string, error) {
	switch {
	case override != "":
		return override, nil
	case rec.Accession != "":
		return rec.Accession, nil
	case rec.ID != "":
		return rec.ID, nil
	}
	if stem := Stem(path); stem != "" && stem != "-" {
		return stem, nil
	}
	return "", &MissingAccessionError{Path: path}
}

// Stem strips the directory, a trailing .gz, and a known sequence-format
// suffix from path.
func Stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	for _, suf := range []string{".fa", ".fasta", ".fna", ".gb", ".gbk", ".gbff", ".genbank"} {
		if strings.HasSuffix(base, suf) {
			return strings.TrimSuffix(base, suf)
		}
	}
	return base
}
