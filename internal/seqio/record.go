// internal/seqio/record.go
package seqio

import (
	"fmt"
	"io"
	"strings"
)

// Record is one decoded sequence plus whatever metadata the source format
// embeds. FASTA fills ID only; GenBank additionally fills Accession,
// Biosample and Organism.
type Record struct {
	ID        string
	Seq       []byte
	Accession string
	Biosample string
	Organism  string
}

// Format names a supported sequence file format.
type Format string

const (
	FASTA   Format = "fasta"
	GenBank Format = "genbank"
)

// ParseFormat validates a format name from configuration.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FASTA, GenBank:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid format %q (want fasta or genbank)", s)
}

// DetectFormat picks a format for path: a GenBank-looking suffix wins,
// everything else is FASTA. The .gz suffix is transparent.
func DetectFormat(path string) Format {
	p := strings.TrimSuffix(path, ".gz")
	for _, suf := range []string{".gb", ".gbk", ".gbff", ".genbank"} {
		if strings.HasSuffix(p, suf) {
			return GenBank
		}
	}
	return FASTA
}

// ReadAll streams every record in path (gzip and "-" for stdin are
// transparent) to visit. Returning an error from visit stops the scan.
func ReadAll(path string, format Format, visit func(Record) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	switch format {
	case GenBank:
		return readGenBank(rc, visit)
	default:
		return readFASTA(rc, visit)
	}
}

// readFrom exists for tests that feed in-memory readers.
func readFrom(r io.Reader, format Format, visit func(Record) error) error {
	if format == GenBank {
		return readGenBank(r, visit)
	}
	return readFASTA(r, visit)
}
