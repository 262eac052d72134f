// internal/seqio/genbank.go
package seqio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// readGenBank parses GenBank flat-file records. Only the fields kcorr
// consumes are extracted: LOCUS name, ACCESSION, ORGANISM, a BioSample
// cross-reference (DBLINK or /db_xref), and the ORIGIN sequence block.
func readGenBank(r io.Reader, visit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 1 << 20
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		rec      Record
		inOrigin bool
		inDBLink bool
		any      bool
	)
	reset := func() {
		rec = Record{}
		inOrigin = false
		inDBLink = false
	}
	flush := func() error {
		if rec.ID == "" && len(rec.Seq) == 0 {
			return nil
		}
		if rec.Accession == "" {
			rec.Accession = rec.ID
		}
		return visit(rec)
	}

	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "//"):
			if err := flush(); err != nil {
				return err
			}
			reset()
			continue
		case strings.HasPrefix(line, "LOCUS"):
			any = true
			if f := strings.Fields(line); len(f) > 1 {
				rec.ID = f[1]
			}
		case strings.HasPrefix(line, "ACCESSION"):
			if f := strings.Fields(line); len(f) > 1 {
				rec.Accession = f[1]
			}
		case strings.HasPrefix(line, "DBLINK"):
			inDBLink = true
			grabBiosample(&rec, line)
			continue
		case strings.HasPrefix(line, "ORIGIN"):
			inOrigin = true
			continue
		}

		switch {
		case inOrigin:
			for _, f := range strings.Fields(line) {
				if isDigits(f) {
					continue
				}
				rec.Seq = append(rec.Seq, strings.ToUpper(f)...)
			}
		case inDBLink && strings.HasPrefix(line, " "):
			grabBiosample(&rec, line)
		default:
			inDBLink = false
			trimmed := strings.TrimSpace(line)
			if rec.Organism == "" && strings.HasPrefix(trimmed, "ORGANISM") {
				rec.Organism = strings.TrimSpace(strings.TrimPrefix(trimmed, "ORGANISM"))
			}
			if rec.Biosample == "" && strings.Contains(trimmed, `/db_xref="BioSample:`) {
				v := trimmed[strings.Index(trimmed, "BioSample:")+len("BioSample:"):]
				rec.Biosample = strings.Trim(v, `"`)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("genbank scan: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}
	if !any {
		return fmt.Errorf("genbank: no LOCUS record found")
	}
	return nil
}

func grabBiosample(rec *Record, line string) {
	if rec.Biosample != "" {
		return
	}
	if i := strings.Index(line, "BioSample:"); i >= 0 {
		v := strings.TrimSpace(line[i+len("BioSample:"):])
		if j := strings.IndexAny(v, " \t"); j >= 0 {
			v = v[:j]
		}
		rec.Biosample = v
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
