// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"sort"

	"kcorr/internal/correlate"
)

// TSVHeader is the canonical header row for correlation output.
// Keep this as the single source of truth.
const TSVHeader = "Correlation\tAccession_query\tAccession_ref\tBiosample_query\tBiosample_ref\tOrganism_query\tOrganism_ref"

// Less defines the stable output order: descending correlation, then
// accession pair.
func Less(a, b correlate.Result) bool {
	if a.R != b.R {
		return a.R > b.R
	}
	if a.AccessionA != b.AccessionA {
		return a.AccessionA < b.AccessionA
	}
	return a.AccessionB < b.AccessionB
}

// Sort orders results for output. The correlation phase makes no ordering
// promise, so this runs on every write.
func Sort(rs []correlate.Result) {
	sort.Slice(rs, func(i, j int) bool { return Less(rs[i], rs[j]) })
}

// BestHits keeps at most n rows per query accession, preferring the
// highest correlations. n <= 0 keeps everything. rs must already be
// sorted.
func BestHits(rs []correlate.Result, n int) []correlate.Result {
	if n <= 0 {
		return rs
	}
	kept := make([]correlate.Result, 0, len(rs))
	perQuery := make(map[string]int)
	for _, r := range rs {
		if perQuery[r.AccessionA] >= n {
			continue
		}
		perQuery[r.AccessionA]++
		kept = append(kept, r)
	}
	return kept
}

// Write prints one TSV line per result.
func Write(w io.Writer, rs []correlate.Result, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, r := range rs {
		_, err := fmt.Fprintf(w, "%.4f\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.R, r.AccessionA, r.AccessionB,
			r.BiosampleA, r.BiosampleB,
			r.OrganismA, r.OrganismB,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
