// internal/profile/profile.go
package profile

import (
	"fmt"
	"sort"
)

// Method selects the background model used to derive scores from raw counts.
type Method string

const (
	MCM Method = "mcm" // maximal-order Markov chain model
	ZOM Method = "zom" // zero-order model
)

// ParseMethod validates a method name from configuration.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MCM, ZOM:
		return Method(s), nil
	}
	return "", fmt.Errorf("invalid method %q (want mcm or zom)", s)
}

// Profile is one sequence set's k-mer signature plus its metadata.
// Scores has length 4^k, ordered lexicographically over {A,C,G,T}.
type Profile struct {
	Accession      string
	Scores         []float64
	SequenceLength int
	Biosample      string
	Organism       string
}

// Store maps accession to Profile for one run.
type Store map[string]Profile

// Merge combines stores with primary taking precedence, then others in
// order (an entry in others[0] beats the same key in others[1], and so on).
// Freshly computed profiles are the primary tier; loaded references never
// shadow them.
func Merge(primary Store, others ...Store) Store {
	combined := make(Store, len(primary))
	for i := len(others) - 1; i >= 0; i-- {
		for acc, p := range others[i] {
			combined[acc] = p
		}
	}
	for acc, p := range primary {
		combined[acc] = p
	}
	return combined
}

// Accessions returns the store's keys in sorted order so pairing is
// deterministic across runs.
func (s Store) Accessions() []string {
	accs := make([]string, 0, len(s))
	for acc := range s {
		accs = append(accs, acc)
	}
	sort.Strings(accs)
	return accs
}

// VectorLength verifies every profile carries the same score-vector length
// and returns it. Mixing profiles computed with different k or method is a
// configuration error and must be caught before any correlation dispatch.
func VectorLength(s Store) (int, error) {
	n := -1
	ref := ""
	for _, acc := range s.Accessions() {
		l := len(s[acc].Scores)
		if n == -1 {
			n, ref = l, acc
			continue
		}
		if l != n {
			return 0, fmt.Errorf("profile vector length mismatch: %s has %d scores, %s has %d (different k or method?)", ref, n, acc, l)
		}
	}
	if n <= 0 {
		return 0, fmt.Errorf("no profiles with scores available")
	}
	return n, nil
}
