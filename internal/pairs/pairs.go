// internal/pairs/pairs.go
package pairs

import "sort"

// Pair names two accessions whose profiles should be correlated. A is the
// query-side accession for output purposes.
type Pair struct {
	A, B string
}

// Policies are additive: enabling two policies that overlap may emit the
// same pair twice, on purpose (no deduplication is performed).
type Policies struct {
	IntraQuery     bool // unordered 2-combinations within the queries
	IntraReference bool // unordered 2-combinations within the references
	Inter          bool // full query x reference product
}

// Any reports whether at least one policy is enabled.
func (p Policies) Any() bool { return p.IntraQuery || p.IntraReference || p.Inter }

// Generate enumerates pairs under the enabled policies. Both accession
// lists are sorted before combination so the result is reproducible
// regardless of map iteration order upstream. Empty lists simply yield
// nothing for the policies that need them.
func Generate(query, reference []string, pol Policies) []Pair {
	q := append([]string(nil), query...)
	r := append([]string(nil), reference...)
	sort.Strings(q)
	sort.Strings(r)

	var out []Pair
	if pol.IntraQuery {
		out = append(out, combinations(q)...)
	}
	if pol.IntraReference {
		out = append(out, combinations(r)...)
	}
	if pol.Inter {
		for _, a := range q {
			for _, b := range r {
				out = append(out, Pair{A: a, B: b})
			}
		}
	}
	return out
}

func combinations(accs []string) []Pair {
	var out []Pair
	for i := 0; i < len(accs); i++ {
		for j := i + 1; j < len(accs); j++ {
			out = append(out, Pair{A: accs[i], B: accs[j]})
		}
	}
	return out
}
