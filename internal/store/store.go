// internal/store/store.go
package store

import (
	"sort"
	"strings"

	"kcorr/internal/profile"
)

// StoredProfile is the on-disk shape shared by all three backends:
// the score vector plus the metadata needed to label output rows.
type StoredProfile struct {
	Zscores   []float64 `json:"zscores"`
	SeqLen    int       `json:"seq_len"`
	Biosample string    `json:"biosample,omitempty"`
	Organism  string    `json:"organism,omitempty"`
}

// Document is the accession-keyed form written to JSON and gob files.
type Document map[string]StoredProfile

func fromStore(s profile.Store) Document {
	doc := make(Document, len(s))
	for acc, p := range s {
		doc[acc] = StoredProfile{
			Zscores:   p.Scores,
			SeqLen:    p.SequenceLength,
			Biosample: p.Biosample,
			Organism:  p.Organism,
		}
	}
	return doc
}

// toStore converts a loaded document, applying the optional
// case-insensitive organism substring filter.
func toStore(doc Document, organismFilter string) profile.Store {
	s := make(profile.Store, len(doc))
	for acc, sp := range doc {
		if !matchOrganism(sp.Organism, organismFilter) {
			continue
		}
		s[acc] = profile.Profile{
			Accession:      acc,
			Scores:         sp.Zscores,
			SequenceLength: sp.SeqLen,
			Biosample:      sp.Biosample,
			Organism:       sp.Organism,
		}
	}
	return s
}

func matchOrganism(organism, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(organism), strings.ToLower(filter))
}

func sortedAccessions(s profile.Store) []string {
	accs := make([]string, 0, len(s))
	for acc := range s {
		accs = append(accs, acc)
	}
	sort.Strings(accs)
	return accs
}
