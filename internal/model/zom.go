// internal/model/zom.go
package model

import (
	"fmt"
	"math"

	"kcorr/internal/counter"
	"kcorr/internal/kmer"
	"kcorr/internal/profile"
)

// ZOM is the zero-order model: each k-mer's expected count comes from
// independent per-base frequencies alone. Cheaper than MCM, useful when
// local composition bias is expected to be weak.
type ZOM struct {
	k int
}

func (z *ZOM) Method() profile.Method { return profile.ZOM }

func (z *ZOM) K() int { return z.k }

// Profile scores each k-mer as observed forward-strand count over the
// expected count under independent base frequencies:
//
//	freq[b] = 0.5 * bases[b] / seqLen        (0.5 undoes revcomp doubling)
//	exp     = (seqLen - k + 1) * prod freq[b]^occurrences(b, mer)
//
// A base that never occurs makes exp exactly zero for any k-mer containing
// it. That is a data-quality error to surface, not a value to divide by.
func (z *ZOM) Profile(c *counter.Counts) ([]float64, error) {
	if c.SequenceLength <= 0 {
		return nil, fmt.Errorf("zom: empty sequence set")
	}
	var freq [4]float64
	for i := 0; i < len(kmer.Alphabet); i++ {
		b := kmer.Alphabet[i]
		freq[i] = 0.5 * float64(c.Bases[b]) / float64(c.SequenceLength)
	}
	adjusted := float64(c.SequenceLength - z.k + 1)

	mers := kmer.Enumerate(z.k)
	scores := make([]float64, len(mers))
	for i, mer := range mers {
		exp := adjusted
		for j := 0; j < len(mer); j++ {
			idx, _ := kmer.Index(mer[j : j+1])
			exp *= freq[idx]
		}
		if exp == 0 || math.IsNaN(exp) {
			return nil, fmt.Errorf("zom: expected frequency of %s is zero (a base never occurs in the input)", mer)
		}
		scores[i] = float64(c.Kmers[mer]) / exp
	}
	return scores, nil
}
