// internal/model/mcm.go
package model

import (
	"math"

	"kcorr/internal/counter"
	"kcorr/internal/kmer"
	"kcorr/internal/profile"
)

// MCM is the maximal-order Markov chain model. For each k-mer it predicts
// an expected count from the two overlapping (k-1)-mers and the shared
// middle (k-2)-mer, and scores the observed count as a Z-score.
type MCM struct {
	k int
}

func (m *MCM) Method() profile.Method { return profile.MCM }

func (m *MCM) K() int { return m.k }

// Profile computes one Z-score per canonical k-mer.
//
// With obs = count_k(mer), left = count_{k-1}(mer[:k-1]),
// right = count_{k-1}(mer[1:]), mid = count_{k-2}(mer[1:k-1]):
//
//	exp   = left * right / mid
//	std   = sqrt(exp * (mid-left) * (mid-right) / mid^2)
//	score = (obs - exp) / std
//
// Two degenerate branches are part of normal control flow:
//   - mid == 0: the middle pattern never occurs, exp is undefined; the
//     score backs off to the unnormalized residual obs - left*right.
//   - std == 0 with mid > 0: the score backs off to obs / mid^2.
//
// Any other non-finite intermediate would be a defect, not a code path.
func (m *MCM) Profile(c *counter.Counts) ([]float64, error) {
	mers := kmer.Enumerate(m.k)
	scores := make([]float64, len(mers))
	for i, mer := range mers {
		obs := float64(c.Kmers[mer])
		left := float64(c.Sub1[mer[:m.k-1]])
		right := float64(c.Sub1[mer[1:]])
		mid := float64(c.Sub2[mer[1:m.k-1]])

		if mid == 0 {
			scores[i] = obs - left*right
			continue
		}
		exp := left * right / mid
		variance := exp * (mid - left) * (mid - right) / (mid * mid)
		if variance <= 0 {
			scores[i] = obs / (mid * mid)
			continue
		}
		scores[i] = (obs - exp) / math.Sqrt(variance)
	}
	return scores, nil
}
