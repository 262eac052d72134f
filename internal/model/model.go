// internal/model/model.go
package model

import (
	"fmt"

	"kcorr/internal/counter"
	"kcorr/internal/profile"
)

// Model turns one sequence set's raw counts into a fixed-length score
// vector (4^k entries, lexicographic k-mer order). The model is selected
// once per run; k and method are run-scoped, never per-record.
type Model interface {
	Method() profile.Method
	K() int
	Profile(c *counter.Counts) ([]float64, error)
}

// New returns the background model for method at order k.
func New(method profile.Method, k int) (Model, error) {
	switch method {
	case profile.MCM:
		if k < 2 {
			return nil, fmt.Errorf("mcm requires k >= 2, got %d", k)
		}
		return &MCM{k: k}, nil
	case profile.ZOM:
		if k < 1 {
			return nil, fmt.Errorf("zom requires k >= 1, got %d", k)
		}
		return &ZOM{k: k}, nil
	}
	return nil, fmt.Errorf("unknown method %q", method)
}
