// internal/correlate/correlate.go
package correlate

import (
	"math"

	"kcorr/internal/profile"
)

// Result is one retained correlation row. Ephemeral: written to output,
// never persisted.
type Result struct {
	R          float64
	AccessionA string
	AccessionB string
	BiosampleA string
	BiosampleB string
	OrganismA  string
	OrganismB  string
}

// Pearson computes the linear correlation coefficient of two equal-length
// vectors. A zero-variance vector has no defined correlation; 0 is
// returned so the threshold gate drops the pair.
func Pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	var sx, sy float64
	for i := range x {
		sx += x[i]
		sy += y[i]
	}
	mx, my := sx/n, sy/n

	var cov, vx, vy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	denom := math.Sqrt(vx * vy)
	if denom == 0 {
		return 0
	}
	return cov / denom
}

// Correlate scores one pair of profiles and reports whether the result
// clears minR. Score vectors are equal-length by store invariant; that is
// validated before dispatch, not here.
func Correlate(a, b profile.Profile, minR float64) (Result, bool) {
	r := Pearson(a.Scores, b.Scores)
	if r < minR {
		return Result{}, false
	}
	return Result{
		R:          r,
		AccessionA: a.Accession,
		AccessionB: b.Accession,
		BiosampleA: a.Biosample,
		BiosampleB: b.Biosample,
		OrganismA:  a.Organism,
		OrganismB:  b.Organism,
	}, true
}
