// internal/counter/counter.go
package counter

import (
	"bytes"
	"fmt"

	"kcorr/internal/kmer"
	"kcorr/internal/profile"
)

// Counts holds the raw tallies one sequence set needs for profiling.
//
// For MCM, Kmers/Sub1/Sub2 hold overlapping pattern counts of order k,
// k-1 and k-2, each accumulated over the forward strand plus its reverse
// complement. For ZOM, Kmers holds forward-strand counts only and Bases
// holds per-nucleotide totals over both strands.
type Counts struct {
	K              int
	Method         profile.Method
	Kmers          map[string]int
	Sub1           map[string]int
	Sub2           map[string]int
	Bases          map[byte]int
	SequenceLength int // single-strand bases across qualifying records
	Records        int // qualifying records
	Skipped        int // records dropped by the min-length filter
}

// Counter accumulates Counts record by record.
type Counter struct {
	k         int
	minLength int
	counts    *Counts
	warn      func(format string, a ...any)
}

// New returns a Counter for one sequence set. warn receives a notice per
// skipped record and may be nil.
func New(k, minLength int, method profile.Method, warn func(format string, a ...any)) *Counter {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Counter{
		k:         k,
		minLength: minLength,
		warn:      warn,
		counts: &Counts{
			K:      k,
			Method: method,
			Kmers:  make(map[string]int),
			Sub1:   make(map[string]int),
			Sub2:   make(map[string]int),
			Bases:  make(map[byte]int),
		},
	}
}

// Add counts one record. It reports whether the record qualified.
func (c *Counter) Add(id string, seq []byte) bool {
	if len(seq) < c.minLength {
		c.counts.Skipped++
		c.warn("record %s skipped: length %d < minimum %d", id, len(seq), c.minLength)
		return false
	}
	fwd := bytes.ToUpper(seq)
	rev := kmer.RevComp(fwd)
	c.counts.SequenceLength += len(fwd)
	c.counts.Records++

	switch c.counts.Method {
	case profile.MCM:
		for _, n := range []int{c.k, c.k - 1, c.k - 2} {
			dst := c.orderMap(n)
			countWindows(fwd, n, dst)
			countWindows(rev, n, dst)
		}
	case profile.ZOM:
		countBases(fwd, c.counts.Bases)
		countBases(rev, c.counts.Bases)
		countWindows(fwd, c.k, c.counts.Kmers)
	}
	return true
}

// Finish returns the accumulated counts. A set with zero qualifying
// records never yields a profile.
func (c *Counter) Finish() (*Counts, error) {
	if c.counts.Records == 0 {
		return nil, fmt.Errorf("no records of length >= %d found", c.minLength)
	}
	return c.counts, nil
}

func (c *Counter) orderMap(n int) map[string]int {
	switch n {
	case c.k:
		return c.counts.Kmers
	case c.k - 1:
		return c.counts.Sub1
	default:
		return c.counts.Sub2
	}
}

// countWindows tallies every overlapping window of length n whose bases
// are all unambiguous. The sequence is split on ambiguous bases first, so
// a window containing an N is never enumerated. Order 0 degenerates to
// the number of positions plus one.
func countWindows(seq []byte, n int, dst map[string]int) {
	if n == 0 {
		dst[""] += len(seq) + 1
		return
	}
	start := 0
	for i := 0; i <= len(seq); i++ {
		if i < len(seq) && kmer.Valid(seq[i]) {
			continue
		}
		seg := seq[start:i]
		for j := 0; j+n <= len(seg); j++ {
			dst[string(seg[j:j+n])]++
		}
		start = i + 1
	}
}

func countBases(seq []byte, dst map[byte]int) {
	for _, b := range seq {
		if kmer.Valid(b) {
			dst[b]++
		}
	}
}
