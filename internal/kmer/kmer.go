// internal/kmer/kmer.go
package kmer

// Alphabet is the canonical nucleotide alphabet in lexicographic order.
// Every enumeration and score-vector index in kcorr follows this order.
const Alphabet = "ACGT"

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
}

// Valid reports whether b is an unambiguous uppercase nucleotide.
func Valid(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}

// RevComp returns the reverse complement of seq. Bases outside {A,C,G,T}
// map to 'N', so windows containing them stay out of every count.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// Enumerate returns all 4^k k-mers in ascending lexicographic order.
// Enumerate(0) is the single empty pattern.
func Enumerate(k int) []string {
	mers := []string{""}
	for i := 0; i < k; i++ {
		next := make([]string, 0, len(mers)*len(Alphabet))
		for _, m := range mers {
			for j := 0; j < len(Alphabet); j++ {
				next = append(next, m+string(Alphabet[j]))
			}
		}
		mers = next
	}
	return mers
}

// Index maps mer to its position in Enumerate(len(mer)). The 2-bit
// encoding A=0 C=1 G=2 T=3 coincides with lexicographic order.
func Index(mer string) (int, bool) {
	idx := 0
	for i := 0; i < len(mer); i++ {
		var code int
		switch mer[i] {
		case 'A':
			code = 0
		case 'C':
			code = 1
		case 'G':
			code = 2
		case 'T':
			code = 3
		default:
			return 0, false
		}
		idx = idx<<2 | code
	}
	return idx, true
}
