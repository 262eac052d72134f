// internal/counter/counter_test.go
package counter

import (
	"strings"
	"testing"

	"kcorr/internal/profile"
)

func TestMinLengthFilterAndNotice(t *testing.T) {
	var notices []string
	c := New(2, 10, profile.MCM, func(format string, a ...any) {
		notices = append(notices, format)
	})
	if c.Add("short", []byte("ACGT")) {
		t.Fatal("record below min length must not qualify")
	}
	if !c.Add("long", []byte("ACGTACGTACGT")) {
		t.Fatal("qualifying record rejected")
	}
	counts, err := c.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if counts.Records != 1 || counts.Skipped != 1 {
		t.Fatalf("records=%d skipped=%d, want 1/1", counts.Records, counts.Skipped)
	}
	if counts.SequenceLength != 12 {
		t.Fatalf("sequence length %d, want 12 (skipped record must not count)", counts.SequenceLength)
	}
	if len(notices) != 1 {
		t.Fatalf("want one skip notice, got %d", len(notices))
	}
}

func TestZeroQualifyingRecordsFatal(t *testing.T) {
	c := New(2, 100, profile.MCM, nil)
	c.Add("a", []byte("ACGT"))
	if _, err := c.Finish(); err == nil {
		t.Fatal("expected error for empty sequence set")
	}
}

func TestMCMCountsBothStrands(t *testing.T) {
	c := New(2, 0, profile.MCM, nil)
	c.Add("r", []byte("aacg")) // lowercase on purpose; revcomp is CGTT
	counts, err := c.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	// forward 2-mers: AA, AC, CG; reverse 2-mers: CG, GT, TT
	want := map[string]int{"AA": 1, "AC": 1, "CG": 2, "GT": 1, "TT": 1}
	for mer, n := range want {
		if counts.Kmers[mer] != n {
			t.Errorf("count[%s] = %d, want %d", mer, counts.Kmers[mer], n)
		}
	}
	// 1-mers over both strands: A appears 2 fwd + 0 rev, etc.
	if counts.Sub1["A"] != 2 || counts.Sub1["T"] != 2 {
		t.Errorf("1-mer strand symmetry broken: A=%d T=%d", counts.Sub1["A"], counts.Sub1["T"])
	}
	// order 0: positions+1 per strand
	if counts.Sub2[""] != 10 {
		t.Errorf("order-0 count = %d, want 10", counts.Sub2[""])
	}
}

func TestAmbiguousBasesExcluded(t *testing.T) {
	c := New(2, 0, profile.MCM, nil)
	c.Add("r", []byte("ACNGT"))
	counts, _ := c.Finish()
	for mer := range counts.Kmers {
		if strings.ContainsAny(mer, "N") {
			t.Fatalf("ambiguous k-mer %q counted", mer)
		}
	}
	// AC before the N, GT after; CN/NG never enumerated. Reverse strand
	// ACNGT -> ACNGT contributes the same.
	if counts.Kmers["AC"] != 2 || counts.Kmers["GT"] != 2 {
		t.Errorf("window split wrong: AC=%d GT=%d", counts.Kmers["AC"], counts.Kmers["GT"])
	}
}

func TestZOMCountsForwardKmersAndBothStrandBases(t *testing.T) {
	c := New(2, 0, profile.ZOM, nil)
	c.Add("r", []byte("AACG"))
	counts, err := c.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	// k-mers from the forward strand only
	if counts.Kmers["TT"] != 0 || counts.Kmers["AA"] != 1 {
		t.Errorf("zom must count forward strand only: %v", counts.Kmers)
	}
	total := 0
	for _, b := range []byte("ACGT") {
		total += counts.Bases[b]
	}
	if total != 2*counts.SequenceLength {
		t.Errorf("base totals %d, want both strands = %d", total, 2*counts.SequenceLength)
	}
}
