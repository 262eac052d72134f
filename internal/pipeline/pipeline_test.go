// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kcorr/internal/correlate"
	"kcorr/internal/counter"
	"kcorr/internal/model"
	"kcorr/internal/pairs"
	"kcorr/internal/profile"
	"kcorr/internal/seqio"
)

func writeFasta(t *testing.T, dir, name, id, seq string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(">"+id+"\n"+seq+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func job(path string) CountJob {
	return CountJob{Path: path, Format: seqio.FASTA}
}

// Two synthetic 2000-base sets, k=2, MCM, min_r 0, intra-query: exactly
// one correlation row, with r matching a direct single-threaded
// computation over the same counts.
func TestCountAndCorrelateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	seqA := strings.Repeat("ACGTTGCA", 250)
	seqB := strings.Repeat("ACGTTGCA", 150) + strings.Repeat("AACGTGCT", 100)
	pa := writeFasta(t, dir, "a.fa", "GCA_A", seqA)
	pb := writeFasta(t, dir, "b.fa", "GCA_B", seqB)

	m, err := model.New(profile.MCM, 2)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	cfg := Config{Threads: 4}

	store, err := CountProfiles(context.Background(), cfg, []CountJob{job(pa), job(pb)}, m)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if len(store) != 2 {
		t.Fatalf("store has %d profiles, want 2", len(store))
	}
	for _, acc := range []string{"GCA_A", "GCA_B"} {
		p := store[acc]
		if len(p.Scores) != 16 {
			t.Fatalf("%s: %d scores, want 16", acc, len(p.Scores))
		}
		if p.SequenceLength != 2000 {
			t.Fatalf("%s: sequence length %d, want 2000", acc, p.SequenceLength)
		}
	}

	prs := pairs.Generate(store.Accessions(), nil, pairs.Policies{IntraQuery: true})
	if len(prs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(prs))
	}
	results, err := CorrelatePairs(context.Background(), cfg, store, prs, 0.0)
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want exactly 1", len(results))
	}

	// The parallel result must equal the direct computation.
	want := correlate.Pearson(store["GCA_A"].Scores, store["GCA_B"].Scores)
	if results[0].R != want {
		t.Fatalf("r = %v, want %v", results[0].R, want)
	}
	if want < 0 {
		t.Fatalf("synthetic sets should correlate positively, got %v", want)
	}
}

func TestIdenticalSetsCorrelateToOne(t *testing.T) {
	dir := t.TempDir()
	seq := strings.Repeat("ACGTTGCAAT", 200)
	pa := writeFasta(t, dir, "a.fa", "X_1", seq)
	pb := writeFasta(t, dir, "b.fa", "X_2", seq)

	m, _ := model.New(profile.MCM, 3)
	store, err := CountProfiles(context.Background(), Config{Threads: 2}, []CountJob{job(pa), job(pb)}, m)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	results, err := CorrelatePairs(context.Background(), Config{Threads: 2}, store,
		[]pairs.Pair{{A: "X_1", B: "X_2"}}, 0.0)
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if len(results) != 1 || math.Abs(results[0].R-1.0) > 1e-9 {
		t.Fatalf("identical sets: %+v", results)
	}
}

func TestDuplicateAccessionFatal(t *testing.T) {
	dir := t.TempDir()
	pa := writeFasta(t, dir, "a.fa", "DUP", "ACGTACGTACGT")
	pb := writeFasta(t, dir, "b.fa", "DUP", "ACGTACGTACGT")

	m, _ := model.New(profile.MCM, 2)
	_, err := CountProfiles(context.Background(), Config{Threads: 2}, []CountJob{job(pa), job(pb)}, m)
	if err == nil || !strings.Contains(err.Error(), "duplicate accession") {
		t.Fatalf("want duplicate accession error, got %v", err)
	}
}

func TestSplitRecordsOneProfileEach(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.fa")
	content := ">rec1\n" + strings.Repeat("ACGT", 50) + "\n>rec2\n" + strings.Repeat("TTGCAACG", 25) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, _ := model.New(profile.MCM, 2)
	j := CountJob{Path: path, Format: seqio.FASTA, Split: true}
	store, err := CountProfiles(context.Background(), Config{Threads: 1}, []CountJob{j}, m)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if len(store) != 2 {
		t.Fatalf("split produced %d profiles, want 2", len(store))
	}
	if _, ok := store["rec1"]; !ok {
		t.Fatal("record accession missing from split store")
	}
}

func TestEmptySetFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeFasta(t, dir, "short.fa", "S", "ACGT")

	m, _ := model.New(profile.MCM, 2)
	j := CountJob{Path: path, Format: seqio.FASTA, MinLength: 100}
	_, err := CountProfiles(context.Background(), Config{Threads: 1}, []CountJob{j}, m)
	if err == nil {
		t.Fatal("expected fatal error for a set with no qualifying records")
	}
}

func TestMinRGateDropsSilently(t *testing.T) {
	store := profile.Store{
		"a": {Accession: "a", Scores: []float64{1, 2, 3, 4}},
		"b": {Accession: "b", Scores: []float64{4, 3, 2, 1}},
	}
	results, err := CorrelatePairs(context.Background(), Config{Threads: 1}, store,
		[]pairs.Pair{{A: "a", B: "b"}}, 0.9)
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("anti-correlated pair must be dropped, got %+v", results)
	}
}

func TestCounterMatchesPipelineProfile(t *testing.T) {
	dir := t.TempDir()
	seq := strings.Repeat("ACGGTTCA", 40)
	path := writeFasta(t, dir, "one.fa", "ONE", seq)

	m, _ := model.New(profile.MCM, 2)
	store, err := CountProfiles(context.Background(), Config{Threads: 3}, []CountJob{job(path)}, m)
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	c := counter.New(2, 0, profile.MCM, nil)
	c.Add("ONE", []byte(seq))
	counts, _ := c.Finish()
	want, err := m.Profile(counts)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	got := store["ONE"].Scores
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("score %d: pipeline %v vs direct %v", i, got[i], want[i])
		}
	}
}
