// internal/cli/options_test.go
package cli

import (
	"flag"
	"testing"
	"time"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func mustFail(t *testing.T, args ...string) {
	t.Helper()
	if _, err := ParseArgs(newFS(), args); err == nil {
		t.Fatalf("expected parse error for %v", args)
	}
}

func TestDefaults(t *testing.T) {
	o := mustParse(t, "--sequences", "a.fa")
	if o.K != 4 || o.Method != "mcm" || o.Threads != 0 {
		t.Errorf("bad defaults %+v", o)
	}
	if !o.Header || o.Quiet {
		t.Errorf("header/quiet defaults wrong %+v", o)
	}
	if o.Timeout != 4*time.Hour {
		t.Errorf("timeout default %v", o.Timeout)
	}
	if o.AnyPolicy() {
		t.Error("no policy should be set by default")
	}
}

func TestRepeatableSequences(t *testing.T) {
	o := mustParse(t, "--sequences", "a.fa", "--sequences", "b.fa.gz")
	if len(o.SeqFiles) != 2 {
		t.Fatalf("want 2 files, got %v", o.SeqFiles)
	}
}

func TestLoadOnlyRunOK(t *testing.T) {
	o := mustParse(t, "--load-json", "ref.json", "--intra-ref")
	if len(o.SeqFiles) != 0 || len(o.LoadJSON) != 1 {
		t.Fatalf("bad load-only parse %+v", o)
	}
}

func TestErrorNoInput(t *testing.T) {
	mustFail(t)
	mustFail(t, "--k", "4")
}

func TestErrorOverrideCountMismatch(t *testing.T) {
	mustFail(t, "--sequences", "a.fa", "--sequences", "b.fa", "--accession", "only-one")
	mustFail(t, "--sequences", "a.fa", "--biosample", "s1", "--biosample", "s2")
	mustFail(t, "--sequences", "a.fa", "--organism", "o1", "--organism", "o2")
}

func TestOverridesPairPositionally(t *testing.T) {
	o := mustParse(t,
		"--sequences", "a.fa", "--sequences", "b.fa",
		"--accession", "ACC_A", "--accession", "ACC_B",
	)
	if o.Accessions[0] != "ACC_A" || o.Accessions[1] != "ACC_B" {
		t.Fatalf("override order lost: %v", o.Accessions)
	}
}

func TestErrorSplitRecordsWithAccessions(t *testing.T) {
	mustFail(t, "--sequences", "a.fa", "--split-records", "--accession", "X")
}

func TestErrorBadValues(t *testing.T) {
	mustFail(t, "--sequences", "a.fa", "--k", "1")
	mustFail(t, "--sequences", "a.fa", "--k", "13")
	mustFail(t, "--sequences", "a.fa", "--method", "markov")
	mustFail(t, "--sequences", "a.fa", "--format", "embl")
	mustFail(t, "--sequences", "a.fa", "--min-correlation", "1.5")
	mustFail(t, "--sequences", "a.fa", "--db-duplicates", "upsert")
	mustFail(t, "--sequences", "a.fa", "--threads", "-1")
	mustFail(t, "--sequences", "a.fa", "--best-hits", "-2")
}

func TestPolicyFlags(t *testing.T) {
	o := mustParse(t, "--sequences", "a.fa", "--intra-query", "--inter", "--load-gob", "r.gob")
	if !o.IntraQuery || !o.Inter || o.IntraRef {
		t.Fatalf("policy flags wrong %+v", o)
	}
	if !o.AnyPolicy() {
		t.Fatal("AnyPolicy should be true")
	}
}
