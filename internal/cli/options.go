// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"kcorr/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Sequence input
	SeqFiles []string
	Format   string // fasta | genbank | "" (detect by suffix)

	// Profiling parameters
	K              int
	Method         string
	MinLength      int
	MinCorrelation float64

	// Per-input metadata overrides (positional with SeqFiles)
	Accessions   []string
	Biosamples   []string
	Organisms    []string
	SplitRecords bool

	// Pairing policies
	IntraQuery bool
	IntraRef   bool
	Inter      bool

	// Reference profile sources
	LoadJSON       []string
	LoadGob        []string
	LoadDB         []string
	OrganismFilter string

	// Persistence sinks
	SaveJSON     string
	SaveGob      string
	SaveDB       string
	DBDuplicates string

	// Performance
	Threads int
	Timeout time.Duration

	// Output
	Output   string
	BestHits int
	Header   bool // true unless --no-header
	Quiet    bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: k-mer composition profiling and correlation

Computes over/under-representation signatures of k-mers against a
background model (maximal-order Markov chain or zero-order) and reports
pairwise Pearson correlations between profiles.

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	// Sequence input
	var seq, accs, bios, orgs, loadJSON, loadGob, loadDB stringSlice
	fs.Var(&seq, "sequences", "sequence file(s), gzip ok (repeatable or '-') [*]")
	fs.StringVar(&opt.Format, "format", "", "input format: fasta | genbank (default: by suffix)")

	// Profiling parameters
	fs.IntVar(&opt.K, "k", 4, "k-mer length [4]")
	fs.StringVar(&opt.Method, "method", "mcm", "background model: mcm | zom [mcm]")
	fs.IntVar(&opt.MinLength, "min-length", 0, "skip records shorter than this [0]")
	fs.Float64Var(&opt.MinCorrelation, "min-correlation", 0.0, "discard pairs with r below this [0.0]")

	// Metadata overrides
	fs.Var(&accs, "accession", "accession override per --sequences file (repeatable)")
	fs.Var(&bios, "biosample", "biosample override per --sequences file (repeatable)")
	fs.Var(&orgs, "organism", "organism override per --sequences file (repeatable)")
	fs.BoolVar(&opt.SplitRecords, "split-records", false, "profile each record separately [false]")

	// Pairing policies
	fs.BoolVar(&opt.IntraQuery, "intra-query", false, "correlate computed profiles among themselves [false]")
	fs.BoolVar(&opt.IntraRef, "intra-ref", false, "correlate loaded profiles among themselves [false]")
	fs.BoolVar(&opt.Inter, "inter", false, "correlate computed against loaded profiles [false]")

	// Reference sources
	fs.Var(&loadJSON, "load-json", "load reference profiles from a JSON document (repeatable)")
	fs.Var(&loadGob, "load-gob", "load reference profiles from a gob file (repeatable)")
	fs.Var(&loadDB, "load-db", "load reference profiles from a SQLite database (repeatable)")
	fs.StringVar(&opt.OrganismFilter, "organism-filter", "", "only load references whose organism contains this (case-insensitive)")

	// Sinks
	fs.StringVar(&opt.SaveJSON, "save-json", "", "save computed profiles to a JSON document")
	fs.StringVar(&opt.SaveGob, "save-gob", "", "save computed profiles to a gob file")
	fs.StringVar(&opt.SaveDB, "save-db", "", "save computed profiles to a SQLite database")
	fs.StringVar(&opt.DBDuplicates, "db-duplicates", "reject", "on duplicate accession in --save-db: reject | skip | overwrite [reject]")

	// Performance
	fs.IntVar(&opt.Threads, "threads", 0, "number of workers (0 = all CPUs) [0]")
	fs.DurationVar(&opt.Timeout, "timeout", 4*time.Hour, "per-phase deadline, fatal when exceeded [4h]")

	// Output
	fs.StringVar(&opt.Output, "output", "-", "output file ('-' = stdout) [-]")
	fs.IntVar(&opt.BestHits, "best-hits", 0, "keep at most N rows per query accession (0 = all) [0]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress the TSV header line [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress skip notices [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.SeqFiles = seq
	opt.Accessions = accs
	opt.Biosamples = bios
	opt.Organisms = orgs
	opt.LoadJSON = loadJSON
	opt.LoadGob = loadGob
	opt.LoadDB = loadDB
	opt.Header = !noHeader

	// Validation
	if len(opt.SeqFiles) == 0 && !opt.anyLoad() {
		return opt, errors.New("provide --sequences and/or a --load-* source")
	}
	if opt.K < 2 || opt.K > 12 {
		return opt, errors.New("--k must be between 2 and 12")
	}
	if opt.Method != "mcm" && opt.Method != "zom" {
		return opt, fmt.Errorf("invalid --method %q", opt.Method)
	}
	if opt.Format != "" && opt.Format != "fasta" && opt.Format != "genbank" {
		return opt, fmt.Errorf("invalid --format %q", opt.Format)
	}
	if opt.MinLength < 0 {
		return opt, errors.New("--min-length must be >= 0")
	}
	if opt.MinCorrelation < -1 || opt.MinCorrelation > 1 {
		return opt, errors.New("--min-correlation must be within [-1, 1]")
	}
	if err := checkOverride(len(accs), len(opt.SeqFiles), "--accession"); err != nil {
		return opt, err
	}
	if err := checkOverride(len(bios), len(opt.SeqFiles), "--biosample"); err != nil {
		return opt, err
	}
	if err := checkOverride(len(orgs), len(opt.SeqFiles), "--organism"); err != nil {
		return opt, err
	}
	if opt.SplitRecords && len(accs) > 0 {
		return opt, errors.New("--split-records conflicts with --accession overrides")
	}
	if opt.DBDuplicates != "reject" && opt.DBDuplicates != "skip" && opt.DBDuplicates != "overwrite" {
		return opt, fmt.Errorf("invalid --db-duplicates %q", opt.DBDuplicates)
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be >= 0")
	}
	if opt.Timeout <= 0 {
		return opt, errors.New("--timeout must be positive")
	}
	if opt.BestHits < 0 {
		return opt, errors.New("--best-hits must be >= 0")
	}
	return opt, nil
}

func (o Options) anyLoad() bool {
	return len(o.LoadJSON)+len(o.LoadGob)+len(o.LoadDB) > 0
}

// AnyPolicy reports whether a pairing policy flag was given explicitly.
func (o Options) AnyPolicy() bool { return o.IntraQuery || o.IntraRef || o.Inter }

func checkOverride(n, files int, name string) error {
	if n > 0 && n != files {
		return fmt.Errorf("%s given %d times for %d --sequences files", name, n, files)
	}
	return nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
