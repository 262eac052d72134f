// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"kcorr/internal/cli"
	"kcorr/internal/correlate"
	"kcorr/internal/model"
	"kcorr/internal/output"
	"kcorr/internal/pairs"
	"kcorr/internal/pipeline"
	"kcorr/internal/profile"
	"kcorr/internal/seqio"
	"kcorr/internal/store"
	"kcorr/internal/version"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("kcorr")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); output.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); output.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "kcorr version %s\n", version.Version)
		return 0
	}

	warn := func(format string, a ...any) {
		if !opts.Quiet {
			_, _ = fmt.Fprintf(stderr, "WARN: "+format+"\n", a...)
		}
	}

	method, err := profile.ParseMethod(opts.Method)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	mdl, err := model.New(method, opts.K)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	cfg := pipeline.Config{Threads: opts.Threads, Timeout: opts.Timeout, Warn: warn}

	// Phase 1: count + profile every input sequence set.
	fresh := make(profile.Store)
	if len(opts.SeqFiles) > 0 {
		jobs := buildJobs(opts)
		fresh, err = pipeline.CountProfiles(parent, cfg, jobs, mdl)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
	}

	// Load reference stores; freshly computed profiles take precedence.
	loaded, err := loadReferences(opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	combined := profile.Merge(fresh, loaded...)
	if len(combined) == 0 {
		_, _ = fmt.Fprintln(stderr, "no profiles available after loading and filtering")
		return 2
	}
	references := profile.Merge(make(profile.Store), loaded...)

	pol := pairs.Policies{IntraQuery: opts.IntraQuery, IntraReference: opts.IntraRef, Inter: opts.Inter}
	if !pol.Any() {
		if len(references) > 0 {
			pol.Inter = true
		} else {
			pol.IntraQuery = true
		}
	}
	prs := pairs.Generate(fresh.Accessions(), references.Accessions(), pol)

	// Phase 2: correlate.
	var results []correlate.Result
	if len(prs) > 0 {
		if _, err := profile.VectorLength(combined); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		results, err = pipeline.CorrelatePairs(parent, cfg, combined, prs, opts.MinCorrelation)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
	}

	if err := saveProfiles(opts, fresh, warn); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	output.Sort(results)
	results = output.BestHits(results, opts.BestHits)

	w := io.Writer(outw)
	var fh *os.File
	if opts.Output != "-" && opts.Output != "" {
		fh, err = os.Create(opts.Output)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		w = fh
	}
	werr := output.Write(w, results, opts.Header)
	if fh != nil {
		if cerr := fh.Close(); werr == nil {
			werr = cerr
		}
	} else if werr == nil {
		werr = outw.Flush()
	}
	if output.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func buildJobs(opts cli.Options) []pipeline.CountJob {
	jobs := make([]pipeline.CountJob, len(opts.SeqFiles))
	for i, path := range opts.SeqFiles {
		f := seqio.Format(opts.Format)
		if opts.Format == "" {
			f = seqio.DetectFormat(path)
		}
		j := pipeline.CountJob{
			Path:      path,
			Format:    f,
			Split:     opts.SplitRecords,
			MinLength: opts.MinLength,
		}
		if len(opts.Accessions) > 0 {
			j.Accession = opts.Accessions[i]
		}
		if len(opts.Biosamples) > 0 {
			j.Biosample = opts.Biosamples[i]
		}
		if len(opts.Organisms) > 0 {
			j.Organism = opts.Organisms[i]
		}
		jobs[i] = j
	}
	return jobs
}

// loadReferences reads every requested source. Earlier sources take
// precedence over later ones during the merge; the organism filter
// applies to all of them.
func loadReferences(opts cli.Options) ([]profile.Store, error) {
	method := profile.Method(opts.Method)
	var loaded []profile.Store
	for _, p := range opts.LoadJSON {
		s, err := store.LoadJSON(p, opts.OrganismFilter)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, s)
	}
	for _, p := range opts.LoadGob {
		s, err := store.LoadGob(p, opts.OrganismFilter)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, s)
	}
	for _, p := range opts.LoadDB {
		s, err := store.LoadSQLite(p, opts.K, method, opts.OrganismFilter)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, s)
	}
	return loaded, nil
}

// saveProfiles persists the freshly computed profiles to every requested
// sink. Loaded references are never written back.
func saveProfiles(opts cli.Options, fresh profile.Store, warn func(string, ...any)) error {
	if opts.SaveJSON == "" && opts.SaveGob == "" && opts.SaveDB == "" {
		return nil
	}
	if len(fresh) == 0 {
		warn("nothing to save: no profiles were computed this run")
		return nil
	}
	if opts.SaveJSON != "" {
		if err := store.SaveJSON(opts.SaveJSON, fresh); err != nil {
			return err
		}
	}
	if opts.SaveGob != "" {
		if err := store.SaveGob(opts.SaveGob, fresh); err != nil {
			return err
		}
	}
	if opts.SaveDB != "" {
		policy, err := store.ParseDupPolicy(opts.DBDuplicates)
		if err != nil {
			return err
		}
		if err := store.SaveSQLite(opts.SaveDB, opts.K, profile.Method(opts.Method), fresh, policy); err != nil {
			return err
		}
	}
	return nil
}
