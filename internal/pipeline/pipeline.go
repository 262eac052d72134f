// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"kcorr/internal/correlate"
	"kcorr/internal/counter"
	"kcorr/internal/model"
	"kcorr/internal/pairs"
	"kcorr/internal/profile"
	"kcorr/internal/seqio"
)

// Config controls both fan-out/fan-in phases. The phases never overlap in
// time: counting finishes (or fails) before any pair is dispatched.
type Config struct {
	Threads int           // worker count; <=0 means all CPUs
	Timeout time.Duration // per-phase deadline, fatal when exceeded
	Warn    func(format string, a ...any)
}

func (c Config) normalize() Config {
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.Timeout <= 0 {
		c.Timeout = 4 * time.Hour
	}
	if c.Warn == nil {
		c.Warn = func(string, ...any) {}
	}
	return c
}

// CountJob describes one input sequence set. The override fields may be
// empty; Split makes every record in the file its own profile.
type CountJob struct {
	Path      string
	Format    seqio.Format
	Accession string
	Biosample string
	Organism  string
	Split     bool
	MinLength int
}

type countResult struct {
	profiles []profile.Profile
	err      error
}

// CountProfiles fans count jobs across a worker pool and aggregates the
// resulting profiles. Workers only send over the results channel; the
// coordinator alone owns the store, so insertion and duplicate detection
// need no locking. A duplicate fresh accession is fatal.
func CountProfiles(parent context.Context, cfg Config, jobs []CountJob, m model.Model) (profile.Store, error) {
	cfg = cfg.normalize()
	ctx, cancel := context.WithTimeout(parent, cfg.Timeout)
	defer cancel()

	jobCh := make(chan CountJob, len(jobs))
	results := make(chan countResult, cfg.Threads*2)

	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobCh:
					if !ok {
						return
					}
					ps, err := countOne(j, m, cfg.Warn)
					select {
					case results <- countResult{profiles: ps, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	store := make(profile.Store, len(jobs))
	for pending := len(jobs); pending > 0; pending-- {
		select {
		case <-ctx.Done():
			return nil, phaseErr("count", ctx)
		case res := <-results:
			if res.err != nil {
				return nil, res.err
			}
			for _, p := range res.profiles {
				if _, dup := store[p.Accession]; dup {
					return nil, fmt.Errorf("duplicate accession %q among computed profiles", p.Accession)
				}
				store[p.Accession] = p
			}
		}
	}
	cancel()
	wg.Wait()
	return store, nil
}

// countOne profiles one sequence set (or each of its records when Split).
func countOne(j CountJob, m model.Model, warn func(string, ...any)) ([]profile.Profile, error) {
	var out []profile.Profile

	build := func(c *counter.Counter, rec seqio.Record) error {
		counts, err := c.Finish()
		if err != nil {
			return fmt.Errorf("%s: %w", j.Path, err)
		}
		scores, err := m.Profile(counts)
		if err != nil {
			return fmt.Errorf("%s: %w", j.Path, err)
		}
		acc, err := seqio.ResolveAccession(j.Accession, rec, j.Path)
		if err != nil {
			return err
		}
		out = append(out, profile.Profile{
			Accession:      acc,
			Scores:         scores,
			SequenceLength: counts.SequenceLength,
			Biosample:      firstNonEmpty(j.Biosample, rec.Biosample),
			Organism:       firstNonEmpty(j.Organism, rec.Organism),
		})
		return nil
	}

	if j.Split {
		err := seqio.ReadAll(j.Path, j.Format, func(rec seqio.Record) error {
			c := counter.New(m.K(), j.MinLength, m.Method(), warn)
			if !c.Add(rec.ID, rec.Seq) {
				return nil
			}
			return build(c, rec)
		})
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%s: no records of length >= %d found", j.Path, j.MinLength)
		}
		return out, nil
	}

	c := counter.New(m.K(), j.MinLength, m.Method(), warn)
	var meta seqio.Record
	err := seqio.ReadAll(j.Path, j.Format, func(rec seqio.Record) error {
		if c.Add(rec.ID, rec.Seq) && meta.ID == "" && meta.Accession == "" {
			meta = rec
			meta.Seq = nil // metadata only; the counter has consumed the bases
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := build(c, meta); err != nil {
		return nil, err
	}
	return out, nil
}

// CorrelatePairs fans the pair list across a worker pool. Each job yields
// zero or one result (the min-r gate drops pairs silently). The returned
// order is unspecified; output sorts explicitly where order matters.
func CorrelatePairs(parent context.Context, cfg Config, store profile.Store, prs []pairs.Pair, minR float64) ([]correlate.Result, error) {
	cfg = cfg.normalize()
	ctx, cancel := context.WithTimeout(parent, cfg.Timeout)
	defer cancel()

	pairCh := make(chan pairs.Pair, cfg.Threads*2)
	results := make(chan []correlate.Result, cfg.Threads*2)

	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case pr, ok := <-pairCh:
					if !ok {
						return
					}
					var batch []correlate.Result
					if res, keep := correlate.Correlate(store[pr.A], store[pr.B], minR); keep {
						batch = append(batch, res)
					}
					select {
					case results <- batch:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(pairCh)
		for _, pr := range prs {
			select {
			case pairCh <- pr:
			case <-ctx.Done():
				return
			}
		}
	}()

	var out []correlate.Result
	for pending := len(prs); pending > 0; pending-- {
		select {
		case <-ctx.Done():
			return nil, phaseErr("correlate", ctx)
		case batch := <-results:
			out = append(out, batch...)
		}
	}
	cancel()
	wg.Wait()
	return out, nil
}

func phaseErr(phase string, ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s phase exceeded its deadline", phase)
	}
	return ctx.Err()
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
