package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/calclab/internal/cache"
	"github.com/san-kum/calclab/internal/quad"
)

const DefaultWorkers = 4

// Result is the outcome of one job. Err holds compile and domain errors;
// they do not stop the other jobs.
type Result struct {
	Job     Job
	Value   float64
	Riemann *quad.RiemannResult
	Err     error
	Elapsed time.Duration
}

// Run is one pass over a job file.
type Run struct {
	ID      string
	Name    string
	Started time.Time
	Elapsed time.Duration
	Results []Result
}

func (r *Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

type Runner struct {
	cache        *cache.Cache
	workers      int
	subdivisions int
	logger       *slog.Logger
}

type Option func(*Runner)

func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSubdivisions sets the trapezoid panel count for jobs with n = 0.
func WithSubdivisions(n int) Option {
	return func(r *Runner) { r.subdivisions = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRunner(c *cache.Cache, opts ...Option) *Runner {
	if c == nil {
		c = cache.New(cache.DefaultSize)
	}
	r := &Runner{
		cache:        c,
		workers:      DefaultWorkers,
		subdivisions: quad.DefaultSubdivisions,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every job in f with at most the configured number running
// at once. Results keep the order of f.Jobs. The only error returned is
// the context's.
func (r *Runner) Run(ctx context.Context, f *File) (*Run, error) {
	run := &Run{
		ID:      uuid.NewString(),
		Name:    f.Name,
		Started: time.Now(),
		Results: make([]Result, len(f.Jobs)),
	}
	r.logger.Info("batch started", "run", run.ID, "name", f.Name, "jobs", len(f.Jobs), "workers", r.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, job := range f.Jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run.Results[i] = r.runJob(job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run.Elapsed = time.Since(run.Started)
	r.logger.Info("batch finished", "run", run.ID, "failed", run.Failed(), "elapsed", run.Elapsed)
	return run, nil
}

func (r *Runner) runJob(job Job) Result {
	start := time.Now()
	res := Result{Job: job}

	f, err := r.cache.Get(job.Expr)
	if err != nil {
		res.Err = err
		r.logger.Warn("job failed", "job", job.Name, "err", err)
		return finish(res, start)
	}

	switch job.Method {
	case MethodRiemann:
		n := job.N
		if n == 0 {
			n = quad.DefaultRiemannSteps
		}
		rr, err := quad.Riemann(f, job.A, job.B, n)
		if err != nil {
			res.Err = err
			break
		}
		res.Riemann = rr
		res.Value = rr.Total
	default:
		n := job.N
		if n == 0 {
			n = r.subdivisions
		}
		res.Value, res.Err = quad.Integrate(f, job.A, job.B, n)
	}

	if res.Err != nil {
		r.logger.Warn("job failed", "job", job.Name, "err", res.Err)
	} else {
		r.logger.Debug("job done", "job", job.Name, "value", res.Value)
	}
	return finish(res, start)
}

func finish(res Result, start time.Time) Result {
	res.Elapsed = time.Since(start)
	return res
}
