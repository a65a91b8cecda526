// Package schedule runs the timed jobs (archive pruning and page refresh) on
// cron expressions.
package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/haulyard/internal/prune"
)

// parser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Job is a named unit of work fired on Spec.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler fires Jobs in a fixed timezone. A job still running when its
// next tick arrives is skipped for that tick.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
	ids  map[string]cron.EntryID
	ctx  context.Context
}

// New validates every job's cron expression and registers it. Jobs receive
// the context passed to Start.
func New(loc *time.Location, jobs ...Job) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		loc: loc,
		ids: make(map[string]cron.EntryID, len(jobs)),
		ctx: context.Background(),
	}
	for _, j := range jobs {
		if j.Run == nil {
			return nil, fmt.Errorf("schedule: job %q has no run func", j.Name)
		}
		if _, dup := s.ids[j.Name]; dup {
			return nil, fmt.Errorf("schedule: duplicate job %q", j.Name)
		}
		id, err := s.cron.AddFunc(j.Spec, s.wrap(j))
		if err != nil {
			return nil, fmt.Errorf("schedule: job %q: parse %q: %w", j.Name, j.Spec, err)
		}
		s.ids[j.Name] = id
	}
	return s, nil
}

func (s *Scheduler) wrap(j Job) func() {
	return func() {
		start := time.Now()
		if err := j.Run(s.ctx); err != nil {
			log.Printf("schedule: %s failed after %s: %v", j.Name, time.Since(start).Round(time.Millisecond), err)
			return
		}
		log.Printf("schedule: %s done in %s", j.Name, time.Since(start).Round(time.Millisecond))
	}
}

// Start runs the scheduler until ctx is cancelled, then waits for running
// jobs to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

// Next returns the first fire time of the named job after now, in the
// scheduler's timezone. It returns the zero time for an unknown job.
func (s *Scheduler) Next(name string, now time.Time) time.Time {
	id, ok := s.ids[name]
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Schedule.Next(now.In(s.loc))
}

// PruneJob sweeps expired archive records with p.
func PruneJob(expr string, p *prune.Pruner) Job {
	return Job{
		Name: "prune",
		Spec: expr,
		Run: func(ctx context.Context) error {
			res, err := p.Run(ctx, time.Now())
			if err != nil {
				return err
			}
			log.Printf("schedule: prune trashed %d dispatch and %d replaced records (cutoff %s, %d errors)",
				len(res.Archive), len(res.Replaced), res.Cutoff.Format("2006-01-02"), len(res.Errors))
			if len(res.Errors) > 0 {
				return fmt.Errorf("prune: %d records failed, first: %w", len(res.Errors), res.Errors[0])
			}
			return nil
		},
	}
}

// Refresher republishes every company page.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// RefreshJob republishes all company pages so day sections roll over.
func RefreshJob(expr string, r Refresher) Job {
	return Job{Name: "refresh", Spec: expr, Run: r.RefreshAll}
}
