// Package prune trashes archive records that have aged past the deletion
// window. Trashing is a soft delete; records can be restored.
package prune

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zulandar/haulyard/internal/archive"
)

// Store is the slice of archive storage the pruner needs.
type Store interface {
	Folders(ctx context.Context) ([]string, error)
	List(ctx context.Context, folder string) ([]archive.Entry, error)
	ListReplaced(ctx context.Context, folder string) ([]archive.Entry, error)
	Trash(ctx context.Context, e archive.Entry) error
}

// ExpiredArchive returns dispatch records whose embedded date falls on or
// before cutoffDay, a midnight in loc. Published pages and names without a
// leading date are skipped.
func ExpiredArchive(entries []archive.Entry, cutoffDay time.Time, loc *time.Location) []archive.Entry {
	var out []archive.Entry
	for _, e := range entries {
		if archive.IsPage(e.Name) {
			continue
		}
		n, err := archive.ParseName(e.Name, loc)
		if err != nil {
			continue
		}
		if !n.Day().After(cutoffDay) {
			out = append(out, e)
		}
	}
	return out
}

// ExpiredReplaced returns replaced records created before cutoff.
func ExpiredReplaced(entries []archive.Entry, cutoff time.Time) []archive.Entry {
	var out []archive.Entry
	for _, e := range entries {
		if e.CreatedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// CutoffDay returns the midnight in loc that lies days calendar days before
// now's date, regardless of daylight-saving changes in between.
func CutoffDay(now time.Time, days int, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d-days, 0, 0, 0, 0, loc)
}

// Result summarizes one pruning run.
type Result struct {
	Cutoff         time.Time       // dispatch dates on or before this day are expired
	ReplacedCutoff time.Time       // replaced records created before this are expired
	Archive        []archive.Entry // trashed (or, in a dry run, due) dispatch records
	Replaced       []archive.Entry // trashed replaced records
	Errors         []error
}

// Pruner runs both retention sweeps against a Store.
type Pruner struct {
	Store    Store
	Days     int // retention window in calendar days
	Location *time.Location
	DryRun   bool
}

// Run sweeps every folder. A failure on one record is recorded and the
// sweep continues.
func (p *Pruner) Run(ctx context.Context, now time.Time) (*Result, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("prune: store is required")
	}
	if p.Days <= 0 {
		return nil, fmt.Errorf("prune: retention days must be positive")
	}
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	res := &Result{
		Cutoff:         CutoffDay(now, p.Days, loc),
		ReplacedCutoff: now.In(loc).AddDate(0, 0, -p.Days),
	}
	folders, err := p.Store.Folders(ctx)
	if err != nil {
		return nil, fmt.Errorf("prune: list folders: %w", err)
	}

	for _, folder := range folders {
		entries, err := p.Store.List(ctx, folder)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("prune: list %s: %w", folder, err))
		} else {
			res.Archive = append(res.Archive, p.trash(ctx, res, folder, ExpiredArchive(entries, res.Cutoff, loc))...)
		}

		replaced, err := p.Store.ListReplaced(ctx, folder)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("prune: list replaced %s: %w", folder, err))
			continue
		}
		res.Replaced = append(res.Replaced, p.trash(ctx, res, folder, ExpiredReplaced(replaced, res.ReplacedCutoff))...)
	}
	return res, nil
}

func (p *Pruner) trash(ctx context.Context, res *Result, folder string, expired []archive.Entry) []archive.Entry {
	if p.DryRun {
		return expired
	}
	done := make([]archive.Entry, 0, len(expired))
	for _, e := range expired {
		if err := p.Store.Trash(ctx, e); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("prune: trash %s/%s: %w", folder, e.Name, err))
			continue
		}
		log.Printf("prune: trashed %s from %s (created %s)", e.Name, folder, e.CreatedAt.Format(time.RFC3339))
		done = append(done, e)
	}
	return done
}
