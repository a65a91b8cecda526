// Package report classifies a company's archived dispatches into the
// Upcoming, Today and Past sections of its status page.
package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/zulandar/haulyard/internal/archive"
)

// Bucket names a report section.
type Bucket int

const (
	Upcoming Bucket = iota
	Today
	Past
)

func (b Bucket) String() string {
	switch b {
	case Upcoming:
		return "Upcoming"
	case Today:
		return "Today"
	default:
		return "Past"
	}
}

// Item is one rendered entry of a report section.
type Item struct {
	At     time.Time // dispatch date and start time; zero when the name is unreadable
	Label  string
	URL    string
	Name   archive.Name
	Status archive.Status
}

// Cancelled reports whether the dispatch was cancelled.
func (it Item) Cancelled() bool { return it.Status == archive.StatusCancelled }

// Amended reports whether the dispatch was amended.
func (it Item) Amended() bool { return it.Status == archive.StatusAmended }

// Report is a company's classified dispatch list. Each section is ordered
// most recent first.
type Report struct {
	Company     string
	GeneratedAt time.Time
	Upcoming    []Item
	Today       []Item
	Past        []Item
}

// Sections returns the three sections in page order.
func (r *Report) Sections() [3][]Item {
	return [3][]Item{r.Upcoming, r.Today, r.Past}
}

// Len returns the total number of items.
func (r *Report) Len() int {
	return len(r.Upcoming) + len(r.Today) + len(r.Past)
}

// Options control classification.
type Options struct {
	Now      time.Time
	Location *time.Location
	// Window drops entries created longer ago than this. Zero keeps all.
	Window time.Duration
}

// Classify buckets entries relative to opts.Now. Entries outside the display
// window are skipped; they stay in storage. Entries whose names cannot be
// decoded are kept with a zero date so they land at the bottom of Past.
func Classify(company string, entries []archive.Entry, opts Options) *Report {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now.In(loc)
	today := midnight(now)

	r := &Report{Company: company, GeneratedAt: now}
	for _, e := range entries {
		if archive.IsPage(e.Name) {
			continue
		}
		if opts.Window > 0 && now.Sub(e.CreatedAt) > opts.Window {
			continue
		}

		n, err := archive.ParseName(e.Name, loc)
		it := Item{
			At:     n.At,
			URL:    e.URL,
			Name:   n,
			Status: n.Status,
		}
		if err != nil {
			it.Label = e.Name
			r.Past = append(r.Past, it)
			continue
		}
		it.Label = Label(n)

		switch day := n.Day(); {
		case day.Before(today):
			r.Past = append(r.Past, it)
		case day.Equal(today):
			r.Today = append(r.Today, it)
		default:
			r.Upcoming = append(r.Upcoming, it)
		}
	}

	for _, items := range [][]Item{r.Upcoming, r.Today, r.Past} {
		slices.SortStableFunc(items, func(a, b Item) int {
			return b.At.Compare(a.At)
		})
	}
	return r
}

// Label formats a decoded name as "MM/DD/YYYY @ h:mm PM – TRUCK – JOB".
func Label(n archive.Name) string {
	return fmt.Sprintf("%s @ %s – %s – %s", n.At.Format("01/02/2006"), n.At.Format("3:04 PM"), n.Truck, n.Job)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
