// Package dispatch runs the submission pipeline: one form submission is
// rendered into a notice per truck, archived, announced, and reflected in
// each affected company's status page.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/haulyard/internal/archive"
	"github.com/zulandar/haulyard/internal/config"
	"github.com/zulandar/haulyard/internal/notice"
	"github.com/zulandar/haulyard/internal/page"
	"github.com/zulandar/haulyard/internal/report"
	"github.com/zulandar/haulyard/internal/store"
	"github.com/zulandar/haulyard/internal/telegraph"
)

// ErrUnknownCompany is returned for a company missing from the fleet.
var ErrUnknownCompany = errors.New("dispatch: unknown company")

// Targets selects where a rendered notice is materialized.
type Targets uint8

const (
	// TargetArchive saves a dated record in the truck's folder.
	TargetArchive Targets = 1 << iota
	// TargetLive overwrites the truck's single live notice.
	TargetLive
)

// Archive is the storage the pipeline writes to and classifies from.
type Archive interface {
	Save(ctx context.Context, rec store.Record) (archive.Entry, error)
	List(ctx context.Context, folder string) ([]archive.Entry, error)
	SaveLive(ctx context.Context, truck, name string, doc *notice.Document) error
}

// Notifier announces archived notices.
type Notifier interface {
	Deliver(ctx context.Context, d telegraph.Delivery) error
}

// Options holds parameters for creating a Service.
type Options struct {
	Fleet     *config.Fleet
	Renderer  *notice.Renderer
	Archive   Archive
	Publisher store.Publisher
	Notifier  Notifier // optional
	Location  *time.Location
	// DisplayWindow drops records created longer ago than this from pages.
	DisplayWindow time.Duration
	Now           func() time.Time // defaults to time.Now
}

// Service is the dispatch pipeline.
type Service struct {
	fleet     *config.Fleet
	renderer  *notice.Renderer
	archive   Archive
	publisher store.Publisher
	notifier  Notifier
	loc       *time.Location
	window    time.Duration
	now       func() time.Time
}

// NewService creates a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Fleet == nil {
		return nil, fmt.Errorf("dispatch: fleet is required")
	}
	if opts.Archive == nil {
		return nil, fmt.Errorf("dispatch: archive is required")
	}
	if opts.Publisher == nil {
		return nil, fmt.Errorf("dispatch: publisher is required")
	}
	s := &Service{
		fleet:     opts.Fleet,
		renderer:  opts.Renderer,
		archive:   opts.Archive,
		publisher: opts.Publisher,
		notifier:  opts.Notifier,
		loc:       opts.Location,
		window:    opts.DisplayWindow,
		now:       opts.Now,
	}
	if s.renderer == nil {
		s.renderer = notice.NewRenderer("")
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Fleet returns the service's truck/company mapping.
func (s *Service) Fleet() *config.Fleet { return s.fleet }

// Location returns the timezone dates are read and classified in.
func (s *Service) Location() *time.Location { return s.loc }

// TruckResult is the outcome for one truck of a submission.
type TruckResult struct {
	Truck   string
	Company string // empty when the truck is not in the fleet
	Key     string
	Entry   archive.Entry
	Err     error
}

// Result is the outcome of one submission.
type Result struct {
	SubmissionID string
	Trucks       []TruckResult
	Refreshed    []string // companies whose page was regenerated
	RefreshErrs  []error
}

// Archived returns the keys of the notices that were stored.
func (r *Result) Archived() []string {
	var out []string
	for _, t := range r.Trucks {
		if t.Err == nil {
			out = append(out, t.Key)
		}
	}
	return out
}

// Err joins every per-truck and refresh error.
func (r *Result) Err() error {
	var errs []error
	for _, t := range r.Trucks {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	errs = append(errs, r.RefreshErrs...)
	return errors.Join(errs...)
}

// Submit renders and stores req's notice for every truck, in order. A
// failure on one truck is logged and recorded; the remaining trucks are
// still processed. Companies of successfully archived trucks have their
// pages regenerated afterwards.
func (s *Service) Submit(ctx context.Context, req *Request, targets Targets) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("dispatch: request is nil")
	}
	if targets == 0 {
		targets = TargetArchive
	}

	res := &Result{SubmissionID: uuid.NewString()}
	log.Printf("dispatch: submission %s values=%q", res.SubmissionID, req.Raw)
	log.Printf("dispatch: submission %s raw shift=%q start=%q start02=%q",
		res.SubmissionID, req.ShiftTime, req.StartTime, req.StartTime02)

	var companies []string
	seen := make(map[string]bool)
	for _, truck := range req.Trucks {
		tr := s.submitTruck(ctx, res.SubmissionID, req, truck, targets)
		res.Trucks = append(res.Trucks, tr)
		if tr.Err != nil {
			log.Printf("dispatch: truck %s: %v", truck, tr.Err)
			continue
		}
		log.Printf("dispatch: stored %s", tr.Key)

		if targets&TargetArchive == 0 {
			continue
		}
		if tr.Company == "" {
			log.Printf("dispatch: warning: truck %s has no company; page refresh skipped", truck)
			continue
		}
		if !seen[tr.Company] {
			seen[tr.Company] = true
			companies = append(companies, tr.Company)
		}
	}

	for _, company := range companies {
		if _, err := s.RefreshCompany(ctx, company); err != nil {
			log.Printf("dispatch: refresh %s: %v", company, err)
			res.RefreshErrs = append(res.RefreshErrs, err)
			continue
		}
		res.Refreshed = append(res.Refreshed, company)
	}
	return res, nil
}

func (s *Service) submitTruck(ctx context.Context, submissionID string, req *Request, truck string, targets Targets) TruckResult {
	tr := TruckResult{Truck: truck, Key: req.Key(truck)}
	tr.Company, _ = s.fleet.CompanyOf(truck)

	doc := s.renderer.Render(req.Values(truck))

	if targets&TargetArchive != 0 {
		entry, err := s.archive.Save(ctx, store.Record{
			Folder:       truck,
			Name:         tr.Key,
			Company:      tr.Company,
			SubmissionID: submissionID,
			Notice:       doc,
		})
		if err != nil {
			tr.Err = fmt.Errorf("dispatch: archive %s: %w", tr.Key, err)
			return tr
		}
		tr.Entry = entry
	}
	if targets&TargetLive != 0 {
		if err := s.archive.SaveLive(ctx, truck, tr.Key, doc); err != nil {
			tr.Err = fmt.Errorf("dispatch: live %s: %w", truck, err)
			return tr
		}
	}

	s.notify(ctx, tr, doc)
	return tr
}

// notify announces an archived notice. Delivery failures are logged only.
func (s *Service) notify(ctx context.Context, tr TruckResult, doc *notice.Document) {
	if s.notifier == nil {
		return
	}
	name, _ := archive.ParseName(tr.Key, s.loc)
	if name.Job == "" {
		name.Job = tr.Key
	}
	err := s.notifier.Deliver(ctx, telegraph.Delivery{
		Company: tr.Company,
		Truck:   tr.Truck,
		Link:    tr.Entry.URL,
		Name:    name,
		Notice:  doc,
	})
	if err != nil {
		log.Printf("dispatch: notify %s: %v", tr.Key, err)
	}
}

// Report classifies every record of company's trucks as of now.
func (s *Service) Report(ctx context.Context, company string) (*report.Report, error) {
	if !s.fleet.HasCompany(company) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompany, company)
	}
	var entries []archive.Entry
	for _, truck := range s.fleet.Trucks(company) {
		list, err := s.archive.List(ctx, truck)
		if err != nil {
			return nil, fmt.Errorf("dispatch: list %s: %w", truck, err)
		}
		entries = append(entries, list...)
	}
	return report.Classify(company, entries, report.Options{
		Now:      s.now(),
		Location: s.loc,
		Window:   s.window,
	}), nil
}

// RefreshCompany regenerates and publishes company's status page in full.
func (s *Service) RefreshCompany(ctx context.Context, company string) (*report.Report, error) {
	r, err := s.Report(ctx, company)
	if err != nil {
		return nil, err
	}
	html, err := page.RenderHTML(r)
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	p := store.Page{FileName: page.FileName(company), Company: company, HTML: html}
	if err := s.publisher.Publish(ctx, p); err != nil {
		return nil, fmt.Errorf("dispatch: publish %s: %w", p.FileName, err)
	}
	log.Printf("dispatch: published %s (%d upcoming, %d today, %d past)",
		p.FileName, len(r.Upcoming), len(r.Today), len(r.Past))
	return r, nil
}

// RefreshAll regenerates every company's page. Every company is attempted;
// errors are joined.
func (s *Service) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, company := range s.fleet.Companies() {
		if _, err := s.RefreshCompany(ctx, company); err != nil {
			log.Printf("dispatch: refresh %s: %v", company, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
