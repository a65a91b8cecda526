package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/haulyard/internal/archive"
	"github.com/zulandar/haulyard/internal/notice"
	"github.com/zulandar/haulyard/internal/timefmt"
)

// Positions of the submitted form fields. Index 0 is the form's own
// timestamp and is not read.
const (
	fieldDate = iota + 1
	fieldShiftTime
	fieldCompany
	fieldJobNumber
	fieldStartTime
	fieldStartLocation
	fieldInstructions
	fieldNotes
	fieldTrucks
	fieldTolls
	fieldAdd01
	fieldAdd02
	fieldStartTime02
	fieldStartLocation02
	fieldInstructions02
)

// dateLayouts are the calendar date forms accepted from the form.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// FormSubmission is the JSON body accepted by the submit endpoint and the
// CLI: the form's positional answers.
type FormSubmission struct {
	Values []string `json:"values"`
}

// Request is one submitted job assignment. It fans out into one notice per
// truck and is not modified after parsing.
type Request struct {
	Raw            []string
	Date           time.Time
	RawDate        string
	ShiftTime      string
	Company        string
	JobNumber      string
	StartTime      string
	StartLocation  string
	Instructions   string
	Notes          string
	Trucks         []string
	Tolls          string
	Add01          string
	Add02          string
	StartTime02    string
	StartLocation2 string
	Instructions02 string
}

// ParseFormValues reads a request from positional form values. Missing
// trailing fields are treated as blank.
func ParseFormValues(values []string, loc *time.Location) (*Request, error) {
	if len(values) <= fieldTrucks {
		return nil, fmt.Errorf("dispatch: form has %d values, need at least %d", len(values), fieldTrucks+1)
	}
	at := func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}

	date, err := ParseDate(at(fieldDate), loc)
	if err != nil {
		return nil, err
	}
	trucks := SplitTrucks(at(fieldTrucks))
	if len(trucks) == 0 {
		return nil, fmt.Errorf("dispatch: no truck numbers in %q", at(fieldTrucks))
	}

	return &Request{
		Raw:            append([]string(nil), values...),
		Date:           date,
		RawDate:        at(fieldDate),
		ShiftTime:      at(fieldShiftTime),
		Company:        at(fieldCompany),
		JobNumber:      strings.TrimSpace(at(fieldJobNumber)),
		StartTime:      at(fieldStartTime),
		StartLocation:  at(fieldStartLocation),
		Instructions:   at(fieldInstructions),
		Notes:          at(fieldNotes),
		Trucks:         trucks,
		Tolls:          at(fieldTolls),
		Add01:          at(fieldAdd01),
		Add02:          at(fieldAdd02),
		StartTime02:    at(fieldStartTime02),
		StartLocation2: at(fieldStartLocation02),
		Instructions02: at(fieldInstructions02),
	}, nil
}

// ParseDate reads a form date as midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			y, m, d := t.In(loc).Date()
			return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("dispatch: unreadable date %q", raw)
}

// SplitTrucks splits a comma-separated truck list. Blank entries are dropped.
func SplitTrucks(csv string) []string {
	var out []string
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Key returns the archive name of truck's notice.
func (r *Request) Key(truck string) string {
	return archive.BuildKey(r.Date, timefmt.Sortable(r.StartTime), truck, r.JobNumber)
}

// Values returns the template values for truck's notice.
func (r *Request) Values(truck string) notice.Values {
	return notice.Values{
		Date:           r.RawDate,
		ShiftTime:      r.ShiftTime,
		Company:        r.Company,
		JobNumber:      r.JobNumber,
		StartTime:      r.StartTime,
		StartLocation:  r.StartLocation,
		Instructions:   r.Instructions,
		Notes:          r.Notes,
		TruckNumber:    truck,
		Tolls:          r.Tolls,
		Add01:          r.Add01,
		Add02:          r.Add02,
		StartTime02:    r.StartTime02,
		StartLocation2: r.StartLocation2,
		Instructions02: r.Instructions02,
	}
}
