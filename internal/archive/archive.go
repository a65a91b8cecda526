// Package archive defines the archive naming scheme for dispatch records.
//
// Every archived dispatch is stored under a name of the form
//
//	YYYY-MM-DD_HHMM_Dispatch_<TRUCK>_<JOB>[ status suffix][.ext]
//
// The name is both the record's identity within a truck folder and its
// chronological sort key. ParseName is the only decoder of that format;
// the classifier, the pruner and the dashboard all go through it.
package archive

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the date portion of an archive name.
const DateLayout = "2006-01-02"

// Status is a marker embedded in an archive name.
type Status int

const (
	StatusNone Status = iota
	StatusAmended
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusAmended:
		return "AMENDMENT"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return ""
	}
}

// ErrUnparseable is returned by ParseName for names without a date/time prefix.
var ErrUnparseable = errors.New("archive: unparseable name")

// namePrefix matches the leading date and time blocks.
var namePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_(\d{4})_`)

// Entry is one stored archive item as listed by a storage backend.
type Entry struct {
	ID        uint
	Folder    string
	Name      string
	URL       string
	CreatedAt time.Time
	Replaced  bool
}

// Name is a decoded archive name.
type Name struct {
	Raw    string
	Date   string // YYYY-MM-DD
	Time   string // HHMM
	At     time.Time
	Truck  string
	Job    string
	Suffix string // text after the job number, e.g. " CANCELLED"
	Ext    string
	Status Status
}

// BuildKey returns the canonical archive name for one truck's dispatch.
func BuildKey(date time.Time, sortableTime, truck, job string) string {
	return fmt.Sprintf("%s_%s_Dispatch_%s_%s", date.Format(DateLayout), sortableTime, truck, job)
}

// DetectStatus reports the status marker carried anywhere in name.
// CANCELLED takes precedence over AMEND.
func DetectStatus(name string) Status {
	switch {
	case strings.Contains(name, "CANCELLED"):
		return StatusCancelled
	case strings.Contains(name, "AMEND"):
		return StatusAmended
	default:
		return StatusNone
	}
}

// IsPage reports whether name is a published page rather than a dispatch.
func IsPage(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".html")
}

// ParseName decodes raw, interpreting its date and time in loc.
func ParseName(raw string, loc *time.Location) (Name, error) {
	if loc == nil {
		loc = time.Local
	}
	m := namePrefix.FindStringSubmatch(raw)
	if m == nil {
		return Name{Raw: raw, Status: DetectStatus(raw)}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}
	at, err := time.ParseInLocation("2006-01-02 1504", m[1]+" "+m[2], loc)
	if err != nil {
		return Name{Raw: raw, Status: DetectStatus(raw)}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}

	n := Name{
		Raw:    raw,
		Date:   m[1],
		Time:   m[2],
		At:     at,
		Status: DetectStatus(raw),
	}

	parts := strings.Split(raw, "_")
	if len(parts) > 3 {
		n.Truck = parts[3]
	}
	if len(parts) > 4 {
		job := strings.Join(parts[4:], "_")
		if i := strings.IndexByte(job, '.'); i >= 0 {
			n.Ext = job[i:]
			job = job[:i]
		}
		if i := strings.IndexAny(job, " _"); i >= 0 {
			n.Suffix = job[i:]
			job = job[:i]
		}
		n.Job = job
	}
	return n, nil
}

// Day returns the calendar day of n at midnight in its location.
func (n Name) Day() time.Time {
	y, mo, d := n.At.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, n.At.Location())
}
