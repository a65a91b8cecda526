package archive

import (
	"errors"
	"testing"
	"time"
)

func TestBuildKey(t *testing.T) {
	date := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	got := BuildKey(date, "0615", "RT03", "00123")
	want := "2025-06-01_0615_Dispatch_RT03_00123"
	if got != want {
		t.Errorf("BuildKey() = %q, want %q", got, want)
	}
}

func TestParseName_RoundTrip(t *testing.T) {
	date := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	key := BuildKey(date, "0900", "WAC01", "MCRC")

	n, err := ParseName(key, time.UTC)
	if err != nil {
		t.Fatalf("ParseName: %v", err)
	}
	if n.Date != "2025-06-10" || n.Time != "0900" {
		t.Errorf("Date/Time = %s/%s", n.Date, n.Time)
	}
	if n.Truck != "WAC01" || n.Job != "MCRC" {
		t.Errorf("Truck/Job = %s/%s", n.Truck, n.Job)
	}
	want := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	if !n.At.Equal(want) {
		t.Errorf("At = %v, want %v", n.At, want)
	}
	if n.Status != StatusNone {
		t.Errorf("Status = %v, want none", n.Status)
	}
}

func TestParseName_ExtensionAndStatus(t *testing.T) {
	tests := []struct {
		raw    string
		job    string
		ext    string
		suffix string
		status Status
	}{
		{"2025-06-01_0600_Dispatch_RT03_00123.docx", "00123", ".docx", "", StatusNone},
		{"2025-06-01_0600_Dispatch_RT03_00123 CANCELLED", "00123", "", " CANCELLED", StatusCancelled},
		{"2025-06-01_0600_Dispatch_RT03_00123_AMEND.pdf", "00123", ".pdf", "_AMEND", StatusAmended},
		{"2025-06-01_0600_Dispatch_RT03_00123 AMEND CANCELLED", "00123", "", " AMEND CANCELLED", StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			n, err := ParseName(tt.raw, time.UTC)
			if err != nil {
				t.Fatalf("ParseName: %v", err)
			}
			if n.Job != tt.job {
				t.Errorf("Job = %q, want %q", n.Job, tt.job)
			}
			if n.Ext != tt.ext {
				t.Errorf("Ext = %q, want %q", n.Ext, tt.ext)
			}
			if n.Suffix != tt.suffix {
				t.Errorf("Suffix = %q, want %q", n.Suffix, tt.suffix)
			}
			if n.Status != tt.status {
				t.Errorf("Status = %v, want %v", n.Status, tt.status)
			}
		})
	}
}

func TestParseName_Unparseable(t *testing.T) {
	for _, raw := range []string{
		"",
		"notes.txt",
		"RT_Masonry_dispatch_list.html",
		"2025-06-01_Dispatch_RT03_1",
		"2025-13-01_0600_Dispatch_RT03_1",
		"2025-06-01_2561_Dispatch_RT03_1",
	} {
		n, err := ParseName(raw, time.UTC)
		if !errors.Is(err, ErrUnparseable) {
			t.Errorf("ParseName(%q) err = %v, want ErrUnparseable", raw, err)
		}
		if !n.At.IsZero() {
			t.Errorf("ParseName(%q) At = %v, want zero", raw, n.At)
		}
		if n.Raw != raw {
			t.Errorf("ParseName(%q) Raw = %q", raw, n.Raw)
		}
	}
}

func TestParseName_Location(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	n, err := ParseName("2025-06-01_2330_Dispatch_RT03_1", loc)
	if err != nil {
		t.Fatalf("ParseName: %v", err)
	}
	if n.At.Location() != loc {
		t.Errorf("location = %v, want %v", n.At.Location(), loc)
	}
	if got := n.Day(); !got.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("Day() = %v", got)
	}
}

func TestDetectStatus(t *testing.T) {
	if DetectStatus("x CANCELLED") != StatusCancelled {
		t.Error("expected cancelled")
	}
	if DetectStatus("x AMENDED") != StatusAmended {
		t.Error("expected amended")
	}
	if DetectStatus("x") != StatusNone {
		t.Error("expected none")
	}
	if StatusCancelled.String() != "CANCELLED" || StatusAmended.String() != "AMENDMENT" {
		t.Error("unexpected status labels")
	}
}

func TestIsPage(t *testing.T) {
	if !IsPage("RT_Masonry_dispatch_list.html") {
		t.Error("expected html page")
	}
	if IsPage("2025-06-01_0600_Dispatch_RT03_1") {
		t.Error("dispatch reported as page")
	}
}
