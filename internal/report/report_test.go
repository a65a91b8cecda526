package report

import (
	"testing"
	"time"

	"github.com/zulandar/haulyard/internal/archive"
)

var (
	testLoc = time.FixedZone("EDT", -4*60*60)
	// frozen "now": 2025-06-10 14:00 local.
	testNow = time.Date(2025, time.June, 10, 14, 0, 0, 0, testLoc)
)

func entry(name string, age time.Duration) archive.Entry {
	return archive.Entry{Name: name, URL: "https://x/" + name, CreatedAt: testNow.Add(-age)}
}

func classify(entries ...archive.Entry) *Report {
	return Classify("RT Masonry", entries, Options{Now: testNow, Location: testLoc, Window: 18 * 24 * time.Hour})
}

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name.Raw
	}
	return out
}

func TestClassify_Buckets(t *testing.T) {
	r := classify(
		entry("2025-06-01_0600_Dispatch_RT03_100", time.Hour),
		entry("2025-06-10_0900_Dispatch_RT12_200", time.Hour),
		entry("2025-06-15_0700_Dispatch_GEMA1_300", time.Hour),
	)

	if got := names(r.Past); len(got) != 1 || got[0] != "2025-06-01_0600_Dispatch_RT03_100" {
		t.Errorf("Past = %v", got)
	}
	if got := names(r.Today); len(got) != 1 || got[0] != "2025-06-10_0900_Dispatch_RT12_200" {
		t.Errorf("Today = %v", got)
	}
	if got := names(r.Upcoming); len(got) != 1 || got[0] != "2025-06-15_0700_Dispatch_GEMA1_300" {
		t.Errorf("Upcoming = %v", got)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestClassify_TodayIgnoresTimeOfDay(t *testing.T) {
	r := classify(
		entry("2025-06-10_0000_Dispatch_RT03_1", time.Hour),
		entry("2025-06-10_2359_Dispatch_RT03_2", time.Hour),
	)
	if len(r.Today) != 2 {
		t.Errorf("Today = %v, want both entries", names(r.Today))
	}
}

func TestClassify_DescendingWithinBucket(t *testing.T) {
	r := classify(
		entry("2025-06-01_0600_Dispatch_RT03_1", time.Hour),
		entry("2025-06-03_0600_Dispatch_RT03_2", time.Hour),
		entry("2025-06-03_0500_Dispatch_RT12_3", time.Hour),
	)
	want := []string{
		"2025-06-03_0600_Dispatch_RT03_2",
		"2025-06-03_0500_Dispatch_RT12_3",
		"2025-06-01_0600_Dispatch_RT03_1",
	}
	got := names(r.Past)
	if len(got) != len(want) {
		t.Fatalf("Past = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Past[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestClassify_StableForEqualTimes(t *testing.T) {
	r := classify(
		entry("2025-06-12_0700_Dispatch_RT03_A", time.Hour),
		entry("2025-06-12_0700_Dispatch_RT12_B", time.Hour),
	)
	got := names(r.Upcoming)
	if len(got) != 2 || got[0] != "2025-06-12_0700_Dispatch_RT03_A" || got[1] != "2025-06-12_0700_Dispatch_RT12_B" {
		t.Errorf("Upcoming = %v, want input order for equal times", got)
	}
}

func TestClassify_RetentionWindow(t *testing.T) {
	r := classify(
		entry("2025-05-20_0600_Dispatch_RT03_old", 19*24*time.Hour),
		entry("2025-05-23_0600_Dispatch_RT03_edge", 18*24*time.Hour),
		entry("2025-06-09_0600_Dispatch_RT03_new", 24*time.Hour),
	)
	got := names(r.Past)
	if len(got) != 2 {
		t.Fatalf("Past = %v, want 2 entries", got)
	}
	for _, n := range got {
		if n == "2025-05-20_0600_Dispatch_RT03_old" {
			t.Error("entry older than the display window was included")
		}
	}
}

func TestClassify_NoWindowKeepsAll(t *testing.T) {
	r := Classify("X", []archive.Entry{entry("2024-01-01_0600_Dispatch_RT03_1", 400*24*time.Hour)}, Options{Now: testNow, Location: testLoc})
	if len(r.Past) != 1 {
		t.Errorf("Past = %v, want the entry with no window set", names(r.Past))
	}
}

func TestClassify_UnparseableGoesLastInPast(t *testing.T) {
	r := classify(
		entry("scan of ticket.pdf", time.Hour),
		entry("2025-06-02_0600_Dispatch_RT03_1", time.Hour),
	)
	got := names(r.Past)
	if len(got) != 2 || got[1] != "scan of ticket.pdf" {
		t.Fatalf("Past = %v, want unparseable entry last", got)
	}
	if r.Past[1].Label != "scan of ticket.pdf" {
		t.Errorf("Label = %q, want raw name", r.Past[1].Label)
	}
	if !r.Past[1].At.IsZero() {
		t.Errorf("At = %v, want zero sentinel", r.Past[1].At)
	}
}

func TestClassify_SkipsPages(t *testing.T) {
	r := classify(entry("RT_Masonry_dispatch_list.html", time.Hour))
	if r.Len() != 0 {
		t.Errorf("page file was classified: %+v", r)
	}
}

func TestClassify_StatusAndLabel(t *testing.T) {
	r := classify(
		entry("2025-06-12_0615_Dispatch_RT03_00123 CANCELLED.docx", time.Hour),
		entry("2025-06-11_1330_Dispatch_RT12_00456 AMEND", time.Hour),
	)
	if len(r.Upcoming) != 2 {
		t.Fatalf("Upcoming = %v", names(r.Upcoming))
	}
	c := r.Upcoming[0]
	if !c.Cancelled() || c.Amended() {
		t.Errorf("first item status = %v, want cancelled", c.Status)
	}
	if c.Label != "06/12/2025 @ 6:15 AM – RT03 – 00123" {
		t.Errorf("Label = %q", c.Label)
	}
	if c.URL != "https://x/2025-06-12_0615_Dispatch_RT03_00123 CANCELLED.docx" {
		t.Errorf("URL = %q", c.URL)
	}
	a := r.Upcoming[1]
	if !a.Amended() {
		t.Errorf("second item status = %v, want amended", a.Status)
	}
	if a.Label != "06/11/2025 @ 1:30 PM – RT12 – 00456" {
		t.Errorf("Label = %q", a.Label)
	}
}

func TestClassify_UsesLocationForToday(t *testing.T) {
	// 2025-06-11 01:00 UTC is still 2025-06-10 in EDT.
	now := time.Date(2025, time.June, 11, 1, 0, 0, 0, time.UTC)
	r := Classify("X", []archive.Entry{{Name: "2025-06-10_0800_Dispatch_RT03_1", CreatedAt: now}},
		Options{Now: now, Location: testLoc})
	if len(r.Today) != 1 {
		t.Errorf("Today = %v, want entry dated in the reference timezone's today", names(r.Today))
	}
}

func TestBucketString(t *testing.T) {
	if Upcoming.String() != "Upcoming" || Today.String() != "Today" || Past.String() != "Past" {
		t.Error("unexpected bucket names")
	}
}
