package prune

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zulandar/haulyard/internal/archive"
)

var now = time.Date(2025, time.September, 20, 10, 0, 0, 0, time.UTC)

const days = 100

func dated(daysAgo int) string {
	return archive.BuildKey(now.AddDate(0, 0, -daysAgo), "0600", "RT03", "1")
}

func TestExpiredArchive_Boundary(t *testing.T) {
	cutoff := CutoffDay(now, days, time.UTC)
	entries := []archive.Entry{
		{Name: dated(100)},
		{Name: dated(101)},
		{Name: dated(99)},
		{Name: dated(0)},
	}
	got := ExpiredArchive(entries, cutoff, time.UTC)
	if len(got) != 2 {
		t.Fatalf("expired = %v, want the 100 and 101 day old records", got)
	}
	if got[0].Name != dated(100) || got[1].Name != dated(101) {
		t.Errorf("expired = %v", got)
	}
}

func TestExpiredArchive_SkipsPagesAndUnparseable(t *testing.T) {
	entries := []archive.Entry{
		{Name: "RT_Masonry_dispatch_list.html"},
		{Name: "notes"},
		{Name: "2020-01-01_0600_Dispatch_RT03_1.html"},
	}
	if got := ExpiredArchive(entries, now, time.UTC); len(got) != 0 {
		t.Errorf("expired = %v, want none", got)
	}
}

func TestExpiredReplaced_UsesCreatedAt(t *testing.T) {
	cutoff := now.AddDate(0, 0, -days)
	entries := []archive.Entry{
		{Name: dated(0), CreatedAt: now.Add(-101 * 24 * time.Hour)},
		{Name: dated(200), CreatedAt: now.Add(-10 * 24 * time.Hour)},
	}
	got := ExpiredReplaced(entries, cutoff)
	if len(got) != 1 || got[0].Name != dated(0) {
		t.Errorf("expired = %v, want only the record created 101 days ago", got)
	}
}

// memStore is an in-memory Store.
type memStore struct {
	active   map[string][]archive.Entry
	replaced map[string][]archive.Entry
	trashed  []string
	failOn   string
}

func (m *memStore) Folders(ctx context.Context) ([]string, error) {
	return []string{"RT03", "RT12"}, nil
}

func (m *memStore) List(ctx context.Context, folder string) ([]archive.Entry, error) {
	return m.active[folder], nil
}

func (m *memStore) ListReplaced(ctx context.Context, folder string) ([]archive.Entry, error) {
	return m.replaced[folder], nil
}

func (m *memStore) Trash(ctx context.Context, e archive.Entry) error {
	if e.Name == m.failOn {
		return errors.New("boom")
	}
	m.trashed = append(m.trashed, e.Name)
	return nil
}

func newMemStore() *memStore {
	return &memStore{
		active: map[string][]archive.Entry{
			"RT03": {{Name: dated(150)}, {Name: dated(5)}},
			"RT12": {{Name: dated(120)}, {Name: "RT_Masonry_dispatch_list.html"}},
		},
		replaced: map[string][]archive.Entry{
			"RT03": {{Name: dated(1), CreatedAt: now.AddDate(0, 0, -130)}},
		},
	}
}

func TestPruner_Run(t *testing.T) {
	store := newMemStore()
	p := &Pruner{Store: store, Days: days, Location: time.UTC}

	res, err := p.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Archive) != 2 || len(res.Replaced) != 1 {
		t.Errorf("archive=%d replaced=%d, want 2 and 1", len(res.Archive), len(res.Replaced))
	}
	if len(store.trashed) != 3 {
		t.Errorf("trashed = %v", store.trashed)
	}
	if len(res.Errors) != 0 {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestPruner_DryRun(t *testing.T) {
	store := newMemStore()
	p := &Pruner{Store: store, Days: days, Location: time.UTC, DryRun: true}

	res, err := p.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Archive) != 2 {
		t.Errorf("due = %d, want 2", len(res.Archive))
	}
	if len(store.trashed) != 0 {
		t.Errorf("dry run trashed %v", store.trashed)
	}
}

func TestPruner_ContinuesAfterTrashError(t *testing.T) {
	store := newMemStore()
	store.failOn = dated(150)
	p := &Pruner{Store: store, Days: days, Location: time.UTC}

	res, err := p.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Errors) != 1 {
		t.Errorf("errors = %v, want 1", res.Errors)
	}
	if len(store.trashed) != 2 {
		t.Errorf("trashed = %v, want the other two records", store.trashed)
	}
}

func TestPruner_Validation(t *testing.T) {
	if _, err := (&Pruner{Days: days}).Run(context.Background(), now); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := (&Pruner{Store: newMemStore()}).Run(context.Background(), now); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestCutoffDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	got := CutoffDay(time.Date(2025, time.March, 20, 0, 30, 0, 0, ny), 100, ny)
	want := time.Date(2024, time.December, 10, 0, 0, 0, 0, ny)
	if !got.Equal(want) {
		t.Errorf("CutoffDay = %v, want %v", got, want)
	}
}

// A daylight-saving change inside the window must not shift the boundary:
// 2400 hours before 00:30 EDT is 23:30 EST the previous day.
func TestExpiredArchive_AcrossSpringForward(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	runAt := time.Date(2025, time.March, 20, 0, 30, 0, 0, ny)
	entries := []archive.Entry{
		{Name: "2024-12-10_0600_Dispatch_RT03_123"}, // exactly 100 days
		{Name: "2024-12-11_0600_Dispatch_RT03_124"}, // 99 days
	}

	got := ExpiredArchive(entries, CutoffDay(runAt, 100, ny), ny)
	if len(got) != 1 || got[0].Name != "2024-12-10_0600_Dispatch_RT03_123" {
		t.Errorf("expired = %v, want only the 100-day-old record", got)
	}

	st := &memStore{active: map[string][]archive.Entry{"RT03": entries}}
	res, err := (&Pruner{Store: st, Days: 100, Location: ny}).Run(context.Background(), runAt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Archive) != 1 {
		t.Errorf("Run trashed %d dispatch records, want 1", len(res.Archive))
	}
}
