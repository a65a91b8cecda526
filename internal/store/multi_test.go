package store

import (
	"context"
	"errors"
	"testing"
)

type fakePages struct {
	pages     map[string]Page
	err       error
	published []Page
}

func (f *fakePages) Publish(_ context.Context, p Page) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, p)
	return nil
}

func (f *fakePages) Page(_ context.Context, name string) (Page, error) {
	if f.err != nil {
		return Page{}, f.err
	}
	p, ok := f.pages[name]
	if !ok {
		return Page{}, ErrNotFound
	}
	return p, nil
}

func TestPublishers_AttemptsAll(t *testing.T) {
	broken := &fakePages{err: errors.New("bucket unavailable")}
	ok := &fakePages{}

	err := Publishers{broken, ok}.Publish(context.Background(), Page{FileName: "a.html"})
	if err == nil || err.Error() != "bucket unavailable" {
		t.Errorf("err = %v, want bucket unavailable", err)
	}
	if len(ok.published) != 1 {
		t.Errorf("second publisher got %d pages, want 1", len(ok.published))
	}
}

func TestReaders_FallsThroughOnNotFound(t *testing.T) {
	first := &fakePages{pages: map[string]Page{}}
	second := &fakePages{pages: map[string]Page{"a.html": {FileName: "a.html", HTML: "from db"}}}

	p, err := Readers{first, second}.Page(context.Background(), "a.html")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if p.HTML != "from db" {
		t.Errorf("HTML = %q", p.HTML)
	}

	if _, err := (Readers{first, second}).Page(context.Background(), "missing.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReaders_StopsOnRealError(t *testing.T) {
	broken := &fakePages{err: errors.New("permission denied")}
	second := &fakePages{pages: map[string]Page{"a.html": {HTML: "x"}}}

	_, err := Readers{broken, second}.Page(context.Background(), "a.html")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want permission denied", err)
	}
}
