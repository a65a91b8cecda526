package store

import (
	"context"
	"errors"
)

// Publishers publishes each page to every member. All members are
// attempted; their errors are joined.
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, p Page) error {
	var errs []error
	for _, pub := range ps {
		if err := pub.Publish(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Readers looks a page up in each member in order, moving on only when a
// member reports ErrNotFound.
type Readers []PageReader

func (rs Readers) Page(ctx context.Context, fileName string) (Page, error) {
	for _, r := range rs {
		p, err := r.Page(ctx, fileName)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Page{}, err
		}
	}
	return Page{}, ErrNotFound
}
