// Package gcs publishes company pages to a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/zulandar/haulyard/internal/store"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// NewClient opens a storage client. An empty credentialsFile uses the
// application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: new client: %w", err)
	}
	return client, nil
}

// objectAttrs are the attributes written with each page object.
type objectAttrs struct {
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// objectStore abstracts the bucket operations we use, enabling test fakes.
// Missing objects are reported as storage.ErrObjectNotExist.
type objectStore interface {
	Write(ctx context.Context, object string, attrs objectAttrs, body []byte) error
	Read(ctx context.Context, object string) (body []byte, metadata map[string]string, err error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// bucketObjects implements objectStore on a real bucket handle.
type bucketObjects struct {
	bh *storage.BucketHandle
}

func (o bucketObjects) Write(ctx context.Context, object string, attrs objectAttrs, body []byte) error {
	w := o.bh.Object(object).NewWriter(ctx)
	w.ContentType = attrs.ContentType
	w.CacheControl = attrs.CacheControl
	w.Metadata = attrs.Metadata
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (o bucketObjects) Read(ctx context.Context, object string) ([]byte, map[string]string, error) {
	oh := o.bh.Object(object)
	attrs, err := oh.Attrs(ctx)
	if err != nil {
		return nil, nil, err
	}
	r, err := oh.NewReader(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return data, attrs.Metadata, nil
}

func (o bucketObjects) List(ctx context.Context, prefix string) ([]string, error) {
	it := o.bh.Objects(ctx, &storage.Query{Prefix: prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, attrs.Name)
	}
}

// Bucket stores pages as objects under an optional prefix.
type Bucket struct {
	Name    string
	Prefix  string
	objects objectStore
}

// New returns a Bucket for name. Prefix slashes are normalized.
func New(client *storage.Client, name, prefix string) *Bucket {
	b := newBucket(nil, name, prefix)
	if client != nil && b.Name != "" {
		b.objects = bucketObjects{bh: client.Bucket(b.Name)}
	}
	return b
}

func newBucket(objects objectStore, name, prefix string) *Bucket {
	return &Bucket{
		Name:    strings.TrimSpace(name),
		Prefix:  strings.Trim(strings.TrimSpace(prefix), "/"),
		objects: objects,
	}
}

func (b *Bucket) store() (objectStore, error) {
	if b.Name == "" {
		return nil, errors.New("gcs: bucket is empty")
	}
	if b.objects == nil {
		return nil, errors.New("gcs: client is nil")
	}
	return b.objects, nil
}

// ObjectName returns the object path a page file is stored under.
func (b *Bucket) ObjectName(fileName string) string {
	fileName = strings.TrimLeft(fileName, "/")
	if b.Prefix == "" {
		return fileName
	}
	return path.Join(b.Prefix, fileName)
}

func (b *Bucket) listPrefix() string {
	if b.Prefix == "" {
		return ""
	}
	return b.Prefix + "/"
}

// Publish uploads p, overwriting any previous version.
func (b *Bucket) Publish(ctx context.Context, p store.Page) error {
	objects, err := b.store()
	if err != nil {
		return err
	}
	attrs := objectAttrs{
		ContentType:  "text/html; charset=utf-8",
		CacheControl: "no-cache",
		Metadata:     map[string]string{"company": p.Company},
	}
	if err := objects.Write(ctx, b.ObjectName(p.FileName), attrs, []byte(p.HTML)); err != nil {
		return fmt.Errorf("gcs: write %s: %w", p.FileName, err)
	}
	return nil
}

// Page downloads the page stored as fileName. A missing object is
// store.ErrNotFound.
func (b *Bucket) Page(ctx context.Context, fileName string) (store.Page, error) {
	objects, err := b.store()
	if err != nil {
		return store.Page{}, err
	}
	data, meta, err := objects.Read(ctx, b.ObjectName(fileName))
	if errors.Is(err, storage.ErrObjectNotExist) {
		return store.Page{}, store.ErrNotFound
	}
	if err != nil {
		return store.Page{}, fmt.Errorf("gcs: read %s: %w", fileName, err)
	}
	return store.Page{FileName: fileName, Company: meta["company"], HTML: string(data)}, nil
}

// Pages lists the page file names under the bucket prefix.
func (b *Bucket) Pages(ctx context.Context) ([]string, error) {
	objects, err := b.store()
	if err != nil {
		return nil, err
	}
	prefix := b.listPrefix()
	names, err := objects.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("gcs: list: %w", err)
	}
	for i, n := range names {
		names[i] = strings.TrimPrefix(n, prefix)
	}
	return names, nil
}
