// Package store persists archive records, live notices, and published
// company pages.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zulandar/haulyard/internal/archive"
	"github.com/zulandar/haulyard/internal/models"
	"github.com/zulandar/haulyard/internal/notice"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record, live notice, or page does not exist.
var ErrNotFound = errors.New("store: not found")

// Record is one rendered notice to archive in a truck's folder.
type Record struct {
	Folder       string
	Name         string
	Company      string
	SubmissionID string
	Notice       *notice.Document
}

// Page is a published company status page.
type Page struct {
	FileName string
	Company  string
	HTML     string
}

// Publisher writes company pages somewhere readable by the request path.
type Publisher interface {
	Publish(ctx context.Context, p Page) error
}

// PageReader looks up a published page by file name.
type PageReader interface {
	Page(ctx context.Context, fileName string) (Page, error)
}

// GormStore keeps archive records, live notices, and pages in a SQL database.
type GormStore struct {
	db      *gorm.DB
	baseURL string
	now     func() time.Time
}

// New returns a GormStore. baseURL prefixes the view links it hands out.
func New(db *gorm.DB, baseURL string) *GormStore {
	return &GormStore{
		db:      db,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// URL returns the view link for an archive record.
func (s *GormStore) URL(folder, name string) string {
	return s.baseURL + "/archive/" + url.PathEscape(folder) + "/" + url.PathEscape(name)
}

func (s *GormStore) entry(r models.ArchiveRecord) archive.Entry {
	return archive.Entry{
		ID:        r.ID,
		Folder:    r.Folder,
		Name:      r.Name,
		URL:       s.URL(r.Folder, r.Name),
		CreatedAt: r.CreatedAt,
		Replaced:  r.Replaced,
	}
}

// Save archives rec. An active record with the same folder and name is
// moved to the folder's replaced set in the same transaction.
func (s *GormStore) Save(ctx context.Context, rec Record) (archive.Entry, error) {
	if rec.Folder == "" || rec.Name == "" {
		return archive.Entry{}, fmt.Errorf("store: save: folder and name are required")
	}
	if rec.Notice == nil {
		return archive.Entry{}, fmt.Errorf("store: save %s/%s: notice is nil", rec.Folder, rec.Name)
	}
	spans, err := encodeSpans(rec.Notice.Spans)
	if err != nil {
		return archive.Entry{}, fmt.Errorf("store: save %s/%s: %w", rec.Folder, rec.Name, err)
	}

	row := models.ArchiveRecord{
		Folder:       rec.Folder,
		Name:         rec.Name,
		Company:      rec.Company,
		SubmissionID: rec.SubmissionID,
		Body:         rec.Notice.Text,
		Spans:        spans,
		CreatedAt:    s.now(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ArchiveRecord{}).
			Where("folder = ? AND name = ? AND replaced = ? AND trashed = ?", rec.Folder, rec.Name, false, false).
			Update("replaced", true).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return archive.Entry{}, fmt.Errorf("store: save %s/%s: %w", rec.Folder, rec.Name, err)
	}
	return s.entry(row), nil
}

func (s *GormStore) list(ctx context.Context, folder string, replaced bool) ([]archive.Entry, error) {
	var rows []models.ArchiveRecord
	if err := s.db.WithContext(ctx).
		Where("folder = ? AND replaced = ? AND trashed = ?", folder, replaced, false).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]archive.Entry, len(rows))
	for i, r := range rows {
		out[i] = s.entry(r)
	}
	return out, nil
}

// List returns the active records in folder.
func (s *GormStore) List(ctx context.Context, folder string) ([]archive.Entry, error) {
	out, err := s.list(ctx, folder, false)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", folder, err)
	}
	return out, nil
}

// ListReplaced returns the untrashed replaced records in folder.
func (s *GormStore) ListReplaced(ctx context.Context, folder string) ([]archive.Entry, error) {
	out, err := s.list(ctx, folder, true)
	if err != nil {
		return nil, fmt.Errorf("store: list replaced %s: %w", folder, err)
	}
	return out, nil
}

// Folders returns every folder holding at least one untrashed record.
func (s *GormStore) Folders(ctx context.Context) ([]string, error) {
	var folders []string
	if err := s.db.WithContext(ctx).Model(&models.ArchiveRecord{}).
		Where("trashed = ?", false).
		Distinct("folder").
		Order("folder").
		Pluck("folder", &folders).Error; err != nil {
		return nil, fmt.Errorf("store: list folders: %w", err)
	}
	return folders, nil
}

// Trash soft-deletes the record behind e.
func (s *GormStore) Trash(ctx context.Context, e archive.Entry) error {
	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.ArchiveRecord{}).
		Where("id = ? AND trashed = ?", e.ID, false).
		Updates(map[string]interface{}{"trashed": true, "trashed_at": &now})
	if res.Error != nil {
		return fmt.Errorf("store: trash %s/%s: %w", e.Folder, e.Name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: trash %s/%s: %w", e.Folder, e.Name, ErrNotFound)
	}
	return nil
}

// Restore undoes Trash.
func (s *GormStore) Restore(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.ArchiveRecord{}).
		Where("id = ? AND trashed = ?", id, true).
		Updates(map[string]interface{}{"trashed": false, "trashed_at": nil})
	if res.Error != nil {
		return fmt.Errorf("store: restore %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: restore %d: %w", id, ErrNotFound)
	}
	return nil
}

// Get returns the active notice stored as folder/name.
func (s *GormStore) Get(ctx context.Context, folder, name string) (*notice.Document, error) {
	var row models.ArchiveRecord
	err := s.db.WithContext(ctx).
		Where("folder = ? AND name = ? AND replaced = ? AND trashed = ?", folder, name, false, false).
		Order("id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s/%s: %w", folder, name, err)
	}
	return decodeNotice(row.Body, row.Spans)
}

// SaveLive overwrites truck's live notice.
func (s *GormStore) SaveLive(ctx context.Context, truck, name string, doc *notice.Document) error {
	spans, err := encodeSpans(doc.Spans)
	if err != nil {
		return fmt.Errorf("store: save live %s: %w", truck, err)
	}
	row := models.LiveNotice{Truck: truck, Name: name, Body: doc.Text, Spans: spans, UpdatedAt: s.now()}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("store: save live %s: %w", truck, err)
	}
	return nil
}

// Live returns truck's live notice and the archive name it was rendered for.
func (s *GormStore) Live(ctx context.Context, truck string) (*notice.Document, string, error) {
	var row models.LiveNotice
	err := s.db.WithContext(ctx).Where("truck = ?", truck).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("store: live %s: %w", truck, err)
	}
	doc, err := decodeNotice(row.Body, row.Spans)
	if err != nil {
		return nil, "", err
	}
	return doc, row.Name, nil
}

// Publish writes p, replacing any page with the same file name.
func (s *GormStore) Publish(ctx context.Context, p Page) error {
	row := models.CompanyPage{FileName: p.FileName, Company: p.Company, HTML: p.HTML, UpdatedAt: s.now()}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("store: publish %s: %w", p.FileName, err)
	}
	return nil
}

// Page returns the published page named fileName.
func (s *GormStore) Page(ctx context.Context, fileName string) (Page, error) {
	var row models.CompanyPage
	err := s.db.WithContext(ctx).Where("file_name = ?", fileName).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Page{}, ErrNotFound
	}
	if err != nil {
		return Page{}, fmt.Errorf("store: page %s: %w", fileName, err)
	}
	return Page{FileName: row.FileName, Company: row.Company, HTML: row.HTML}, nil
}

func encodeSpans(spans []notice.Span) ([]byte, error) {
	if spans == nil {
		spans = []notice.Span{}
	}
	b, err := json.Marshal(spans)
	if err != nil {
		return nil, fmt.Errorf("encode spans: %w", err)
	}
	return b, nil
}

func decodeNotice(body string, raw []byte) (*notice.Document, error) {
	doc := notice.NewDocument(body)
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc.Spans); err != nil {
		return nil, fmt.Errorf("store: decode spans: %w", err)
	}
	return doc, nil
}
