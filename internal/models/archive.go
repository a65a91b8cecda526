package models

import (
	"time"

	"gorm.io/datatypes"
)

// ArchiveRecord is one rendered dispatch notice kept in a truck's folder.
// Records are never edited after creation: a later save with the same name
// flags the earlier record as replaced, and pruning only sets Trashed.
type ArchiveRecord struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	Folder       string         `gorm:"size:64;not null;index:idx_archive_folder_name"`
	Name         string         `gorm:"size:255;not null;index:idx_archive_folder_name"`
	Company      string         `gorm:"size:128;index"`
	SubmissionID string         `gorm:"size:36;index"`
	Body         string         `gorm:"type:text"`
	Spans        datatypes.JSON `gorm:"type:json"`
	Replaced     bool           `gorm:"default:false;index"`
	Trashed      bool           `gorm:"default:false;index"`
	TrashedAt    *time.Time
	CreatedAt    time.Time
}

// LiveNotice is the single current notice for a truck, overwritten by each
// submission that targets it.
type LiveNotice struct {
	Truck     string         `gorm:"primaryKey;size:64"`
	Name      string         `gorm:"size:255"`
	Body      string         `gorm:"type:text"`
	Spans     datatypes.JSON `gorm:"type:json"`
	UpdatedAt time.Time
}

// CompanyPage is a published status page, keyed by its file name.
type CompanyPage struct {
	FileName  string `gorm:"primaryKey;size:255"`
	Company   string `gorm:"size:128;index"`
	HTML      string `gorm:"type:text"`
	UpdatedAt time.Time
}
