//go:build integration

package db

import (
	"os"
	"testing"
	"time"

	"github.com/zulandar/haulyard/internal/config"
	"github.com/zulandar/haulyard/internal/models"
	"gorm.io/gorm"
)

// connectFromEnv opens the server named by envVar, skipping the test when
// the variable is unset. Tables are dropped when the test completes.
func connectFromEnv(t *testing.T, driver, envVar string) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(envVar)
	if dsn == "" {
		t.Skipf("%s not set", envVar)
	}
	gormDB, err := Connect(config.DatabaseConfig{Driver: driver, DSN: dsn})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		gormDB.Migrator().DropTable(AllModels()...)
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gormDB
}

func exerciseSchema(t *testing.T, gormDB *gorm.DB) {
	t.Helper()
	if err := AutoMigrate(gormDB); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	// Second run must be a no-op.
	if err := AutoMigrate(gormDB); err != nil {
		t.Fatalf("AutoMigrate (second run): %v", err)
	}

	rec := models.ArchiveRecord{
		Folder: "RT01",
		Name:   "2025-09-21_0700_Dispatch_RT01_MCRC-44.html",
		Body:   "CONFIRM DISPATCH",
		Spans:  []byte(`[{"start":0,"end":7,"style":1}]`),
	}
	if err := gormDB.Create(&rec).Error; err != nil {
		t.Fatalf("create archive record: %v", err)
	}

	var got models.ArchiveRecord
	if err := gormDB.First(&got, rec.ID).Error; err != nil {
		t.Fatalf("read archive record: %v", err)
	}
	if got.Body != rec.Body || got.Replaced || got.Trashed {
		t.Errorf("round trip = %+v", got)
	}

	page := models.CompanyPage{FileName: "Acme_Haul_dispatch_list.html", Company: "Acme Haul", HTML: "<html></html>", UpdatedAt: time.Now()}
	if err := gormDB.Save(&page).Error; err != nil {
		t.Fatalf("save page: %v", err)
	}
	page.HTML = "<html>v2</html>"
	if err := gormDB.Save(&page).Error; err != nil {
		t.Fatalf("overwrite page: %v", err)
	}
	var count int64
	gormDB.Model(&models.CompanyPage{}).Count(&count)
	if count != 1 {
		t.Errorf("page count = %d after overwrite, want 1", count)
	}
}

func TestIntegration_MySQL(t *testing.T) {
	exerciseSchema(t, connectFromEnv(t, "mysql", "HY_TEST_MYSQL_DSN"))
}

func TestIntegration_Postgres(t *testing.T) {
	exerciseSchema(t, connectFromEnv(t, "postgres", "HY_TEST_POSTGRES_DSN"))
}
