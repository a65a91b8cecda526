package db

import (
	"strings"
	"testing"

	"github.com/zulandar/haulyard/internal/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "sqlite file",
			cfg:  config.DatabaseConfig{Driver: "sqlite", Path: "haulyard.db"},
			want: "haulyard.db",
		},
		{
			name: "mysql default user",
			cfg:  config.DatabaseConfig{Driver: "mysql", Host: "127.0.0.1", Port: 3306, Name: "haulyard"},
			want: "root@tcp(127.0.0.1:3306)/haulyard?parseTime=true",
		},
		{
			name: "mysql with credentials",
			cfg:  config.DatabaseConfig{Driver: "mysql", Host: "db", Port: 3307, Name: "hy", User: "disp", Password: "pw"},
			want: "disp:pw@tcp(db:3307)/hy?parseTime=true",
		},
		{
			name: "postgres",
			cfg:  config.DatabaseConfig{Driver: "postgres", Host: "pg", Port: 5432, Name: "hy", User: "disp"},
			want: "host=pg port=5432 dbname=hy sslmode=disable user=disp",
		},
		{
			name: "explicit dsn wins",
			cfg:  config.DatabaseConfig{Driver: "mysql", DSN: "custom", Host: "ignored"},
			want: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DSN(tt.cfg); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "oracle"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), `unsupported driver "oracle"`) {
		t.Errorf("error = %q", err.Error())
	}
}

func TestConnect_SQLiteMemoryAndMigrate(t *testing.T) {
	gormDB, err := Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := AutoMigrate(gormDB); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, m := range AllModels() {
		if !gormDB.Migrator().HasTable(m) {
			t.Errorf("table for %T not created", m)
		}
	}
}

func TestAllModels_Count(t *testing.T) {
	if n := len(AllModels()); n != 3 {
		t.Errorf("len(AllModels()) = %d, want 3", n)
	}
}

func TestAutoMigrate_ClosedConnection(t *testing.T) {
	gormDB, err := Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sqlDB, _ := gormDB.DB()
	sqlDB.Close()

	err = AutoMigrate(gormDB)
	if err == nil {
		t.Fatal("expected error from AutoMigrate with closed DB")
	}
	if !strings.Contains(err.Error(), "db: auto-migrate") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db: auto-migrate")
	}
}
