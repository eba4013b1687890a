package db

import (
	"context"
	"strings"
	"testing"

	"github.com/diewo77/invoice-builder/internal/config"
	"github.com/diewo77/invoice-builder/internal/logger"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{`"postgres://u:p@h:5432/db"`, "postgres://u:p@h:5432/db"},
		{"host=h   user=u dbname=d", "host=h user=u dbname=d sslmode=disable"},
		{"host=h user=u dbname=d sslmode=require", "host=h user=u dbname=d sslmode=require"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := NormalizeDSN(tt.in); got != tt.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToURLDSN(t *testing.T) {
	got := ToURLDSN("host=db port=5432 user=u password=p dbname=inv sslmode=disable")
	if got != "postgres://u:p@db:5432/inv?sslmode=disable" {
		t.Errorf("ToURLDSN() = %q", got)
	}
	if got := ToURLDSN("host=db dbname=inv"); got != "host=db dbname=inv" {
		t.Errorf("incomplete DSN must be returned unchanged, got %q", got)
	}
}

func TestMaskDSN(t *testing.T) {
	if got := MaskDSN("host=h password=secret dbname=d"); got != "host=h password=*** dbname=d" {
		t.Errorf("MaskDSN(kv) = %q", got)
	}
	if got := MaskDSN("postgres://u:secret@h/d"); strings.Contains(got, "secret") || !strings.HasPrefix(got, "postgres://u:") {
		t.Errorf("MaskDSN(url) = %q", got)
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := SQLiteDSN("memory:x"); got != "file:x?mode=memory&cache=shared&_foreign_keys=1" {
		t.Errorf("memory dsn = %q", got)
	}
	if got := SQLiteDSN("invoices.db"); got != "invoices.db?_foreign_keys=1" {
		t.Errorf("file dsn = %q", got)
	}
	if got := SQLiteDSN("file:a.db?cache=shared"); got != "file:a.db?cache=shared&_foreign_keys=1" {
		t.Errorf("dsn with query = %q", got)
	}
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", SQLitePath: "memory:" + t.Name()}
	conn, err := Connect(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := Migrate(conn, false, ""); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// running twice is a no-op
	if err := Migrate(conn, false, ""); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := Ping(context.Background(), conn); err != nil {
		t.Fatalf("ping: %v", err)
	}
	var fk int
	if err := conn.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign keys not enforced")
	}
}

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), config.DatabaseConfig{Driver: "oracle"}, logger.Nop())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected up and down files, got %d", len(entries))
	}
}
