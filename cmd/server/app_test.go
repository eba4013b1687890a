package main

import (
	"testing"

	"github.com/diewo77/invoice-builder/internal/config"
	"github.com/diewo77/invoice-builder/internal/db"
	"github.com/diewo77/invoice-builder/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenSQLite(db.SQLiteDSN("memory:"+t.Name()), false)
	require.NoError(t, err)
	return conn
}

func TestAssembleClosesDatabaseOnFailure(t *testing.T) {
	conn := openSQLite(t)
	cfg := &config.Config{PDF: config.PDFConfig{Converter: "wkhtml"}}

	a, err := assemble(conn, cfg, logger.Nop())
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "unknown converter")

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "connection must be closed when wiring fails")
}

func TestAssembleKeepsDatabaseOpen(t *testing.T) {
	conn := openSQLite(t)
	cfg := &config.Config{PDF: config.PDFConfig{Converter: "native", Lang: "en"}}

	a, err := assemble(conn, cfg, logger.Nop())
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	a.close()
	assert.Error(t, sqlDB.Ping())
}
