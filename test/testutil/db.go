package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/migration"
	"github.com/go-sql-driver/mysql"
)

// SetupTestDB creates a throwaway database on the server behind TEST_DB_DSN,
// migrates it, and drops it when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Fatal("TEST_DB_DSN env-var not set")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("parse DSN %q: %v", dsn, err)
	}
	dbName := fmt.Sprintf("%s_%d", cfg.DBName, time.Now().UnixNano())

	cfg.DBName = ""
	rootDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		t.Fatalf("open root DB: %v", err)
	}
	if _, err := rootDB.Exec("CREATE DATABASE " + dbName); err != nil {
		_ = rootDB.Close()
		t.Fatalf("create database %q: %v", dbName, err)
	}

	cfg.DBName = dbName
	cfg.MultiStatements = true
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		t.Fatalf("open test DB: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		if _, err := rootDB.Exec("DROP DATABASE " + dbName); err != nil {
			t.Errorf("drop database %q: %v", dbName, err)
		}
		_ = rootDB.Close()
	})

	if err := migration.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	return db
}
