package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Nazarious-ucu/weather-updates/migrations"
	_ "modernc.org/sqlite"
)

func CreateSqliteDb(ctx context.Context, driver, name string) (*sql.DB, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}
	connectionString := "file:" + name + "?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open(driver, connectionString)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func InitSqliteDb(db *sql.DB, dialect string) error {
	return migrations.Up(db, dialect)
}
