package db

import (
	"database/sql"
	"fmt"
	"os"
)

// Database is the common interface for SQLite and DuckDB
type Database interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Begin() (*sql.Tx, error)
	Close() error
	Path() string
	GetVersion() (int, error)
	GetDB() *sql.DB
}

// Ensure both types implement Database interface
var _ Database = (*DB)(nil)
var _ Database = (*DuckDB)(nil)

// GetDB returns the underlying sql.DB for DB (SQLite)
func (d *DB) GetDB() *sql.DB {
	return d.DB
}

// GetDB returns the underlying sql.DB for DuckDB
func (d *DuckDB) GetDB() *sql.DB {
	return d.DB
}

// DBType represents the database type
type DBType string

const (
	TypeSQLite DBType = "sqlite"
	TypeDuckDB DBType = "duckdb"
)

// EnvDBType overrides the backend when no type is configured
const EnvDBType = "NAVKIT_DB_TYPE"

// ParseType validates a backend name. Empty means auto-detect.
func ParseType(s string) (DBType, error) {
	switch DBType(s) {
	case "", TypeSQLite, TypeDuckDB:
		return DBType(s), nil
	}
	return "", fmt.Errorf("지원하지 않는 DB 타입: %s (가능: sqlite, duckdb)", s)
}

// OpenAuto opens the database for basePath. dbType picks the backend;
// when empty NAVKIT_DB_TYPE is consulted, then file presence.
func OpenAuto(basePath string, dbType DBType) (Database, DBType, error) {
	if dbType == "" {
		dbType = DBType(os.Getenv(EnvDBType))
	}

	// DuckDB 지정된 경우
	if dbType == TypeDuckDB {
		duckdbPath := GetDuckDBPath(basePath)
		db, err := OpenDuckDB(duckdbPath)
		if err != nil {
			// DuckDB 실패 시 SQLite 폴백
			sqliteDB, sqliteErr := Open(basePath)
			if sqliteErr != nil {
				return nil, "", err
			}
			return sqliteDB, TypeSQLite, nil
		}
		return db, TypeDuckDB, nil
	}

	// DuckDB 파일만 있으면 DuckDB 사용
	if dbType == "" {
		duckdbPath := GetDuckDBPath(basePath)
		if _, err := os.Stat(duckdbPath); err == nil {
			if _, err := os.Stat(basePath); os.IsNotExist(err) {
				db, err := OpenDuckDB(duckdbPath)
				if err == nil {
					return db, TypeDuckDB, nil
				}
			}
		}
	}

	// 기본: SQLite
	db, err := Open(basePath)
	if err != nil {
		return nil, "", err
	}
	return db, TypeSQLite, nil
}
