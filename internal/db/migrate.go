package db

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
)

// MigrationResult contains migration statistics
type MigrationResult struct {
	TablesProcessed int            `json:"tables_processed"`
	RowsMigrated    map[string]int `json:"rows_migrated"`
	Errors          []string       `json:"errors,omitempty"`
}

// MigratedTables lists the tables copied to DuckDB, parents first
var MigratedTables = []string{
	"metadata",
	"tenants",
	"lnb_configs",
}

// MigrateSQLiteToDuckDB migrates data from SQLite to DuckDB
func MigrateSQLiteToDuckDB(sqlitePath, duckdbPath string) (*MigrationResult, error) {
	result := &MigrationResult{
		RowsMigrated: make(map[string]int),
	}

	sqliteDB, err := Open(sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("SQLite 열기 실패: %w", err)
	}
	defer sqliteDB.Close()

	// 기존 DuckDB 파일 백업
	if _, err := os.Stat(duckdbPath); err == nil {
		if err := os.Rename(duckdbPath, duckdbPath+".backup"); err != nil {
			return nil, fmt.Errorf("기존 DuckDB 백업 실패: %w", err)
		}
	}

	duckDB, err := OpenDuckDB(duckdbPath)
	if err != nil {
		return nil, fmt.Errorf("DuckDB 열기 실패: %w", err)
	}
	defer duckDB.Close()

	for _, table := range MigratedTables {
		count, err := migrateTable(sqliteDB.DB, duckDB.DB, table)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", table, err))
			continue
		}
		result.RowsMigrated[table] = count
		result.TablesProcessed++
	}

	return result, nil
}

// migrateTable migrates a single table from SQLite to DuckDB
func migrateTable(sqlite, duckdb *sql.DB, tableName string) (int, error) {
	// SQLite에서 테이블 존재 확인
	var exists int
	err := sqlite.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName).Scan(&exists)
	if err != nil || exists == 0 {
		return 0, nil
	}

	rows, err := sqlite.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, tableName))
	if err != nil {
		return 0, err
	}

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		columns = append(columns, name)
	}
	rows.Close()

	if len(columns) == 0 {
		return 0, nil
	}

	// DuckDB에 있는 컬럼만 사용
	duckColumns := make(map[string]bool)
	duckRows, err := duckdb.Query(`SELECT column_name FROM information_schema.columns WHERE table_name = ?`, tableName)
	if err == nil {
		for duckRows.Next() {
			var col string
			if duckRows.Scan(&col) == nil {
				duckColumns[col] = true
			}
		}
		duckRows.Close()
	}

	var commonColumns []string
	for _, col := range columns {
		if duckColumns[col] {
			commonColumns = append(commonColumns, col)
		}
	}

	if len(commonColumns) == 0 {
		return 0, nil
	}

	columnList := strings.Join(commonColumns, ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(commonColumns)), ", ")

	dataRows, err := sqlite.Query(fmt.Sprintf(`SELECT %s FROM %s`, columnList, tableName))
	if err != nil {
		return 0, err
	}
	defer dataRows.Close()

	// metadata는 DuckDB Init이 이미 채움
	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING`, tableName, columnList, placeholders)

	count := 0
	for dataRows.Next() {
		values := make([]interface{}, len(commonColumns))
		valuePtrs := make([]interface{}, len(commonColumns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := dataRows.Scan(valuePtrs...); err != nil {
			continue
		}

		if _, err := duckdb.Exec(insertQuery, values...); err != nil {
			return count, fmt.Errorf("행 삽입 실패: %w", err)
		}
		count++
	}

	return count, dataRows.Err()
}

// GetDuckDBPath returns the DuckDB path for a given base path
func GetDuckDBPath(basePath string) string {
	return strings.TrimSuffix(basePath, ".db") + ".duckdb"
}

// Status describes which backends exist for a base path
type Status struct {
	SQLitePath   string `json:"sqlite_path"`
	SQLiteExists bool   `json:"sqlite_exists"`
	DuckDBPath   string `json:"duckdb_path"`
	DuckDBExists bool   `json:"duckdb_exists"`
}

// GetStatus reports backend files for basePath
func GetStatus(basePath string) Status {
	st := Status{SQLitePath: basePath, DuckDBPath: GetDuckDBPath(basePath)}
	if _, err := os.Stat(st.SQLitePath); err == nil {
		st.SQLiteExists = true
	}
	if _, err := os.Stat(st.DuckDBPath); err == nil {
		st.DuckDBExists = true
	}
	return st
}
