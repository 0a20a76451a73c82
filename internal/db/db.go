package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = 3

// 기본 테이블
const schemaBase = `
-- 메타데이터
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- 테넌트
CREATE TABLE IF NOT EXISTS tenants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT,
    is_current INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    last_active DATETIME
);

CREATE INDEX IF NOT EXISTS idx_tenants_current ON tenants(is_current);
`

// v3: LNB 메뉴, 키는 (tenant_id, module, id)
const schemaLNB = `
CREATE TABLE IF NOT EXISTS lnb_configs (
    id TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    module TEXT NOT NULL DEFAULT 'designer',
    parent_id TEXT,
    name TEXT NOT NULL,
    display_name TEXT,
    icon TEXT,
    sort_order INTEGER DEFAULT 0,
    is_active INTEGER DEFAULT 1,
    type TEXT,
    screen_id TEXT,
    system_screen_type TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (tenant_id, module, id)
);

CREATE INDEX IF NOT EXISTS idx_lnb_configs_scope ON lnb_configs(tenant_id, module);
CREATE INDEX IF NOT EXISTS idx_lnb_configs_parent ON lnb_configs(tenant_id, module, parent_id);
`

// DB wraps sql.DB with helper methods
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the database
func Open(path string) (*DB, error) {
	// 디렉토리 생성
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("디렉토리 생성 실패: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("DB 열기 실패: %w", err)
	}

	// 연결 테스트
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("DB 연결 실패: %w", err)
	}

	d := &DB{DB: db, path: path}

	// 스키마 자동 초기화
	if err := d.Init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("스키마 초기화 실패: %w", err)
	}

	return d, nil
}

// Init initializes the database schema
func (d *DB) Init() error {
	if _, err := d.Exec(schemaBase); err != nil {
		return fmt.Errorf("기본 스키마 적용 실패: %w", err)
	}

	if err := d.migrate(); err != nil {
		return fmt.Errorf("마이그레이션 실패: %w", err)
	}

	if _, err := d.Exec(schemaLNB); err != nil {
		return fmt.Errorf("LNB 스키마 적용 실패: %w", err)
	}

	_, err := d.Exec(`INSERT OR REPLACE INTO metadata (key, value, updated_at) VALUES ('schema_version', ?, CURRENT_TIMESTAMP)`, schemaVersion)
	if err != nil {
		return fmt.Errorf("버전 저장 실패: %w", err)
	}

	return nil
}

// migrate runs database migrations
func (d *DB) migrate() error {
	currentVersion, _ := d.GetVersion()

	// v1 -> v2: 테넌트 설명 컬럼 추가 (이미 있으면 에러 무시)
	if currentVersion == 1 {
		d.Exec(`ALTER TABLE tenants ADD COLUMN description TEXT`)
	}

	// v2 -> v3: 메뉴 id 키를 테넌트/모듈 범위로 재구성
	if currentVersion == 2 {
		if err := d.rekeyLNBConfigs(); err != nil {
			return fmt.Errorf("lnb_configs 재구성 실패: %w", err)
		}
	}

	return nil
}

// rekeyLNBConfigs rebuilds lnb_configs under the scoped primary key.
func (d *DB) rekeyLNBConfigs() error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`DROP INDEX IF EXISTS idx_lnb_configs_scope`,
		`DROP INDEX IF EXISTS idx_lnb_configs_parent`,
		`ALTER TABLE lnb_configs RENAME TO lnb_configs_v2`,
		schemaLNB,
		`INSERT INTO lnb_configs (id, tenant_id, module, parent_id, name, display_name, icon,
			sort_order, is_active, type, screen_id, system_screen_type, created_at, updated_at)
		 SELECT id, tenant_id, module, parent_id, name, display_name, icon,
			sort_order, is_active, type, screen_id, system_screen_type, created_at, updated_at
		 FROM lnb_configs_v2`,
		`DROP TABLE lnb_configs_v2`,
	}
	for _, q := range steps {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetVersion returns current schema version
func (d *DB) GetVersion() (int, error) {
	var version int
	err := d.QueryRow(`SELECT CAST(value AS INTEGER) FROM metadata WHERE key = 'schema_version'`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

// Tables returns user table names in the SQLite database
func (d *DB) Tables() ([]string, error) {
	rows, err := d.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
