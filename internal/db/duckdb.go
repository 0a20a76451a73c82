package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// DuckDB 스키마 버전
const duckDBSchemaVersion = 3

// DuckDB 스키마 (SQLite 테이블과 컬럼 호환)
const duckDBSchema = `
CREATE TABLE IF NOT EXISTS metadata (
    key VARCHAR PRIMARY KEY,
    value VARCHAR,
    updated_at TIMESTAMP DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tenants (
    id VARCHAR PRIMARY KEY,
    name VARCHAR NOT NULL UNIQUE,
    description VARCHAR,
    is_current BOOLEAN DEFAULT false,
    created_at TIMESTAMP DEFAULT now(),
    last_active TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lnb_configs (
    id VARCHAR NOT NULL,
    tenant_id VARCHAR NOT NULL,
    module VARCHAR NOT NULL DEFAULT 'designer',
    parent_id VARCHAR,
    name VARCHAR NOT NULL,
    display_name VARCHAR,
    icon VARCHAR,
    sort_order INTEGER DEFAULT 0,
    is_active BOOLEAN DEFAULT true,
    type VARCHAR,
    screen_id VARCHAR,
    system_screen_type VARCHAR,
    created_at TIMESTAMP DEFAULT now(),
    updated_at TIMESTAMP DEFAULT now(),
    PRIMARY KEY (tenant_id, module, id)
);

CREATE INDEX IF NOT EXISTS idx_lnb_configs_scope ON lnb_configs(tenant_id, module);
CREATE INDEX IF NOT EXISTS idx_lnb_configs_parent ON lnb_configs(tenant_id, module, parent_id);
`

// DuckDB wraps sql.DB for DuckDB
type DuckDB struct {
	*sql.DB
	path string
}

// OpenDuckDB opens or creates a DuckDB database
func OpenDuckDB(path string) (*DuckDB, error) {
	// 디렉토리 생성
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("디렉토리 생성 실패: %w", err)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("DuckDB 열기 실패: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("DuckDB 연결 실패: %w", err)
	}

	d := &DuckDB{DB: db, path: path}

	if err := d.Init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("스키마 초기화 실패: %w", err)
	}

	return d, nil
}

// Init initializes the DuckDB schema
func (d *DuckDB) Init() error {
	// v2 파일은 메뉴 id가 전역 키라 먼저 옮겨 둠
	if v, err := d.existingVersion(); err == nil && v == 2 {
		if err := d.renameLegacyLNB(); err != nil {
			return fmt.Errorf("lnb_configs 재구성 실패: %w", err)
		}
	}

	if _, err := d.Exec(duckDBSchema); err != nil {
		return fmt.Errorf("스키마 적용 실패: %w", err)
	}

	// 버전 저장 (DuckDB는 now() 사용)
	_, err := d.Exec(`
		INSERT INTO metadata (key, value, updated_at)
		VALUES ('schema_version', ?, now())
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()
	`, duckDBSchemaVersion)
	if err != nil {
		return fmt.Errorf("버전 저장 실패: %w", err)
	}

	var legacy int
	d.QueryRow(`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'lnb_configs_v2'`).Scan(&legacy)
	if legacy > 0 {
		if _, err := d.Exec(`INSERT INTO lnb_configs SELECT * FROM lnb_configs_v2`); err != nil {
			return fmt.Errorf("lnb_configs 복사 실패: %w", err)
		}
		if _, err := d.Exec(`DROP TABLE lnb_configs_v2`); err != nil {
			return fmt.Errorf("lnb_configs_v2 삭제 실패: %w", err)
		}
	}

	return nil
}

// existingVersion reads schema_version before the schema is applied.
func (d *DuckDB) existingVersion() (int, error) {
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'metadata'`).Scan(&n); err != nil || n == 0 {
		return 0, err
	}
	return d.GetVersion()
}

func (d *DuckDB) renameLegacyLNB() error {
	for _, q := range []string{
		`DROP INDEX IF EXISTS idx_lnb_configs_scope`,
		`DROP INDEX IF EXISTS idx_lnb_configs_parent`,
		`ALTER TABLE lnb_configs RENAME TO lnb_configs_v2`,
	} {
		if _, err := d.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database file path
func (d *DuckDB) Path() string {
	return d.path
}

// GetVersion returns current schema version
func (d *DuckDB) GetVersion() (int, error) {
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

// IsDuckDB checks if path is a DuckDB file
func IsDuckDB(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	// 헤더 8번째 바이트부터 "DUCK" 매직
	header := make([]byte, 12)
	if _, err := f.Read(header); err != nil {
		return false
	}
	return string(header[8:12]) == "DUCK"
}
