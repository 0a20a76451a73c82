package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0roo/navkit/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "데이터베이스 마이그레이션",
	Long:  `SQLite 메뉴/테넌트 데이터를 DuckDB로 옮깁니다.`,
}

var migrateToDuckDBCmd = &cobra.Command{
	Use:   "to-duckdb",
	Short: "SQLite → DuckDB 마이그레이션",
	Long: `SQLite 데이터베이스를 DuckDB로 마이그레이션합니다.
기존 DuckDB 파일은 .backup으로 옮겨집니다.

예시:
  navkit migrate to-duckdb
  navkit migrate to-duckdb --source ./navkit.db --force`,
	RunE: runMigrateToDuckDB,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "현재 DB 상태 확인",
	RunE:  runMigrateStatus,
}

var (
	migrateSource string
	migrateForce  bool
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateToDuckDBCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateToDuckDBCmd.Flags().StringVar(&migrateSource, "source", "", "SQLite DB 파일 경로 (기본: --db)")
	migrateToDuckDBCmd.Flags().BoolVar(&migrateForce, "force", false, "기존 DuckDB 파일 덮어쓰기")
}

func runMigrateToDuckDB(cmd *cobra.Command, args []string) error {
	sqlitePath := migrateSource
	if sqlitePath == "" {
		sqlitePath = GetDBPath()
	}

	st := db.GetStatus(sqlitePath)
	if !st.SQLiteExists {
		return fmt.Errorf("SQLite 파일이 없습니다: %s", sqlitePath)
	}
	if st.DuckDBExists && !migrateForce {
		return fmt.Errorf("DuckDB 파일이 이미 존재합니다: %s\n--force 옵션으로 덮어쓸 수 있습니다", st.DuckDBPath)
	}

	if !jsonOut {
		fmt.Printf("🔄 마이그레이션 시작...\n")
		fmt.Printf("   소스: %s\n", st.SQLitePath)
		fmt.Printf("   대상: %s\n\n", st.DuckDBPath)
	}

	result, err := db.MigrateSQLiteToDuckDB(st.SQLitePath, st.DuckDBPath)
	if err != nil {
		return fmt.Errorf("마이그레이션 실패: %w", err)
	}

	if jsonOut {
		return printJSON(result)
	}

	fmt.Printf("✅ 마이그레이션 완료! (테이블 %d개)\n\n", result.TablesProcessed)

	totalRows := 0
	for _, table := range db.MigratedTables {
		if count := result.RowsMigrated[table]; count > 0 {
			fmt.Printf("   - %s: %d행\n", table, count)
			totalRows += count
		}
	}
	fmt.Printf("\n   총 %d행 마이그레이션됨\n", totalRows)

	if len(result.Errors) > 0 {
		fmt.Printf("\n⚠️  경고:\n")
		for _, e := range result.Errors {
			fmt.Printf("   - %s\n", e)
		}
	}

	fmt.Printf("\n💡 DuckDB를 사용하려면:\n")
	fmt.Printf("   export %s=duckdb\n", db.EnvDBType)
	fmt.Printf("   또는 설정 파일에 database.type: duckdb\n")
	return nil
}

func fileSize(path string) int64 {
	if info, err := os.Stat(path); err == nil {
		return info.Size()
	}
	return 0
}

// currentDBType reports the backend openDB would pick
func currentDBType(st db.Status) string {
	if appConfig.Database.Type != "" {
		return appConfig.Database.Type
	}
	if env := os.Getenv(db.EnvDBType); env != "" {
		return env
	}
	if st.DuckDBExists {
		return string(db.TypeDuckDB)
	}
	return string(db.TypeSQLite)
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	st := db.GetStatus(GetDBPath())
	currentType := currentDBType(st)

	if jsonOut {
		return printJSON(map[string]interface{}{
			"current_type":  currentType,
			"sqlite_exists": st.SQLiteExists,
			"sqlite_path":   st.SQLitePath,
			"sqlite_size":   fileSize(st.SQLitePath),
			"duckdb_exists": st.DuckDBExists,
			"duckdb_path":   st.DuckDBPath,
			"duckdb_size":   fileSize(st.DuckDBPath),
		})
	}

	fmt.Printf("📊 데이터베이스 상태\n\n")
	fmt.Printf("현재 사용: %s\n\n", currentType)

	fmt.Printf("SQLite:\n")
	if st.SQLiteExists {
		fmt.Printf("   ✅ 존재: %s\n", st.SQLitePath)
		fmt.Printf("   📦 크기: %s\n", formatSize(fileSize(st.SQLitePath)))
	} else {
		fmt.Printf("   ❌ 없음: %s\n", st.SQLitePath)
	}

	fmt.Printf("\nDuckDB:\n")
	if st.DuckDBExists {
		fmt.Printf("   ✅ 존재: %s\n", st.DuckDBPath)
		fmt.Printf("   📦 크기: %s\n", formatSize(fileSize(st.DuckDBPath)))
	} else {
		fmt.Printf("   ❌ 없음: %s\n", st.DuckDBPath)
	}

	fmt.Printf("\n💡 ")
	switch {
	case !st.DuckDBExists && st.SQLiteExists:
		fmt.Printf("DuckDB로 마이그레이션하려면: navkit migrate to-duckdb\n")
	case st.DuckDBExists && currentType != string(db.TypeDuckDB):
		fmt.Printf("DuckDB 사용하려면: export %s=duckdb\n", db.EnvDBType)
	case st.DuckDBExists:
		fmt.Printf("DuckDB를 사용 중입니다.\n")
	default:
		fmt.Printf("아직 DB가 없습니다. 첫 명령 실행 시 생성됩니다.\n")
	}
	return nil
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
