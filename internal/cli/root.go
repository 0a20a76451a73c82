package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/n0roo/navkit/internal/config"
	"github.com/n0roo/navkit/internal/db"
	"github.com/n0roo/navkit/internal/logger"
	"github.com/n0roo/navkit/internal/route"
	"github.com/n0roo/navkit/internal/tenant"
)

var (
	dbPath     string
	configPath string
	verbose    bool
	jsonOut    bool

	appConfig = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "navkit",
	Short: "LNB 메뉴 및 화면 경로 도구",
	Long: `navkit - 교량 점검 제품군의 LNB 메뉴와 화면 경로 도구

URL 경로와 화면 라우트를 서로 변환하고, 테넌트별 LNB 메뉴를 관리합니다.

주요 기능:
  - resolve/build: 경로 ↔ 화면 라우트 변환
  - lnb: 테넌트/모듈별 메뉴 관리
  - tenant: 테넌트 관리 및 현재 테넌트 선택
  - serve: JSON/SSE API 서버
  - tui: 터미널 LNB 탐색기`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "DB 경로 (기본: ~/.navkit/navkit.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "설정 파일 경로 (기본: .navkit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "상세 출력")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON 출력")
}

// loadConfig reads the config file and initializes logging
func loadConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	appConfig = cfg

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       level,
		Environment: cfg.Log.Environment,
		ServiceName: "navkit",
	}); err != nil {
		return err
	}

	logger.GetLogger().Debug("설정 로드", append([]zap.Field{zap.String("path", path)}, cfg.Fields()...)...)
	return nil
}

// GetDBPath returns the database path
func GetDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if appConfig.Database.Path != "" {
		return appConfig.Database.Path
	}
	return config.GlobalDBPath()
}

// openDB opens the configured backend
func openDB() (db.Database, func(), error) {
	dbType, err := db.ParseType(appConfig.Database.Type)
	if err != nil {
		return nil, nil, err
	}

	database, actual, err := db.OpenAuto(GetDBPath(), dbType)
	if err != nil {
		return nil, nil, err
	}
	logger.GetLogger().Debug("DB 열기", zap.String("path", database.Path()), zap.String("type", string(actual)))

	return database, func() { database.Close() }, nil
}

// newRouter builds paths for the current tenant, then the configured fallback
func newRouter(database db.Database) *route.Router {
	var tenants route.TenantContext
	if database != nil {
		tenants = tenant.NewService(database)
	}
	return route.NewRouter(tenants, nil).WithFallbackTenant(appConfig.Routing.FallbackTenant)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// IsVerbose returns verbose flag
func IsVerbose() bool {
	return verbose
}

// IsJSON returns json output flag
func IsJSON() bool {
	return jsonOut
}
