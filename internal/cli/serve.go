package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/n0roo/navkit/internal/logger"
	"github.com/n0roo/navkit/internal/server"
)

var (
	servePort     int
	serveMenuFile string
	serveWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 실행",
	Long: `경로 변환, LNB 메뉴, 테넌트 API 서버를 실행합니다.

엔드포인트:
  GET  /api/status
  GET  /api/v2/routes/resolve?path=...
  POST /api/v2/routes/build
  GET  /api/v2/lnb?tenant=&module=&path=
  GET  /api/v2/events (SSE)
  GET  /metrics`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "포트 (기본: 설정 파일)")
	serveCmd.Flags().StringVar(&serveMenuFile, "menu-file", "", "정적 메뉴 YAML 파일")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "메뉴 파일 변경 감지")
}

func runServe(cmd *cobra.Command, args []string) error {
	database, cleanup, err := openDB()
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := server.Config{
		Port:           appConfig.Server.Port,
		FallbackTenant: appConfig.Routing.FallbackTenant,
		MenuFile:       appConfig.Menu.File,
		WatchMenu:      appConfig.Menu.Watch,
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveMenuFile != "" {
		cfg.MenuFile = serveMenuFile
	}
	if cmd.Flags().Changed("watch") {
		cfg.WatchMenu = serveWatch
	}

	server.Version = Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🚀 navkit 서버 시작: http://localhost:%d\n", cfg.Port)
	logger.GetLogger().Info("서버 시작",
		zap.Int("port", cfg.Port),
		zap.String("db", database.Path()),
		zap.String("menu_file", cfg.MenuFile),
		zap.Bool("watch", cfg.WatchMenu),
	)

	return server.NewServer(cfg, database).Start(ctx)
}
