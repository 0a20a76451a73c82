package cli

import (
	"github.com/spf13/cobra"

	"github.com/n0roo/navkit/internal/lnb"
	"github.com/n0roo/navkit/internal/route"
	"github.com/n0roo/navkit/internal/tenant"
	"github.com/n0roo/navkit/internal/tui"
)

var (
	tuiPath    string
	tuiProject string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "LNB 탐색기",
	Long: `터미널에서 LNB 메뉴를 탐색합니다.

키:
  ↑/↓, j/k  이동
  Enter      열기 / 하위 메뉴 펼치기
  /          검색
  r          다시 불러오기
  q          종료`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiPath, "path", "", "시작 경로 (테넌트, 모듈, 활성 메뉴 결정)")
	tuiCmd.Flags().StringVar(&tuiProject, "project", "", "프로젝트 ID")
	tuiCmd.Flags().StringVar(&lnbTenant, "tenant", "", "테넌트 ID (기본: 현재 테넌트)")
	tuiCmd.Flags().StringVar(&lnbModule, "module", "", "모듈 (기본: designer)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	database, cleanup, err := openDB()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	// 시작 경로가 테넌트/모듈을 지정하면 그쪽 메뉴를 사용
	if tuiPath != "" {
		start := route.Resolve(tuiPath)
		if start.TenantID != "" && lnbTenant == "" {
			tenantID = start.TenantID
		}
		if start.Module != "" && start.Module != route.ModuleAdmin && lnbModule == "" {
			module = start.Module
		}
	}

	return tui.Run(tui.Config{
		Load:           tui.ProviderLoader(menuProvider(lnb.NewService(database)), tenantID, module),
		Tenants:        tenant.NewService(database),
		FallbackTenant: appConfig.Routing.FallbackTenant,
		StartPath:      tuiPath,
		ProjectID:      tuiProject,
	})
}
