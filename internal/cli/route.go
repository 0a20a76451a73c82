package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0roo/navkit/internal/route"
)

var (
	buildType    string
	buildModule  string
	buildTenant  string
	buildProject string
	buildScreen  string
	buildMenu    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "URL 경로 → 화면 라우트",
	Long: `URL 경로를 화면 라우트로 변환합니다. 해석할 수 없는 경로도 기본 화면으로 변환됩니다.

예시:
  navkit resolve /acme/designer/p-1/screen/s-1
  navkit resolve /admin/fields --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "화면 라우트 → URL 경로",
	Long: `화면 라우트로 정규 URL 경로를 만듭니다.
테넌트를 지정하지 않으면 현재 테넌트, 그것도 없으면 fallback 테넌트를 사용합니다.

예시:
  navkit build --type user-screen --project p-1 --screen s-1
  navkit build --type admin-fields --module admin`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildType, "type", "", "화면 타입 (필수)")
	buildCmd.Flags().StringVar(&buildModule, "module", "", "모듈 (designer, modeler, viewer, admin)")
	buildCmd.Flags().StringVar(&buildTenant, "tenant", "", "테넌트 ID")
	buildCmd.Flags().StringVar(&buildProject, "project", "", "프로젝트 ID")
	buildCmd.Flags().StringVar(&buildScreen, "screen", "", "화면 ID")
	buildCmd.Flags().StringVar(&buildMenu, "menu", "", "LNB 메뉴 ID")
	buildCmd.MarkFlagRequired("type")
}

func printRoute(r route.ScreenRoute) {
	field := func(label, value string) {
		if value != "" {
			fmt.Printf("  %-9s %s\n", label+":", value)
		}
	}
	field("type", string(r.Type))
	field("module", string(r.Module))
	field("tenant", r.TenantID)
	field("project", r.ProjectID)
	field("screen", r.ScreenID)
	field("menu", r.MenuID)
}

func runResolve(cmd *cobra.Command, args []string) error {
	path := args[0]
	r, tier := route.Explain(path)

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":     path,
			"segments": route.Segments(path),
			"route":    r,
			"tier":     tier,
		})
	}

	fmt.Printf("🧭 %s  (%s)\n", path, tier)
	printRoute(r)
	return nil
}

func parseModule(s string) (route.Module, error) {
	m := route.Module(s)
	if s != "" && !m.Valid() {
		return "", fmt.Errorf("알 수 없는 모듈: %s (가능: %v)", s, route.AllModules)
	}
	return m, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	t := route.ScreenType(buildType)
	if !t.Valid() {
		return fmt.Errorf("알 수 없는 화면 타입: %s", buildType)
	}
	module, err := parseModule(buildModule)
	if err != nil {
		return err
	}

	to := route.ScreenRoute{
		Type:      t,
		Module:    module,
		TenantID:  buildTenant,
		ProjectID: buildProject,
		ScreenID:  buildScreen,
		MenuID:    buildMenu,
	}

	// DB가 없어도 fallback 테넌트로 빌드
	var router *route.Router
	if database, cleanup, err := openDB(); err == nil {
		defer cleanup()
		router = newRouter(database)
	} else {
		router = newRouter(nil)
	}

	result := router.Build(to)

	if jsonOut {
		out := map[string]interface{}{"result": result, "tenant": router.TenantID()}
		if result.Navigated {
			out["resolved"] = route.Resolve(result.Path)
		}
		return printJSON(out)
	}

	if !result.Navigated {
		fmt.Printf("⚠️  이동 안 함: %s\n", result.Reason)
		return nil
	}

	fmt.Printf("✓ %s\n", result.Path)
	if verbose {
		printRoute(route.Resolve(result.Path))
	}
	return nil
}
