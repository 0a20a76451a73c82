package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/n0roo/navkit/internal/db"
	"github.com/n0roo/navkit/internal/lnb"
	"github.com/n0roo/navkit/internal/route"
)

var (
	lnbTenant string
	lnbModule string

	lnbAddID       string
	lnbAddDisplay  string
	lnbAddIcon     string
	lnbAddOrder    int
	lnbAddParent   string
	lnbAddScreen   string
	lnbAddSystem   string
	lnbAddType     string
	lnbAddInactive bool

	lnbTreeStored  bool
	lnbTreeProject string
)

var lnbCmd = &cobra.Command{
	Use:   "lnb",
	Short: "LNB 메뉴 관리",
	Long: `테넌트/모듈별 LNB 메뉴를 관리합니다.
테넌트를 지정하지 않으면 현재 테넌트를 사용합니다.`,
}

var lnbListCmd = &cobra.Command{
	Use:   "list",
	Short: "저장된 메뉴 목록",
	RunE:  runLNBList,
}

var lnbTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "렌더링되는 메뉴 트리",
	Long: `실제로 표시되는 LNB를 출력합니다.
저장된 메뉴가 없으면 정적 메뉴 파일, 그것도 없으면 내장 기본 메뉴를 사용합니다.`,
	RunE: runLNBTree,
}

var lnbAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "메뉴 추가",
	Long: `메뉴를 추가합니다.

예시:
  navkit lnb add dashboard --display 대시보드 --system dashboard --order 1
  navkit lnb add inspection-plan --parent insp --screen s-plan`,
	Args: cobra.ExactArgs(1),
	RunE: runLNBAdd,
}

var lnbToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "메뉴 표시/숨김 전환",
	Args:  cobra.ExactArgs(1),
	RunE:  runLNBToggle,
}

var lnbOrderCmd = &cobra.Command{
	Use:   "order <id> <order>",
	Short: "메뉴 정렬 순서 변경",
	Args:  cobra.ExactArgs(2),
	RunE:  runLNBOrder,
}

var lnbDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "메뉴 삭제 (하위 메뉴 포함)",
	Args:  cobra.ExactArgs(1),
	RunE:  runLNBDelete,
}

var lnbImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "YAML 메뉴 파일 가져오기",
	Long: `YAML 메뉴 파일을 가져옵니다. 대상 모듈의 기존 메뉴는 교체됩니다.
--module을 지정하지 않으면 파일의 모든 모듈을 가져옵니다.`,
	Args: cobra.ExactArgs(1),
	RunE: runLNBImport,
}

var lnbExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "저장된 메뉴를 YAML로 내보내기",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLNBExport,
}

var lnbValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "메뉴 구성 검사",
	Long:  `선언된 타입과 실제 구조의 불일치, 중복 id 등을 경고합니다. 렌더링은 막지 않습니다.`,
	RunE:  runLNBValidate,
}

var lnbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "기본 메뉴로 초기화",
	Long:  `메뉴가 없는 모듈에 내장 기본 메뉴를 저장합니다.`,
	RunE:  runLNBSeed,
}

func init() {
	rootCmd.AddCommand(lnbCmd)
	lnbCmd.AddCommand(lnbListCmd)
	lnbCmd.AddCommand(lnbTreeCmd)
	lnbCmd.AddCommand(lnbAddCmd)
	lnbCmd.AddCommand(lnbToggleCmd)
	lnbCmd.AddCommand(lnbOrderCmd)
	lnbCmd.AddCommand(lnbDeleteCmd)
	lnbCmd.AddCommand(lnbImportCmd)
	lnbCmd.AddCommand(lnbExportCmd)
	lnbCmd.AddCommand(lnbValidateCmd)
	lnbCmd.AddCommand(lnbSeedCmd)

	lnbCmd.PersistentFlags().StringVar(&lnbTenant, "tenant", "", "테넌트 ID (기본: 현재 테넌트)")
	lnbCmd.PersistentFlags().StringVar(&lnbModule, "module", "", "모듈 (기본: designer)")

	lnbAddCmd.Flags().StringVar(&lnbAddID, "id", "", "메뉴 ID (기본: 자동 생성)")
	lnbAddCmd.Flags().StringVar(&lnbAddDisplay, "display", "", "표시 이름")
	lnbAddCmd.Flags().StringVar(&lnbAddIcon, "icon", "", "아이콘")
	lnbAddCmd.Flags().IntVar(&lnbAddOrder, "order", 0, "정렬 순서")
	lnbAddCmd.Flags().StringVar(&lnbAddParent, "parent", "", "상위 메뉴 ID")
	lnbAddCmd.Flags().StringVar(&lnbAddScreen, "screen", "", "연결할 화면 ID")
	lnbAddCmd.Flags().StringVar(&lnbAddSystem, "system", "", "시스템 화면 (dashboard, project-settings, admin-fields, ...)")
	lnbAddCmd.Flags().StringVar(&lnbAddType, "type", "", "선언 타입 (independent, parent, child)")
	lnbAddCmd.Flags().BoolVar(&lnbAddInactive, "inactive", false, "숨김 상태로 추가")

	lnbTreeCmd.Flags().BoolVar(&lnbTreeStored, "stored", false, "저장된 메뉴만 사용")
	lnbTreeCmd.Flags().StringVar(&lnbTreeProject, "project", "", "이동 경로를 만들 프로젝트 id")
}

// lnbScope resolves the tenant and module of an lnb command
func lnbScope(database db.Database) (string, route.Module, error) {
	module, err := parseModule(lnbModule)
	if err != nil {
		return "", "", err
	}
	if module == route.ModuleAdmin {
		return "", "", fmt.Errorf("admin 모듈에는 LNB가 없습니다")
	}

	tenantID := lnbTenant
	if tenantID == "" {
		tenantID = newRouter(database).TenantID()
	}
	return tenantID, module.OrDefault(), nil
}

func getLNBService() (*lnb.Service, db.Database, func(), error) {
	database, cleanup, err := openDB()
	if err != nil {
		return nil, nil, nil, err
	}
	return lnb.NewService(database), database, cleanup, nil
}

func menuProvider(svc *lnb.Service) *lnb.Provider {
	var static *lnb.FileSource
	if appConfig.Menu.File != "" {
		static = lnb.NewFileSource(appConfig.Menu.File)
	}
	return lnb.NewProvider(svc, static)
}

func runLNBList(cmd *cobra.Command, args []string) error {
	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	configs, err := svc.List(tenantID, module)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"tenant": tenantID, "module": module, "configs": configs})
	}

	if len(configs) == 0 {
		fmt.Printf("저장된 메뉴가 없습니다. (%s/%s)\n", tenantID, module)
		fmt.Println("💡 navkit lnb seed 로 기본 메뉴를 저장할 수 있습니다.")
		return nil
	}

	fmt.Printf("📋 %s/%s (%d)\n\n", tenantID, module, len(configs))
	fmt.Printf("%-24s %-24s %-20s %5s  %s\n", "ID", "PARENT", "NAME", "ORDER", "STATUS")
	for _, c := range configs {
		status := "✓"
		if !c.IsActive {
			status = "숨김"
		}
		fmt.Printf("%-24s %-24s %-20s %5d  %s\n", c.ID, c.ParentID, c.Label(), c.Order, status)
	}
	return nil
}

func runLNBTree(cmd *cobra.Command, args []string) error {
	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	var nodes []lnb.Config
	origin := lnb.OriginDatabase
	if lnbTreeStored {
		nodes, err = svc.Tree(tenantID, module)
	} else {
		nodes, origin, err = menuProvider(svc).Menu(tenantID, module)
	}
	if err != nil {
		return err
	}

	model := lnb.Render(nodes)

	if jsonOut {
		return printJSON(map[string]interface{}{
			"tenant":  tenantID,
			"module":  module,
			"origin":  origin,
			"project": lnbTreeProject,
			"model":   model,
		})
	}

	fmt.Printf("🗂  %s/%s  (%s)\n\n", tenantID, module, origin)
	if model.Empty {
		fmt.Printf("  %s\n", lnb.PlaceholderMessage)
		return nil
	}

	base := route.ScreenRoute{TenantID: tenantID, Module: module, ProjectID: lnbTreeProject}
	for _, e := range model.Entries {
		if e.Kind == lnb.KindParent {
			fmt.Printf("▸ %s  [%s]\n", e.Node.Label(), e.Node.ID)
			for _, child := range e.Children {
				fmt.Printf("    %s  [%s]  %s\n", child.Label(), child.ID, treeTarget(child, base, tenantID))
			}
			continue
		}
		fmt.Printf("• %s  [%s]  %s\n", e.Node.Label(), e.Node.ID, treeTarget(e.Node, base, tenantID))
	}
	return nil
}

func treeTarget(n lnb.Config, base route.ScreenRoute, tenantID string) string {
	r := lnb.RouteFor(n, base)
	// 프로젝트 범위 화면은 프로젝트 없이 만든 경로가 다른 화면으로 해석됨
	if r.ProjectID == "" && projectScoped(r) {
		return "(프로젝트 필요: --project)"
	}
	result := route.Build(r, tenantID)
	if !result.Navigated {
		return "(" + string(result.Reason) + ")"
	}
	return "→ " + result.Path
}

func projectScoped(r route.ScreenRoute) bool {
	if r.Module == route.ModuleAdmin {
		return false
	}
	return r.Type.IsLNB() || (r.Type == route.TypeScreens && r.Module.OrDefault() != route.ModuleDesigner)
}

func runLNBAdd(cmd *cobra.Command, args []string) error {
	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	c := lnb.Config{
		ID:               lnbAddID,
		ParentID:         lnbAddParent,
		Name:             args[0],
		DisplayName:      lnbAddDisplay,
		Icon:             lnbAddIcon,
		Order:            lnbAddOrder,
		IsActive:         !lnbAddInactive,
		Type:             lnb.ItemType(lnbAddType),
		ScreenID:         lnbAddScreen,
		SystemScreenType: lnb.SystemScreenType(lnbAddSystem),
	}
	created, err := svc.Create(tenantID, module, c)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(created)
	}

	fmt.Printf("✓ 메뉴 추가: %s [%s] (%s/%s)\n", created.Label(), created.ID, tenantID, module)
	if issues := lnb.Validate(mustTree(svc, tenantID, module)); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Printf("⚠️  %s\n", issue)
		}
	}
	return nil
}

func mustTree(svc *lnb.Service, tenantID string, module route.Module) []lnb.Config {
	tree, err := svc.Tree(tenantID, module)
	if err != nil {
		return nil
	}
	return tree
}

func runLNBToggle(cmd *cobra.Command, args []string) error {
	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	c, err := svc.Get(tenantID, module, args[0])
	if err != nil {
		return err
	}
	if err := svc.SetActive(tenantID, module, c.ID, !c.IsActive); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"id": c.ID, "active": !c.IsActive})
	}
	if c.IsActive {
		fmt.Printf("✓ 숨김: %s\n", c.Label())
	} else {
		fmt.Printf("✓ 표시: %s\n", c.Label())
	}
	return nil
}

func runLNBOrder(cmd *cobra.Command, args []string) error {
	order, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("정렬 순서는 숫자여야 합니다: %s", args[1])
	}

	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	if err := svc.SetOrder(tenantID, module, args[0], order); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"id": args[0], "order": order})
	}
	fmt.Printf("✓ 정렬 순서 변경: %s → %d\n", args[0], order)
	return nil
}

func runLNBDelete(cmd *cobra.Command, args []string) error {
	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	if err := svc.Delete(tenantID, module, args[0]); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"id": args[0], "deleted": true})
	}
	fmt.Printf("✓ 메뉴 삭제: %s\n", args[0])
	return nil
}

func runLNBImport(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("메뉴 파일을 찾을 수 없습니다: %s", args[0])
	}
	menu, err := lnb.NewFileSource(args[0]).Load()
	if err != nil {
		return err
	}

	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	modules := menu.ModuleNames()
	if lnbModule != "" {
		modules = []route.Module{module}
	}

	imported := make(map[route.Module]int)
	for _, m := range modules {
		n, err := svc.Import(tenantID, m, menu.Menu(m))
		if err != nil {
			return err
		}
		imported[m] = n
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"tenant": tenantID, "imported": imported})
	}
	for _, m := range modules {
		fmt.Printf("✓ %s/%s: %d개 가져옴\n", tenantID, m, imported[m])
	}
	return nil
}

func runLNBExport(cmd *cobra.Command, args []string) error {
	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	modules := []route.Module{route.ModuleDesigner, route.ModuleModeler, route.ModuleViewer}
	if lnbModule != "" {
		modules = []route.Module{module}
	}

	menu := &lnb.MenuFile{Version: "1", Modules: make(map[route.Module][]lnb.Config)}
	for _, m := range modules {
		tree, err := svc.Tree(tenantID, m)
		if err != nil {
			return err
		}
		if len(tree) > 0 {
			menu.Modules[m] = tree
		}
	}

	if len(args) == 1 {
		if err := lnb.NewFileSource(args[0]).Save(menu); err != nil {
			return err
		}
		fmt.Printf("✓ 내보내기 완료: %s (%d개 모듈)\n", args[0], len(menu.Modules))
		return nil
	}

	if jsonOut {
		return printJSON(menu)
	}
	data, err := yaml.Marshal(menu)
	if err != nil {
		return fmt.Errorf("메뉴 직렬화 실패: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func runLNBValidate(cmd *cobra.Command, args []string) error {
	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, module, err := lnbScope(database)
	if err != nil {
		return err
	}

	nodes, origin, err := menuProvider(svc).Menu(tenantID, module)
	if err != nil {
		return err
	}
	issues := lnb.Validate(nodes)

	if jsonOut {
		return printJSON(map[string]interface{}{
			"tenant": tenantID,
			"module": module,
			"origin": origin,
			"issues": issues,
		})
	}

	if len(issues) == 0 {
		fmt.Printf("✓ 문제 없음 (%s/%s, %s)\n", tenantID, module, origin)
		return nil
	}
	fmt.Printf("⚠️  경고 %d개 (%s/%s, %s)\n", len(issues), tenantID, module, origin)
	for _, issue := range issues {
		fmt.Printf("  - %s\n", issue)
	}
	return nil
}

func runLNBSeed(cmd *cobra.Command, args []string) error {
	svc, database, cleanup, err := getLNBService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenantID, _, err := lnbScope(database)
	if err != nil {
		return err
	}

	seeded, err := svc.Seed(tenantID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"tenant": tenantID, "seeded": seeded})
	}
	if len(seeded) == 0 {
		fmt.Printf("이미 모든 모듈에 메뉴가 있습니다. (%s)\n", tenantID)
		return nil
	}
	for _, m := range route.AllModules {
		if n, ok := seeded[m]; ok {
			fmt.Printf("✓ %s/%s: %d개 저장\n", tenantID, m, n)
		}
	}
	return nil
}
