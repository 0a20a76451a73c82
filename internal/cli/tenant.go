package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n0roo/navkit/internal/lnb"
	"github.com/n0roo/navkit/internal/tenant"
)

var (
	tenantName string
	tenantDesc string
	tenantSeed bool
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "테넌트 관리",
	Long: `테넌트를 관리합니다. 현재 테넌트는 경로 빌드와 LNB 명령의 기본값입니다.
테넌트 id는 URL 첫 세그먼트로 쓰이므로 예약된 세그먼트는 사용할 수 없습니다.`,
}

var tenantAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "테넌트 추가",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantAdd,
}

var tenantListCmd = &cobra.Command{
	Use:   "list",
	Short: "테넌트 목록",
	RunE:  runTenantList,
}

var tenantUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "현재 테넌트 변경",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantUse,
}

var tenantCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "현재 테넌트 확인",
	RunE:  runTenantCurrent,
}

var tenantDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "테넌트 삭제 (메뉴 포함)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantDelete,
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(tenantAddCmd)
	tenantCmd.AddCommand(tenantListCmd)
	tenantCmd.AddCommand(tenantUseCmd)
	tenantCmd.AddCommand(tenantCurrentCmd)
	tenantCmd.AddCommand(tenantDeleteCmd)

	tenantAddCmd.Flags().StringVar(&tenantName, "name", "", "테넌트 이름")
	tenantAddCmd.Flags().StringVar(&tenantDesc, "desc", "", "설명")
	tenantAddCmd.Flags().BoolVar(&tenantSeed, "seed", false, "기본 메뉴 저장")
}

func getTenantService() (*tenant.Service, *lnb.Service, func(), error) {
	database, cleanup, err := openDB()
	if err != nil {
		return nil, nil, nil, err
	}
	return tenant.NewService(database), lnb.NewService(database), cleanup, nil
}

func runTenantAdd(cmd *cobra.Command, args []string) error {
	svc, menus, cleanup, err := getTenantService()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := svc.Get(args[0]); err == nil {
		return fmt.Errorf("테넌트 '%s'이(가) 이미 존재합니다", args[0])
	}

	t, err := svc.Create(args[0], tenantName, tenantDesc)
	if err != nil {
		return err
	}

	var seeded int
	if tenantSeed {
		counts, err := menus.Seed(t.ID)
		if err != nil {
			return err
		}
		for _, n := range counts {
			seeded += n
		}
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"tenant": t, "seeded": seeded})
	}

	fmt.Printf("✓ 테넌트 추가: %s (%s)\n", t.ID, t.Name)
	if t.IsCurrent {
		fmt.Println("  현재 테넌트로 설정되었습니다.")
	}
	if tenantSeed {
		fmt.Printf("  기본 메뉴 %d개 저장\n", seeded)
	}
	return nil
}

func runTenantList(cmd *cobra.Command, args []string) error {
	svc, _, cleanup, err := getTenantService()
	if err != nil {
		return err
	}
	defer cleanup()

	tenants, err := svc.List()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(tenants)
	}

	if len(tenants) == 0 {
		fmt.Println("등록된 테넌트가 없습니다.")
		fmt.Printf("경로 빌드는 fallback 테넌트 '%s'을(를) 사용합니다.\n", appConfig.Routing.FallbackTenant)
		return nil
	}

	for _, t := range tenants {
		marker := " "
		if t.IsCurrent {
			marker = "*"
		}
		fmt.Printf("%s %-16s %-20s %s\n", marker, t.ID, t.Name, t.Description)
	}
	return nil
}

func runTenantUse(cmd *cobra.Command, args []string) error {
	svc, _, cleanup, err := getTenantService()
	if err != nil {
		return err
	}
	defer cleanup()

	t, err := svc.Use(args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(t)
	}
	fmt.Printf("✓ 현재 테넌트: %s\n", t.ID)
	return nil
}

func runTenantCurrent(cmd *cobra.Command, args []string) error {
	svc, _, cleanup, err := getTenantService()
	if err != nil {
		return err
	}
	defer cleanup()

	t, currentErr := svc.Current()
	effective := newRouter(nil).TenantID()
	if currentErr == nil {
		effective = t.ID
	}

	if jsonOut {
		out := map[string]interface{}{
			"effective": effective,
			"fallback":  appConfig.Routing.FallbackTenant,
		}
		if t != nil {
			out["tenant"] = t
		}
		return printJSON(out)
	}

	if currentErr != nil {
		fmt.Printf("현재 테넌트 없음 → fallback '%s' 사용\n", effective)
		return nil
	}
	fmt.Printf("🏢 %s (%s)\n", t.ID, t.Name)
	return nil
}

func runTenantDelete(cmd *cobra.Command, args []string) error {
	svc, _, cleanup, err := getTenantService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Delete(args[0]); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"id": args[0], "deleted": true})
	}
	fmt.Printf("✓ 테넌트 삭제: %s\n", args[0])
	return nil
}
