package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/n0roo/navkit/internal/config"
	"github.com/n0roo/navkit/internal/db"
	"github.com/n0roo/navkit/internal/lnb"
	"github.com/n0roo/navkit/internal/route"
)

// setupTestCLI points every command at a temporary database
func setupTestCLI(t *testing.T) string {
	t.Helper()

	for _, key := range []string{
		config.EnvDBPath, config.EnvDBType, config.EnvFallbackTenant, config.EnvMenuFile,
	} {
		t.Setenv(key, "")
	}

	tmpDir, err := os.MkdirTemp("", "navkit-cli-test-*")
	if err != nil {
		t.Fatalf("임시 디렉토리 생성 실패: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	return tmpDir
}

// run executes the root command and returns stdout
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	// 패키지 플래그 변수는 실행 사이에 남으므로 초기화
	jsonOut, verbose = false, false
	lnbTenant, lnbModule = "", ""
	lnbAddID, lnbAddDisplay, lnbAddIcon, lnbAddParent, lnbAddScreen, lnbAddSystem, lnbAddType = "", "", "", "", "", "", ""
	lnbAddOrder, lnbAddInactive, lnbTreeStored, lnbTreeProject = 0, false, false, ""
	buildType, buildModule, buildTenant, buildProject, buildScreen, buildMenu = "", "", "", "", "", ""
	tenantName, tenantDesc, tenantSeed = "", "", false

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("파이프 생성 실패: %v", err)
	}
	stdout := os.Stdout
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	rootCmd.SetArgs(append([]string{
		"--db", filepath.Join(dir, "navkit.db"),
		"--config", filepath.Join(dir, "config.yaml"),
	}, args...))
	runErr := rootCmd.Execute()

	w.Close()
	os.Stdout = stdout
	return <-done, runErr
}

func runJSON(t *testing.T, dir string, v interface{}, args ...string) {
	t.Helper()

	out, err := run(t, dir, append(args, "--json")...)
	if err != nil {
		t.Fatalf("%v 실행 실패: %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("%v 출력 파싱 실패: %v\n%s", args, err, out)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.bytes); got != tt.want {
			t.Errorf("formatSize(%d) = %s, want %s", tt.bytes, got, tt.want)
		}
	}
}

func TestParseModule(t *testing.T) {
	if m, err := parseModule(""); err != nil || m != "" {
		t.Errorf("빈 모듈 = %q, %v", m, err)
	}
	if m, err := parseModule("viewer"); err != nil || m != route.ModuleViewer {
		t.Errorf("viewer = %q, %v", m, err)
	}
	if _, err := parseModule("reports"); err == nil {
		t.Error("알 수 없는 모듈이 허용됨")
	}
}

func TestResolveCommand(t *testing.T) {
	dir := setupTestCLI(t)

	var out struct {
		Path     string            `json:"path"`
		Segments []string          `json:"segments"`
		Route    route.ScreenRoute `json:"route"`
		Tier     string            `json:"tier"`
	}
	runJSON(t, dir, &out, "resolve", "/acme/designer/p-1/screen/s-1")

	want := route.ScreenRoute{
		Type: route.TypeUserScreen, Module: route.ModuleDesigner,
		TenantID: "acme", ProjectID: "p-1", ScreenID: "s-1",
	}
	if !out.Route.Equal(want) {
		t.Errorf("route = %+v, want %+v", out.Route, want)
	}
	if len(out.Segments) != 5 || out.Tier == "" {
		t.Errorf("segments = %v, tier = %q", out.Segments, out.Tier)
	}

	text, err := run(t, dir, "resolve", "/admin/fields")
	if err != nil {
		t.Fatalf("resolve 실패: %v", err)
	}
	if !strings.Contains(text, "admin-fields") {
		t.Errorf("출력에 admin-fields 없음: %s", text)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := setupTestCLI(t)

	type buildOut struct {
		Result route.NavigationResult `json:"result"`
		Tenant string                 `json:"tenant"`
	}

	// 테넌트가 없으면 fallback
	var out buildOut
	runJSON(t, dir, &out, "build", "--type", "dashboard", "--project", "p-1")
	if out.Result.Path != "/default/designer/p-1/dashboard" || out.Tenant != route.FallbackTenantID {
		t.Errorf("fallback build = %+v", out)
	}

	if _, err := run(t, dir, "tenant", "add", "acme"); err != nil {
		t.Fatalf("tenant add 실패: %v", err)
	}

	out = buildOut{}
	runJSON(t, dir, &out, "build", "--type", "user-screen", "--project", "p-1", "--screen", "s-1")
	if out.Result.Path != "/acme/designer/p-1/screen/s-1" {
		t.Errorf("current tenant build = %+v", out)
	}

	out = buildOut{}
	runJSON(t, dir, &out, "build", "--type", "lnb-menu", "--tenant", "beta")
	if out.Result.Navigated || out.Result.Reason != route.SkipMissingMenuID {
		t.Errorf("skip build = %+v", out)
	}

	if _, err := run(t, dir, "build", "--type", "bogus"); err == nil {
		t.Error("알 수 없는 타입이 허용됨")
	}
	if _, err := run(t, dir, "build", "--type", "dashboard", "--module", "reports"); err == nil {
		t.Error("알 수 없는 모듈이 허용됨")
	}
}

func TestTenantCommands(t *testing.T) {
	dir := setupTestCLI(t)

	if _, err := run(t, dir, "tenant", "add", "designer"); err == nil {
		t.Error("예약된 세그먼트가 테넌트 id로 허용됨")
	}

	var added struct {
		Seeded int `json:"seeded"`
	}
	runJSON(t, dir, &added, "tenant", "add", "acme", "--seed")
	if added.Seeded == 0 {
		t.Error("--seed로 저장된 메뉴가 없음")
	}
	if _, err := run(t, dir, "tenant", "add", "acme"); err == nil {
		t.Error("중복 테넌트 추가가 성공함")
	}
	if _, err := run(t, dir, "tenant", "add", "beta"); err != nil {
		t.Fatalf("tenant add 실패: %v", err)
	}

	var current struct {
		Effective string `json:"effective"`
	}
	runJSON(t, dir, &current, "tenant", "current")
	if current.Effective != "acme" {
		t.Errorf("첫 테넌트가 현재 테넌트가 아님: %s", current.Effective)
	}

	if _, err := run(t, dir, "tenant", "use", "beta"); err != nil {
		t.Fatalf("tenant use 실패: %v", err)
	}
	runJSON(t, dir, &current, "tenant", "current")
	if current.Effective != "beta" {
		t.Errorf("use 후 현재 테넌트 = %s", current.Effective)
	}

	if _, err := run(t, dir, "tenant", "delete", "beta"); err != nil {
		t.Fatalf("tenant delete 실패: %v", err)
	}
	runJSON(t, dir, &current, "tenant", "current")
	if current.Effective != route.FallbackTenantID {
		t.Errorf("삭제 후 현재 테넌트 = %s", current.Effective)
	}
}

func TestLNBCommands(t *testing.T) {
	dir := setupTestCLI(t)

	// 저장된 메뉴가 없으면 기본 메뉴로 렌더링
	var tree struct {
		Origin lnb.Origin      `json:"origin"`
		Model  lnb.RenderModel `json:"model"`
	}
	runJSON(t, dir, &tree, "lnb", "tree", "--tenant", "acme")
	if tree.Origin != lnb.OriginDefault || tree.Model.Empty {
		t.Errorf("기본 메뉴 tree = %s, empty=%v", tree.Origin, tree.Model.Empty)
	}

	mustRun := func(args ...string) {
		t.Helper()
		if _, err := run(t, dir, args...); err != nil {
			t.Fatalf("%v 실패: %v", args, err)
		}
	}

	mustRun("lnb", "add", "dashboard", "--tenant", "acme", "--id", "dash", "--order", "1", "--system", "dashboard")
	mustRun("lnb", "add", "inspection", "--tenant", "acme", "--id", "insp", "--order", "2")
	mustRun("lnb", "add", "plan", "--tenant", "acme", "--id", "plan", "--parent", "insp", "--screen", "s-plan")

	if _, err := run(t, dir, "lnb", "add", "deep", "--tenant", "acme", "--parent", "plan"); err == nil {
		t.Error("3단계 메뉴 추가가 성공함")
	}
	if _, err := run(t, dir, "lnb", "list", "--module", "admin"); err == nil {
		t.Error("admin 모듈 LNB가 허용됨")
	}

	tree.Origin, tree.Model = "", lnb.RenderModel{}
	runJSON(t, dir, &tree, "lnb", "tree", "--tenant", "acme")
	if tree.Origin != lnb.OriginDatabase {
		t.Errorf("origin = %s, want database", tree.Origin)
	}
	if ids := tree.Model.IDs(); len(ids) != 2 || ids[0] != "dash" || ids[1] != "insp" {
		t.Errorf("IDs() = %v", ids)
	}

	// 같은 id를 다른 테넌트에 추가해도 acme 메뉴는 그대로
	mustRun("lnb", "add", "dashboard", "--tenant", "beta", "--id", "dash", "--order", "1")
	mustRun("lnb", "order", "dash", "9", "--tenant", "acme")
	mustRun("lnb", "toggle", "plan", "--tenant", "acme")
	if _, err := run(t, dir, "lnb", "toggle", "plan", "--tenant", "beta"); err == nil {
		t.Error("다른 테넌트의 메뉴 토글이 성공함")
	}

	tree.Model = lnb.RenderModel{}
	runJSON(t, dir, &tree, "lnb", "tree", "--tenant", "acme")
	if ids := tree.Model.IDs(); len(ids) != 2 || ids[0] != "insp" {
		t.Errorf("정렬 변경 후 IDs() = %v", ids)
	}
	// 활성 자식이 없으면 독립 항목
	if tree.Model.Entries[0].Kind != lnb.KindIndependent {
		t.Errorf("insp kind = %s", tree.Model.Entries[0].Kind)
	}

	var validate struct {
		Issues []lnb.Issue `json:"issues"`
	}
	runJSON(t, dir, &validate, "lnb", "validate", "--tenant", "acme")
	if len(validate.Issues) != 0 {
		t.Errorf("issues = %v", validate.Issues)
	}

	exported := filepath.Join(dir, "menu.yaml")
	mustRun("lnb", "export", exported, "--tenant", "acme")
	mustRun("lnb", "add", "extra", "--tenant", "acme", "--id", "extra")

	// 가져오기는 모듈의 기존 메뉴를 교체
	mustRun("lnb", "import", exported, "--tenant", "acme")

	var list struct {
		Configs []lnb.Config `json:"configs"`
	}
	runJSON(t, dir, &list, "lnb", "list", "--tenant", "acme")
	if len(list.Configs) != 3 {
		t.Errorf("가져온 메뉴 = %d, want 3", len(list.Configs))
	}

	mustRun("lnb", "delete", "insp", "--tenant", "acme")
	list.Configs = nil
	runJSON(t, dir, &list, "lnb", "list", "--tenant", "acme")
	if len(list.Configs) != 1 || list.Configs[0].ID != "dash" {
		t.Errorf("삭제 후 메뉴 = %+v", list.Configs)
	}

	list.Configs = nil
	runJSON(t, dir, &list, "lnb", "list", "--tenant", "beta")
	if len(list.Configs) != 1 || list.Configs[0].Order != 1 {
		t.Errorf("beta 메뉴 = %+v", list.Configs)
	}

	if _, err := run(t, dir, "lnb", "import", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("없는 파일 가져오기가 성공함")
	}
}

func TestLNBTreeTargets(t *testing.T) {
	dir := setupTestCLI(t)

	for _, args := range [][]string{
		{"lnb", "add", "dashboard", "--tenant", "acme", "--id", "dash", "--order", "1", "--system", "dashboard"},
		{"lnb", "add", "settings", "--tenant", "acme", "--id", "set", "--order", "2", "--system", "system-settings"},
		{"lnb", "add", "plan", "--tenant", "acme", "--id", "plan", "--order", "3", "--screen", "s-plan"},
	} {
		if _, err := run(t, dir, args...); err != nil {
			t.Fatalf("%v 실패: %v", args, err)
		}
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "without project",
			args: []string{"lnb", "tree", "--tenant", "acme"},
			want: []string{
				"[dash]  (프로젝트 필요: --project)",
				"[plan]  (프로젝트 필요: --project)",
				"[set]  → /acme/designer/settings\n",
			},
			notWant: []string{"/acme/designer/dashboard", "/acme/designer/screen/"},
		},
		{
			name: "with project",
			args: []string{"lnb", "tree", "--tenant", "acme", "--project", "p-1"},
			want: []string{
				"→ /acme/designer/p-1/dashboard\n",
				"→ /acme/designer/p-1/screen/s-plan\n",
				"→ /acme/designer/settings\n",
			},
			notWant: []string{"프로젝트 필요", "/p-1/settings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, dir, tt.args...)
			if err != nil {
				t.Fatalf("tree 실패: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("출력에 %q 없음:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("출력에 %q 있음:\n%s", w, out)
				}
			}
		})
	}
}

func TestMigrateStatus(t *testing.T) {
	dir := setupTestCLI(t)

	var st struct {
		CurrentType  string `json:"current_type"`
		SQLiteExists bool   `json:"sqlite_exists"`
		DuckDBExists bool   `json:"duckdb_exists"`
	}
	runJSON(t, dir, &st, "migrate", "status")
	if st.SQLiteExists || st.DuckDBExists || st.CurrentType != string(db.TypeSQLite) {
		t.Errorf("빈 디렉토리 상태 = %+v", st)
	}

	if _, err := run(t, dir, "migrate", "to-duckdb"); err == nil {
		t.Error("SQLite 파일 없이 마이그레이션이 성공함")
	}
}
