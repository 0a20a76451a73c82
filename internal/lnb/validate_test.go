package lnb

import (
	"testing"

	"github.com/n0roo/navkit/internal/route"
)

func issueKinds(issues []Issue) map[IssueKind][]string {
	out := make(map[IssueKind][]string)
	for _, i := range issues {
		out[i.Kind] = append(out[i.Kind], i.NodeID)
	}
	return out
}

func TestValidateClean(t *testing.T) {
	menu, err := DefaultMenu()
	if err != nil {
		t.Fatalf("기본 메뉴 로드 실패: %v", err)
	}
	for _, m := range menu.ModuleNames() {
		if issues := Validate(menu.Menu(m)); len(issues) != 0 {
			t.Errorf("%s 기본 메뉴 경고: %v", m, issues)
		}
	}
}

func TestValidateIssues(t *testing.T) {
	parentNoKids := node("p", 1, true)
	parentNoKids.Type = TypeParent

	indepWithKids := node("i", 2, true, node("i1", 1, true))
	indepWithKids.Type = TypeIndependent

	topChild := node("c", 3, true)
	topChild.Type = TypeChild

	deep := node("d", 4, true, node("d1", 1, true, node("d1a", 1, true)))

	input := []Config{
		parentNoKids, indepWithKids, topChild, deep,
		node("dup", 5, true), node("dup", 6, true),
		{ID: "orphan", Name: "orphan", ParentID: "ghost", IsActive: true},
		{Name: "noid", IsActive: true},
	}

	kinds := issueKinds(Validate(input))

	tests := []struct {
		kind IssueKind
		ids  []string
	}{
		{IssueTypeMismatch, []string{"p", "i", "c"}},
		{IssueTooDeep, []string{"d1a"}},
		{IssueDuplicateID, []string{"dup"}},
		{IssueDanglingParent, []string{"orphan"}},
		{IssueMissingID, []string{""}},
	}

	for _, tt := range tests {
		got := kinds[tt.kind]
		if len(got) != len(tt.ids) {
			t.Errorf("%s = %v, want %v", tt.kind, got, tt.ids)
			continue
		}
		for i := range got {
			if got[i] != tt.ids[i] {
				t.Errorf("%s[%d] = %s, want %s", tt.kind, i, got[i], tt.ids[i])
			}
		}
	}
}

func TestValidateDoesNotBlockRender(t *testing.T) {
	p := node("p", 1, true)
	p.Type = TypeParent

	if len(Validate([]Config{p})) == 0 {
		t.Fatal("경고가 없음")
	}
	if m := Render([]Config{p}); m.Empty || m.Entries[0].Kind != KindIndependent {
		t.Errorf("Render = %+v", m)
	}
}

func TestSystemScreenRouteType(t *testing.T) {
	tests := []struct {
		in   SystemScreenType
		want route.ScreenType
	}{
		{SystemDashboard, route.TypeDashboard},
		{SystemProjectSettings, route.TypeProjectSettings},
		{SystemSettings, route.TypeSettings},
		{SystemAdminDB, route.TypeAdminDB},
		{SystemAdminScreenConfig, route.TypeAdminScreenConfig},
		{SystemSectionLibrary, ""},
		{SystemUserProfile, ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := tt.in.RouteType(); got != tt.want {
			t.Errorf("%q.RouteType() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRouteFor(t *testing.T) {
	base := route.ScreenRoute{Type: route.TypeDashboard, Module: route.ModuleViewer, TenantID: "t-1", ProjectID: "p-1"}

	tests := []struct {
		name string
		node Config
		want route.ScreenRoute
	}{
		{
			name: "user screen",
			node: Config{ID: "m-1", ScreenID: "s-1"},
			want: route.ScreenRoute{Type: route.TypeUserScreen, Module: route.ModuleViewer, TenantID: "t-1", ProjectID: "p-1", ScreenID: "s-1"},
		},
		{
			name: "menu without screen",
			node: Config{ID: "m-2"},
			want: route.ScreenRoute{Type: route.TypeLNBMenu, Module: route.ModuleViewer, TenantID: "t-1", ProjectID: "p-1", MenuID: "m-2"},
		},
		{
			name: "system dashboard",
			node: Config{ID: "m-3", SystemScreenType: SystemDashboard, ScreenID: "ignored"},
			want: route.ScreenRoute{Type: route.TypeDashboard, Module: route.ModuleViewer, TenantID: "t-1", ProjectID: "p-1"},
		},
		{
			name: "system admin",
			node: Config{ID: "m-4", SystemScreenType: SystemAdminTables},
			want: route.ScreenRoute{Type: route.TypeAdminTables, Module: route.ModuleAdmin},
		},
		{
			name: "system without route",
			node: Config{ID: "m-5", SystemScreenType: SystemSectionLibrary},
			want: route.ScreenRoute{Type: route.TypeLNBMenu, Module: route.ModuleViewer, TenantID: "t-1", ProjectID: "p-1", MenuID: "m-5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RouteFor(tt.node, base); got != tt.want {
				t.Errorf("RouteFor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRouteForRoundTrip(t *testing.T) {
	base := route.ScreenRoute{Module: route.ModuleDesigner, TenantID: "t-1", ProjectID: "p-1"}
	m := Render([]Config{
		{ID: "home", Name: "home", IsActive: true, Order: 1, SystemScreenType: SystemDashboard},
		{ID: "grp", Name: "grp", IsActive: true, Order: 2, Children: []Config{
			{ID: "leaf", Name: "leaf", IsActive: true, Order: 1, ScreenID: "scr-9"},
			{ID: "menu", Name: "menu", IsActive: true, Order: 2},
		}},
	})

	for _, id := range []string{"home", "leaf", "menu"} {
		n, ok := m.Find(id)
		if !ok {
			t.Fatalf("Find(%s) 실패", id)
		}
		res := route.Build(RouteFor(n, base), "")
		if !res.Navigated {
			t.Fatalf("%s: 이동 건너뜀 (%s)", id, res.Reason)
		}
		if got := ActiveID(m, route.Resolve(res.Path)); got != id {
			t.Errorf("%s -> %s -> ActiveID = %q", id, res.Path, got)
		}
	}

	if got := ParentOf(m, "leaf"); got != "grp" {
		t.Errorf("ParentOf(leaf) = %q, want grp", got)
	}
	if got := ActiveID(m, route.ScreenRoute{Type: route.TypeLNBMenu}); got != "" {
		t.Errorf("menu id 없는 ActiveID = %q", got)
	}
	if got := ActiveID(m, route.ScreenRoute{Type: route.TypeTables}); got != "" {
		t.Errorf("tables ActiveID = %q", got)
	}
}
