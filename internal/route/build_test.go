package route

import "testing"

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		route    ScreenRoute
		tenant   string
		expected NavigationResult
	}{
		{
			name:     "admin page",
			route:    ScreenRoute{Type: TypeAdminVariables, Module: ModuleAdmin},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/admin/variables"},
		},
		{
			name:     "admin unknown type defaults to db",
			route:    ScreenRoute{Type: TypeDashboard, Module: ModuleAdmin},
			expected: NavigationResult{Navigated: true, Path: "/admin/db"},
		},
		{
			name:     "gnb projects with ambient tenant",
			route:    ScreenRoute{Type: TypeProjects, Module: ModuleDesigner},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/projects"},
		},
		{
			name:     "route tenant wins over ambient",
			route:    ScreenRoute{Type: TypeTables, Module: ModuleDesigner, TenantID: "t-9"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/t-9/designer/tables"},
		},
		{
			name:     "fallback tenant",
			route:    ScreenRoute{Type: TypeSync},
			expected: NavigationResult{Navigated: true, Path: "/default/designer/sync"},
		},
		{
			name:     "gnb ignores project id",
			route:    ScreenRoute{Type: TypeSettings, Module: ModuleDesigner, ProjectID: "p-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/settings"},
		},
		{
			name:     "modeler",
			route:    ScreenRoute{Type: TypeModeler, Module: ModuleModeler},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/modeler"},
		},
		{
			name:     "viewer",
			route:    ScreenRoute{Type: TypeViewer},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/viewer"},
		},
		{
			name:     "lnb dashboard with project",
			route:    ScreenRoute{Type: TypeDashboard, Module: ModuleDesigner, ProjectID: "p-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/p-1/dashboard"},
		},
		{
			name:     "lnb dashboard without project",
			route:    ScreenRoute{Type: TypeDashboard, Module: ModuleDesigner},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/dashboard"},
		},
		{
			name:     "user screen",
			route:    ScreenRoute{Type: TypeUserScreen, ProjectID: "p-1", ScreenID: "s-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/p-1/screen/s-1"},
		},
		{
			name:     "user screen without id is skipped",
			route:    ScreenRoute{Type: TypeUserScreen, ProjectID: "p-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Reason: SkipMissingScreenID},
		},
		{
			name:     "lnb menu",
			route:    ScreenRoute{Type: TypeLNBMenu, ProjectID: "p-1", MenuID: "m-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/p-1/lnb/m-1"},
		},
		{
			name:     "lnb menu without id is skipped",
			route:    ScreenRoute{Type: TypeLNBMenu, ProjectID: "p-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Reason: SkipMissingMenuID},
		},
		{
			name:     "designer screens is gnb",
			route:    ScreenRoute{Type: TypeScreens, Module: ModuleDesigner, ProjectID: "p-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/screens"},
		},
		{
			name:     "empty module screens is gnb",
			route:    ScreenRoute{Type: TypeScreens, ProjectID: "p-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/screens"},
		},
		{
			name:     "viewer screens is lnb",
			route:    ScreenRoute{Type: TypeScreens, Module: ModuleViewer, ProjectID: "p-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/viewer/p-1/screens"},
		},
		{
			name:     "unknown type",
			route:    ScreenRoute{Type: "bogus", ProjectID: "p-1"},
			tenant:   "tenant-1",
			expected: NavigationResult{Navigated: true, Path: "/tenant-1/designer/projects"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.route, tt.tenant)
			if got != tt.expected {
				t.Errorf("Build(%+v) = %+v, want %+v", tt.route, got, tt.expected)
			}
		})
	}
}

func TestRoundTripAdmin(t *testing.T) {
	for typ := range adminPages {
		original := ScreenRoute{Type: typ, Module: ModuleAdmin}
		res := Build(original, "tenant-1")
		if !res.Navigated {
			t.Fatalf("Build(%+v) skipped: %s", original, res.Reason)
		}
		if got := Resolve(res.Path); got != original {
			t.Errorf("왕복 변환 실패: %+v -> %q -> %+v", original, res.Path, got)
		}
	}
}

func TestRoundTripGNB(t *testing.T) {
	canonical := map[ScreenType]Module{
		TypeProjects:  ModuleDesigner,
		TypeTables:    ModuleDesigner,
		TypeFunctions: ModuleDesigner,
		TypeSync:      ModuleDesigner,
		TypeSettings:  ModuleDesigner,
		TypeModeler:   ModuleModeler,
		TypeViewer:    ModuleViewer,
	}

	for _, typ := range GNBTypes {
		original := ScreenRoute{Type: typ, Module: canonical[typ], TenantID: "tenant-7"}
		res := Build(original, "")
		got := Resolve(res.Path)
		if got.Type != original.Type || got.Module != original.Module || got.TenantID != "tenant-7" {
			t.Errorf("왕복 변환 실패: %+v -> %q -> %+v", original, res.Path, got)
		}
	}

	// designer screens is GNB-class as well
	original := ScreenRoute{Type: TypeScreens, Module: ModuleDesigner, TenantID: "tenant-7"}
	if got := Resolve(Build(original, "").Path); got != original {
		t.Errorf("designer screens round trip = %+v, want %+v", got, original)
	}
}

func TestRoundTripLNB(t *testing.T) {
	modules := []Module{ModuleDesigner, ModuleModeler, ModuleViewer}

	for _, m := range modules {
		for _, typ := range LNBTypes {
			original := ScreenRoute{Type: typ, Module: m, TenantID: "tenant-1", ProjectID: "proj-1"}
			switch typ {
			case TypeUserScreen:
				original.ScreenID = "scr-1"
			case TypeLNBMenu:
				original.MenuID = "menu-1"
			}

			res := Build(original, "")
			if !res.Navigated {
				t.Fatalf("Build(%+v) skipped: %s", original, res.Reason)
			}
			if got := Resolve(res.Path); got != original {
				t.Errorf("왕복 변환 실패: %+v -> %q -> %+v", original, res.Path, got)
			}
		}

		if m == ModuleDesigner {
			continue
		}
		original := ScreenRoute{Type: TypeScreens, Module: m, TenantID: "tenant-1", ProjectID: "proj-1"}
		if got := Resolve(Build(original, "").Path); got != original {
			t.Errorf("%s screens round trip = %+v, want %+v", m, got, original)
		}
	}
}

func TestRoundTripEscapedIDs(t *testing.T) {
	tests := []ScreenRoute{
		{Type: TypeLNBMenu, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "p-1", MenuID: "a/b"},
		{Type: TypeUserScreen, Module: ModuleViewer, TenantID: "tenant-1", ProjectID: "p-1", ScreenID: "s?x"},
		{Type: TypeUserScreen, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "p#1", ScreenID: "s 1"},
		{Type: TypeDashboard, Module: ModuleModeler, TenantID: "t%1", ProjectID: "프로젝트"},
		{Type: TypeTables, Module: ModuleDesigner, TenantID: "a/b"},
	}

	for _, original := range tests {
		res := Build(original, "")
		if !res.Navigated {
			t.Fatalf("Build(%+v) skipped: %s", original, res.Reason)
		}
		if got := Resolve(res.Path); got != original {
			t.Errorf("왕복 변환 실패: %+v -> %q -> %+v", original, res.Path, got)
		}
	}
}

func TestBuildReservedSegments(t *testing.T) {
	tests := []struct {
		name   string
		route  ScreenRoute
		tenant string
		reason SkipReason
	}{
		{"reserved route tenant", ScreenRoute{Type: TypeProjects, TenantID: "admin"}, "", SkipReservedTenant},
		{"reserved ambient tenant", ScreenRoute{Type: TypeDashboard, ProjectID: "p-1"}, "designer", SkipReservedTenant},
		{"reserved project", ScreenRoute{Type: TypeDashboard, ProjectID: "project"}, "t-1", SkipReservedProject},
		{"reserved project on screen", ScreenRoute{Type: TypeUserScreen, ProjectID: "project", ScreenID: "s"}, "t-1", SkipReservedProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.route, tt.tenant)
			if got.Navigated || got.Reason != tt.reason {
				t.Errorf("Build(%+v) = %+v, want skipped %s", tt.route, got, tt.reason)
			}
		})
	}

	// GNB 화면은 프로젝트를 쓰지 않으므로 그대로 이동
	if got := Build(ScreenRoute{Type: TypeTables, ProjectID: "project"}, "t-1"); got.Path != "/t-1/designer/tables" {
		t.Errorf("gnb with project id = %+v", got)
	}
}

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.paths = append(n.paths, path)
}

func TestRouterNavigate(t *testing.T) {
	nav := &recordingNavigator{}
	router := NewRouter(StaticTenant("tenant-3"), nav)

	res := router.Navigate(ScreenRoute{Type: TypeDashboard, ProjectID: "p-1"})
	if !res.Navigated || res.Path != "/tenant-3/designer/p-1/dashboard" {
		t.Fatalf("Navigate = %+v", res)
	}

	res = router.Navigate(ScreenRoute{Type: TypeLNBMenu, ProjectID: "p-1"})
	if res.Navigated || res.Reason != SkipMissingMenuID {
		t.Errorf("Navigate without menu id = %+v, want skipped", res)
	}

	if len(nav.paths) != 1 || nav.paths[0] != "/tenant-3/designer/p-1/dashboard" {
		t.Errorf("navigator received %v", nav.paths)
	}
}

func TestRouterTenantFallback(t *testing.T) {
	router := NewRouter(StaticTenant(""), nil).WithFallbackTenant("acme")
	if id := router.TenantID(); id != "acme" {
		t.Errorf("TenantID() = %q, want acme", id)
	}

	router = NewRouter(nil, nil)
	if id := router.TenantID(); id != FallbackTenantID {
		t.Errorf("TenantID() = %q, want %q", id, FallbackTenantID)
	}

	var got string
	router = NewRouter(StaticTenant("t-1"), NavigatorFunc(func(p string) { got = p }))
	router.Navigate(ScreenRoute{Type: TypeProjects})
	if got != "/t-1/designer/projects" {
		t.Errorf("NavigatorFunc got %q", got)
	}
}
