package route

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ScreenRoute
		tier     Tier
	}{
		{
			name:     "empty",
			input:    "",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner},
			tier:     TierEmpty,
		},
		{
			name:     "root",
			input:    "/",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner},
			tier:     TierEmpty,
		},
		{
			name:     "slashes only",
			input:    "///",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner},
			tier:     TierEmpty,
		},
		{
			name:     "admin fields",
			input:    "/admin/fields",
			expected: ScreenRoute{Type: TypeAdminFields, Module: ModuleAdmin},
			tier:     TierAdmin,
		},
		{
			name:     "admin database alias",
			input:    "/admin/database",
			expected: ScreenRoute{Type: TypeAdminDB, Module: ModuleAdmin},
			tier:     TierAdmin,
		},
		{
			name:     "admin unknown page",
			input:    "/admin/unknown-page",
			expected: ScreenRoute{Type: TypeAdminDB, Module: ModuleAdmin},
			tier:     TierAdmin,
		},
		{
			name:     "admin bare",
			input:    "/admin",
			expected: ScreenRoute{Type: TypeAdminDB, Module: ModuleAdmin},
			tier:     TierAdmin,
		},
		{
			name:     "gnb designer screens",
			input:    "/tenant-1/designer/screens",
			expected: ScreenRoute{Type: TypeScreens, Module: ModuleDesigner, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
		{
			name:     "gnb designer without page",
			input:    "/tenant-1/designer",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
		{
			name:     "gnb designer unknown page",
			input:    "/tenant-1/designer/bogus",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
		{
			name:     "gnb modeler ignores page",
			input:    "/tenant-1/modeler/anything",
			expected: ScreenRoute{Type: TypeModeler, Module: ModuleModeler, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
		{
			name:     "gnb viewer",
			input:    "/tenant-1/viewer",
			expected: ScreenRoute{Type: TypeViewer, Module: ModuleViewer, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
		{
			name:     "gnb unknown module",
			input:    "/tenant-1/inspector/tables",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
		{
			name:     "gnb project literal is not lnb",
			input:    "/tenant-1/designer/project/p-1",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
		{
			name:  "lnb dashboard",
			input: "/tenant-1/designer/proj-7/dashboard",
			expected: ScreenRoute{
				Type: TypeDashboard, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "proj-7",
			},
			tier: TierLNB,
		},
		{
			name:  "lnb screens",
			input: "/tenant-1/designer/proj-7/screens",
			expected: ScreenRoute{
				Type: TypeScreens, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "proj-7",
			},
			tier: TierLNB,
		},
		{
			name:  "lnb menu",
			input: "/tenant-1/designer/proj-7/lnb/menu-3",
			expected: ScreenRoute{
				Type: TypeLNBMenu, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "proj-7", MenuID: "menu-3",
			},
			tier: TierLNB,
		},
		{
			name:  "lnb bare menu degrades to screens",
			input: "/tenant-1/designer/proj-1/lnb",
			expected: ScreenRoute{
				Type: TypeScreens, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "proj-1",
			},
			tier: TierLNB,
		},
		{
			name:  "lnb user screen",
			input: "/tenant-1/designer/proj-7/screen/scr-9",
			expected: ScreenRoute{
				Type: TypeUserScreen, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "proj-7", ScreenID: "scr-9",
			},
			tier: TierLNB,
		},
		{
			name:  "lnb bare screen degrades to screens",
			input: "/tenant-1/designer/proj-7/screen",
			expected: ScreenRoute{
				Type: TypeScreens, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "proj-7",
			},
			tier: TierLNB,
		},
		{
			name:  "lnb unknown page",
			input: "/tenant-1/designer/proj-7/whatever",
			expected: ScreenRoute{
				Type: TypeDashboard, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "proj-7",
			},
			tier: TierLNB,
		},
		{
			name:  "lnb unknown module",
			input: "/tenant-1/inspector/proj-7/screens",
			expected: ScreenRoute{
				Type: TypeDashboard, Module: ModuleDesigner, TenantID: "tenant-1", ProjectID: "proj-7",
			},
			tier: TierLNB,
		},
		{
			name:  "lnb modeler project screens",
			input: "/tenant-1/modeler/proj-7/screens",
			expected: ScreenRoute{
				Type: TypeScreens, Module: ModuleModeler, TenantID: "tenant-1", ProjectID: "proj-7",
			},
			tier: TierLNB,
		},
		{
			name:     "legacy designer tables",
			input:    "/designer/tables",
			expected: ScreenRoute{Type: TypeTables, Module: ModuleDesigner},
			tier:     TierLegacyModule,
		},
		{
			name:     "legacy designer unknown",
			input:    "/designer/nope",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner},
			tier:     TierLegacyModule,
		},
		{
			name:     "legacy database fields",
			input:    "/database/fields",
			expected: ScreenRoute{Type: TypeAdminFields, Module: ModuleAdmin},
			tier:     TierLegacyModule,
		},
		{
			name:     "legacy database unknown",
			input:    "/database/nope",
			expected: ScreenRoute{Type: TypeAdminDB, Module: ModuleAdmin},
			tier:     TierLegacyModule,
		},
		{
			name:     "legacy flat dashboard",
			input:    "/dashboard",
			expected: ScreenRoute{Type: TypeDashboard, Module: ModuleDesigner},
			tier:     TierLegacyFlat,
		},
		{
			name:     "legacy flat unknown",
			input:    "/totally-unknown",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner},
			tier:     TierLegacyFlat,
		},
		{
			name:     "legacy flat databases",
			input:    "/databases",
			expected: ScreenRoute{Type: TypeAdminDB, Module: ModuleAdmin},
			tier:     TierLegacyFlat,
		},
		{
			name:     "legacy flat modeler",
			input:    "/modeler",
			expected: ScreenRoute{Type: TypeModeler, Module: ModuleModeler},
			tier:     TierLegacyFlat,
		},
		{
			name:     "legacy flat screen id",
			input:    "/screen/scr-1",
			expected: ScreenRoute{Type: TypeUserScreen, Module: ModuleDesigner, ScreenID: "scr-1"},
			tier:     TierLegacyFlat,
		},
		{
			name:     "legacy flat lnb id",
			input:    "/lnb/menu-1",
			expected: ScreenRoute{Type: TypeLNBMenu, Module: ModuleDesigner, MenuID: "menu-1"},
			tier:     TierLegacyFlat,
		},
		{
			name:     "legacy flat project id",
			input:    "/project/p-1",
			expected: ScreenRoute{Type: TypeDashboard, Module: ModuleDesigner, ProjectID: "p-1"},
			tier:     TierLegacyFlat,
		},
		{
			name:     "legacy flat project without id",
			input:    "/project",
			expected: ScreenRoute{Type: TypeProjects, Module: ModuleDesigner},
			tier:     TierLegacyFlat,
		},
		{
			name:     "query and fragment ignored",
			input:    "/tenant-1/designer/tables?sort=asc#top",
			expected: ScreenRoute{Type: TypeTables, Module: ModuleDesigner, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
		{
			name:     "duplicate slashes",
			input:    "//tenant-1///designer//sync/",
			expected: ScreenRoute{Type: TypeSync, Module: ModuleDesigner, TenantID: "tenant-1"},
			tier:     TierGNB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tier := Explain(tt.input)
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
			if tier != tt.tier {
				t.Errorf("tier(%q) = %s, want %s", tt.input, tier, tt.tier)
			}
			if r := Resolve(tt.input); r != got {
				t.Errorf("Resolve(%q) and Explain disagree: %+v vs %+v", tt.input, r, got)
			}
		})
	}
}

func TestTiersOrder(t *testing.T) {
	want := []Tier{TierEmpty, TierAdmin, TierLNB, TierGNB, TierLegacyModule, TierLegacyFlat}
	got := Tiers()
	if len(got) != len(want) {
		t.Fatalf("Tiers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tiers()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestReservedSegmentsNeverTenant(t *testing.T) {
	for _, seg := range ReservedSegments {
		for _, path := range []string{
			"/" + seg + "/designer/projects",
			"/" + seg + "/designer/p-1/dashboard",
		} {
			r, tier := Explain(path)
			if tier == TierGNB || tier == TierLNB {
				t.Errorf("Explain(%q) used tier %s", path, tier)
			}
			if r.TenantID != "" {
				t.Errorf("Resolve(%q) attached tenant %q", path, r.TenantID)
			}
		}
	}
}

func TestIsReserved(t *testing.T) {
	for _, seg := range ReservedSegments {
		if !IsReserved(seg) {
			t.Errorf("IsReserved(%q) = false", seg)
		}
	}
	for _, seg := range []string{"tenant-1", "default", "projects", ""} {
		if IsReserved(seg) {
			t.Errorf("IsReserved(%q) = true", seg)
		}
	}
}

func TestResolveNeverPanics(t *testing.T) {
	inputs := []string{
		"?", "#", "/?x=1", "/admin/?", "/a/b/c/d/e/f/g/h",
		"/ / /", "%%%", "/tenant/designer/%2F/screen/%2F",
	}
	for _, in := range inputs {
		r := Resolve(in)
		if !r.Type.Valid() {
			t.Errorf("Resolve(%q) produced invalid type %q", in, r.Type)
		}
		if !r.Module.Valid() {
			t.Errorf("Resolve(%q) produced invalid module %q", in, r.Module)
		}
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"/", nil},
		{"/a/b", []string{"a", "b"}},
		{"a//b/", []string{"a", "b"}},
		{"/a/b?c=d", []string{"a", "b"}},
		{"/a#frag/b", []string{"a"}},
		{"/a%2Fb/c%3Fd", []string{"a/b", "c?d"}},
		{"/%zz/b", []string{"%zz", "b"}},
	}

	for _, tt := range tests {
		got := Segments(tt.input)
		if len(got) != len(tt.expected) {
			t.Errorf("Segments(%q) = %v, want %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("Segments(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}
