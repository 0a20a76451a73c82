package route

// ScreenType is the kind of screen a route points at
type ScreenType string

const (
	TypeProjects        ScreenType = "projects"
	TypeDashboard       ScreenType = "dashboard"
	TypeScreens         ScreenType = "screens"
	TypeUserScreen      ScreenType = "user-screen"
	TypeLNBMenu         ScreenType = "lnb-menu"
	TypeSettings        ScreenType = "settings"
	TypeIllustration    ScreenType = "illustration"
	TypeProjectSettings ScreenType = "project-settings"
	TypeNoScreen        ScreenType = "no-screen"
	TypeTables          ScreenType = "tables"
	TypeSync            ScreenType = "sync"
	TypeFunctions       ScreenType = "functions"
	TypeModeler         ScreenType = "modeler"
	TypeViewer          ScreenType = "viewer"

	TypeAdminDB           ScreenType = "admin-db"
	TypeAdminFields       ScreenType = "admin-fields"
	TypeAdminTables       ScreenType = "admin-tables"
	TypeAdminVariables    ScreenType = "admin-variables"
	TypeAdminFunctions    ScreenType = "admin-functions"
	TypeAdminLNBConfig    ScreenType = "admin-lnbconfig"
	TypeAdminScreenConfig ScreenType = "admin-screenconfig"
)

// Module is one of the top-level applications of the suite
type Module string

const (
	ModuleDesigner Module = "designer"
	ModuleModeler  Module = "modeler"
	ModuleViewer   Module = "viewer"
	ModuleAdmin    Module = "admin"
)

// ScreenRoute describes where the app currently is.
// Empty fields are absent.
type ScreenRoute struct {
	Type      ScreenType `json:"type" yaml:"type"`
	Module    Module     `json:"module,omitempty" yaml:"module,omitempty"`
	TenantID  string     `json:"tenantId,omitempty" yaml:"tenant_id,omitempty"`
	ScreenID  string     `json:"screenId,omitempty" yaml:"screen_id,omitempty"`
	MenuID    string     `json:"menuId,omitempty" yaml:"menu_id,omitempty"`
	ProjectID string     `json:"projectId,omitempty" yaml:"project_id,omitempty"`
}

// AllTypes lists every screen type
var AllTypes = []ScreenType{
	TypeProjects, TypeDashboard, TypeScreens, TypeUserScreen, TypeLNBMenu,
	TypeSettings, TypeIllustration, TypeProjectSettings, TypeNoScreen,
	TypeTables, TypeSync, TypeFunctions, TypeModeler, TypeViewer,
	TypeAdminDB, TypeAdminFields, TypeAdminTables, TypeAdminVariables,
	TypeAdminFunctions, TypeAdminLNBConfig, TypeAdminScreenConfig,
}

// AllModules lists every module
var AllModules = []Module{ModuleDesigner, ModuleModeler, ModuleViewer, ModuleAdmin}

// GNBTypes are module-common, project-independent screens
var GNBTypes = []ScreenType{
	TypeProjects, TypeTables, TypeFunctions, TypeSync, TypeSettings, TypeModeler, TypeViewer,
}

// LNBTypes are project-scoped screens
var LNBTypes = []ScreenType{
	TypeUserScreen, TypeLNBMenu, TypeDashboard, TypeIllustration, TypeProjectSettings, TypeNoScreen,
}

// Valid reports whether t is a known screen type
func (t ScreenType) Valid() bool {
	for _, v := range AllTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsAdmin reports whether t is one of the admin-* screens
func (t ScreenType) IsAdmin() bool {
	_, ok := adminPages[t]
	return ok
}

// IsGNB reports whether t is a module-common screen.
// screens is neither GNB nor LNB; its class depends on the module.
func (t ScreenType) IsGNB() bool {
	return containsType(GNBTypes, t)
}

// IsLNB reports whether t is a project-scoped screen
func (t ScreenType) IsLNB() bool {
	return containsType(LNBTypes, t)
}

// Valid reports whether m is a known module
func (m Module) Valid() bool {
	for _, v := range AllModules {
		if v == m {
			return true
		}
	}
	return false
}

// OrDefault returns m, or designer when m is empty
func (m Module) OrDefault() Module {
	if m == "" {
		return ModuleDesigner
	}
	return m
}

// Equal compares two routes field by field
func (r ScreenRoute) Equal(o ScreenRoute) bool {
	return r == o
}

func containsType(list []ScreenType, t ScreenType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
