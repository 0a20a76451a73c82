package lnb

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/n0roo/navkit/internal/route"
)

//go:embed defaults/menu.yaml
var defaultMenuYAML []byte

// MenuFile is the static menu configuration stored as YAML
type MenuFile struct {
	Version string                    `yaml:"version"`
	Modules map[route.Module][]Config `yaml:"modules"`
}

// Menu returns the nodes configured for module
func (f *MenuFile) Menu(module route.Module) []Config {
	if f == nil || f.Modules == nil {
		return nil
	}
	return f.Modules[module.OrDefault()]
}

// ModuleNames returns configured modules in sorted order
func (f *MenuFile) ModuleNames() []route.Module {
	names := make([]route.Module, 0, len(f.Modules))
	for m := range f.Modules {
		names = append(names, m)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// DefaultMenu returns the built-in menu shipped with the binary
func DefaultMenu() (*MenuFile, error) {
	return parseMenu(defaultMenuYAML)
}

// FileSource reads and writes a MenuFile on disk
type FileSource struct {
	path string
}

// NewFileSource creates a new file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the menu file path
func (s *FileSource) Path() string {
	return s.path
}

// Load reads the menu file. A missing file yields the default menu.
func (s *FileSource) Load() (*MenuFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultMenu()
		}
		return nil, fmt.Errorf("메뉴 파일 읽기 실패: %w", err)
	}
	return parseMenu(data)
}

// Save writes f to the menu file
func (s *FileSource) Save(f *MenuFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("디렉토리 생성 실패: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("메뉴 직렬화 실패: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("메뉴 파일 저장 실패: %w", err)
	}
	return nil
}

func parseMenu(data []byte) (*MenuFile, error) {
	var f MenuFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("메뉴 파일 파싱 실패: %w", err)
	}
	if f.Modules == nil {
		f.Modules = make(map[route.Module][]Config)
	}
	return &f, nil
}
