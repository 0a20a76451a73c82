package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global navkit directory
	GlobalDirName = ".navkit"
	// ProjectDirName is the name of the project-level directory
	ProjectDirName = ".navkit"
)

// GlobalDir returns the global navkit directory path (~/.navkit)
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalDirName)
}

// GlobalDBPath returns the global database path (~/.navkit/navkit.db)
func GlobalDBPath() string {
	return filepath.Join(GlobalDir(), "navkit.db")
}

// GlobalConfigPath returns the global config file path (~/.navkit/config.yaml)
func GlobalConfigPath() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// ProjectDir returns the project-level navkit directory
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, ProjectDirName)
}

// ProjectConfigPath returns the config file path for a project
func ProjectConfigPath(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "config.yaml")
}

// FindProjectRoot walks up from the working directory looking for .navkit
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectDirName)); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}

// DefaultConfigPath prefers the project config and falls back to the global one
func DefaultConfigPath() string {
	projectPath := ProjectConfigPath(FindProjectRoot())
	if _, err := os.Stat(projectPath); err == nil {
		return projectPath
	}
	return GlobalConfigPath()
}
