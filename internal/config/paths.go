package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "ORBITVIEW_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "orbitview.yaml"
	// TOMLConfigFileName is the TOML alternative to ConfigFileName
	TOMLConfigFileName = "orbitview.toml"
	// ConfigDirName is the directory under XDG config locations
	ConfigDirName = "orbitview"
)

// searchPaths lists config candidates from highest to lowest priority.
// Working directory names are made absolute so callers can report them.
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	for _, name := range []string{ConfigFileName, TOMLConfigFileName} {
		if abs, err := filepath.Abs(name); err == nil {
			paths = append(paths, abs)
		} else {
			paths = append(paths, name)
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing config file, checking
// $ORBITVIEW_CONFIG, ./orbitview.yaml, ./orbitview.toml,
// $XDG_CONFIG_HOME/orbitview/config.yaml, ~/.config/orbitview/config.yaml
// and /etc/orbitview/config.yaml in that order. Empty if none exists.
func FindConfigPath() string {
	for _, p := range searchPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// DefaultConfigPath is where `orbitview init` writes a new config
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the parent directory of configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
