// Package paths resolves where the configurator reads its configuration
// and catalog and where it keeps committed overrides.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory name used below the platform config and data
// roots.
const appDirName = "configurator"

// DefaultCatalogName is the catalog file looked up in the config directory.
const DefaultCatalogName = "parts.json"

// Environment variables overriding the resolved locations.
const (
	EnvConfigDir = "CONFIGURATOR_CONFIG_DIR"
	EnvDataDir   = "CONFIGURATOR_DATA_DIR"
	EnvCatalog   = "CONFIGURATOR_CATALOG"
)

// platformDir holds platform lookups that tests can replace.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/configurator (fallback ~/.config/configurator)
// macOS:   ~/Library/Application Support/configurator
// Windows: %APPDATA%/configurator
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/configurator (fallback ~/.local/share/configurator)
// macOS, Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return DefaultConfigDir()
}

func xdgDir(env, homeRel string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appDirName), nil
}

// ResolveConfigDir returns the configuration directory: flag, then
// CONFIGURATOR_CONFIG_DIR, then DefaultConfigDir. Explicit values are made
// absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory: flag, then the config file
// value, then CONFIGURATOR_DATA_DIR, then DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// ResolveCatalog returns the catalog file: flag, then the config file value
// (relative values are taken from configDir), then CONFIGURATOR_CATALOG,
// then parts.json in configDir.
func ResolveCatalog(flag, configValue, configDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return underDir(configValue, configDir), nil
	}
	if env := os.Getenv(EnvCatalog); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Join(configDir, DefaultCatalogName), nil
}

// ResolveAssetsDir returns the directory model references are resolved
// against: the config value (relative values are taken from configDir), or
// the directory holding the catalog.
func ResolveAssetsDir(configValue, configDir, catalogPath string) string {
	if configValue != "" {
		return underDir(configValue, configDir)
	}
	return filepath.Dir(catalogPath)
}

func underDir(p, dir string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
