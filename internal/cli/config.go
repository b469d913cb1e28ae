package cli

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/configurator/internal/paths"
	"github.com/mesh-intelligence/configurator/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "CONFIGURATOR"

	cfgKeyDataDir         = "data_dir"
	cfgKeyCatalog         = "catalog"
	cfgKeyAssetsDir       = "assets_dir"
	cfgKeyBaseColor       = "base_color"
	cfgKeyCameraDuration  = "camera.duration"
	cfgKeyCameraFrameRate = "camera.frame_rate"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Configurator configuration

# Parts catalog (JSON or YAML). Relative paths are taken from this directory.
catalog: parts.json

# Directory model references are resolved against (default: the catalog's directory)
# assets_dir: models

# Receiver finish: black, gray, fde, od-green or a hex colour
base_color: black

camera:
  duration: 1.2s
  frame_rate: 60

# Data directory for committed overrides (optional; overridable by --data-dir)
# data_dir:
`

// starterCatalog is written by init when no catalog exists yet.
//
//go:embed starter_parts.json
var starterCatalog []byte

// settings is everything a command needs from flags, config.yaml and the
// environment.
type settings struct {
	configDir string
	config    types.Config
	logger    *slog.Logger
}

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBaseColor, types.DefaultBaseColor)
	v.SetDefault(cfgKeyCameraDuration, types.DefaultCameraDuration)
	v.SetDefault(cfgKeyCameraFrameRate, types.DefaultCameraFrameRate)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// loadSettings resolves directories, reads the config and validates it.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, systemError("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, systemError("%w", err)
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, systemError("resolve data dir: %w", err)
	}
	catalogPath, err := paths.ResolveCatalog(flags.catalog, v.GetString(cfgKeyCatalog), configDir)
	if err != nil {
		return nil, systemError("resolve catalog: %w", err)
	}

	cfg := types.Config{
		DataDir:   dataDir,
		Catalog:   catalogPath,
		AssetsDir: paths.ResolveAssetsDir(v.GetString(cfgKeyAssetsDir), configDir, catalogPath),
		BaseColor: v.GetString(cfgKeyBaseColor),
		Camera: types.CameraConfig{
			Duration:  v.GetDuration(cfgKeyCameraDuration),
			FrameRate: v.GetInt(cfgKeyCameraFrameRate),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filepath.Join(configDir, configFileExt), err)
	}

	s := &settings{
		configDir: configDir,
		config:    cfg,
		logger:    newLogger(cmd.ErrOrStderr()),
	}
	s.logger.Debug("configuration loaded",
		"config_dir", configDir,
		"data_dir", cfg.DataDir,
		"catalog", cfg.Catalog,
		"assets_dir", cfg.AssetsDir)
	return s, nil
}
