package types

import (
	"errors"
	"time"
)

// Config holds the settings the configurator is started with. It is filled
// from config.yaml, environment variables and flags by the CLI.
type Config struct {
	DataDir   string       `json:"data_dir" yaml:"data_dir"`
	Catalog   string       `json:"catalog" yaml:"catalog"`
	AssetsDir string       `json:"assets_dir" yaml:"assets_dir"`
	BaseColor string       `json:"base_color" yaml:"base_color"`
	Camera    CameraConfig `json:"camera" yaml:"camera"`
}

// CameraConfig tunes the camera animator and the frame sampler.
type CameraConfig struct {
	Duration  time.Duration `json:"duration" yaml:"duration"`
	FrameRate int           `json:"frame_rate" yaml:"frame_rate"`
}

// Defaults used when a config key is absent.
const (
	DefaultBaseColor       = "#222"
	DefaultCameraDuration  = 1200 * time.Millisecond
	DefaultCameraFrameRate = 60
)

// Config validation errors.
var (
	ErrDataDirEmpty     = errors.New("data_dir must not be empty")
	ErrInvalidDuration  = errors.New("camera duration must be positive")
	ErrInvalidFrameRate = errors.New("camera frame rate must be positive")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. BaseColor is validated by the scene when it
// is applied.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.Camera.Duration <= 0 {
		return ErrInvalidDuration
	}
	if c.Camera.FrameRate <= 0 {
		return ErrInvalidFrameRate
	}
	return nil
}

// FrameInterval returns the time between two rendered frames.
func (c CameraConfig) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / DefaultCameraFrameRate
	}
	return time.Second / time.Duration(c.FrameRate)
}
