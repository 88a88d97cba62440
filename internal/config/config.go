// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Viewport Viewport `yaml:"viewport"`
	Region   Region   `yaml:"region"`
	Picking  Picking  `yaml:"picking"`
	Logging  Logging  `yaml:"logging"`
}

// Viewport holds display dimensions used for ray unprojection.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Region points at the region definition the editor works on.
type Region struct {
	File string `yaml:"file"` // empty selects the built-in default region
}

// Picking holds raycast traversal bounds.
type Picking struct {
	MaxDistance float64 `yaml:"max_distance"`
	MaxSteps    int     `yaml:"max_steps"`
}

// Logging holds log output settings.
type Logging struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Viewport: Viewport{Width: 1280, Height: 720},
		Picking:  Picking{MaxDistance: 200000, MaxSteps: 8192},
		Logging:  Logging{Level: "info"},
	}
}
