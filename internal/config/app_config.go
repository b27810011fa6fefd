// Package config loads shellprompt settings from the global and local YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/shellprompt/internal/utils"
)

const (
	// FormatRaw prints the styled prompt line.
	FormatRaw = "raw"
	// FormatJSON prints the modules as JSON.
	FormatJSON = "json"

	// ColorAlways keeps escape sequences when the prompt is captured by the shell.
	ColorAlways = "always"
	// ColorAuto styles only when writing to a terminal.
	ColorAuto = "auto"
	// ColorNever prints plain text.
	ColorNever = "never"
)

var errInvalidConfiguration = errors.New("invalid configuration")

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds prompt-wide settings and per-module sections.
type ApplicationConfiguration struct {
	Format string           `mapstructure:"format"`
	Theme  string           `mapstructure:"theme"`
	Color  string           `mapstructure:"color"`
	Cpp    CppConfiguration `mapstructure:"cpp"`
}

// CppConfiguration configures the C++ module.
type CppConfiguration struct {
	Disabled *bool              `mapstructure:"disabled"`
	Symbol   string             `mapstructure:"symbol"`
	Command  string             `mapstructure:"command"`
	Timeout  string             `mapstructure:"timeout"`
	Style    StyleConfiguration `mapstructure:"style"`
}

// StyleConfiguration overrides a module style.
type StyleConfiguration struct {
	Color string `mapstructure:"color"`
	Bold  *bool  `mapstructure:"bold"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
// Local values override global ones field by field.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	if validationErr := merged.Validate(); validationErr != nil {
		return ApplicationConfiguration{}, validationErr
	}
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	result.Cpp = result.Cpp.merge(override.Cpp)
	return result
}

// Validate rejects unknown formats, unknown color modes and unparsable timeouts.
func (config ApplicationConfiguration) Validate() error {
	switch strings.ToLower(config.Format) {
	case "", FormatRaw, FormatJSON:
	default:
		return fmt.Errorf("%w: unsupported format %q", errInvalidConfiguration, config.Format)
	}
	switch strings.ToLower(config.Color) {
	case "", ColorAlways, ColorAuto, ColorNever:
	default:
		return fmt.Errorf("%w: unsupported color mode %q", errInvalidConfiguration, config.Color)
	}
	if _, err := config.Cpp.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// OutputFormat returns the configured format, raw when unset.
func (config ApplicationConfiguration) OutputFormat() string {
	if config.Format == "" {
		return FormatRaw
	}
	return strings.ToLower(config.Format)
}

// ColorMode returns the configured color mode, always when unset.
func (config ApplicationConfiguration) ColorMode() string {
	if config.Color == "" {
		return ColorAlways
	}
	return strings.ToLower(config.Color)
}

// IsDisabled reports whether the module was switched off.
func (config CppConfiguration) IsDisabled() bool {
	return config.Disabled != nil && *config.Disabled
}

// TimeoutDuration parses the timeout; an empty value means no timeout.
func (config CppConfiguration) TimeoutDuration() (time.Duration, error) {
	trimmed := strings.TrimSpace(config.Timeout)
	if trimmed == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: cpp.timeout %q: %w", errInvalidConfiguration, config.Timeout, err)
	}
	if duration < 0 {
		return 0, fmt.Errorf("%w: cpp.timeout %q is negative", errInvalidConfiguration, config.Timeout)
	}
	return duration, nil
}

func (config CppConfiguration) merge(override CppConfiguration) CppConfiguration {
	result := config
	if override.Disabled != nil {
		result.Disabled = cloneBool(override.Disabled)
	}
	if override.Symbol != "" {
		result.Symbol = override.Symbol
	}
	if override.Command != "" {
		result.Command = override.Command
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	result.Style = result.Style.merge(override.Style)
	return result
}

func (config StyleConfiguration) merge(override StyleConfiguration) StyleConfiguration {
	result := config
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Bold != nil {
		result.Bold = cloneBool(override.Bold)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
