package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"countdown/internal/platform"
	"countdown/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

const (
	minWindowSide = 200
	maxWindowSide = 4096
)

type yamlSettings struct {
	DefaultDurationSeconds int     `yaml:"default_duration_seconds"`
	RememberLastDuration   *bool   `yaml:"remember_last_duration,omitempty"`
	WindowWidth            float32 `yaml:"window_width"`
	WindowHeight           float32 `yaml:"window_height"`
}

// LoadSettings reads user preferences for appName.
// If the settings file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// SaveSettings writes user preferences for appName.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SettingsPath returns the location of the settings file for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		return "", fmt.Errorf("resolve settings path: %w", err)
	}
	return filepath.Join(configDir, settingsFileName), nil
}

// LoadSettingsFile reads preferences from configPath. Out-of-range fields
// keep their defaults.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettingsFile writes preferences to configPath, creating parent directories.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	remember := settings.RememberLastDuration
	fileData := yamlSettings{
		DefaultDurationSeconds: int(settings.DefaultDuration / time.Second),
		RememberLastDuration:   &remember,
		WindowWidth:            settings.WindowWidth,
		WindowHeight:           settings.WindowHeight,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if preferences.ValidDefaultSeconds(fileData.DefaultDurationSeconds) {
		settings.DefaultDuration = time.Duration(fileData.DefaultDurationSeconds) * time.Second
	}
	if fileData.RememberLastDuration != nil {
		settings.RememberLastDuration = *fileData.RememberLastDuration
	}
	if validWindowSide(fileData.WindowWidth) && validWindowSide(fileData.WindowHeight) {
		settings.WindowWidth = fileData.WindowWidth
		settings.WindowHeight = fileData.WindowHeight
	}
}

func validWindowSide(value float32) bool {
	return value >= minWindowSide && value <= maxWindowSide
}
