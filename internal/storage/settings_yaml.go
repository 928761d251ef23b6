package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"quickcalc/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	SecretEnabled     *bool  `yaml:"secret_enabled,omitempty"`
	SecretCode        string `yaml:"secret_code,omitempty"`
	HoldSeconds       int    `yaml:"hold_seconds,omitempty"`
	DecimalIsOperator *bool  `yaml:"decimal_is_operator,omitempty"`
}

// LoadSettings reads user preferences from the per-user config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from configPath.
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
	return settings.Normalized(), nil
}

// SaveSettings writes user preferences to the per-user config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	settings = settings.Normalized()
	fileData := yamlSettings{
		SecretEnabled:     &settings.SecretEnabled,
		SecretCode:        settings.SecretCode,
		HoldSeconds:       int(settings.HoldDuration / time.Second),
		DecimalIsOperator: &settings.DecimalIsOperator,
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

// ResolveConfigPath returns the default settings location for appName.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.SecretEnabled != nil {
		settings.SecretEnabled = *fileData.SecretEnabled
	}
	if fileData.SecretCode != "" {
		settings.SecretCode = fileData.SecretCode
	}
	if fileData.HoldSeconds > 0 {
		settings.HoldDuration = time.Duration(fileData.HoldSeconds) * time.Second
	}
	if fileData.DecimalIsOperator != nil {
		settings.DecimalIsOperator = *fileData.DecimalIsOperator
	}
}
