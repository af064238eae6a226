package storage

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pomobar/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlInterval struct {
	WorkMinutes  float64 `yaml:"work"`
	PauseMinutes float64 `yaml:"pause"`
}

type yamlSettings struct {
	AutoStartNext *bool          `yaml:"auto_start_next,omitempty"`
	Pomodori      []yamlInterval `yaml:"pomodori"`
}

// LoadSettings reads the session configuration from YAML.
// If the file does not exist, the default configuration is returned.
// Entries are not validated here; the session rejects invalid ones on reset.
func LoadSettings(path string) (model.SessionConfig, error) {
	config := model.DefaultConfig()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&config, fileData)
	return config, nil
}

// SaveSettings writes the session configuration to YAML.
func SaveSettings(path string, config model.SessionConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	autoStart := !config.ManualAdvance
	fileData := yamlSettings{AutoStartNext: &autoStart}
	for _, entry := range config.Intervals() {
		fileData.Pomodori = append(fileData.Pomodori, yamlInterval{
			WorkMinutes:  entry.Work.Minutes(),
			PauseMinutes: entry.Pause.Minutes(),
		})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// EnsureSettings writes the default configuration if no settings file exists yet.
func EnsureSettings(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat settings file: %w", err)
	}
	return SaveSettings(path, model.DefaultConfig())
}

// SettingsPath resolves the settings file under the user config directory.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(config *model.SessionConfig, fileData yamlSettings) {
	if fileData.AutoStartNext != nil {
		config.ManualAdvance = !*fileData.AutoStartNext
	}

	config.Pomodori = nil
	for _, entry := range fileData.Pomodori {
		config.Pomodori = append(config.Pomodori, model.IntervalConfig{
			Work:  minutesToDuration(entry.WorkMinutes),
			Pause: minutesToDuration(entry.PauseMinutes),
		})
	}
}

// minutesToDuration rounds to whole seconds.
func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(math.Round(minutes*60)) * time.Second
}
