package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// UserSettings represents the user's personal settings, persisted between runs
type UserSettings struct {
	Volume float64 `json:"volume"`
}

// settingsFilePath allows tests to redirect the settings file
var settingsFilePath = func() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".aria-settings.json")
}

// LoadUserSettings loads settings from the settings file
func LoadUserSettings() (*UserSettings, error) {
	settingsPath := settingsFilePath()

	// If file doesn't exist, return default settings
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return &UserSettings{Volume: 1.0}, nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	if settings.Volume < 0 {
		settings.Volume = 0
	}
	if settings.Volume > 1 {
		settings.Volume = 1
	}

	return &settings, nil
}

// SaveUserSettings saves settings to the settings file
func SaveUserSettings(settings *UserSettings) error {
	settingsPath := settingsFilePath()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(settingsPath, data, 0644)
}
