package cmd

import (
	"os"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// AppConfig is the optional worth.toml configuration file, read from the
// working directory. Flags override file values.
type AppConfig struct {
	DocumentFile     string      `toml:"document_file"`
	TimeZone         string      `toml:"time_zone"`
	ActiveStrategy   string      `toml:"active_strategy"`
	ExcludedAccounts []string    `toml:"excluded_accounts"`
	Summary          string      `toml:"summary"` // delta, basis, or dietz
	SettingsFile     string      `toml:"settings_file"`
	Chart            ChartConfig `toml:"chart"`
}

type ChartConfig struct {
	HistoryFile  string `toml:"history_file"`
	ForecastFile string `toml:"forecast_file"`
}

const configFile = "worth.toml"

var (
	configOnce sync.Once
	config     AppConfig
)

// Config loads worth.toml once, falling back to defaults when absent.
func Config() AppConfig {
	configOnce.Do(func() {
		config = AppConfig{
			DocumentFile: "worth.jsonl",
			SettingsFile: ".worth-settings.json",
			Chart: ChartConfig{
				HistoryFile:  "worth-history.png",
				ForecastFile: "worth-forecast.png",
			},
		}
		raw, err := os.ReadFile(configFile)
		if os.IsNotExist(err) {
			return
		}
		if err != nil {
			logger.Warn().Err(err).Str("file", configFile).Msg("could not read config")
			return
		}
		if err := toml.Unmarshal(raw, &config); err != nil {
			logger.Warn().Err(err).Str("file", configFile).Msg("could not parse config")
		}
	})
	return config
}

// DocumentPath resolves the document file: the -f flag wins over worth.toml.
func DocumentPath() string {
	if *documentFile != "" {
		return *documentFile
	}
	return Config().DocumentFile
}

// ExcludedAccountMap converts the configured exclusion list to the engine's
// map form.
func ExcludedAccountMap() map[string]bool {
	res := map[string]bool{}
	for _, id := range Config().ExcludedAccounts {
		res[id] = true
	}
	return res
}
