package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/etnz/worth"
)

// DecodeSettings loads the persisted display settings. They carry the
// transaction exclusion map across runs, so a committed deposit is never
// offered as a cash flow candidate again. A missing file yields defaults.
func DecodeSettings() (*worth.DisplaySettings, error) {
	path := Config().SettingsFile
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &worth.DisplaySettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read settings %q: %w", path, err)
	}
	ds := &worth.DisplaySettings{}
	if err := json.Unmarshal(raw, ds); err != nil {
		return nil, fmt.Errorf("could not parse settings %q: %w", path, err)
	}
	return ds, nil
}

// EncodeSettings persists the display settings.
func EncodeSettings(ds *worth.DisplaySettings) error {
	path := Config().SettingsFile
	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("could not write settings %q: %w", path, err)
	}
	return nil
}

// summarySelection resolves the configured period summary figure.
func summarySelection(flagValue string) worth.PeriodSummarySelection {
	v := flagValue
	if v == "" {
		v = Config().Summary
	}
	switch v {
	case "basis":
		return worth.DeltaTotalBasis
	case "dietz":
		return worth.ModifiedDietz
	default:
		return worth.DeltaMarketValue
	}
}
