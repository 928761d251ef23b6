package preferences

import (
	"time"

	"quickcalc/internal/core/model"
)

const (
	// MinHoldDuration and MaxHoldDuration bound the editable hold time.
	MinHoldDuration = time.Second
	MaxHoldDuration = 30 * time.Second
)

// Settings defines editable user preferences.
type Settings struct {
	SecretEnabled     bool
	SecretCode        string
	HoldDuration      time.Duration
	DecimalIsOperator bool
}

// DefaultSettings returns default settings for QuickCalc.
func DefaultSettings() Settings {
	config := model.DefaultCalculatorConfig()
	return Settings{
		SecretEnabled:     config.Secret.Enabled,
		SecretCode:        config.Secret.Code,
		HoldDuration:      config.Secret.HoldDuration,
		DecimalIsOperator: config.DecimalIsOperator,
	}
}

// Normalized replaces out-of-range values with defaults.
func (settings Settings) Normalized() Settings {
	defaults := DefaultSettings()
	if !model.ValidSecretCode(settings.SecretCode) {
		settings.SecretCode = defaults.SecretCode
	}
	if settings.HoldDuration < MinHoldDuration || settings.HoldDuration > MaxHoldDuration {
		settings.HoldDuration = defaults.HoldDuration
	}
	return settings
}

// CalculatorConfig converts settings to CalculatorConfig.
func (settings Settings) CalculatorConfig() model.CalculatorConfig {
	settings = settings.Normalized()
	return model.CalculatorConfig{
		DecimalIsOperator: settings.DecimalIsOperator,
		Secret: model.SecretConfig{
			Enabled:      settings.SecretEnabled,
			Code:         settings.SecretCode,
			HoldDuration: settings.HoldDuration,
		},
	}
}
