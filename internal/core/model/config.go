package model

import "time"

// DefaultSecretCode is the digit sequence that opens the secret window.
const DefaultSecretCode = "123"

// DefaultHoldDuration is how long "=" must be held to open the secret window.
const DefaultHoldDuration = 5 * time.Second

// SecretConfig controls the hidden window triggers.
type SecretConfig struct {
	Enabled      bool
	Code         string
	HoldDuration time.Duration
}

// CalculatorConfig contains runtime settings for the calculator logic.
type CalculatorConfig struct {
	// DecimalIsOperator makes "." take part in consecutive-operator replacement.
	DecimalIsOperator bool
	Secret            SecretConfig
}

// DefaultCalculatorConfig returns the configuration used when nothing is stored.
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		DecimalIsOperator: true,
		Secret: SecretConfig{
			Enabled:      true,
			Code:         DefaultSecretCode,
			HoldDuration: DefaultHoldDuration,
		},
	}
}

// ValidSecretCode reports whether code is a non-empty run of ASCII digits.
func ValidSecretCode(code string) bool {
	if code == "" || len(code) > 8 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
