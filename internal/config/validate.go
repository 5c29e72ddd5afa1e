package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateExiftool(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	if err := ValidateThreshold(c.Matching.ThresholdMinutes); err != nil {
		return fmt.Errorf("matching.threshold_minutes %w", err)
	}
	return nil
}

// ValidateThreshold rejects thresholds that are negative, NaN or infinite.
func ValidateThreshold(minutes float64) error {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return errors.New("must be a finite number")
	}
	if minutes < 0 {
		return errors.New("must be >= 0")
	}
	return nil
}

func (c *Config) validateExiftool() error {
	if c.Exiftool.TimeoutSeconds <= 0 {
		return errors.New("exiftool.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognised", c.Logging.Level)
	}
	return nil
}
