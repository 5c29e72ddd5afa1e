package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePhotos()
	c.normalizeExiftool()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePhotos() {
	if len(c.Photos.Extensions) == 0 {
		c.Photos.Extensions = append([]string(nil), defaultPhotoExtensions...)
		return
	}
	exts := make([]string, 0, len(c.Photos.Extensions))
	seen := make(map[string]struct{}, len(c.Photos.Extensions))
	for _, ext := range c.Photos.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append([]string(nil), defaultPhotoExtensions...)
	}
	c.Photos.Extensions = exts
}

func (c *Config) normalizeExiftool() {
	c.Exiftool.Binary = strings.TrimSpace(c.Exiftool.Binary)
	if value, ok := os.LookupEnv("WEATHERTAG_EXIFTOOL"); ok && strings.TrimSpace(value) != "" {
		c.Exiftool.Binary = strings.TrimSpace(value)
	}
	if c.Exiftool.Binary == "" {
		c.Exiftool.Binary = defaultExiftoolBinary
	}
	if c.Exiftool.TimeoutSeconds == 0 {
		c.Exiftool.TimeoutSeconds = defaultExiftoolTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
