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
	c.normalizeStorage()
	c.normalizeRemote()
	if err := c.normalizePlaces(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.DatabaseFile = strings.TrimSpace(c.Storage.DatabaseFile)
	if c.Storage.DatabaseFile == "" {
		c.Storage.DatabaseFile = defaultDatabaseFile
	}
	c.Storage.RecordKey = strings.TrimSpace(c.Storage.RecordKey)
	if c.Storage.BusyTimeoutMS <= 0 {
		c.Storage.BusyTimeoutMS = defaultBusyTimeoutMS
	}
}

func (c *Config) normalizeRemote() {
	if value, ok := os.LookupEnv("CHECKINQ_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Remote.BaseURL = value
	}
	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
	if value, ok := os.LookupEnv("CHECKINQ_API_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.Remote.APIToken = value
	}
	c.Remote.APIToken = strings.TrimSpace(c.Remote.APIToken)
	c.Remote.UserAgent = strings.TrimSpace(c.Remote.UserAgent)
	if c.Remote.UserAgent == "" {
		c.Remote.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizePlaces() error {
	var err error
	if c.Places.CatalogPath, err = expandPath(strings.TrimSpace(c.Places.CatalogPath)); err != nil {
		return fmt.Errorf("places.catalog_path: %w", err)
	}
	if c.Places.SuggestionCount <= 0 {
		c.Places.SuggestionCount = defaultSuggestionCount
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
