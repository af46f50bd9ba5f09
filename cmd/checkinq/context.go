package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"checkinq/internal/checkin"
	"checkinq/internal/config"
	"checkinq/internal/logging"
	"checkinq/internal/manager"
	"checkinq/internal/places"
	"checkinq/internal/session"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// withSession opens the locked queue database for the duration of fn.
func (c *commandContext) withSession(fn func(*session.Session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	sess, err := session.Open(cfg, c.ensureLogger())
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess)
}

// withManager restores the persisted session and waits for background
// delivery before releasing it.
func (c *commandContext) withManager(ctx context.Context, fn func(*manager.Manager) error) error {
	return c.withSession(func(sess *session.Session) error {
		mgr, err := sess.Restore(ctx, nil)
		if errors.Is(err, checkin.ErrNoSession) {
			return errors.New("no session found; start one with `checkinq init --team <id>`")
		}
		if errors.Is(err, checkin.ErrCorruptState) {
			return fmt.Errorf("%w; start a new session with `checkinq init --team <id> --force`", err)
		}
		if err != nil {
			return err
		}
		defer mgr.Wait()
		return fn(mgr)
	})
}

// catalog loads the configured place catalog, or returns nil when none is set.
func (c *commandContext) catalog() (*places.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Places.CatalogPath == "" {
		return nil, nil
	}
	return places.LoadCatalog(cfg.Places.CatalogPath)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// locationFlags parses a --lat/--lon pair. Both or neither must be set.
func locationFlags(cmd *cobra.Command, lat, lon float64) (*checkin.Location, error) {
	latSet := cmd.Flags().Changed("lat")
	lonSet := cmd.Flags().Changed("lon")
	switch {
	case !latSet && !lonSet:
		return nil, nil
	case latSet != lonSet:
		return nil, errors.New("--lat and --lon must be given together")
	}
	location := &checkin.Location{Latitude: lat, Longitude: lon}
	if err := checkin.ValidateLocation(location); err != nil {
		return nil, err
	}
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("--lat %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("--lon %v out of range", lon)
	}
	return location, nil
}
