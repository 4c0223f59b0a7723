package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.API.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("api: %w", err))
	}
	if err := c.Presence.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("presence: %w", err))
	}
	if err := c.Scrobble.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scrobble: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.PageURL != "" && !strings.HasPrefix(c.PageURL, "ws://") && !strings.HasPrefix(c.PageURL, "wss://") {
		return fmt.Errorf("page_url must be a ws:// or wss:// endpoint, got %q", c.PageURL)
	}
	switch c.Adapter {
	case "", "auto", "store", "mediasession", "dom":
		// valid
	default:
		return fmt.Errorf("invalid adapter: %s (must be auto, store, mediasession, or dom)", c.Adapter)
	}
	if c.IntervalMs < 0 {
		return errors.New("interval_ms must be non-negative")
	}
	return nil
}

// Validate checks APIConfig for errors.
func (c *APIConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}
	return nil
}

// Validate checks PresenceConfig for errors.
func (c *PresenceConfig) Validate() error {
	if c.Enabled && c.AgentURL == "" {
		return errors.New("agent_url is required when presence is enabled")
	}
	if c.AgentURL != "" {
		if _, err := url.Parse(c.AgentURL); err != nil {
			return fmt.Errorf("invalid agent_url: %w", err)
		}
	}
	return nil
}

// Validate checks ScrobbleConfig for errors.
func (c *ScrobbleConfig) Validate() error {
	if c.Enabled && c.URL == "" {
		return errors.New("url is required when scrobbling is enabled")
	}
	if c.URL != "" {
		if _, err := url.Parse(c.URL); err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
