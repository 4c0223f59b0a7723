package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			PageURL:    "ws://127.0.0.1:5673/shell",
			BaseURL:    "https://listen.tidal.com",
			Adapter:    "auto",
			IntervalMs: 500,
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    47836,
		},
		Presence: PresenceConfig{
			AgentURL: "http://127.0.0.1:6463",
		},
		Scrobble: ScrobbleConfig{},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Player
	if c.Player.PageURL == "" {
		c.Player.PageURL = d.Player.PageURL
	}
	if c.Player.BaseURL == "" {
		c.Player.BaseURL = d.Player.BaseURL
	}
	if c.Player.Adapter == "" {
		c.Player.Adapter = d.Player.Adapter
	}
	if c.Player.IntervalMs == 0 {
		c.Player.IntervalMs = d.Player.IntervalMs
	}

	// API
	if c.API.Host == "" {
		c.API.Host = d.API.Host
	}
	if c.API.Port == 0 {
		c.API.Port = d.API.Port
	}

	// Presence
	if c.Presence.AgentURL == "" {
		c.Presence.AgentURL = d.Presence.AgentURL
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
