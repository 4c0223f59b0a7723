package config

// Config is the root configuration structure.
type Config struct {
	Player        PlayerConfig        `toml:"player"`
	API           APIConfig           `toml:"api"`
	Presence      PresenceConfig      `toml:"presence"`
	Scrobble      ScrobbleConfig      `toml:"scrobble"`
	Notifications NotificationsConfig `toml:"notifications"`
	Hotkeys       map[string]string   `toml:"hotkeys"`
	Log           LogConfig           `toml:"log"`
}

// PlayerConfig holds extraction and synchronization settings.
type PlayerConfig struct {
	// PageURL is the websocket endpoint of the wrapper shell.
	PageURL string `toml:"page_url"`
	// BaseURL is the web player origin, used to resolve track links.
	BaseURL string `toml:"base_url"`
	// Adapter selects the extraction strategy: auto, store,
	// mediasession or dom.
	Adapter string `toml:"adapter"`
	// IntervalMs is the polling interval in milliseconds.
	IntervalMs int `toml:"interval_ms"`
	// SkipArtists are artist names whose tracks are skipped
	// automatically while playing.
	SkipArtists []string `toml:"skip_artists"`
}

// APIConfig holds local control API settings.
type APIConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// PresenceConfig holds rich-presence settings.
type PresenceConfig struct {
	Enabled  bool   `toml:"enabled"`
	AgentURL string `toml:"agent_url"`
}

// ScrobbleConfig holds scrobble webhook settings.
type ScrobbleConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
}

// NotificationsConfig holds desktop notification settings.
type NotificationsConfig struct {
	Enabled bool `toml:"enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
