package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8087,
		DataDir:         "data",
		LogFile:         "helpassist.log",
		LogLevel:        "info",
		AllowAll:        false,
		ReplyDelayMinMS: 600,
		ReplyDelayMaxMS: 1400,
		RandomSeed:      0,
	}
}
