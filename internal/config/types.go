package config

// Config is the top-level helpassist configuration, corresponding to
// .helpassist.yml.
type Config struct {
	Port     int    `yaml:"port" koanf:"port"`
	DataDir  string `yaml:"data_dir" koanf:"data_dir"`
	LogFile  string `yaml:"log_file" koanf:"log_file"`
	LogLevel string `yaml:"log_level" koanf:"log_level"`
	AllowAll bool   `yaml:"allow_all_cors" koanf:"allow_all_cors"`

	// Reply delay bounds for the simulated "composing a reply" pause,
	// in milliseconds.
	ReplyDelayMinMS int `yaml:"reply_delay_min_ms" koanf:"reply_delay_min_ms"`
	ReplyDelayMaxMS int `yaml:"reply_delay_max_ms" koanf:"reply_delay_max_ms"`

	// RandomSeed fixes greeting and delay sampling for reproducible
	// runs. 0 seeds from the clock.
	RandomSeed int64 `yaml:"random_seed" koanf:"random_seed"`
}
