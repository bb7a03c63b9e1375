package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:     30000, // 30 seconds
		RateLimit:   0,     // unlimited
		Headers:     nil,
		History:     BoolPtr(false),
		HistoryPath: "",
		Verbose:     BoolPtr(false),
		NoColor:     BoolPtr(false),
	}
}
