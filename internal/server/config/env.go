package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with values from environment variables declared
// in the struct's env tags. Variables that are unset leave the current
// values untouched. Malformed values panic, matching the behavior of the
// other overlay stages.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
