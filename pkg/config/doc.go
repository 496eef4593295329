// Package config loads environment variables into tagged structs, reading
// an optional .env file first. Each configuration type is parsed once per
// process and cached, so every component constructed from the same Config
// type observes identical values.
//
// # Usage
//
//	type SessionConfig struct {
//	    Name     string        `env:"SESSION_NAME" envDefault:"cms_session"`
//	    Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"2h"`
//	}
//
//	var cfg SessionConfig
//	if err := config.Load(&cfg); err != nil { ... }
package config
