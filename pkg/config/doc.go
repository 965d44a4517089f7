// Package config loads typed configuration from the environment.
//
// Each package declares its own Config struct with caarlos0/env tags; Load
// fills it after reading a .env file (if present) with godotenv. Parsed
// values are cached per type, so repeated loads of the same struct are cheap
// and consistent across the process.
//
//	var cfg subscription.Config
//	if err := config.Load(&cfg); err != nil { ... }
//
// Variables already set in the process environment win over .env values.
package config
