// Package config defines the application configuration and loads it from
// environment variables and an optional YAML file. Environment variables
// (prefix REVLOG_) take precedence over file values, which take precedence
// over defaults. Loaded configuration is validated before use.
package config
