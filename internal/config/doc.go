// Package config loads and validates application settings from an optional
// YAML file, an optional .env file and LINGO_-prefixed environment variables.
package config
