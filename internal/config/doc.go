// Package config loads, normalizes, and validates transcriber configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TRANSCRIBER_NTFY_TOPIC. The Config type centralizes every knob the CLI
/// needs: directories, the engine decode profile, and notification settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
