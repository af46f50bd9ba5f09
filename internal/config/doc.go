// Package config loads, normalizes, and validates checkinq configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment overrides such as CHECKINQ_API_TOKEN.
// The Config type centralizes the data directory, the durable record key, the
// remote endpoint, and logging knobs so the CLI resolves everything in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
