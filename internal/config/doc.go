// Package config loads, normalizes, and validates vidindex configuration.
//
// Configuration is TOML with defaults applied for every key, so an absent
// file is valid. Path values support ~ expansion and are resolved to absolute
// paths during normalization. Validation errors name the offending key in
// section.key form.
package config
