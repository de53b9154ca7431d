// Package config loads and validates notifyd configuration from YAML files,
// with ${VAR} environment-variable expansion for secrets.
package config
