// Package config provides 12-factor configuration for the scanner.
//
// Settings come from A11Y_-prefixed environment variables with defaults.
// CLI flags override them. Rule selection lives in a separate profile file
// (YAML or TOML) named by A11Y_PROFILE or --profile.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	profile, err := config.LoadProfile(cfg.Engine.Profile)
//
// Environment Variables:
//   - A11Y_LOG_LEVEL, A11Y_LOG_DEV
//   - A11Y_SITE_URL, A11Y_FAIL_POLICY, A11Y_PROFILE, A11Y_MAX_HTML_BYTES, A11Y_SANITIZE
//   - A11Y_QUARANTINE_AFTER, A11Y_QUARANTINE_COOLDOWN
//   - A11Y_WORKERS
//   - A11Y_FETCH_TIMEOUT, A11Y_FETCH_RPS, A11Y_FETCH_RETRIES, A11Y_FETCH_USER_AGENT
package config
