// Package config loads runtime configuration from multiple sources (YAML
// files, environment variables, CLI flags) with precedence: CLI flags > YAML
// config > Environment variables > Defaults. It exposes strongly typed
// settings — server timeouts, rate limiting, the pricing service endpoint,
// and the initial tariff — to the rest of the application.
package config
