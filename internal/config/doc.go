// Package config loads the console's TOML configuration.
//
// Load resolves the path (explicit, else ~/.config/odonto/config.toml) and
// falls back to defaults when the file is missing. Empty or out-of-range
// fields keep their defaults:
//
//	api_url = "http://127.0.0.1:3000/api"
//	api_token = ""
//	page_size = 10                 # clamped to 200
//	request_timeout_seconds = 5
//	log_file = "~/.local/state/odonto/odonto.log"
//
// Tilde expansion is applied to the config path and log_file. A parse error
// is returned to the caller; a missing file is not an error.
package config
