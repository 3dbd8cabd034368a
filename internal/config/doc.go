// Package config loads carbook's configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. The TOML file passed to Load, or ~/.config/carbook/config.toml
//  3. A .env file in the working directory, loaded with godotenv
//  4. CARBOOK_* environment variables
//
// Later sources win. A missing config file is not an error. .env never
// overrides variables already set in the process environment.
//
// # File Format
//
//	[api]
//	base_url = "http://127.0.0.1:8000"
//	timeout = "10s"
//
//	[store]
//	backend = "file"            # file | redis | sqlite | memory
//	path = "~/.local/share/carbook/store.toml"
//	redis_addr = "127.0.0.1:6379"
//	redis_password = ""
//	redis_db = 0
//	redis_prefix = "carbook:"
//
//	[log]
//	level = "info"              # debug | info | warn | error
//	file = "~/.local/share/carbook/carbook.log"
//
//	[refetch]
//	debounce = "100ms"
//	interval = "5m"             # periodic price refresh, "0s" disables
//
//	[auth]
//	required = true
//
//	[catalogd]
//	listen = "127.0.0.1:8000"
//	token_secret = "dev-secret-change-me"
//	allowed_origins = ["http://localhost:8081"]
//	fixed_otp = ""
//
//	[ui]
//	theme = "nightfox"
//
// Durations use time.ParseDuration syntax. Paths starting with ~ are
// expanded against the home directory.
//
// # Environment
//
// Each key maps to CARBOOK_<SECTION>_<KEY> in upper case, e.g.
// CARBOOK_STORE_BACKEND or CARBOOK_REFETCH_DEBOUNCE. Allowed origins are a
// comma-separated list.
//
// # Validation
//
// The resolved Config is checked with go-playground/validator: backend and
// log level must be known values, durations positive, redis_addr present
// for the redis backend. Errors mention the failing field.
package config
