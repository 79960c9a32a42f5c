// Package config loads runtime configuration for the AirControl binaries.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are YAML, anything else is JSON.
//  3. Environment: AIRCONTROL_* variables, with a .env file in the working
//     directory loaded first when present.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string        API base URL
//	-d string        local database file
//	-i int           online status check interval (seconds)
//	-l string        log level (debug, info, warn, error)
//	-b string        blob backend: sqlite or s3
//	-listen string   local API listen address
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5151",
//	  "database_path": "aircontrol.db",
//	  "online_check_interval": "3s",
//	  "lookup_cache_ttl": "5m",
//	  "geocoder_url": "https://nominatim.openstreetmap.org",
//	  "geocoder_rate_per_sec": 1,
//	  "blob_backend": "s3",
//	  "s3_region": "us-east-1",
//	  "s3_access_key": "admin",
//	  "s3_secret_key": "secretpassword",
//	  "s3_base_endpoint": "http://127.0.0.1:9000/",
//	  "s3_bucket": "aircontrol-photos",
//	  "s3_url_expiry": "15m",
//	  "object_url_dir": "/tmp",
//	  "offline_login": false,
//	  "log_level": "info",
//	  "listen_addr": "127.0.0.1:8088"
//	}
//
// The environment variable for a key is its upper-cased name with the
// AIRCONTROL_ prefix, e.g. AIRCONTROL_API_BASE_URL.
package config
