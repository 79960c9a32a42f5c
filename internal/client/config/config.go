package config

import (
	"fmt"
	"os"
	"time"
)

// Blob store backends.
const (
	BlobSQLite = "sqlite"
	BlobS3     = "s3"
)

// Config holds runtime settings for the AirControl CLI and local API.
//
// Durations are time.Duration values; config files may spell them as "3s"
// or as integer nanoseconds.
type Config struct {
	APIBaseURL          string        `env:"API_BASE_URL"`
	DatabasePath        string        `env:"DATABASE_PATH"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	LookupCacheTTL      time.Duration `env:"LOOKUP_CACHE_TTL"`
	GeocoderURL         string        `env:"GEOCODER_URL"`
	GeocoderRatePerSec  float64       `env:"GEOCODER_RATE_PER_SEC"`
	BlobBackend         string        `env:"BLOB_BACKEND"`
	S3Region            string        `env:"S3_REGION"`
	S3AccessKey         string        `env:"S3_ACCESS_KEY"`
	S3SecretKey         string        `env:"S3_SECRET_KEY"`
	S3BaseEndpoint      string        `env:"S3_BASE_ENDPOINT"`
	S3Bucket            string        `env:"S3_BUCKET"`
	S3URLExpiry         time.Duration `env:"S3_URL_EXPIRY"`
	ObjectURLDir        string        `env:"OBJECT_URL_DIR"`
	OfflineLogin        bool          `env:"OFFLINE_LOGIN"`
	LogLevel            string        `env:"LOG_LEVEL"`
	ListenAddr          string        `env:"LISTEN_ADDR"`
}

// LoadDefaults populates c with defaults suitable for a local setup.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5151"
	c.DatabasePath = "aircontrol.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.LookupCacheTTL = 5 * time.Minute
	c.GeocoderURL = "https://nominatim.openstreetmap.org"
	c.GeocoderRatePerSec = 1
	c.BlobBackend = BlobSQLite
	c.S3Region = "us-east-1"
	c.S3Bucket = "aircontrol-photos"
	c.S3URLExpiry = 15 * time.Minute
	c.ObjectURLDir = os.TempDir()
	c.OfflineLogin = false
	c.LogLevel = "info"
	c.ListenAddr = "127.0.0.1:8088"
}

// Validate rejects combinations the client cannot start with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	switch c.BlobBackend {
	case BlobSQLite:
	case BlobS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3_bucket is required for the s3 blob backend")
		}
	default:
		return fmt.Errorf("unknown blob_backend %q", c.BlobBackend)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online_check_interval must be positive")
	}
	return nil
}

// LoadConfig builds a Config from defaults, then an optional config file,
// then the environment, then command-line flags. Later sources win. It
// panics on malformed input.
func LoadConfig() *Config {
	cfg, err := load(os.Args[1:], ".env")
	if err != nil {
		panic(err)
	}
	return cfg
}

func load(args []string, dotenv string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, dotenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
