package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/aircontrol/internal/flagx"
	"github.com/dmitrijs2005/aircontrol/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. It is pre-filled from the current
// Config so keys absent from the file keep their values.
type fileConfig struct {
	APIBaseURL          string         `json:"api_base_url" yaml:"api_base_url"`
	DatabasePath        string         `json:"database_path" yaml:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	LookupCacheTTL      timex.Duration `json:"lookup_cache_ttl" yaml:"lookup_cache_ttl"`
	GeocoderURL         string         `json:"geocoder_url" yaml:"geocoder_url"`
	GeocoderRatePerSec  float64        `json:"geocoder_rate_per_sec" yaml:"geocoder_rate_per_sec"`
	BlobBackend         string         `json:"blob_backend" yaml:"blob_backend"`
	S3Region            string         `json:"s3_region" yaml:"s3_region"`
	S3AccessKey         string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3Bucket            string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3URLExpiry         timex.Duration `json:"s3_url_expiry" yaml:"s3_url_expiry"`
	ObjectURLDir        string         `json:"object_url_dir" yaml:"object_url_dir"`
	OfflineLogin        bool           `json:"offline_login" yaml:"offline_login"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	ListenAddr          string         `json:"listen_addr" yaml:"listen_addr"`
}

func fileConfigFrom(c *Config) fileConfig {
	return fileConfig{
		APIBaseURL:          c.APIBaseURL,
		DatabasePath:        c.DatabasePath,
		OnlineCheckInterval: timex.Duration{Duration: c.OnlineCheckInterval},
		LookupCacheTTL:      timex.Duration{Duration: c.LookupCacheTTL},
		GeocoderURL:         c.GeocoderURL,
		GeocoderRatePerSec:  c.GeocoderRatePerSec,
		BlobBackend:         c.BlobBackend,
		S3Region:            c.S3Region,
		S3AccessKey:         c.S3AccessKey,
		S3SecretKey:         c.S3SecretKey,
		S3BaseEndpoint:      c.S3BaseEndpoint,
		S3Bucket:            c.S3Bucket,
		S3URLExpiry:         timex.Duration{Duration: c.S3URLExpiry},
		ObjectURLDir:        c.ObjectURLDir,
		OfflineLogin:        c.OfflineLogin,
		LogLevel:            c.LogLevel,
		ListenAddr:          c.ListenAddr,
	}
}

func (f fileConfig) apply(c *Config) {
	c.APIBaseURL = f.APIBaseURL
	c.DatabasePath = f.DatabasePath
	c.OnlineCheckInterval = f.OnlineCheckInterval.Duration
	c.LookupCacheTTL = f.LookupCacheTTL.Duration
	c.GeocoderURL = f.GeocoderURL
	c.GeocoderRatePerSec = f.GeocoderRatePerSec
	c.BlobBackend = f.BlobBackend
	c.S3Region = f.S3Region
	c.S3AccessKey = f.S3AccessKey
	c.S3SecretKey = f.S3SecretKey
	c.S3BaseEndpoint = f.S3BaseEndpoint
	c.S3Bucket = f.S3Bucket
	c.S3URLExpiry = f.S3URLExpiry.Duration
	c.ObjectURLDir = f.ObjectURLDir
	c.OfflineLogin = f.OfflineLogin
	c.LogLevel = f.LogLevel
	c.ListenAddr = f.ListenAddr
}

// parseFile overlays cfg with the file named by -c or -config. The format
// follows the extension: .yaml and .yml are YAML, anything else is JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := fileConfigFrom(cfg)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}
