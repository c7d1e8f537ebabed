package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Log     LogConfig      `yaml:"log"`
	Minio   MinioConfig    `yaml:"minio"`
	Auth    AuthConfig     `yaml:"auth"`
	Store   StoreConfig    `yaml:"store"`
	Upload  UploadConfig   `yaml:"upload"`
	Users   []User         `yaml:"users"`
	Vendors []VendorConfig `yaml:"vendors"`
}

type ServerConfig struct {
	Port            int `yaml:"port"`
	RateLimit       int `yaml:"rate_limit"`          // requests per client per window
	RateLimitWindow int `yaml:"rate_limit_window_s"` // window length in seconds
}

// RateWindow is the rate limiter window length.
func (s ServerConfig) RateWindow() time.Duration {
	return time.Duration(s.RateLimitWindow) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type StoreConfig struct {
	MaxRecords int `yaml:"max_records"`
}

// UploadConfig tunes chunked uploads and the throttling retry policy.
type UploadConfig struct {
	ChunkSizeMiB int `yaml:"chunk_size_mib"`
	MaxRetries   int `yaml:"max_retries"`
	RetryBaseMs  int `yaml:"retry_base_ms"`
}

// RetryBase is the first backoff delay; it doubles per attempt.
func (u UploadConfig) RetryBase() time.Duration {
	return time.Duration(u.RetryBaseMs) * time.Millisecond
}

// User is one entry of the configured user directory. Groups are the
// directory group titles the permission gate matches against.
type User struct {
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	Display  string   `yaml:"display"`
	Groups   []string `yaml:"groups"`
}

// VendorConfig seeds the packing-material vendor directory.
type VendorConfig struct {
	ID                      int    `yaml:"id"`
	SupplierName            string `yaml:"supplier_name"`
	Supplier                string `yaml:"supplier"`
	SupplierEmail           string `yaml:"supplier_email"`
	PackingMaterialCategory string `yaml:"packing_material_category"`
	ContactPerson           string `yaml:"contact_person"`
	PhoneNumber             string `yaml:"phone_number"`
	Address                 string `yaml:"address"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 100
	}
	if cfg.Server.RateLimitWindow == 0 {
		cfg.Server.RateLimitWindow = 60
	}
	if cfg.Minio.ExpireDays == 0 {
		cfg.Minio.ExpireDays = 7
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Store.MaxRecords == 0 {
		cfg.Store.MaxRecords = 500
	}
	if cfg.Upload.ChunkSizeMiB == 0 {
		cfg.Upload.ChunkSizeMiB = 10
	}
	if cfg.Upload.MaxRetries == 0 {
		cfg.Upload.MaxRetries = 5
	}
	if cfg.Upload.RetryBaseMs == 0 {
		cfg.Upload.RetryBaseMs = 1000
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
