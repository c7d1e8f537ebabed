package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	configContent := `
server:
  port: 9090
  rate_limit: 20
  rate_limit_window_s: 30
minio:
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  bucket: "test-bucket"
  use_ssl: false
  expire_days: 14
auth:
  jwt_secret: "test-secret"
  token_expire_hours: 48
log:
  level: "debug"
  format: "json"
store:
  max_records: 50
upload:
  chunk_size_mib: 16
  max_retries: 3
  retry_base_ms: 500
users:
  - username: "testuser"
    password: "testpass"
    display: "Test User"
    groups: ["Regulatory", "Owner"]
vendors:
  - id: 1
    supplier_name: "Acme Packaging"
    supplier_email: "acme@example.com"
    packing_material_category: "POUCH"
`
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	// Test loading config
	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.RateLimit != 20 {
		t.Errorf("Expected rate_limit 20, got %d", cfg.Server.RateLimit)
	}
	if cfg.Server.RateWindow().Seconds() != 30 {
		t.Errorf("Expected 30s rate window, got %v", cfg.Server.RateWindow())
	}
	if cfg.Minio.Endpoint != "localhost:9000" {
		t.Errorf("Expected endpoint localhost:9000, got %s", cfg.Minio.Endpoint)
	}
	if cfg.Minio.ExpireDays != 14 {
		t.Errorf("Expected expire_days 14, got %d", cfg.Minio.ExpireDays)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected token_expire_hours 48, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Log.Format)
	}
	if cfg.Store.MaxRecords != 50 {
		t.Errorf("Expected max_records 50, got %d", cfg.Store.MaxRecords)
	}
	if cfg.Upload.ChunkSizeMiB != 16 {
		t.Errorf("Expected chunk_size_mib 16, got %d", cfg.Upload.ChunkSizeMiB)
	}
	if cfg.Upload.MaxRetries != 3 {
		t.Errorf("Expected max_retries 3, got %d", cfg.Upload.MaxRetries)
	}
	if len(cfg.Users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(cfg.Users))
	}
	if cfg.Users[0].Username != "testuser" {
		t.Errorf("Expected username testuser, got %s", cfg.Users[0].Username)
	}
	if len(cfg.Users[0].Groups) != 2 {
		t.Errorf("Expected 2 groups, got %d", len(cfg.Users[0].Groups))
	}
	if len(cfg.Vendors) != 1 {
		t.Errorf("Expected 1 vendor, got %d", len(cfg.Vendors))
	}
	if cfg.Vendors[0].PackingMaterialCategory != "POUCH" {
		t.Errorf("Expected vendor category POUCH, got %s", cfg.Vendors[0].PackingMaterialCategory)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Create minimal config to test defaults
	configContent := `
minio:
  endpoint: "localhost:9000"
  access_key: "test"
  secret_key: "test"
  bucket: "bucket"
`
	tmpFile, err := os.CreateTemp("", "config-defaults-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.RateLimit != 100 {
		t.Errorf("Expected default rate_limit 100, got %d", cfg.Server.RateLimit)
	}
	if cfg.Server.RateLimitWindow != 60 {
		t.Errorf("Expected default rate_limit_window_s 60, got %d", cfg.Server.RateLimitWindow)
	}
	if cfg.Minio.ExpireDays != 7 {
		t.Errorf("Expected default expire_days 7, got %d", cfg.Minio.ExpireDays)
	}
	if cfg.Auth.TokenExpireHours != 24 {
		t.Errorf("Expected default token_expire_hours 24, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected default log format text, got %s", cfg.Log.Format)
	}
	if cfg.Store.MaxRecords != 500 {
		t.Errorf("Expected default max_records 500, got %d", cfg.Store.MaxRecords)
	}
	if cfg.Upload.ChunkSizeMiB != 10 {
		t.Errorf("Expected default chunk_size_mib 10, got %d", cfg.Upload.ChunkSizeMiB)
	}
	if cfg.Upload.MaxRetries != 5 {
		t.Errorf("Expected default max_retries 5, got %d", cfg.Upload.MaxRetries)
	}
	if cfg.Upload.RetryBaseMs != 1000 {
		t.Errorf("Expected default retry_base_ms 1000, got %d", cfg.Upload.RetryBaseMs)
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config-invalid-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("invalid: yaml: content:"); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	_, err = Load(tmpFile.Name())
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestFindUser(t *testing.T) {
	cfg := &Config{
		Users: []User{
			{Username: "user1", Password: "pass1", Groups: []string{"Regulatory"}},
			{Username: "user2", Password: "pass2", Groups: []string{"Legal"}},
		},
	}

	// Test finding existing user
	user := cfg.FindUser("user1")
	if user == nil {
		t.Fatal("Expected to find user1")
	}
	if user.Password != "pass1" {
		t.Errorf("Expected password pass1, got %s", user.Password)
	}

	// Test finding non-existent user
	user = cfg.FindUser("nonexistent")
	if user != nil {
		t.Error("Expected nil for non-existent user")
	}
}

func TestRetryBase(t *testing.T) {
	u := UploadConfig{RetryBaseMs: 250}
	if u.RetryBase().Milliseconds() != 250 {
		t.Errorf("Expected 250ms, got %v", u.RetryBase())
	}
}
