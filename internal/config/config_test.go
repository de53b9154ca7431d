package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: notifyd-test
http:
  port: 9000
database:
  host: localhost
  port: 5432
  name: repairs_test
  user: testuser
  password: testpass
auth:
  jwt_secret: test-secret
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "notifyd-test" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "notifyd-test")
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("HTTP.Port = %d, want 9000", cfg.HTTP.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("Auth.JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "test-secret")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")
	t.Setenv("TEST_JWT_SECRET", "hmac456")

	yaml := `
instance:
  id: notifyd-test
database:
  host: localhost
  name: repairs_test
  user: testuser
  password: ${TEST_DB_PASSWORD}
auth:
  jwt_secret: ${TEST_JWT_SECRET}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
	if cfg.Auth.JWTSecret != "hmac456" {
		t.Errorf("Auth.JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "hmac456")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: notifyd-test
database:
  host: localhost
  name: repairs_test
  user: testuser
  password: testpass
auth:
  jwt_secret: test-secret
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.HTTP.Port != DefaultHTTPPort {
		t.Errorf("HTTP.Port = %d, want default %d", cfg.HTTP.Port, DefaultHTTPPort)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Database.MaxConns != DefaultMaxConns {
		t.Errorf("Database.MaxConns = %d, want default %d", cfg.Database.MaxConns, DefaultMaxConns)
	}
	if cfg.Websocket.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("Websocket.WriteTimeout = %v, want default %v", cfg.Websocket.WriteTimeout, DefaultWriteTimeout)
	}
	if cfg.Websocket.PongWait != DefaultPongWait {
		t.Errorf("Websocket.PongWait = %v, want default %v", cfg.Websocket.PongWait, DefaultPongWait)
	}
	if cfg.Notifications.DefaultPageSize != DefaultPageSize {
		t.Errorf("Notifications.DefaultPageSize = %d, want default %d", cfg.Notifications.DefaultPageSize, DefaultPageSize)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *ServiceConfig {
		cfg := &ServiceConfig{
			Instance: InstanceConfig{ID: "notifyd-test"},
			Database: DBConfig{
				Host:     "localhost",
				Name:     "repairs_test",
				User:     "testuser",
				Password: "testpass",
			},
			Auth: AuthConfig{JWTSecret: "test-secret"},
		}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*ServiceConfig)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*ServiceConfig) {},
			wantErr: false,
		},
		{
			name:    "missing instance id",
			mutate:  func(c *ServiceConfig) { c.Instance.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing database host",
			mutate:  func(c *ServiceConfig) { c.Database.Host = "" },
			wantErr: true,
		},
		{
			name:    "missing database password",
			mutate:  func(c *ServiceConfig) { c.Database.Password = "" },
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *ServiceConfig) { c.Auth.JWTSecret = "" },
			wantErr: true,
		},
		{
			name:    "invalid http port",
			mutate:  func(c *ServiceConfig) { c.HTTP.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "min conns exceeds max conns",
			mutate:  func(c *ServiceConfig) { c.Database.MinConns = 20 },
			wantErr: true,
		},
		{
			name:    "max page size below default page size",
			mutate:  func(c *ServiceConfig) { c.Notifications.MaxPageSize = 5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
