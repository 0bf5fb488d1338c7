package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_NAME", "APP_URL", "COMMENTS_PER_PAGE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Name != "area_comments" {
		t.Errorf("Expected database area_comments, got %s", cfg.Database.Name)
	}
	if cfg.App.BaseURL != "http://localhost:8080" {
		t.Errorf("Expected default base URL, got %s", cfg.App.BaseURL)
	}
	if cfg.App.ListLimit != 20 {
		t.Errorf("Expected list limit 20, got %d", cfg.App.ListLimit)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "comments_test")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("APP_URL", "https://example.com/app")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.Name != "comments_test" {
		t.Errorf("Expected comments_test, got %s", cfg.Database.Name)
	}
	if cfg.Database.MaxOpenConns != 7 {
		t.Errorf("Expected 7 open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Expected 3s read timeout, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.App.BaseURL != "https://example.com/app" {
		t.Errorf("Expected base URL from env, got %s", cfg.App.BaseURL)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "lots")
	t.Setenv("SERVER_WRITE_TIMEOUT", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.MaxIdleConns != 5 {
		t.Errorf("Expected fallback 5, got %d", cfg.Database.MaxIdleConns)
	}
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("Expected fallback 60s, got %s", cfg.Server.WriteTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Host: "localhost", Name: "comments"},
			App:      AppConfig{BaseURL: "http://localhost:8080", ListLimit: 20},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{name: "missing db name", mutate: func(c *Config) { c.Database.Name = "" }, wantErr: true},
		{name: "missing base url", mutate: func(c *Config) { c.App.BaseURL = "" }, wantErr: true},
		{name: "relative base url", mutate: func(c *Config) { c.App.BaseURL = "/app" }, wantErr: true},
		{name: "zero list limit", mutate: func(c *Config) { c.App.ListLimit = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := db.GetDSN(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
