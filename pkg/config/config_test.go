package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env to be dev, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if cfg.Cart.Namespace != "cart-storage" {
		t.Fatalf("unexpected cart namespace %q", cfg.Cart.Namespace)
	}
	if got := cfg.Cart.SnapshotTTL; got != 720*time.Hour {
		t.Fatalf("expected snapshot ttl 720h, got %v", got)
	}
	if got := cfg.Cart.SweepInterval; got != time.Hour {
		t.Fatalf("expected default sweep interval 1h, got %s", got)
	}
	if got := cfg.Cart.MaxOpenStores; got != 10000 {
		t.Fatalf("expected default max open stores 10000, got %d", got)
	}
	backend, err := cfg.Cart.PersistenceBackend()
	if err != nil || backend != enums.PersistenceMemory {
		t.Fatalf("expected memory backend, got %q (%v)", backend, err)
	}
	if cfg.RateLimit.CartSessionLimit != 120 {
		t.Fatalf("unexpected session limit %d", cfg.RateLimit.CartSessionLimit)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RedisBackendRequiresEndpoint(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartBackend, "redis")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), EnvRedisURL) {
		t.Fatalf("expected redis endpoint error, got %v", err)
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Redis.Enabled() {
		t.Fatal("expected redis to be enabled")
	}
}

func TestLoad_PostgresBackendBuildsLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartBackend, "postgres")
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "shop")
	t.Setenv(EnvDBName, "storefront")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "postgres://shop@db.internal:5432/storefront?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_RejectsUnknownBackendAndCurrency(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartBackend, "dynamo")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to fail")
	}

	setMinimalEnv(t)
	t.Setenv(EnvCartDefaultCurrency, "XYZ")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown currency to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvCartBackend, "memory")
	t.Setenv(EnvCartDefaultCurrency, "USD")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func TestLoadSplitsCORSOrigins(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCORSOrigins, "https://shop.example,https://admin.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.App.CORSOrigins) != 2 || cfg.App.CORSOrigins[1] != "https://admin.example" {
		t.Fatalf("unexpected origins %v", cfg.App.CORSOrigins)
	}
}
