package redis

import (
	"testing"

	"github.com/leafline-ai/leafline-backend/pkg/config"
)

func TestCartLockKeyNamespacing(t *testing.T) {
	got := CartLockKey("abc-123")
	want := "ll:cart_lock:abc-123"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://localhost:6379/2",
		PoolSize: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("unexpected pool size %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigAddressFallback(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:  "127.0.0.1:6380",
		Password: "pw",
		DB:       1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "127.0.0.1:6380" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.Password != "pw" {
		t.Fatalf("password not carried over")
	}
}
