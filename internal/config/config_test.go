package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestReadDefaults(t *testing.T) {
	t.Setenv("CHIRP_SESSION_KEY", testKey)

	v := viper.New()
	v.AddConfigPath(t.TempDir())
	v.SetConfigName("chirp")
	cfg, err := read(v)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.MaxPostLength != DefaultMaxPostLength {
		t.Errorf("expected max post length %d, got %d", DefaultMaxPostLength, cfg.MaxPostLength)
	}
	if cfg.FeedTimeout != 2*time.Second {
		t.Errorf("expected feed timeout 2s, got %s", cfg.FeedTimeout)
	}
	if got := cfg.Url.String(); got != "http://localhost:8080" {
		t.Errorf("expected url http://localhost:8080, got %s", got)
	}
}

func TestReadEnvironment(t *testing.T) {
	t.Setenv("CHIRP_SESSION_KEY", testKey)
	t.Setenv("CHIRP_NAME", "birds")
	t.Setenv("CHIRP_HTTPS", "true")
	t.Setenv("CHIRP_DOMAIN", "birds.example")
	t.Setenv("CHIRP_MAX_POST_LENGTH", "140")

	v := viper.New()
	v.AddConfigPath(t.TempDir())
	v.SetConfigName("chirp")
	cfg, err := read(v)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if cfg.Name != "birds" {
		t.Errorf("expected name birds, got %s", cfg.Name)
	}
	if cfg.MaxPostLength != 140 {
		t.Errorf("expected max post length 140, got %d", cfg.MaxPostLength)
	}
	if got := cfg.Url.String(); got != "https://birds.example" {
		t.Errorf("expected url https://birds.example, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := Configuration{
		SessionKey:    "short",
		MaxPostLength: 0,
		FeedTimeout:   time.Second,
		DbUrl:         "x.db",
		QueueWorkers:  1,
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	for _, want := range []string{"session key", "max post length"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q: %s", want, err)
		}
	}
}
