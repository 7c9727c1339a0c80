package config

import (
	"testing"
	"time"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("jwt:\n  secret: abc\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.DSN != DefaultDSN {
		t.Fatalf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.JWTExpiry() != 24*time.Hour {
		t.Fatalf("jwt expiry = %s", cfg.JWTExpiry())
	}
	if cfg.DrawDelay() != 5*time.Second {
		t.Fatalf("draw delay = %s", cfg.DrawDelay())
	}
}

func TestParseExplicitZeroDrawDelay(t *testing.T) {
	cfg, err := Parse([]byte("jwt:\n  secret: abc\nallocation:\n  draw-delay-ms: 0\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DrawDelay() != 0 {
		t.Fatalf("want zero draw delay, got %s", cfg.DrawDelay())
	}

	negative, errNegative := Parse([]byte("jwt:\n  secret: abc\nallocation:\n  draw-delay-ms: -1\n"))
	if errNegative != nil {
		t.Fatalf("parse: %v", errNegative)
	}
	if negative.DrawDelay() != 0 {
		t.Fatalf("want zero draw delay for negative value, got %s", negative.DrawDelay())
	}
}

func TestParseRequiresJWTSecret(t *testing.T) {
	if _, err := Parse([]byte("server:\n  addr: \":9000\"\n")); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("jwt:\n  secret: abc\nsurprise: 1\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseFullConfig(t *testing.T) {
	raw := `
server:
  addr: ":9000"
database:
  dsn: "file:test.db"
jwt:
  secret: abc
  expiry-hours: 2
log:
  level: debug
  file: logs/painel.log
  max-size-mb: 10
allocation:
  draw-delay-ms: 250
seed:
  enabled: true
  admin-email: admin@bemaxx.com
  admin-password: "4321"
  matriculas: ["aec001234", "001235"]
`
	cfg, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.DrawDelay() != 250*time.Millisecond {
		t.Fatalf("draw delay = %s", cfg.DrawDelay())
	}
	if !cfg.Seed.Enabled || len(cfg.Seed.Matriculas) != 2 {
		t.Fatalf("seed = %+v", cfg.Seed)
	}
}
