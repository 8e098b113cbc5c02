package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RENDER", "1")
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "config.yaml"))
	for _, key := range []string{
		"PORT", "DATABASE_URL", "SQLITE_PATH", "JWT_SECRET", "SENDGRID_API_KEY", "EMAIL_FROM",
		"REPORT_EMAIL_TO", "SLACK_BOT_TOKEN", "SLACK_CHANNEL_ID", "SESSION_TTL_MINUTES",
		"SESSION_PURGE_SCHEDULE", "GENDER_DEFAULT", "SENIOR_RESOLUTION", "YOUTH_RESOLUTION",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.SessionTTL() != 2*time.Hour || cfg.SessionPurgeSchedule != "*/10 * * * *" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.GenderDefault != "Men" || cfg.SeniorResolution != "highest" || cfg.YouthResolution != "most_specific" {
		t.Fatalf("unexpected policy defaults: %+v", cfg)
	}
	if cfg.SendGridConfigured() || cfg.SlackConfigured() {
		t.Fatal("notifiers should be disabled by default")
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := isolate(t)
	yaml := "port: \"9000\"\ngender_default: Unknown\nslack_bot_token: xoxb-file\nslack_channel_id: C1\nsession_ttl_minutes: 30\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9100" {
		t.Fatalf("env should override yaml port, got %s", cfg.Port)
	}
	if cfg.GenderDefault != "Unknown" || cfg.SessionTTLMinutes != 30 || !cfg.SlackConfigured() {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"GENDER_DEFAULT":      "Women",
		"SENIOR_RESOLUTION":   "middle",
		"YOUTH_RESOLUTION":    "oldest",
		"SESSION_TTL_MINUTES": "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected yaml parse error")
	}
}
