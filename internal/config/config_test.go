package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, expected 8080", cfg.Port)
	}
	if cfg.ConfidenceThreshold != 0.5 {
		t.Errorf("ConfidenceThreshold = %f, expected 0.5", cfg.ConfidenceThreshold)
	}
	if cfg.MinTimeBetweenAlerts != 60*time.Second {
		t.Errorf("MinTimeBetweenAlerts = %v, expected 60s", cfg.MinTimeBetweenAlerts)
	}
	if len(cfg.ViolationClasses) != 2 {
		t.Errorf("ViolationClasses = %v, expected two defaults", cfg.ViolationClasses)
	}
	if cfg.EnableAlerts || cfg.EnableKafka {
		t.Error("Alerts and Kafka should be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.75")
	t.Setenv("VIOLATION_CLASSES", "no_helmet, no_vest ,no_gloves")
	t.Setenv("MIN_TIME_BETWEEN_ALERTS", "90")
	t.Setenv("ENABLE_ALERTS", "true")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001234567890")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, expected 9000", cfg.Port)
	}
	if cfg.ConfidenceThreshold != 0.75 {
		t.Errorf("ConfidenceThreshold = %f, expected 0.75", cfg.ConfidenceThreshold)
	}
	if len(cfg.ViolationClasses) != 3 || cfg.ViolationClasses[2] != "no_gloves" {
		t.Errorf("ViolationClasses = %v, expected trimmed three-item list", cfg.ViolationClasses)
	}
	if cfg.MinTimeBetweenAlerts != 90*time.Second {
		t.Errorf("MinTimeBetweenAlerts = %v, expected 90s from plain seconds", cfg.MinTimeBetweenAlerts)
	}
	if !cfg.EnableAlerts {
		t.Error("EnableAlerts should be true")
	}
	if cfg.TelegramChatID != -1001234567890 {
		t.Errorf("TelegramChatID = %d, expected -1001234567890", cfg.TelegramChatID)
	}
}

func TestGetEnvAsDuration_GoSyntax(t *testing.T) {
	t.Setenv("MIN_TIME_BETWEEN_ALERTS", "2m30s")

	cfg := Load()
	if cfg.MinTimeBetweenAlerts != 2*time.Minute+30*time.Second {
		t.Errorf("MinTimeBetweenAlerts = %v, expected 2m30s", cfg.MinTimeBetweenAlerts)
	}
}

func TestGetEnvAsDuration_Invalid(t *testing.T) {
	t.Setenv("MIN_TIME_BETWEEN_ALERTS", "soon")

	cfg := Load()
	if cfg.MinTimeBetweenAlerts != 60*time.Second {
		t.Errorf("MinTimeBetweenAlerts = %v, expected default for invalid value", cfg.MinTimeBetweenAlerts)
	}
}
