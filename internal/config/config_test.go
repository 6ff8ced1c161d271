package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.AdGuard.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.AdGuard.Timeout)
	}
	if cfg.AdGuard.ServiceID != "youtube" {
		t.Fatalf("unexpected service id: %q", cfg.AdGuard.ServiceID)
	}
	if cfg.MQTT.Port != 8883 {
		t.Fatalf("unexpected mqtt port: %d", cfg.MQTT.Port)
	}
	if cfg.MQTT.QueueSize != 10 {
		t.Fatalf("unexpected queue size: %d", cfg.MQTT.QueueSize)
	}
	if cfg.MQTT.ReconnectDelay != 5*time.Second {
		t.Fatalf("unexpected reconnect delay: %v", cfg.MQTT.ReconnectDelay)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ADGUARD_URL", "http://192.168.1.10:3000")
	t.Setenv("ADGUARD_TIMEOUT", "5")
	t.Setenv("MQTT_TOPIC", "home/adguard")
	t.Setenv("MQTT_QUEUE_SIZE", "32")

	cfg := Load()

	if cfg.AdGuard.BaseURL != "http://192.168.1.10:3000" {
		t.Fatalf("unexpected base url: %q", cfg.AdGuard.BaseURL)
	}
	if cfg.AdGuard.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.AdGuard.Timeout)
	}
	if cfg.MQTT.Topic != "home/adguard" {
		t.Fatalf("unexpected topic: %q", cfg.MQTT.Topic)
	}
	if cfg.MQTT.QueueSize != 32 {
		t.Fatalf("unexpected queue size: %d", cfg.MQTT.QueueSize)
	}
}
