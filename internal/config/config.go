package config

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	LogLevel string
	AdGuard  AdGuardConfig
	MQTT     MQTTConfig
}

type AdGuardConfig struct {
	BaseURL   string
	Username  string
	Password  string
	Timeout   time.Duration
	ServiceID string
}

type MQTTConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	Topic          string
	QueueSize      int
	ReconnectDelay time.Duration
}

// Placeholder defaults keep the process bootable in dev but are not
// operational values. Load warns when any of them survives into the
// final config instead of failing, since some deployments only drive
// the MQTT side.
const (
	placeholderURL      = "default ip"
	placeholderUsername = "default username"
	placeholderPassword = "default password"
)

// Load reads the environment exactly once at startup. Every variable
// has a literal fallback; nothing is re-read at runtime.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADGUARD_URL", placeholderURL)
	v.SetDefault("ADGUARD_USERNAME", placeholderUsername)
	v.SetDefault("ADGUARD_PASSWORD", placeholderPassword)
	v.SetDefault("ADGUARD_TIMEOUT", 30)
	v.SetDefault("ADGUARD_SERVICE_ID", "youtube")
	v.SetDefault("MQTT_HOST", "localhost")
	v.SetDefault("MQTT_PORT", 8883)
	v.SetDefault("MQTT_USERNAME", "")
	v.SetDefault("MQTT_PASSWORD", "")
	v.SetDefault("MQTT_TOPIC", "adguard/youtube")
	v.SetDefault("MQTT_QUEUE_SIZE", 10)
	v.SetDefault("MQTT_RECONNECT_DELAY", 5)

	cfg := &Config{
		Port:     v.GetString("PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		AdGuard: AdGuardConfig{
			BaseURL:   v.GetString("ADGUARD_URL"),
			Username:  v.GetString("ADGUARD_USERNAME"),
			Password:  v.GetString("ADGUARD_PASSWORD"),
			Timeout:   time.Duration(v.GetInt("ADGUARD_TIMEOUT")) * time.Second,
			ServiceID: v.GetString("ADGUARD_SERVICE_ID"),
		},
		MQTT: MQTTConfig{
			Host:           v.GetString("MQTT_HOST"),
			Port:           v.GetInt("MQTT_PORT"),
			Username:       v.GetString("MQTT_USERNAME"),
			Password:       v.GetString("MQTT_PASSWORD"),
			Topic:          v.GetString("MQTT_TOPIC"),
			QueueSize:      v.GetInt("MQTT_QUEUE_SIZE"),
			ReconnectDelay: time.Duration(v.GetInt("MQTT_RECONNECT_DELAY")) * time.Second,
		},
	}

	if cfg.AdGuard.BaseURL == placeholderURL || cfg.AdGuard.Username == placeholderUsername || cfg.AdGuard.Password == placeholderPassword {
		slog.Warn("adguard config uses placeholder defaults, set ADGUARD_URL / ADGUARD_USERNAME / ADGUARD_PASSWORD")
	}

	slog.Info("adguard-controller config loaded",
		"port", cfg.Port, "adguard", cfg.AdGuard.BaseURL,
		"mqtt_host", cfg.MQTT.Host, "topic", cfg.MQTT.Topic)
	return cfg
}
