package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	Orders OrdersConfig
	Kafka  KafkaConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host string
	Port int
}

// OrdersConfig points at the remote order/catalog service this engine
// keeps the cart synchronized with.
type OrdersConfig struct {
	BaseURL      string
	SessionToken string
	Timeout      time.Duration
}

type KafkaConfig struct {
	Brokers   []string
	CartTopic string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "pos_cart"),
			Env:  getEnv("APP_ENV", "local"),
		},
		Server: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnvAsInt("HTTP_PORT", 8040),
		},
		Orders: OrdersConfig{
			BaseURL:      getEnv("ORDERS_BASE_URL", "http://localhost:8090/api/v1"),
			SessionToken: getEnv("ORDERS_SESSION_TOKEN", ""),
			Timeout:      time.Duration(getEnvAsInt("ORDERS_TIMEOUT_MS", 15000)) * time.Millisecond,
		},
		Kafka: KafkaConfig{
			Brokers:   splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "")),
			CartTopic: getEnv("KAFKA_CART_TOPIC", "cart-events"),
		},
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// EventsEnabled reports whether a Kafka cart-event stream is configured.
// Without brokers the engine runs with a no-op publisher.
func (k KafkaConfig) EventsEnabled() bool {
	return len(k.Brokers) > 0
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("HTTP_PORT is invalid")
	}
	if c.Orders.BaseURL == "" {
		return fmt.Errorf("ORDERS_BASE_URL is empty")
	}
	if c.Orders.Timeout <= 0 {
		return fmt.Errorf("ORDERS_TIMEOUT_MS is invalid")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
