package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Feed     FeedConfig     `yaml:"feed"`
	AMQP     AMQPConfig     `yaml:"amqp"`
	API      APIConfig      `yaml:"api"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// FeedConfig points the syncer at the upstream quips feed.
type FeedConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AMQPConfig configures the optional ingest event publisher. An empty URL
// disables publishing.
type AMQPConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// APIConfig is the client-side view of the resource API, used by the
// terminal browser.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8002"
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 15 * time.Second
	}
	if c.AMQP.URL != "" {
		if c.AMQP.Exchange == "" {
			c.AMQP.Exchange = "quipvid"
		}
		if c.AMQP.RoutingKey == "" {
			c.AMQP.RoutingKey = "videos"
		}
		if c.AMQP.QueueName == "" {
			c.AMQP.QueueName = "video_events"
		}
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8002"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 5 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
