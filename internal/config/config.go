package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"classroom-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// Store drivers accepted in store.driver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		StaticDir      string   `yaml:"staticDir"`
		CORSOrigins    []string `yaml:"corsOrigins"`
		StatusInterval string   `yaml:"statusInterval"`
	} `yaml:"server"`
	Store struct {
		Driver     string `yaml:"driver"`
		DataDir    string `yaml:"dataDir"`
		SQLitePath string `yaml:"sqlitePath"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		ID              string           `yaml:"id"`
		QuestionsFile   string           `yaml:"questionsFile"`
		TeachersFile    string           `yaml:"teachersFile"`
		Teachers        []domain.Teacher `yaml:"teachers"`
		TTL             string           `yaml:"ttl"`
		DefaultDuration string           `yaml:"defaultDuration"`
	} `yaml:"quiz"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "data"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/quiz.db"
	}
	if c.Quiz.ID == "" {
		c.Quiz.ID = "default"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverSQLite:
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("store driver redis requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Quiz.QuestionsFile == "" && c.Postgres.URL == "" {
		return fmt.Errorf("quiz.questionsFile or postgres.url is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// SessionDuration resolves quiz.defaultDuration. "none" or "0" disables the
// default so start-session must carry an explicit end time.
func (c Config) SessionDuration() time.Duration {
	switch strings.ToLower(strings.TrimSpace(c.Quiz.DefaultDuration)) {
	case "none", "0":
		return 0
	}
	return TTLDuration(c.Quiz.DefaultDuration, time.Hour)
}
