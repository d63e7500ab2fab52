package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Provider ProviderConfig `yaml:"provider"`
	Widget   WidgetConfig   `yaml:"widget"`
	Storage  StorageConfig  `yaml:"storage"`
}

type HTTPConfig struct {
	Port string `yaml:"port"` // listen address, e.g. ":3000"
}

type LogConfig struct {
	Level  string `yaml:"level"`  // zerolog level name
	Pretty bool   `yaml:"pretty"` // console writer instead of json
}

type ProviderConfig struct {
	LatestURL         string        `yaml:"latestURL"`
	HistoryURL        string        `yaml:"historyURL"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
	Retries           int           `yaml:"retries"`
	Backoff           time.Duration `yaml:"backoff"`
	QuoteTTL          time.Duration `yaml:"quoteTTL"` // lifetime of quotes served by /convert
}

type WidgetConfig struct {
	From            string        `yaml:"from"`
	To              string        `yaml:"to"`
	Amount          string        `yaml:"amount"`
	QuietPeriod     time.Duration `yaml:"quietPeriod"`
	HistorySize     int           `yaml:"historySize"`
	ChartDays       int           `yaml:"chartDays"`
	ChartTTL        time.Duration `yaml:"chartTTL"`
	RefreshSchedule string        `yaml:"refreshSchedule"` // cron spec, empty disables
	Theme           string        `yaml:"theme"`
}

type StorageConfig struct {
	Driver  string      `yaml:"driver"` // file, postgres, mysql or redis
	Path    string      `yaml:"path"`
	DSN     string      `yaml:"dsn"`
	Table   string      `yaml:"table"`
	Migrate bool        `yaml:"migrate"`
	MySQL   MySQLConfig `yaml:"mysql"`
	Redis   RedisConfig `yaml:"redis"`
}

// MySQLConfig is used to build a DSN when StorageConfig.DSN is empty
type MySQLConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DefaultConfig returns a configuration usable without a file
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: ":3000"},
		Log:  LogConfig{Level: "info"},
		Provider: ProviderConfig{
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			Retries:           3,
			Backoff:           200 * time.Millisecond,
			QuoteTTL:          10 * time.Minute,
		},
		Widget: WidgetConfig{
			From:            "USD",
			To:              "KZT",
			Amount:          "100",
			QuietPeriod:     2 * time.Second,
			HistorySize:     10,
			ChartDays:       30,
			ChartTTL:        time.Hour,
			RefreshSchedule: "*/30 * * * *",
			Theme:           "dark",
		},
		Storage: StorageConfig{
			Driver:  "file",
			Path:    "flux.json",
			Table:   "flux_store",
			Migrate: true,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "flux:"},
		},
	}
}

// LoadConfig reads path over the defaults. A missing file
// at the default location is not an error.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
