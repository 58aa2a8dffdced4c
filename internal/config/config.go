package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apierrors "penguindash/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "PENGUINS"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Session   SessionConfig   `yaml:"session" envconfig:"SESSION"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"10s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8000"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DatasetConfig locates the penguin table loaded at startup
type DatasetConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"data/palmer_penguins.csv"`
}

// SessionConfig controls per-browser selection state
type SessionConfig struct {
	CookieName    string        `yaml:"cookie_name" envconfig:"COOKIE_NAME" default:"penguins_session"`
	IdleTTL       time.Duration `yaml:"idle_ttl" envconfig:"IDLE_TTL" default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL" default:"5m"`
	MemoCapacity  int           `yaml:"memo_capacity" envconfig:"MEMO_CAPACITY" default:"256"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apierrors.NewConfigError("load from env", err)
	}

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, apierrors.NewConfigError("load from file", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, apierrors.NewConfigError("validate", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays file values on top of env values that were left at
// their defaults. An explicitly exported env var always wins.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if fileConfig.Server.Port != 0 && !envSet("SERVER_PORT") {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Server.ReadTimeout != 0 && !envSet("SERVER_READ_TIMEOUT") {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 && !envSet("SERVER_WRITE_TIMEOUT") {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if len(fileConfig.Security.AllowedOrigins) > 0 && !envSet("SECURITY_ALLOWED_ORIGINS") {
		envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if fileConfig.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" && !envSet("LOGGING_OUTPUT") {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Dataset.Path != "" && !envSet("DATASET_PATH") {
		envConfig.Dataset.Path = fileConfig.Dataset.Path
	}
	if fileConfig.Session.IdleTTL != 0 && !envSet("SESSION_IDLE_TTL") {
		envConfig.Session.IdleTTL = fileConfig.Session.IdleTTL
	}
	if fileConfig.Telemetry.TraceExporter != "" && !envSet("TELEMETRY_TRACE_EXPORTER") {
		envConfig.Telemetry.TraceExporter = fileConfig.Telemetry.TraceExporter
	}

	return envConfig
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if strings.TrimSpace(c.Dataset.Path) == "" {
		return fmt.Errorf("dataset path must be set")
	}

	if c.Session.MemoCapacity <= 0 {
		return fmt.Errorf("memo capacity must be positive: %d", c.Session.MemoCapacity)
	}

	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("session idle ttl must be positive")
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("invalid telemetry sample ratio: %v", c.Telemetry.SampleRatio)
	}

	// JSON is the only supported log format
	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// DatasetPath returns the dataset location resolved against the working
// directory when it is relative.
func (c *Config) DatasetPath() string {
	if filepath.IsAbs(c.Dataset.Path) {
		return c.Dataset.Path
	}
	wd, err := os.Getwd()
	if err != nil {
		return c.Dataset.Path
	}
	return filepath.Join(wd, c.Dataset.Path)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  10 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8000"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Dataset: DatasetConfig{
			Path: "data/palmer_penguins.csv",
		},
		Session: SessionConfig{
			CookieName:    "penguins_session",
			IdleTTL:       2 * time.Hour,
			SweepInterval: 5 * time.Minute,
			MemoCapacity:  256,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
