package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Location is one selectable weather location.
type Location struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// AppConfig is the YAML application configuration.
type AppConfig struct {
	Server struct {
		Port   int `yaml:"port"`
		WSPort int `yaml:"ws_port"`
	} `yaml:"server"`
	Weather struct {
		DefaultLocation string              `yaml:"default_location"`
		Locations       map[string]Location `yaml:"locations"`
	} `yaml:"weather"`
	Library struct {
		ChatHistoryLimit      int `yaml:"chat_history_limit"`
		DetectionHistoryLimit int `yaml:"detection_history_limit"`
	} `yaml:"library"`
}

// EnvConfig holds environment variables.
type EnvConfig struct {
	// Hosted model
	ModelProvider string
	ModelBaseURL  string
	ModelAPIKey   string
	ModelName     string
	ModelTimeout  time.Duration

	// Behavior
	OfflineDefault bool
	LogLevel       string

	// Storage
	DBPath      string
	DatasetPath string // optional override for the embedded dataset
}

// LoadEnv loads environment variables, reading .env when present.
func LoadEnv() (*EnvConfig, error) {
	// Try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	cfg := &EnvConfig{
		ModelProvider: getEnv("MODEL_PROVIDER", "openrouter"),
		ModelBaseURL:  getEnv("OPENROUTER_API_URL", getEnv("MODEL_BASE_URL", "")),
		ModelAPIKey: getEnv("OPENROUTER_API_KEY",
			getEnv("MODEL_API_KEY", getEnv("GOOGLE_API_KEY", getEnv("OPENAI_API_KEY", "")))),
		ModelName:      getEnv("MODEL_NAME", ""),
		OfflineDefault: strings.EqualFold(getEnv("OFFLINE_MODE", "false"), "true"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "data/kisan_saathi.db"),
		DatasetPath:    getEnv("DATASET_PATH", ""),
	}

	cfg.ModelTimeout = 12 * time.Second
	if v := strings.TrimSpace(os.Getenv("MODEL_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ModelTimeout = d
		}
	}

	return cfg, nil
}

// LoadAppConfig loads the application configuration from YAML.
func LoadAppConfig(configPath string) (*AppConfig, error) {
	if configPath == "" {
		configPath = "configs/app_config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Replace environment variables in the YAML
	configStr := expandEnvVars(string(data))

	var config AppConfig
	if err := yaml.Unmarshal([]byte(configStr), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Library.ChatHistoryLimit <= 0 {
		config.Library.ChatHistoryLimit = 50
	}
	if config.Library.DetectionHistoryLimit <= 0 {
		config.Library.DetectionHistoryLimit = 15
	}
	if config.Server.Port <= 0 {
		config.Server.Port = 8080
	}
	if config.Server.WSPort <= 0 {
		config.Server.WSPort = 8085
	}
	// Explicit env vars win over the file.
	if p := getEnvInt("SERVER_PORT", 0); p > 0 {
		config.Server.Port = p
	}
	if p := getEnvInt("WS_PORT", 0); p > 0 {
		config.Server.WSPort = p
	}

	return &config, nil
}

// DefaultAppConfig returns the built-in configuration used when no YAML
// file is deployed.
func DefaultAppConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.Server.Port = 8080
	cfg.Server.WSPort = 8085
	cfg.Weather.DefaultLocation = "pune"
	cfg.Weather.Locations = map[string]Location{
		"mumbai":    {Name: "Mumbai, Maharashtra", Lat: 19.0760, Lon: 72.8777},
		"delhi":     {Name: "New Delhi", Lat: 28.6139, Lon: 77.2090},
		"bangalore": {Name: "Bengaluru, Karnataka", Lat: 12.9716, Lon: 77.5946},
		"chennai":   {Name: "Chennai, Tamil Nadu", Lat: 13.0827, Lon: 80.2707},
		"lucknow":   {Name: "Lucknow, UP", Lat: 26.8467, Lon: 80.9462},
		"jaipur":    {Name: "Jaipur, Rajasthan", Lat: 26.9124, Lon: 75.7873},
		"pune":      {Name: "Pune, Maharashtra", Lat: 18.5204, Lon: 73.8567},
		"ahmedabad": {Name: "Ahmedabad, Gujarat", Lat: 23.0225, Lon: 72.5714},
		"bhopal":    {Name: "Bhopal, MP", Lat: 23.2599, Lon: 77.4126},
		"ludhiana":  {Name: "Ludhiana, Punjab", Lat: 30.901, Lon: 75.8573},
	}
	cfg.Library.ChatHistoryLimit = 50
	cfg.Library.DetectionHistoryLimit = 15
	return cfg
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func expandEnvVars(s string) string {
	// Replace ${VAR_NAME} with environment variable values
	return os.Expand(s, func(key string) string {
		return os.Getenv(key)
	})
}
