package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	APIBaseURL     string        `mapstructure:"api_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"` // debug, info, warn, error
	DataDir        string        `mapstructure:"data_dir"`
}

// ValidKeys are the keys accepted by Set
var ValidKeys = []string{"api_base_url", "request_timeout", "log_level", "data_dir"}

var AppConfig *Config

// Initialize loads or creates the configuration file under ~/.jobdash
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".jobdash"))
}

// InitializeAt loads or creates config.yaml inside configDir. A .env file in
// the working directory is loaded first; JOBDASH_* variables override the file.
func InitializeAt(configDir string) error {
	// .env is optional
	_ = godotenv.Load()

	configFile := filepath.Join(configDir, "config.yaml")

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.Reset()
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("JOBDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("api_base_url", "http://localhost:8000")
	viper.SetDefault("request_timeout", "60s")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("data_dir", configDir)

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.DataDir == "" {
		cfg.DataDir = configDir
	}

	AppConfig = cfg
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# jobdash configuration
# Backend that performs search, scoring and generation
api_base_url: http://localhost:8000

# Every request is bounded by this timeout; a timeout is reported, never retried
request_timeout: 60s

# debug, info, warn, error
log_level: info
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	if !slice.Contains(ValidKeys, key) {
		return fmt.Errorf("invalid key %q: must be one of %v", key, ValidKeys)
	}
	if key == "request_timeout" {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
	}
	viper.Set(key, value)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file in use
func GetConfigPath() string {
	if f := viper.ConfigFileUsed(); f != "" {
		return f
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".jobdash", "config.yaml")
}
