package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Rorical/RoriComplete/internal/completion"
)

// EnvPrefix namespaces environment overrides, e.g. RORICOMPLETE_MODEL.
const EnvPrefix = "RORICOMPLETE"

const (
	KeyModel            = "model"
	KeyBaseURL          = "base_url"
	KeyTokenFile        = "token_file"
	KeyTimeout          = "timeout"
	KeySingleFlight     = "single_flight"
	KeyLogFile          = "log_file"
	KeyLogLevel         = "log_level"
	KeyTemperature      = "generation.temperature"
	KeyMaxTokens        = "generation.max_tokens"
	KeyTopP             = "generation.top_p"
	KeyFrequencyPenalty = "generation.frequency_penalty"
	KeyPresencePenalty  = "generation.presence_penalty"
)

type Generation struct {
	Temperature      float32 `mapstructure:"temperature"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	TopP             float32 `mapstructure:"top_p"`
	FrequencyPenalty float32 `mapstructure:"frequency_penalty"`
	PresencePenalty  float32 `mapstructure:"presence_penalty"`
}

type Config struct {
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"`
	TokenFile    string        `mapstructure:"token_file"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SingleFlight bool          `mapstructure:"single_flight"`
	LogFile      string        `mapstructure:"log_file"`
	LogLevel     string        `mapstructure:"log_level"`
	Generation   Generation    `mapstructure:"generation"`

	path string
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"model":         KeyModel,
	"base-url":      KeyBaseURL,
	"token-file":    KeyTokenFile,
	"timeout":       KeyTimeout,
	"single-flight": KeySingleFlight,
	"log-file":      KeyLogFile,
	"log-level":     KeyLogLevel,
}

// RegisterFlags adds the overridable settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("model", "", "completion model to use")
	fs.String("base-url", "", "API base URL")
	fs.String("token-file", "", "file holding the API token")
	fs.Duration("timeout", 0, "request timeout (0 for none)")
	fs.Bool("single-flight", false, "refuse to send while a request is pending")
	fs.String("log-file", "", "write logs to this file")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error")
}

// LoadConfig reads the config file, creating it with defaults if missing,
// then applies environment variables and any changed flags in fs.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	setDefaults(v)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := v.WriteConfigAs(configPath); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.path = configPath

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Path() string {
	return c.path
}

// Params returns the generation settings for the completion client.
func (c *Config) Params() completion.Params {
	return completion.Params{
		Model:            c.Model,
		Temperature:      c.Generation.Temperature,
		MaxTokens:        c.Generation.MaxTokens,
		TopP:             c.Generation.TopP,
		FrequencyPenalty: c.Generation.FrequencyPenalty,
		PresencePenalty:  c.Generation.PresencePenalty,
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%s must not be empty", KeyModel)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyTimeout)
	}
	if c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("%s must be positive", KeyMaxTokens)
	}
	if c.TokenFile == "" {
		c.TokenFile = completion.DefaultTokenFile
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := completion.DefaultParams()
	v.SetDefault(KeyModel, defaults.Model)
	v.SetDefault(KeyBaseURL, completion.DefaultBaseURL)
	v.SetDefault(KeyTokenFile, completion.DefaultTokenFile)
	v.SetDefault(KeyTimeout, "60s")
	v.SetDefault(KeySingleFlight, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTemperature, defaults.Temperature)
	v.SetDefault(KeyMaxTokens, defaults.MaxTokens)
	v.SetDefault(KeyTopP, defaults.TopP)
	v.SetDefault(KeyFrequencyPenalty, defaults.FrequencyPenalty)
	v.SetDefault(KeyPresencePenalty, defaults.PresencePenalty)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func getConfigPath() (string, error) {
	var configDir string

	// Use RORICOMPLETE_HOME if set, otherwise use user's home directory
	if home := os.Getenv(EnvPrefix + "_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".roricomplete", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}
