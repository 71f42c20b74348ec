package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for mattersend.
type Config struct {
	General GeneralConfig `json:"general"`
	Webhook WebhookConfig `json:"webhook"`
	Avatars AvatarsConfig `json:"avatars"`
	Send    SendConfig    `json:"send"`
	Monitor MonitorConfig `json:"monitor"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel" env:"MATTERSEND_LOG_LEVEL"`
	LogFile  string `json:"logFile,omitempty"` // optional log file path
}

// WebhookConfig points at the Mattermost incoming webhook.
type WebhookConfig struct {
	URL            string `json:"url" env:"MATTERSEND_WEBHOOK"`
	Channel        string `json:"channel,omitempty" env:"MATTERSEND_CHANNEL"` // default channel, empty = webhook default
	TimeoutSeconds int    `json:"timeoutSeconds"`
	Proxy          string `json:"proxy,omitempty"` // empty = HTTP_PROXY from the environment
}

type AvatarsConfig struct {
	File string `json:"file" env:"MATTERSEND_AVATARS"`
}

type SendConfig struct {
	Sender string `json:"sender"`
}

// MonitorConfig drives the monitor command.
type MonitorConfig struct {
	Sender      string `json:"sender"`
	Avatar      string `json:"avatar,omitempty"`
	Dialogs     bool   `json:"dialogs"`                                      // scripted dialogs instead of the plain status line
	DialogsFile string `json:"dialogsFile,omitempty" env:"MATTERSEND_DIALOGS"` // replaces the built-in dialogs
}

// DefaultConfigDir returns the default config directory (~/.mattersend).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mattersend"
	}
	return filepath.Join(home, ".mattersend")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// ErrInvalid marks configuration values that fail validation, as opposed to
// a config file that cannot be read or parsed.
var ErrInvalid = errors.New("config validation errors")

// Load reads a config file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// read decodes the config file over the defaults without validating it.
func read(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve builds the effective configuration once: the config file (when
// present, or required when explicit), then .env and the environment.
// Validation runs on the merged result only.
func Resolve(path string, explicit bool) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Defaults()
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.Avatars.File = ExpandPath(cfg.Avatars.File)
	cfg.Monitor.DialogsFile = ExpandPath(cfg.Monitor.DialogsFile)
	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	// The webhook URL embeds its secret token.
	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch strings.ToLower(cfg.General.LogLevel) {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}

	if cfg.Webhook.URL != "" {
		u, err := url.Parse(cfg.Webhook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, "webhook.url must be an http(s) URL")
		}
	}
	if cfg.Webhook.TimeoutSeconds < 1 || cfg.Webhook.TimeoutSeconds > 300 {
		errs = append(errs, "webhook.timeoutSeconds must be between 1 and 300")
	}
	if cfg.Webhook.Proxy != "" {
		if u, err := url.Parse(cfg.Webhook.Proxy); err != nil || u.Host == "" {
			errs = append(errs, "webhook.proxy must be a URL with a host")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
