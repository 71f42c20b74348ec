package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// toMap round-trips cfg through JSON so it can be walked by key.
func toMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetByPath retrieves a config value by dot-notation path (e.g. "webhook.url").
func GetByPath(cfg *Config, path string) (any, error) {
	m, err := toMap(cfg)
	if err != nil {
		return nil, err
	}

	var current any = m
	for _, key := range strings.Split(path, ".") {
		section, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cannot traverse into %T at %s", current, key)
		}
		val, ok := section[key]
		if !ok {
			return nil, fmt.Errorf("key not found: %s", path)
		}
		current = val
	}
	return current, nil
}

// SetByPath sets a config value by dot-notation path. Only existing keys can
// be set, and the result must still pass Validate.
func SetByPath(cfg *Config, path string, value string) error {
	m, err := toMap(cfg)
	if err != nil {
		return err
	}

	parts := strings.Split(path, ".")
	if len(parts) != 2 {
		return fmt.Errorf("path must be section.key: %q", path)
	}

	section, ok := m[parts[0]].(map[string]any)
	if !ok {
		return fmt.Errorf("unknown section: %s", parts[0])
	}
	key := parts[1]
	sample, known := knownKeys(parts[0])[key]
	if !known {
		return fmt.Errorf("key not found: %s", path)
	}
	parsed, err := parseValue(sample, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", path, err)
	}
	section[key] = parsed

	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	updated := Defaults()
	if err := json.Unmarshal(data, updated); err != nil {
		return fmt.Errorf("invalid value for %s: %w", path, err)
	}
	if err := Validate(updated); err != nil {
		return err
	}
	*cfg = *updated
	return nil
}

// knownKeys maps the JSON keys of a section, including omitempty ones, to
// a sample value of the right JSON type.
func knownKeys(section string) map[string]any {
	full := &Config{
		General: GeneralConfig{LogFile: "x"},
		Webhook: WebhookConfig{Channel: "x", Proxy: "x"},
		Monitor: MonitorConfig{Avatar: "x", DialogsFile: "x"},
	}
	m, _ := toMap(full)
	s, _ := m[section].(map[string]any)
	return s
}

// parseValue converts a command-line string to the JSON type of sample.
func parseValue(sample any, s string) (any, error) {
	switch sample.(type) {
	case bool:
		return strconv.ParseBool(s)
	case float64:
		return strconv.Atoi(s)
	default:
		return s, nil
	}
}

// Sanitize returns a copy of the config with secrets masked.
func Sanitize(cfg *Config) *Config {
	c := *cfg
	if c.Webhook.URL != "" {
		c.Webhook.URL = maskURL(c.Webhook.URL)
	}
	if c.Webhook.Proxy != "" {
		if u, err := url.Parse(c.Webhook.Proxy); err == nil && u.User != nil {
			u.User = url.User("***")
			c.Webhook.Proxy = u.String()
		}
	}
	return &c
}

// maskURL keeps scheme and host but hides the path, which carries the
// webhook token.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return maskString(raw)
	}
	return u.Scheme + "://" + u.Host + "/" + maskString(strings.TrimPrefix(u.Path, "/"))
}

// maskString shows first 4 and last 4 chars, masks the rest.
func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

// ListPaths returns all settable "section.key" paths, sorted.
func ListPaths(cfg *Config) []string {
	m, err := toMap(cfg)
	if err != nil {
		return nil
	}
	var paths []string
	for section := range m {
		for key := range knownKeys(section) {
			paths = append(paths, section+"."+key)
		}
	}
	sort.Strings(paths)
	return paths
}
