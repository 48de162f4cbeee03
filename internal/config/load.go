package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when -config is not given.
const EnvConfig = "CUBETOOL_CONFIG"

// localConfigName is looked up in the working directory.
const localConfigName = "cubetool.yaml"

// Load loads configuration with priority: defaults < file < flags.
// The file is the -config flag, then $CUBETOOL_CONFIG, then the first of
// ./cubetool.yaml and ConfigDir()/config.yaml that exists.
func Load() (*Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		if cfg, err = LoadFrom(path); err != nil {
			return nil, err
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		if cfg.Source != "" {
			return nil, fmt.Errorf("invalid config %s: %w", cfg.Source, err)
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads a single config file over the defaults. Flags are not
// applied.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfigPath picks the config file. Explicit paths must exist.
func resolveConfigPath() (string, error) {
	explicit := ConfigPath()
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit == "" {
		return findConfigFile(), nil
	}
	if _, err := os.Stat(explicit); err != nil {
		return "", fmt.Errorf("config file %s: %w", explicit, err)
	}
	return explicit, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		localConfigName,
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Octacube")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Octacube")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "octacube")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "octacube")
	}
}

// loadFromFile merges a YAML file over the values already in cfg. Unknown
// keys are errors so a misspelt setting is not silently ignored. A relative
// log_file is taken relative to the config file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if lf := cfg.Logging.LogFile; lf != "" && !filepath.IsAbs(lf) {
		cfg.Logging.LogFile = filepath.Join(filepath.Dir(path), lf)
	}
	cfg.Source = path
	return nil
}
