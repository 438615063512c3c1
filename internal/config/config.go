package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/balkashynov/shyft/internal/pay"
)

// Keys accepted by Set
const (
	KeyTaxRate      = "settings.tax_rate"
	KeyTimerTopmost = "theme.timer_topmost"
	KeyDataDir      = "paths.data_dir"
)

const (
	DefaultTaxRate = 0.27
	envPrefix      = "SHYFT"
)

// Config is the decoded config.yaml
type Config struct {
	Settings struct {
		TaxRate float64 `mapstructure:"tax_rate"`
	} `mapstructure:"settings"`
	Theme struct {
		TimerTopmost bool `mapstructure:"timer_topmost"`
	} `mapstructure:"theme"`
	Paths struct {
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"paths"`
}

// Validate checks the values are usable
func (c Config) Validate() error {
	if err := pay.ValidateTaxRate(c.Settings.TaxRate); err != nil {
		return fmt.Errorf("%s: %w", KeyTaxRate, err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("%s must not be empty", KeyDataDir)
	}
	return nil
}

// Manager loads and writes back the config file
type Manager struct {
	v    *viper.Viper
	path string
	cfg  Config
}

// DefaultDir returns ~/.shyft
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shyft"
	}
	return filepath.Join(home, ".shyft")
}

// DefaultPath returns the config file inside DefaultDir
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads the YAML config at path, creating it with defaults when it
// does not exist. SHYFT_* environment variables override file values.
func Load(path string) (*Manager, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTaxRate, DefaultTaxRate)
	v.SetDefault(KeyTimerTopmost, false)
	v.SetDefault(KeyDataDir, DefaultDir())

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("error creating config file: %w", err)
		}
	}

	m := &Manager{v: v, path: path}
	if err := m.decode(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) decode() error {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("error decoding config file: %w", err)
	}
	cfg.Paths.DataDir = expandHome(cfg.Paths.DataDir)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", m.path, err)
	}
	m.cfg = cfg
	return nil
}

// Path returns the config file location
func (m *Manager) Path() string {
	return m.path
}

// Config returns the decoded values
func (m *Manager) Config() Config {
	return m.cfg
}

// Settings returns every known key with its current value, sorted by key
func (m *Manager) Settings() [][2]string {
	keys := []string{KeyTaxRate, KeyTimerTopmost, KeyDataDir}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, fmt.Sprint(m.v.Get(k))})
	}
	return out
}

// Set validates value for key and writes the file back
func (m *Manager) Set(key, value string) error {
	var parsed any
	switch key {
	case KeyTaxRate:
		rate, err := pay.ParseTaxRate(value)
		if err != nil {
			return err
		}
		parsed = rate
	case KeyTimerTopmost:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		parsed = b
	case KeyDataDir:
		dir := strings.TrimSpace(value)
		if dir == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		parsed = dir
	default:
		return fmt.Errorf("unknown config key '%s'", key)
	}

	m.v.Set(key, parsed)
	if err := m.decode(); err != nil {
		return err
	}
	if err := m.v.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
