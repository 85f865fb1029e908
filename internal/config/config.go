package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

// Register describes bounds and the default of one stored variable.
type Register struct {
	Key      uint8  `yaml:"key"`
	Name     string `yaml:"name"`
	Min      uint16 `yaml:"min"`
	Max      uint16 `yaml:"max"`
	Default  uint16 `yaml:"default"`
	ReadOnly bool   `yaml:"readonly"`
	// Preserve keeps the stored value when defaults are restored, e.g. calibration data.
	Preserve bool `yaml:"preserve"`
}

type Config struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	Home        string `yaml:"home"`
	DataDir     string `yaml:"data_dir"`
	LogDir      string `yaml:"log_dir"`
	LogLevel    string `yaml:"log_level"`
	UserFile    string `yaml:"user_file"`

	Image      string `yaml:"image"`
	FlashSize  int64  `yaml:"flash_size"`
	PageSize   int    `yaml:"page_size"`
	PageBase   int64  `yaml:"page_base"`
	MaxRetries int    `yaml:"max_retries"`

	EnableTLS bool   `yaml:"enable_tls"`
	TLSCert   string `yaml:"tls_cert"`
	TLSKey    string `yaml:"tls_key"`

	Registers []Register `yaml:"registers"`
}

// Allow user to set app home through env variable
// otherwise default to ~/.local/share/goeeprom

func resolveHome(homeOverride string) (string, error) {
	home := homeOverride
	if home == "" {
		home = os.Getenv("GOEEPROM_HOME")
	}

	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", errors.WithStack(err)
		}
		home = filepath.Join(userHome, ".local", "share", "goeeprom")
	}

	if err := os.MkdirAll(home, 0o755); err != nil {
		return "", errors.WithStack(err)
	}
	return home, nil
}

func LoadConfig(homeOverride, configOverride string) (*Config, error) {
	home, err := resolveHome(homeOverride)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:       "127.0.0.1:5020",
		Home:       home,
		DataDir:    filepath.Join(home, "data"),
		LogDir:     filepath.Join(home, "log"),
		LogLevel:   "info",
		UserFile:   filepath.Join(home, "users.json"),
		FlashSize:  2 * 1024,
		PageSize:   1024,
		MaxRetries: 3,
	}

	cfgPath := configOverride
	if cfgPath == "" {
		cfgPath = filepath.Join(home, "config.yaml")
	}

	if f, err := os.Open(cfgPath); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", cfgPath)
		}
	} else if configOverride != "" {
		return nil, errors.WithStack(err)
	}

	if cfg.Image == "" {
		cfg.Image = filepath.Join(cfg.DataDir, "eeprom.img")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	_ = os.MkdirAll(cfg.DataDir, 0o755)
	_ = os.MkdirAll(cfg.LogDir, 0o755)

	return cfg, nil
}

// Validate checks the flash geometry and the register table.
func (cfg *Config) Validate() error {
	switch {
	case cfg.PageSize <= 0:
		return errors.Errorf("page_size must be positive, got %d", cfg.PageSize)
	case cfg.FlashSize%int64(cfg.PageSize) != 0:
		return errors.Errorf("flash_size %d is not a multiple of page_size %d", cfg.FlashSize, cfg.PageSize)
	case cfg.PageBase < 0 || cfg.PageBase+2*int64(cfg.PageSize) > cfg.FlashSize:
		return errors.Errorf("two pages at page_base %d do not fit into flash_size %d", cfg.PageBase, cfg.FlashSize)
	case cfg.MaxRetries < 0:
		return errors.Errorf("max_retries must not be negative, got %d", cfg.MaxRetries)
	}

	seen := map[uint8]bool{}
	for _, r := range cfg.Registers {
		switch {
		case r.Key == 0xFF:
			return errors.Errorf("register %q uses reserved key 255", r.Name)
		case seen[r.Key]:
			return errors.Errorf("register key %d defined twice", r.Key)
		case r.Min > r.Max || r.Default < r.Min || r.Default > r.Max:
			return errors.Errorf("register %d: default %d outside [%d, %d]", r.Key, r.Default, r.Min, r.Max)
		}
		seen[r.Key] = true
	}
	return nil
}

// Register returns the register definition of key.
func (cfg *Config) Register(key uint8) (Register, bool) {
	for _, r := range cfg.Registers {
		if r.Key == key {
			return r, true
		}
	}
	return Register{}, false
}
