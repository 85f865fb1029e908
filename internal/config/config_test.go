package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	requireT := require.New(t)

	home := t.TempDir()
	cfg, err := LoadConfig(home, "")
	requireT.NoError(err)
	requireT.Equal(home, cfg.Home)
	requireT.Equal(filepath.Join(home, "data", "eeprom.img"), cfg.Image)
	requireT.EqualValues(2048, cfg.FlashSize)
	requireT.Equal(1024, cfg.PageSize)
	requireT.Equal(3, cfg.MaxRetries)
	requireT.DirExists(cfg.DataDir)
	requireT.DirExists(cfg.LogDir)
}

func TestHomeFromEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("GOEEPROM_HOME", home)

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)
	require.Equal(t, home, cfg.Home)
}

func TestYAMLOverrides(t *testing.T) {
	requireT := require.New(t)

	home := t.TempDir()
	requireT.NoError(os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
addr: 0.0.0.0:502
page_size: 2048
flash_size: 8192
page_base: 4096
log_level: debug
registers:
  - key: 1
    name: slave address
    min: 1
    max: 247
    default: 1
  - key: 4
    name: device type
    max: 100
    default: 7
    readonly: true
`), 0o644))

	cfg, err := LoadConfig(home, "")
	requireT.NoError(err)
	requireT.Equal("0.0.0.0:502", cfg.Addr)
	requireT.Equal(2048, cfg.PageSize)
	requireT.EqualValues(4096, cfg.PageBase)
	requireT.Equal("debug", cfg.LogLevel)
	requireT.Len(cfg.Registers, 2)

	r, ok := cfg.Register(4)
	requireT.True(ok)
	requireT.True(r.ReadOnly)
	requireT.EqualValues(7, r.Default)

	_, ok = cfg.Register(2)
	requireT.False(ok)
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := LoadConfig(t.TempDir(), "/nonexistent/config.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{PageSize: 1024, FlashSize: 2048}
	require.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Config){
		"zero page":       func(c *Config) { c.PageSize = 0 },
		"unaligned flash": func(c *Config) { c.FlashSize = 3000 },
		"pages overflow":  func(c *Config) { c.PageBase = 1024 },
		"negative retry":  func(c *Config) { c.MaxRetries = -1 },
		"reserved key":    func(c *Config) { c.Registers = []Register{{Key: 0xFF}} },
		"duplicate key": func(c *Config) {
			c.Registers = []Register{{Key: 1, Max: 1}, {Key: 1, Max: 1}}
		},
		"default out of bounds": func(c *Config) {
			c.Registers = []Register{{Key: 1, Min: 5, Max: 10, Default: 11}}
		},
	} {
		cfg := valid
		mutate(&cfg)
		require.Error(t, cfg.Validate(), name)
	}
}
