package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ReminderConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Time     string   `mapstructure:"time"`     // "21:00"
	Workdays []string `mapstructure:"workdays"` // ["Mon","Tue",...]
	Holidays []string `mapstructure:"holidays"` // ["2025-12-25"]
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres | cloud
	DSN    string `mapstructure:"dsn"`
}

type EncryptionConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Passphrase string `mapstructure:"passphrase"` // usually from MAGICMIND_ENCRYPTION_PASSPHRASE
}

type CloudConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Container string `mapstructure:"container"`
	User      string `mapstructure:"user"`
	Token     string `mapstructure:"token"`
	// Passphrase is mixed into the text key; usually from MAGICMIND_CLOUD_PASSPHRASE.
	Passphrase string `mapstructure:"passphrase"`
}

type ServerConfig struct {
	Addr     string        `mapstructure:"addr"`
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Timezone   string           `mapstructure:"timezone"` // e.g. "Europe/Berlin" (optional)
	Storage    StorageConfig    `mapstructure:"storage"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
	Cloud      CloudConfig      `mapstructure:"cloud"`
	Server     ServerConfig     `mapstructure:"server"`
	Reminder   ReminderConfig   `mapstructure:"reminder"`
	Prompts    []string         `mapstructure:"prompts"`
	Log        LogConfig        `mapstructure:"log"`
}

func Default() Config {
	return Config{
		Storage: StorageConfig{Driver: "sqlite"},
		Cloud: CloudConfig{
			Container: "iCloud.com.magicmind",
		},
		Server: ServerConfig{
			Addr:     ":8080",
			TokenTTL: 30 * 24 * time.Hour,
		},
		Reminder: ReminderConfig{
			Enabled:  false,
			Time:     "21:00",
			Workdays: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			Holidays: []string{},
		},
		Log: LogConfig{Level: "info"},
	}
}

func xdgConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "magicmind")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file from the XDG config dir.
func Load() (Config, error) {
	path, err := xdgConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads config from path; a missing file yields the defaults.
// Every key can be overridden by MAGICMIND_<SECTION>_<KEY>.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("magicmind")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("encryption.enabled", cfg.Encryption.Enabled)
	v.SetDefault("encryption.passphrase", cfg.Encryption.Passphrase)
	v.SetDefault("cloud.endpoint", cfg.Cloud.Endpoint)
	v.SetDefault("cloud.container", cfg.Cloud.Container)
	v.SetDefault("cloud.user", cfg.Cloud.User)
	v.SetDefault("cloud.token", cfg.Cloud.Token)
	v.SetDefault("cloud.passphrase", cfg.Cloud.Passphrase)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.secret", cfg.Server.Secret)
	v.SetDefault("server.token_ttl", cfg.Server.TokenTTL)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.time", cfg.Reminder.Time)
	v.SetDefault("reminder.workdays", cfg.Reminder.Workdays)
	v.SetDefault("reminder.holidays", cfg.Reminder.Holidays)
	v.SetDefault("prompts", cfg.Prompts)
	v.SetDefault("log.level", cfg.Log.Level)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("config read: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	// normalize workdays
	for i, d := range cfg.Reminder.Workdays {
		cfg.Reminder.Workdays[i] = NormalizeWeekday(d)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	return cfg, nil
}

// NormalizeWeekday turns "monday", " MON" etc. into "Mon".
func NormalizeWeekday(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if len(d) > 3 {
		d = d[:3]
	}
	if d == "" {
		return d
	}
	return strings.ToUpper(d[:1]) + d[1:]
}

// Location is the day boundary zone for streaks and display.
func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}
