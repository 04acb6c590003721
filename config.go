package main

import (
	"os"
	"time"

	"github.com/bobg/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"

	"reverse-short-url/logging"
)

var defaultBiliHosts = []string{"www.bilibili.com", "m.bilibili.com", "bilibili.com"}

// Config is the bot configuration. File values are read first and flags that
// were set on the command line override them.
type Config struct {
	Token        string   `toml:"token"`
	LogLevel     string   `toml:"log_level"`
	LogFile      string   `toml:"log_file"`
	Dev          bool     `toml:"dev"`
	Timeout      duration `toml:"timeout"`
	MaxRedirects int      `toml:"max_redirects"`
	BiliHosts    []string `toml:"bili_hosts"`
}

type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "parsing duration %q", text)
	}
	d.Duration = v
	return nil
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:     logging.InfoLevelStr,
		Timeout:      duration{5 * time.Second},
		MaxRedirects: 10,
		BiliHosts:    append([]string(nil), defaultBiliHosts...),
	}
}

func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}
	return errors.Wrap(toml.Unmarshal(data, cfg), "decoding config file")
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*Config, error) {
	cfg := defaultConfig()

	if path := c.String("config"); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "loading config from %s", path)
		}
	}

	if c.IsSet("token") {
		cfg.Token = c.String("token")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("dev") {
		cfg.Dev = c.Bool("dev")
	}
	if c.IsSet("timeout") {
		cfg.Timeout.Duration = c.Duration("timeout")
	}
	if c.IsSet("max-redirects") {
		cfg.MaxRedirects = c.Int("max-redirects")
	}
	if hosts := c.StringSlice("bili-host"); len(hosts) > 0 {
		cfg.BiliHosts = hosts
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch {
	case cfg.Token == "":
		return errors.New("bot token is required (--token or BOT_TOKEN)")
	case cfg.Timeout.Duration <= 0:
		return errors.New("timeout must be positive")
	case cfg.MaxRedirects <= 0:
		return errors.New("max-redirects must be positive")
	case len(cfg.BiliHosts) == 0:
		return errors.New("at least one bilibili host is required")
	}
	return nil
}
