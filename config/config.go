// Package config loads the database settings that select the SQL dialect.
//
// Precedence, highest first: flags, environment, config file, defaults.
// Environment variables use the DB_ prefix (DB_DRIVER, DB_HOST, DB_PORT,
// DB_USER, DB_PASSWORD, DB_NAME) plus ENV for the environment name.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/Mahmoud1478/go-query-builder/dialect"
)

const (
	DefaultDriver = "pg"
	DefaultHost   = "localhost"
	DefaultPort   = 5432
	DefaultEnv    = "development"

	envPrefix = "DB_"
)

// Config holds the connection settings. Only Driver is consumed by the
// builder; the rest is carried for the code that opens the connection.
type Config struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	Env      string `koanf:"env"`
	Verbose  bool   `koanf:"verbose"`
}

// Load reads the configuration. cfgFile may be empty; flags may be nil. Only
// flags that were explicitly set override other sources, and the "config"
// flag itself is never treated as a setting.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"driver":  DefaultDriver,
		"host":    DefaultHost,
		"port":    DefaultPort,
		"env":     DefaultEnv,
		"verbose": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// DB_HOST -> host, ENV -> env
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	if s == "ENV" {
		return "env"
	}
	if strings.HasPrefix(s, envPrefix) {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}
	return ""
}

// Dialect resolves the configured driver name.
func (c *Config) Dialect() (dialect.Dialect, error) {
	d, err := dialect.ByName(c.Driver)
	if err != nil {
		return nil, fmt.Errorf("config: driver: %w", err)
	}
	return d, nil
}

// DSN returns the database/sql driver name and data source name for the
// configured driver. The postgres driver name is the one registered by
// github.com/jackc/pgx/v5/stdlib; sqlite uses modernc.org/sqlite and treats
// Name as the database file, ":memory:" when empty.
func (c *Config) DSN() (driverName, dsn string, err error) {
	d, err := c.Dialect()
	if err != nil {
		return "", "", err
	}
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))

	switch d.Name() {
	case "pg":
		u := url.URL{Scheme: "postgres", Host: addr, Path: "/" + c.Name}
		if c.User != "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
		return "pgx", u.String(), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = c.Name
		return "mysql", mc.FormatDSN(), nil
	default:
		if c.Name == "" {
			return "sqlite", ":memory:", nil
		}
		return "sqlite", c.Name, nil
	}
}
