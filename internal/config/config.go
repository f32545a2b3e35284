package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BANGAPDA_SERVER_PORT.
const EnvPrefix = "BANGAPDA"

// Config holds all bangapda configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Match    MatchConfig    `mapstructure:"match"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Bind        string   `mapstructure:"bind"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	WebDir      string   `mapstructure:"web_dir"` // serve the client from disk instead of the binary
}

type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	SeedFile string `mapstructure:"seed_file"` // directory YAML; empty = built-in seed
}

// MatchConfig is the selection policy applied to every search.
type MatchConfig struct {
	MinScore    int `mapstructure:"min_score"`
	MaxResults  int `mapstructure:"max_results"`
	BrowseScore int `mapstructure:"browse_score"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind:        "127.0.0.1",
			Port:        37780,
			CORSOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Match: MatchConfig{
			MinScore:    40,
			MaxResults:  8,
			BrowseScore: 70,
		},
		Auth: AuthConfig{
			Secret:   "development-secret-change-in-production",
			Issuer:   "bangapda",
			TokenTTL: 7 * 24 * time.Hour,
		},
	}
}

// SetDefaults registers Default() with v so that every key is known to viper
// and can be overridden from the environment.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.bind", d.Server.Bind)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.web_dir", d.Server.WebDir)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.seed_file", d.Database.SeedFile)
	v.SetDefault("match.min_score", d.Match.MinScore)
	v.SetDefault("match.max_results", d.Match.MaxResults)
	v.SetDefault("match.browse_score", d.Match.BrowseScore)
	v.SetDefault("auth.secret", d.Auth.Secret)
	v.SetDefault("auth.issuer", d.Auth.Issuer)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)
}

// New returns a viper instance with defaults and environment overrides wired.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path (toml, yaml or json by extension) on top
// of the defaults. An empty path looks for bangapda.{toml,yaml,json} in the
// working directory and ~/.bangapda, and is not an error when none exists.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bangapda")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.bangapda")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
