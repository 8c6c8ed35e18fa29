// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	RepositoryPostgres = "postgres"
	RepositorySQLite   = "sqlite"
	RepositoryInMemory = "inmemory"

	envPrefix = "DAYTRACKER"
)

type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository"`
	App        AppConfig        `yaml:"app" mapstructure:"app"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" mapstructure:"port"`
	Host            string        `yaml:"host" mapstructure:"host"`
	BasePath        string        `yaml:"base_path" mapstructure:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RateLimit       int           `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per minute per IP, 0 disables
	CORSOrigins     []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
	StaticDir       string        `yaml:"static_dir" mapstructure:"static_dir"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url" mapstructure:"url"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinConnections int           `yaml:"min_connections" mapstructure:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	SQLitePath     string        `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	AutoMigrate    bool          `yaml:"auto_migrate" mapstructure:"auto_migrate"`
}

type LoggingConfig struct {
	Development bool `yaml:"development" mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type" mapstructure:"type"` // postgres, sqlite or inmemory
}

type AppConfig struct {
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Seed        bool   `yaml:"seed" mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_path", "/api/v1")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.static_dir", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.sqlite_path", "data/daytracker.db")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryPostgres)

	v.SetDefault("app.environment", "Production")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.seed", true)
}

// Load reads the yaml file at path (config.yml when empty) and applies
// DAYTRACKER_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = "config.yml"
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize falls back to the embedded SQLite store when postgres is
// selected without a connection string.
func (c *Config) normalize() {
	c.Repository.Type = strings.ToLower(strings.TrimSpace(c.Repository.Type))
	if c.Repository.Type == RepositoryPostgres && c.Database.URL == "" {
		c.Repository.Type = RepositorySQLite
	}
	c.Server.BasePath = "/" + strings.Trim(c.Server.BasePath, "/")
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryPostgres, RepositorySQLite, RepositoryInMemory:
	default:
		return fmt.Errorf("unknown repository type %q", c.Repository.Type)
	}

	if c.Server.Port == "" || c.Server.Port == "0" {
		return errors.New("server.port must be set")
	}

	if c.Database.MaxConnections < c.Database.MinConnections {
		return fmt.Errorf("database.max_connections (%d) is lower than database.min_connections (%d)",
			c.Database.MaxConnections, c.Database.MinConnections)
	}

	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
