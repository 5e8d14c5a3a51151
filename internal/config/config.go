package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"

	envPrefix      = "TODO"
	defaultCfgPath = "config.yml"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Cache      CacheConfig      `mapstructure:"cache"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	Migrate        bool          `mapstructure:"migrate"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" или "inmemory"
}

// пустой RedisURL отключает кэш
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	RateLimit      int           `mapstructure:"rate_limit"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

type WorkerConfig struct {
	CompactionEnabled  bool          `mapstructure:"compaction_enabled"`
	CompactionInterval time.Duration `mapstructure:"compaction_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.migrate", true)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", time.Minute)

	v.SetDefault("http.rate_limit", 100)
	v.SetDefault("http.request_timeout", 30*time.Second)
	v.SetDefault("http.cors_origins", []string{"*"})

	v.SetDefault("worker.compaction_enabled", false)
	v.SetDefault("worker.compaction_interval", time.Hour)
}

// Load читает config.yml (путь можно переопределить через TODO_CONFIG),
// затем переменные окружения TODO_<СЕКЦИЯ>_<КЛЮЧ>. Отсутствующий файл не ошибка
func Load() (*Config, error) {
	path := os.Getenv(envPrefix + "_CONFIG")
	if path == "" {
		path = defaultCfgPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("для хранилища postgres нужен database.url")
		}
	default:
		return fmt.Errorf("неизвестный тип хранилища %q", c.Repository.Type)
	}

	if c.Worker.CompactionEnabled && c.Worker.CompactionInterval <= 0 {
		return fmt.Errorf("worker.compaction_interval должен быть положительным")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}
