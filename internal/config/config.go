package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStreamPrefix     = "zeebe"
	DefaultInitialCursor    = "0"
	DefaultBlockTimeout     = 30 * time.Second
	DefaultReconnectBackoff = 10 * time.Second
	DefaultCacheSize        = 128
)

type Config struct {
	Name       string     `yaml:"name" json:"name" env:"NAME" env-default:"zenbpm-importer"` // used for OTEL as an application identifier
	Redis      Redis      `yaml:"redis" json:"redis"`
	Consumer   Consumer   `yaml:"consumer" json:"consumer"`
	Store      Store      `yaml:"store" json:"store"`
	Resolver   Resolver   `yaml:"resolver" json:"resolver"`
	HttpServer HttpServer `yaml:"httpServer" json:"httpServer"` // system endpoints (metrics, status)
	Tracing    Tracing    `yaml:"tracing" json:"tracing"`
}

type Redis struct {
	Addr     string `yaml:"addr" json:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" json:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" json:"db" env:"REDIS_DB" env-default:"0"`
}

type Consumer struct {
	// StreamPrefix is prepended to the upper case category name: <prefix>:PROCESS_INSTANCE
	StreamPrefix string `yaml:"streamPrefix" json:"streamPrefix" env:"CONSUMER_STREAM_PREFIX"`
	// InitialCursor is the position every stream is read from after start.
	InitialCursor string `yaml:"initialCursor" json:"initialCursor" env:"CONSUMER_INITIAL_CURSOR"`
	// BlockTimeout bounds a single blocking read. It only paces liveness logging.
	BlockTimeout time.Duration `yaml:"blockTimeout" json:"blockTimeout" env:"CONSUMER_BLOCK_TIMEOUT"`
	// ReconnectBackoff is the pause between a failed read cycle and the next connect.
	ReconnectBackoff time.Duration `yaml:"reconnectBackoff" json:"reconnectBackoff" env:"CONSUMER_RECONNECT_BACKOFF"`
}

type Store struct {
	Path string `yaml:"path" json:"path" env:"STORE_PATH" env-default:"dbfile"`
	// DisableForeignKeys turns off foreign key enforcement of the projection tables.
	DisableForeignKeys bool `yaml:"disableForeignKeys" json:"disableForeignKeys" env:"STORE_DISABLE_FOREIGN_KEYS"`
}

type Resolver struct {
	CacheSize int `yaml:"cacheSize" json:"cacheSize" env:"RESOLVER_CACHE_SIZE"`
}

type HttpServer struct {
	Addr string `yaml:"addr" json:"addr" env:"HTTP_SERVER_ADDR" env-default:":8080"`
}

type Tracing struct {
	Enabled  bool   `yaml:"enabled" json:"enabled" env:"OTEL_ENABLED"`
	Endpoint string `yaml:"endpoint" json:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Name     string `yaml:"name" json:"name" env:"OTEL_SERVICE_NAME"`
}

func (c Config) defaults() Config {
	if c.Consumer.StreamPrefix == "" {
		c.Consumer.StreamPrefix = DefaultStreamPrefix
	}
	if c.Consumer.InitialCursor == "" {
		c.Consumer.InitialCursor = DefaultInitialCursor
	}
	if c.Consumer.BlockTimeout <= 0 {
		c.Consumer.BlockTimeout = DefaultBlockTimeout
	}
	if c.Consumer.ReconnectBackoff <= 0 {
		c.Consumer.ReconnectBackoff = DefaultReconnectBackoff
	}
	if c.Resolver.CacheSize <= 0 {
		c.Resolver.CacheSize = DefaultCacheSize
	}
	if c.Tracing.Name == "" {
		c.Tracing.Name = c.Name
	}
	return c
}

// Load reads fileName, falling back to CONFIG_FILE and then ./conf.yaml. When the file
// does not exist the configuration is read from the environment.
func Load(fileName string) (Config, error) {
	c := Config{}
	if fileName == "" {
		fileName = os.Getenv("CONFIG_FILE")
	}
	if fileName == "" {
		wd, err := os.Getwd()
		if err != nil {
			return c, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		fileName = fmt.Sprintf("%s/conf.yaml", wd)
	}
	var err error
	if _, perr := os.Stat(fileName); errors.Is(perr, os.ErrNotExist) {
		err = cleanenv.ReadEnv(&c)
		fmt.Printf("Configuration file %s not found. Reading config from ENV.\n", fileName)
	} else {
		err = cleanenv.ReadConfig(fileName, &c)
	}
	if err != nil {
		return c, fmt.Errorf("failed to read configuration: %w", err)
	}
	return c.defaults(), nil
}

// Dump renders the effective configuration for the startup log. Secrets are omitted.
func (c Config) Dump() string {
	c.Redis.Password = ""
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<unprintable config: %s>", err)
	}
	return string(out)
}
