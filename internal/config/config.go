package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

// TokenEnv overrides server.apiToken when set.
const TokenEnv = "VALIDATOR_TOKEN"

type Config struct {
	Server Server `yaml:"server"`
	Brands Brands `yaml:"brands"`
	Ledger Ledger `yaml:"ledger"`
	Redis  Redis  `yaml:"redis"`
	Trace  Trace  `yaml:"trace"`
}

type Server struct {
	Listen   string `yaml:"listen"`
	APIToken string `yaml:"apiToken"`
	LogLevel string `yaml:"logLevel"` // debug, info, warn, error
}

type Brands struct {
	Source        string        `yaml:"source"` // file, postgres
	Dir           string        `yaml:"dir"`
	PostgresDsn   string        `yaml:"postgresDsn"`
	Cache         string        `yaml:"cache"` // none, memory, memcached
	CacheTTL      time.Duration `yaml:"cacheTTL"`
	MemcachedAddr string        `yaml:"memcachedAddr"`
}

type Ledger struct {
	OnCorrupt string `yaml:"onCorrupt"` // reset, fail
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Trace struct {
	Enable   bool   `yaml:"enable"`
	Endpoint string `yaml:"endpoint"`
}

func Default() Config {
	return Config{
		Server: Server{
			Listen:   ":8000",
			LogLevel: "info",
		},
		Brands: Brands{
			Source:   "file",
			Dir:      "brands",
			Cache:    "none",
			CacheTTL: 5 * time.Minute,
		},
		Ledger: Ledger{
			OnCorrupt: "reset",
		},
	}
}

// Load reads the yaml file at path over the defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "open config")
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrap(err, "decode config")
		}
	}

	if token, ok := os.LookupEnv(TokenEnv); ok {
		config.Server.APIToken = token
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch c.Brands.Source {
	case "file":
		if c.Brands.Dir == "" {
			return errors.New("brands.dir is required for the file source")
		}
	case "postgres":
		if c.Brands.PostgresDsn == "" {
			return errors.New("brands.postgresDsn is required for the postgres source")
		}
	default:
		return errors.Errorf("unknown brands.source: %q", c.Brands.Source)
	}

	switch c.Brands.Cache {
	case "", "none", "memory":
	case "memcached":
		if c.Brands.MemcachedAddr == "" {
			return errors.New("brands.memcachedAddr is required for the memcached cache")
		}
	default:
		return errors.Errorf("unknown brands.cache: %q", c.Brands.Cache)
	}

	switch c.Ledger.OnCorrupt {
	case "", "reset", "fail":
	default:
		return errors.Errorf("unknown ledger.onCorrupt: %q", c.Ledger.OnCorrupt)
	}

	if c.Trace.Enable && c.Trace.Endpoint == "" {
		return errors.New("trace.endpoint is required when tracing is enabled")
	}
	return nil
}
