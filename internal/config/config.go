package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/akave-ai/logingest/internal/infrastructure/sources"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	// A double underscore separates nested keys: LOGINGEST_INGEST__PARALLEL_FILES.
	EnvPrefix = "LOGINGEST_"
	// ConfigFileEnv names the variable holding the TOML config path.
	ConfigFileEnv     = "LOGINGEST_CONFIG_FILE"
	DefaultConfigFile = "config.toml"
)

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Source        SourceConfig         `koanf:"source" validate:"required"`
	Scylla        ScyllaConfig         `koanf:"scylla" validate:"required"`
	Ingest        IngestConfig         `koanf:"ingest" validate:"required"`
	Ledger        LedgerConfig         `koanf:"ledger"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig configures the HTTP listener. WriteTimeout bounds a whole
// response, including a long POST /ingest; ShutdownTimeout bounds how long
// in-flight requests may drain after a stop signal. Zero leaves either one
// unbounded, which is the default.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SourceConfig selects and configures the source backend.
type SourceConfig struct {
	Backend      string `koanf:"backend" validate:"required,oneof=s3 local"`
	Region       string `koanf:"region"`
	Endpoint     string `koanf:"endpoint" validate:"omitempty,url"`
	UsePathStyle bool   `koanf:"use_path_style"`
	AccessKey    string `koanf:"access_key"`
	SecretKey    string `koanf:"secret_key" validate:"required_with=AccessKey"`
	LocalRoot    string `koanf:"local_root"`
}

// ReaderConfig returns the backend configuration handed to the source registry.
func (s SourceConfig) ReaderConfig() sources.Config {
	return sources.Config{
		"region":         s.Region,
		"endpoint":       s.Endpoint,
		"use_path_style": s.UsePathStyle,
		"access_key":     s.AccessKey,
		"secret_key":     s.SecretKey,
		"root":           s.LocalRoot,
	}
}

type ScyllaConfig struct {
	Hosts      []string      `koanf:"hosts" validate:"required,min=1,dive,required"`
	DC         string        `koanf:"dc"`
	SchemaFile string        `koanf:"schema_file" validate:"required"`
	Timeout    time.Duration `koanf:"timeout"`
}

type IngestConfig struct {
	ParallelFiles int `koanf:"parallel_files" validate:"min=1"`
	DBParallelism int `koanf:"db_parallelism" validate:"min=1"`
}

// LedgerConfig configures the optional Postgres ingestion ledger.
type LedgerConfig struct {
	DatabaseURL string `koanf:"database_url"`
}

// Enabled reports whether a ledger database is configured.
func (l LedgerConfig) Enabled() bool {
	return l.DatabaseURL != ""
}

// Default returns the configuration used for keys absent from every source.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			ReadTimeout: 30 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		Source: SourceConfig{
			Backend:   "local",
			Region:    "us-west-2",
			LocalRoot: ".",
		},
		Scylla: ScyllaConfig{
			Hosts:      []string{"127.0.0.1:9042"},
			SchemaFile: "schema.cql",
			Timeout:    10 * time.Second,
		},
		Ingest: IngestConfig{
			ParallelFiles: 4,
			DBParallelism: 64,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (skipped when it does not exist), then LOGINGEST_* environment variables.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}
	if cfg.Observability.Environment == "" {
		cfg.Observability.Environment = cfg.Primary.Env
	}
	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}
	return cfg, nil
}

// FilePath returns the config file named by LOGINGEST_CONFIG_FILE, or the default.
func FilePath() string {
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p
	}
	return DefaultConfigFile
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
