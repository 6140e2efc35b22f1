// Package config loads the configuration of the rxbuf command.
//
// Values are resolved in this order, later sources win: defaults, the YAML file,
// the .env file, the process environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all environment variables that override the configuration.
const EnvPrefix = "RXBUF_"

const (
	SinkStdout = "stdout"
	SinkSQLite = "sqlite"
)

var (
	DefaultMaxLines = 100
	DefaultMaxWait  = time.Second
	DefaultLogLevel = "info"
)

type InputConfig struct {
	// Path of the file to read. Empty means stdin.
	Path string `yaml:"path"`
}

type BatchConfig struct {
	MaxLines int           `yaml:"max_lines"`
	MaxWait  time.Duration `yaml:"max_wait"`
}

type SinkConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

type LogConfig struct {
	Lvl     string   `yaml:"level"`
	Outputs []string `yaml:"outputs"`
}

type RuntimeConfig struct {
	MetricsAddr string    `yaml:"metrics_addr"`
	Log         LogConfig `yaml:"logging"`
}

type Config struct {
	Input   InputConfig   `yaml:"input"`
	Batch   BatchConfig   `yaml:"batch"`
	Sink    SinkConfig    `yaml:"sink"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

var zapLevelMapper = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

func (l LogConfig) Level() zapcore.Level {
	return zapLevelMapper[l.Lvl]
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Batch: BatchConfig{
			MaxLines: DefaultMaxLines,
			MaxWait:  DefaultMaxWait,
		},
		Sink: SinkConfig{
			Type: SinkStdout,
		},
		Runtime: RuntimeConfig{
			Log: LogConfig{Lvl: DefaultLogLevel},
		},
	}
}

// Load builds the configuration from the YAML file at path and the env file at envPath.
// Both paths are optional. A missing env file is ignored, a missing config file is not.
func Load(path, envPath string) (*Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	env := map[string]string{}
	if envPath != "" {
		fileEnv, err := godotenv.Read(envPath)
		if err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "read env file %s", envPath)
		}
		for k, v := range fileEnv {
			env[k] = v
		}
	}

	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	str("INPUT", &c.Input.Path)
	str("SINK_TYPE", &c.Sink.Type)
	str("SINK_DSN", &c.Sink.DSN)
	str("METRICS_ADDR", &c.Runtime.MetricsAddr)
	str("LOG_LEVEL", &c.Runtime.Log.Lvl)

	if v, ok := lookup(EnvPrefix + "MAX_LINES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sMAX_LINES", EnvPrefix)
		}
		c.Batch.MaxLines = n
	}

	if v, ok := lookup(EnvPrefix + "MAX_WAIT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%sMAX_WAIT", EnvPrefix)
		}
		c.Batch.MaxWait = d
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Batch.MaxLines < 1 {
		return errors.Errorf("batch.max_lines must be positive, got %d", c.Batch.MaxLines)
	}
	if c.Batch.MaxWait <= 0 {
		return errors.Errorf("batch.max_wait must be positive, got %v", c.Batch.MaxWait)
	}

	switch c.Sink.Type {
	case SinkStdout:
	case SinkSQLite:
		if c.Sink.DSN == "" {
			return errors.New("sink.dsn is required for the sqlite sink")
		}
	default:
		return errors.Errorf("unknown sink type %q", c.Sink.Type)
	}

	if _, ok := zapLevelMapper[c.Runtime.Log.Lvl]; !ok {
		return errors.Errorf("unknown log level %q", c.Runtime.Log.Lvl)
	}
	return nil
}
