// Package config reads table configurations from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/graph-guard/inthash/pkg/container"
	"github.com/graph-guard/inthash/pkg/container/chained"
	"github.com/graph-guard/inthash/pkg/container/probing"
	"github.com/graph-guard/inthash/pkg/container/synced"
	"github.com/graph-guard/inthash/pkg/hash"
	"github.com/phuslu/log"
	yaml "gopkg.in/yaml.v3"
)

const (
	TableChained = "chained"
	TableProbing = "probing"
)

const DefaultLogLevel = "info"

type Config struct {
	Table          string  `yaml:"table"`
	Buckets        int     `yaml:"buckets"`
	Hasher         string  `yaml:"hasher"`
	Seed           uint64  `yaml:"seed"`
	ChainThreshold int     `yaml:"chain-threshold"`
	MaxLoad        float64 `yaml:"max-load"`
	Synchronized   bool    `yaml:"synchronized"`
	LogLevel       string  `yaml:"log-level"`
}

// Default returns the configuration used for absent settings.
func Default() *Config {
	return &Config{
		Table:          TableProbing,
		Buckets:        container.DefaultBucketCount,
		Hasher:         hash.NameModulo,
		ChainThreshold: container.DefaultChainThreshold,
		MaxLoad:        container.DefaultMaxLoad,
		LogLevel:       DefaultLogLevel,
	}
}

var levels = map[string]log.Level{
	"trace": log.TraceLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
}

// Read reads the YAML config file at filePath from filesystem.
// Settings missing in the file keep their default values.
func Read(filesystem fs.FS, filePath string) (*Config, error) {
	f, err := filesystem.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	c := Default()
	d := yaml.NewDecoder(f)
	d.KnownFields(true)
	if err := d.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ErrorIllegal{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}
	if err := c.Validate(); err != nil {
		err.FilePath = filePath
		return nil, err
	}
	return c, nil
}

// Validate returns an error for the first illegal setting.
func (c *Config) Validate() *ErrorIllegal {
	switch c.Table {
	case TableChained, TableProbing:
	default:
		return &ErrorIllegal{
			Feature: "table",
			Message: fmt.Sprintf(
				"expected %s or %s, got %q",
				TableChained, TableProbing, c.Table,
			),
		}
	}
	if c.Buckets < 1 {
		return &ErrorIllegal{
			Feature: "buckets",
			Message: fmt.Sprintf("must be positive, got %d", c.Buckets),
		}
	}
	if _, err := hash.ByName(c.Hasher, c.Seed); err != nil {
		return &ErrorIllegal{Feature: "hasher", Message: err.Error()}
	}
	if c.ChainThreshold < 1 {
		return &ErrorIllegal{
			Feature: "chain-threshold",
			Message: fmt.Sprintf("must be positive, got %d", c.ChainThreshold),
		}
	}
	if !(c.MaxLoad > 0 && c.MaxLoad < 1) {
		return &ErrorIllegal{
			Feature: "max-load",
			Message: fmt.Sprintf("must be in (0, 1), got %g", c.MaxLoad),
		}
	}
	if _, ok := levels[c.LogLevel]; !ok {
		return &ErrorIllegal{
			Feature: "log-level",
			Message: fmt.Sprintf("unknown level %q", c.LogLevel),
		}
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	if l, ok := levels[c.LogLevel]; ok {
		return l
	}
	return log.InfoLevel
}

// NewTable creates the configured table. l may be nil.
func (c *Config) NewTable(l *log.Logger) (container.Table, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	h, _ := hash.ByName(c.Hasher, c.Seed)
	opts := []container.Option{
		container.WithHasher(h),
		container.WithLogger(l),
		container.WithChainThreshold(c.ChainThreshold),
		container.WithMaxLoad(c.MaxLoad),
	}

	var t container.Table
	if c.Table == TableChained {
		t = chained.New(c.Buckets, opts...)
	} else {
		t = probing.New(c.Buckets, opts...)
	}
	if c.Synchronized {
		t = synced.New(t)
	}
	return t, nil
}

type ErrorIllegal struct {
	FilePath string
	Feature  string
	Message  string
}

func (e *ErrorIllegal) Error() string {
	var b strings.Builder
	b.WriteString("illegal")
	if e.Feature != "" {
		b.WriteString(" ")
		b.WriteString(e.Feature)
	}
	if e.FilePath != "" {
		b.WriteString(" in ")
		b.WriteString(e.FilePath)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}
