// Package config provides the configuration loader for tally.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when no path is given.
const DefaultFilename = "tally.yaml"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{logger: log}
}

// Load reads the configuration at path on top of the defaults.
// A missing file yields the defaults. Relative paths inside the file are
// resolved against the file's directory.
func (l *Loader) Load(path string) (domain.Config, error) {
	if path == "" {
		path = DefaultFilename
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	file, err := decode(data)
	if err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}

	cfg := domain.DefaultConfig()
	apply(&cfg, file, filepath.Dir(path))

	if err := l.validate(cfg); err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func decode(data []byte) (File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, zerr.Wrap(err, "failed to parse config file")
	}
	return file, nil
}

func apply(cfg *domain.Config, file File, base string) {
	if file.Cache.Dir != nil {
		cfg.Cache.Dir = resolve(base, *file.Cache.Dir)
	}
	if file.Cache.Key != nil {
		cfg.Cache.Key = *file.Cache.Key
	}
	if file.Cache.TTL != nil {
		cfg.Cache.DefaultTTL = *file.Cache.TTL
	}
	if file.Pagination.PageSize != nil {
		cfg.Pagination.PageSize = *file.Pagination.PageSize
	}
	if file.Pagination.Freshness != nil {
		cfg.Pagination.Freshness = *file.Pagination.Freshness
	}
	if file.Log.Level != nil {
		cfg.Log.Level = strings.ToLower(*file.Log.Level)
	}
	if file.Log.JSON != nil {
		cfg.Log.JSON = *file.Log.JSON
	}
	if file.Source.Fixture != nil {
		cfg.Source.Fixture = resolve(base, *file.Source.Fixture)
	}
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return filepath.Join(base, path)
}

func (l *Loader) validate(cfg domain.Config) error {
	switch {
	case cfg.Cache.DefaultTTL <= 0:
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "cache.ttl must be positive"), "ttl", cfg.Cache.DefaultTTL.String())
	case cfg.Pagination.PageSize <= 0:
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "pagination.page_size must be positive"), "page_size", cfg.Pagination.PageSize)
	case cfg.Pagination.Freshness <= 0:
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "pagination.freshness must be positive"), "freshness", cfg.Pagination.Freshness.String())
	case strings.TrimSpace(cfg.Cache.Key) == "" || strings.ContainsAny(cfg.Cache.Key, `/\`):
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "cache.key must be a plain name"), "key", cfg.Cache.Key)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		l.logger.Warn("unknown log level " + cfg.Log.Level + ", using info")
	}
	return nil
}
