package config

import "time"

// File is the structure of the tally.yaml configuration file.
// Absent fields keep their defaults.
type File struct {
	Cache      CacheDTO      `yaml:"cache"`
	Pagination PaginationDTO `yaml:"pagination"`
	Log        LogDTO        `yaml:"log"`
	Source     SourceDTO     `yaml:"source"`
}

// CacheDTO configures the durable cache.
type CacheDTO struct {
	Dir *string        `yaml:"dir"`
	Key *string        `yaml:"key"`
	TTL *time.Duration `yaml:"ttl"`
}

// PaginationDTO configures list views.
type PaginationDTO struct {
	PageSize  *int           `yaml:"page_size"`
	Freshness *time.Duration `yaml:"freshness"`
}

// LogDTO configures logging.
type LogDTO struct {
	Level *string `yaml:"level"`
	JSON  *bool   `yaml:"json"`
}

// SourceDTO points at the record source.
type SourceDTO struct {
	Fixture *string `yaml:"fixture"`
}
