package config

import (
	"time"
)

type Config struct {
	Version  int      `toml:"version"`
	Output   Output   `toml:"output"`
	Collapse Collapse `toml:"collapse"`
	Details  Details  `toml:"details"`
	Catalog  Catalog  `toml:"catalog"`
	DB       Database `toml:"db"`
	Metrics  Metrics  `toml:"metrics"`
	Tracing  Tracing  `toml:"tracing"`
	Watch    Watch    `toml:"watch"`
}

// Output controls where and how artifacts are written.
type Output struct {
	Dir         string `toml:"dir"`
	Compression string `toml:"compression"`
	CompactJSON bool   `toml:"compact_json"`
}

// Collapse controls repeated-block compaction. Enabled is a pointer so an
// absent key defaults to on without clobbering an explicit false.
type Collapse struct {
	Enabled  *bool `toml:"enabled"`
	MinGroup int   `toml:"min_group"`
}

func (c Collapse) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Details toggles per-leaf tensor detail collection.
type Details struct {
	Parameters bool `toml:"parameters"`
	Buffers    bool `toml:"buffers"`
}

// Catalog controls the parse-all run.
type Catalog struct {
	Filter     string  `toml:"filter"`
	MaxModels  int     `toml:"max_models"`
	Resume     *bool   `toml:"resume"`
	WriteIndex *bool   `toml:"write_index"`
	LogRate    float64 `toml:"log_rate"`
}

func (c Catalog) ShouldResume() bool {
	return c.Resume == nil || *c.Resume
}

func (c Catalog) ShouldWriteIndex() bool {
	return c.WriteIndex == nil || *c.WriteIndex
}

type Database struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Metrics struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

type Tracing struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

type Watch struct {
	Manifest string        `toml:"manifest"`
	Debounce time.Duration `toml:"debounce"`
	Exclude  []string      `toml:"exclude"`
}
