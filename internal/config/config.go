// Package config loads and validates the sqlshape configuration.
//
// A configuration file declares the tables to generate DDL for, with
// each column typed by a SQL type expression, plus optional extra type
// aliases and output/delivery settings. Both TOML and YAML files are
// accepted, selected by extension.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration validation failures.
var ErrInvalid = errors.New("invalid configuration")

// ColumnConfig declares one table column.
type ColumnConfig struct {
	Name       string `toml:"name" yaml:"name"`
	Type       string `toml:"type" yaml:"type"`
	PrimaryKey bool   `toml:"primary_key" yaml:"primary_key"`
}

// TableConfig declares one table.
type TableConfig struct {
	Name    string         `toml:"name" yaml:"name"`
	Columns []ColumnConfig `toml:"column" yaml:"columns"`
}

// AliasConfig registers an extra type alias on top of the built-in table.
type AliasConfig struct {
	Name   string `toml:"name" yaml:"name"`
	Target string `toml:"target" yaml:"target"`
}

// OutputConfig controls where the generated DDL is written.
type OutputConfig struct {
	// Path is the output file; empty means standard output.
	Path string `toml:"path" yaml:"path"`
	// DropExisting prepends DROP TABLE IF EXISTS statements.
	DropExisting bool `toml:"drop_existing" yaml:"drop_existing"`
}

// PipeConfig names an external command fed the generated statements.
type PipeConfig struct {
	Command []string `toml:"command" yaml:"command"`
}

// DatabaseConfig points at a SQLite database for direct application.
type DatabaseConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// Config mirrors the expected sqlshape TOML/YAML schema.
type Config struct {
	Output   OutputConfig   `toml:"output" yaml:"output"`
	Pipe     PipeConfig     `toml:"pipe" yaml:"pipe"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Aliases  []AliasConfig  `toml:"alias" yaml:"aliases"`
	Tables   []TableConfig  `toml:"table" yaml:"tables"`
}

// Load reads and validates a sqlshape configuration file. The format
// is chosen by extension: .toml, or .yaml/.yml.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%s: %w: unsupported extension %q", path, ErrInvalid, ext)
	}

	if err := cfg.validate(path); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate(path string) error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("%s: %w: no tables declared", path, ErrInvalid)
	}

	tableNames := make(map[string]struct{}, len(c.Tables))
	for _, table := range c.Tables {
		if table.Name == "" {
			return fmt.Errorf("%s: %w: table without a name", path, ErrInvalid)
		}
		if _, dup := tableNames[table.Name]; dup {
			return fmt.Errorf("%s: %w: duplicate table %q", path, ErrInvalid, table.Name)
		}
		tableNames[table.Name] = struct{}{}

		if len(table.Columns) == 0 {
			return fmt.Errorf("%s: %w: table %q has no columns", path, ErrInvalid, table.Name)
		}
		colNames := make(map[string]struct{}, len(table.Columns))
		for _, col := range table.Columns {
			if col.Name == "" {
				return fmt.Errorf("%s: %w: table %q has a column without a name", path, ErrInvalid, table.Name)
			}
			if _, dup := colNames[col.Name]; dup {
				return fmt.Errorf("%s: %w: table %q duplicates column %q", path, ErrInvalid, table.Name, col.Name)
			}
			colNames[col.Name] = struct{}{}
			if col.Type == "" {
				return fmt.Errorf("%s: %w: column %q.%q has no type", path, ErrInvalid, table.Name, col.Name)
			}
		}
	}

	for _, alias := range c.Aliases {
		if alias.Name == "" || alias.Target == "" {
			return fmt.Errorf("%s: %w: alias entries need both name and target", path, ErrInvalid)
		}
	}

	return nil
}
