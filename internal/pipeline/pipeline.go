// Package pipeline orchestrates configuration loading, descriptor
// resolution, and delivery of the generated DDL.
package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/electwix/sqlshape/internal/capture"
	"github.com/electwix/sqlshape/internal/config"
	"github.com/electwix/sqlshape/internal/ddl"
	"github.com/electwix/sqlshape/internal/descriptor"
	"github.com/electwix/sqlshape/internal/rowmap"
	"github.com/electwix/sqlshape/internal/shape"
	"github.com/electwix/sqlshape/internal/typeparse"
)

// Environment captures external dependencies used by the pipeline.
type Environment struct {
	Logger *slog.Logger
	Writer Writer
	// Binder resolves type expressions; nil uses the process default.
	Binder *descriptor.Binder
	// Stdout receives the rendered schema when no output path is set.
	Stdout io.Writer
	Hooks  Hooks
}

// Writer writes generated files to persistent storage.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// Pipeline orchestrates a single schema generation run.
type Pipeline struct {
	Env Environment
}

// Summary captures what a run produced.
type Summary struct {
	// Tables lists table names in configuration order.
	Tables []string
	// Statements holds every rendered statement, terminated.
	Statements []string
	// SQL is the full newline-joined script.
	SQL string
	// Applied lists "type name" pairs read back from the database
	// after an apply run.
	Applied []string
}

// RunOptions configures a pipeline execution.
type RunOptions struct {
	ConfigPath  string
	OutOverride string
	DryRun      bool
	Pipe        bool
	Apply       bool
}

// WriteError wraps failures encountered while writing the schema file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ApplyError wraps a statement that the database rejected.
type ApplyError struct {
	Statement string
	Err       error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %q: %v", e.Statement, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// NewOSWriter returns a Writer that performs atomic writes on the local filesystem.
func NewOSWriter() Writer {
	return &osWriter{perm: 0o644}
}

type osWriter struct {
	perm fs.FileMode
}

func (w *osWriter) WriteFile(path string, data []byte) error {
	if path == "" {
		return errors.New("pipeline: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".sqlshape-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
		_ = tmp.Close()
	}()
	if w.perm != 0 {
		if err := tmp.Chmod(w.perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// Run executes the pipeline according to the provided options.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	var summary Summary

	logger := p.Env.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = "sqlshape.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return summary, err
	}
	logger.Debug("loaded configuration", "path", configPath, "tables", len(cfg.Tables))

	for _, a := range cfg.Aliases {
		if err := shape.RegisterAlias(a.Name, a.Target); err != nil {
			return summary, fmt.Errorf("register alias: %w", err)
		}
	}

	binder := p.Env.Binder
	if binder == nil {
		binder = descriptor.Default()
	}

	if err := runHook(ctx, p.Env.Hooks.BeforeResolve, summary); err != nil {
		return summary, err
	}

	tables := make([]ddl.Table, 0, len(cfg.Tables))
	for _, tc := range cfg.Tables {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		cols := make([]ddl.Column, 0, len(tc.Columns))
		for _, cc := range tc.Columns {
			d, parseErr := typeparse.Parse(binder, cc.Type)
			if parseErr != nil {
				return summary, fmt.Errorf("table %s, column %s: %w", tc.Name, cc.Name, parseErr)
			}
			cols = append(cols, ddl.Column{Name: cc.Name, Type: d, PrimaryKey: cc.PrimaryKey})
		}
		tables = append(tables, ddl.Table{Name: tc.Name, Columns: cols})
		summary.Tables = append(summary.Tables, tc.Name)
	}
	logger.Debug("resolved descriptors", "cached", binder.Len())

	var command []string
	if opts.Pipe {
		if len(cfg.Pipe.Command) == 0 {
			return summary, errors.New("pipeline: pipe requires a configured command")
		}
		command = cfg.Pipe.Command
	}
	rec := capture.NewRecorder(capture.Options{Command: command, Logger: logger})

	raw := make([]string, 0, len(tables)*2)
	for _, t := range tables {
		if cfg.Output.DropExisting {
			raw = append(raw, ddl.GenerateDrop(t.Name))
		}
		raw = append(raw, ddl.GenerateTable(t, ddl.Options{}))
	}
	for _, stmt := range raw {
		rec.Record(stmt)
		summary.Statements = append(summary.Statements, capture.FormatSQL(stmt))
	}
	summary.SQL = rec.Render() + "\n"

	if err := runHook(ctx, p.Env.Hooks.AfterResolve, summary); err != nil {
		return summary, err
	}

	if opts.DryRun {
		logger.Debug("dry run", "tables", len(tables), "statements", len(raw))
		return summary, nil
	}

	if err := runHook(ctx, p.Env.Hooks.BeforeDeliver, summary); err != nil {
		return summary, err
	}

	outPath := cfg.Output.Path
	if opts.OutOverride != "" {
		outPath = opts.OutOverride
	}
	// Relative output paths resolve against the config directory.
	if outPath != "" && !filepath.IsAbs(outPath) {
		outPath = filepath.Join(filepath.Dir(configPath), outPath)
	}
	switch {
	case outPath != "":
		writer := p.Env.Writer
		if writer == nil {
			writer = NewOSWriter()
		}
		if err := writer.WriteFile(outPath, []byte(summary.SQL)); err != nil {
			return summary, &WriteError{Path: outPath, Err: err}
		}
		logger.Info("wrote schema", "path", outPath, "statements", len(raw))
	case !opts.Pipe && !opts.Apply:
		stdout := p.Env.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := io.WriteString(stdout, summary.SQL); err != nil {
			return summary, fmt.Errorf("write schema: %w", err)
		}
	}

	if opts.Pipe {
		if err := rec.Flush(ctx); err != nil {
			return summary, err
		}
		logger.Info("piped schema", "command", cfg.Pipe.Command)
	}

	if opts.Apply {
		applied, applyErr := applySchema(ctx, cfg.Database.Path, raw)
		if applyErr != nil {
			return summary, applyErr
		}
		summary.Applied = applied
		logger.Info("applied schema", "path", cfg.Database.Path, "objects", len(applied))
	}

	if err := runHook(ctx, p.Env.Hooks.AfterRun, summary); err != nil {
		return summary, err
	}

	return summary, nil
}

// applySchema executes the statements against a SQLite database and
// reads back the resulting schema objects.
func applySchema(ctx context.Context, path string, stmts []string) ([]string, error) {
	if path == "" {
		return nil, errors.New("pipeline: apply requires a database path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, &ApplyError{Statement: stmt, Err: err}
		}
	}

	rows, err := db.QueryContext(ctx,
		"SELECT name, type FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("read schema objects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	it, err := rowmap.New(rows, []rowmap.ColumnSpec{
		{Name: "name", Factory: asString},
		{Name: "type", Factory: asString},
	})
	if err != nil {
		return nil, err
	}
	var objects []string
	for it.Next() {
		name, nameErr := it.Column("", "name")
		if nameErr != nil {
			return nil, nameErr
		}
		kind, kindErr := it.Column("", "type")
		if kindErr != nil {
			return nil, kindErr
		}
		objects = append(objects, fmt.Sprintf("%v %v", kind, name))
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("read schema objects: %w", err)
	}
	return objects, nil
}

func asString(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
