// Package capture records SQL statements for later batch execution.
//
// A Recorder accumulates statement entries instead of executing them,
// renders them as terminated SQL text with positional placeholders
// substituted, and flushes the batch either to an external command's
// standard input or to a diagnostic writer.
package capture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// Entry is one recorded statement. For multi-row entries Sets holds
// one parameter tuple per row; otherwise Params holds the values for
// a single execution.
type Entry struct {
	SQL    string
	Params []any
	Sets   [][]any
	Multi  bool
}

// Options configures a Recorder.
type Options struct {
	// Command is the argv of the external process fed by Flush.
	// When empty, Flush writes to Debug instead.
	Command []string
	// Debug receives the rendered batch when no command is configured.
	Debug io.Writer
	// Logger receives flush diagnostics; defaults to slog.Default().
	Logger *slog.Logger
}

// Recorder is a statement capture sink. Not safe for concurrent use.
type Recorder struct {
	opts    Options
	entries []Entry
	logger  *slog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(opts Options) *Recorder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{opts: opts, logger: logger}
}

// Record captures a single statement with its parameter values.
func (r *Recorder) Record(sql string, params ...any) {
	r.entries = append(r.entries, Entry{SQL: sql, Params: params})
}

// RecordMany captures a statement executed once per parameter tuple.
func (r *Recorder) RecordMany(sql string, sets [][]any) {
	r.entries = append(r.entries, Entry{SQL: sql, Sets: sets, Multi: true})
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Clear discards all recorded entries.
func (r *Recorder) Clear() {
	r.entries = nil
}

// Drain returns the recorded entries and clears the buffer.
func (r *Recorder) Drain() []Entry {
	entries := r.entries
	r.entries = nil
	return entries
}

// Render formats the recorded batch as newline-joined SQL statements.
func (r *Recorder) Render() string {
	lines := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		lines = append(lines, FormatEntry(e))
	}
	return strings.Join(lines, "\n")
}

// Dump writes every rendered statement to w, one per line.
func (r *Recorder) Dump(w io.Writer) error {
	for _, e := range r.entries {
		if _, err := fmt.Fprintln(w, FormatEntry(e)); err != nil {
			return fmt.Errorf("dump statement: %w", err)
		}
	}
	return nil
}

// Flush renders the batch, sends it to the configured command's stdin
// (or the debug writer when no command is set), then clears the buffer.
// An empty buffer flushes to nothing.
func (r *Recorder) Flush(ctx context.Context) error {
	rendered := r.Render()
	if rendered == "" {
		return nil
	}

	if len(r.opts.Command) == 0 {
		if r.opts.Debug != nil {
			if _, err := fmt.Fprintln(r.opts.Debug, rendered); err != nil {
				return fmt.Errorf("flush to writer: %w", err)
			}
		}
		r.logger.Debug("flushed batch to writer", "statements", len(r.entries))
		r.Clear()
		return nil
	}

	cmd := exec.CommandContext(ctx, r.opts.Command[0], r.opts.Command[1:]...)
	cmd.Stdin = strings.NewReader(rendered)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("flush to %s: %w: %s", r.opts.Command[0], err, strings.TrimSpace(string(out)))
	}
	r.logger.Debug("flushed batch to command", "command", r.opts.Command[0], "statements", len(r.entries))
	r.Clear()
	return nil
}

// FormatEntry renders one entry as terminated SQL text. Placeholders
// of the form %s are substituted positionally from the parameter
// values; multi-row entries render one statement line per tuple.
func FormatEntry(e Entry) string {
	sql := FormatSQL(e.SQL)
	if e.Multi {
		if len(e.Sets) == 0 {
			return sql
		}
		lines := make([]string, len(e.Sets))
		for i, set := range e.Sets {
			lines[i] = substitute(sql, set)
		}
		return strings.Join(lines, "\n")
	}
	if len(e.Params) == 0 {
		return sql
	}
	return substitute(sql, e.Params)
}

// FormatSQL trims a statement and appends the terminator if absent.
func FormatSQL(sql string) string {
	s := strings.TrimSpace(sql)
	if s == "" {
		return s
	}
	if !strings.HasSuffix(s, ";") {
		s += ";"
	}
	return s
}

// substitute replaces each %s placeholder with the corresponding
// parameter value. Extra placeholders are left as-is once the values
// run out.
func substitute(sql string, params []any) string {
	parts := strings.Split(sql, "%s")
	var buf strings.Builder
	buf.WriteString(parts[0])
	for i, part := range parts[1:] {
		if i < len(params) {
			fmt.Fprintf(&buf, "%v", params[i])
		} else {
			buf.WriteString("%s")
		}
		buf.WriteString(part)
	}
	return buf.String()
}
