// Package main implements the sqlshape CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/electwix/sqlshape/internal/cli"
	"github.com/electwix/sqlshape/internal/logging"
	"github.com/electwix/sqlshape/internal/pipeline"
	"github.com/electwix/sqlshape/internal/shape"
)

func main() {
	code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return 1
	}

	if opts.ListTypes {
		for _, name := range shape.Names() {
			_, _ = fmt.Fprintln(stdout, name)
		}
		return 0
	}

	logger := logging.New(logging.Options{
		Verbose: opts.Verbose,
		Writer:  stderr,
	})

	env := pipeline.Environment{
		Logger: logger,
		Writer: pipeline.NewOSWriter(),
		Stdout: stdout,
	}

	pipe := pipeline.Pipeline{Env: env}
	summary, runErr := pipe.Run(ctx, pipeline.RunOptions{
		ConfigPath:  opts.ConfigPath,
		OutOverride: opts.Out,
		DryRun:      opts.DryRun,
		Pipe:        opts.Pipe,
		Apply:       opts.Apply,
	})

	if runErr != nil {
		_, _ = fmt.Fprintln(stderr, runErr.Error())
		var writeErr *pipeline.WriteError
		if errors.As(runErr, &writeErr) {
			return 2
		}
		return 1
	}

	if opts.DryRun {
		_, _ = io.WriteString(stdout, summary.SQL)
		return 0
	}

	for _, obj := range summary.Applied {
		_, _ = fmt.Fprintln(stdout, obj)
	}

	return 0
}
