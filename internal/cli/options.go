package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

type Options struct {
	ConfigPath string
	Out        string
	DryRun     bool
	Pipe       bool
	Apply      bool
	ListTypes  bool
	Verbose    bool
	Args       []string
}

func Parse(args []string) (Options, error) {
	const defaultConfig = "sqlshape.toml"

	opts := Options{
		ConfigPath: defaultConfig,
	}

	fs := flag.NewFlagSet("sqlshape", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.Out, "out", "", "Override the configured output file")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Resolve types and render statements without writing anything")
	fs.BoolVar(&opts.Pipe, "pipe", false, "Feed generated statements to the configured pipe command")
	fs.BoolVar(&opts.Apply, "apply", false, "Execute generated statements against the configured database")
	fs.BoolVar(&opts.ListTypes, "list-types", false, "List known SQL type names and exit")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging")

	if err := fs.Parse(args); err != nil {
		usage := Usage(fs)
		if errors.Is(err, flag.ErrHelp) {
			return Options{}, fmt.Errorf("%w\n\n%s", err, usage)
		}
		return Options{}, fmt.Errorf("%w\n\n%s", err, usage)
	}

	opts.Args = fs.Args()
	return opts, nil
}

func Usage(fs *flag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}
