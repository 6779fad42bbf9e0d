package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/danmuck/parsedump/internal/config"
	"github.com/danmuck/parsedump/internal/dump"
	"github.com/danmuck/parsedump/internal/logging"
	"github.com/danmuck/parsedump/internal/observability"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const usage = "Usage: parsedump [flags] [inputFile] [pkg-limit]"

var errUsage = errors.New("usage")

func main() {
	logging.ConfigureRuntime()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	local       []string
	remote      []string
	title       string
	noDecode    bool
	annotate    bool
	metricsFile string
	printConfig bool
}

func newFlagSet(stderr io.Writer, opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("parsedump", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML config file (defaults are used when empty)")
	fs.StringSliceVar(&opts.local, "local", nil, "Host names of the local side, replaces hosts.local")
	fs.StringSliceVar(&opts.remote, "remote", nil, "Host names of the remote side, replaces hosts.remote")
	fs.StringVar(&opts.title, "title", "", "Document title")
	fs.BoolVar(&opts.noDecode, "no-decode", false, "Show BSYNC messages as hex instead of decoding them")
	fs.BoolVar(&opts.annotate, "annotate-headers", false, "Add IP/UDP addressing as a tooltip on each packet")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	fs.BoolVar(&opts.printConfig, "print-config", false, "Print the effective config as TOML and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	return fs
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(stderr, &opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := effectiveConfig(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "parsedump: %v\n", err)
		return 1
	}
	if opts.printConfig {
		out, err := config.Encode(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "parsedump: %v\n", err)
			return 1
		}
		_, _ = stdout.Write(out)
		return 0
	}

	input, limit, closeInput, err := selectInput(fs.Args(), stdin)
	if errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, usage)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "parsedump: %v\n", err)
		return 1
	}
	defer closeInput()

	dumpOpts, err := cfg.DumpOptions(limit)
	if err != nil {
		fmt.Fprintf(stderr, "parsedump: %v\n", err)
		return 1
	}
	stats, err := dump.Run(input, stdout, dumpOpts)
	if err != nil {
		fmt.Fprintf(stderr, "parsedump: %v\n", err)
		return 1
	}
	log.Info().
		Int("framed", stats.Framed).
		Int("rendered", stats.Rendered).
		Int("dropped", stats.Dropped).
		Msg("done")

	if opts.metricsFile != "" {
		if err := observability.WriteTextfile(opts.metricsFile); err != nil {
			fmt.Fprintf(stderr, "parsedump: %v\n", err)
			return 1
		}
	}
	return 0
}

// effectiveConfig loads the config file, if any, and applies flags that
// were set explicitly.
func effectiveConfig(fs *pflag.FlagSet, opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if fs.Changed("local") {
		cfg.Hosts.Local = opts.local
	}
	if fs.Changed("remote") {
		cfg.Hosts.Remote = opts.remote
	}
	if fs.Changed("title") {
		cfg.Title = opts.title
	}
	if opts.noDecode {
		cfg.Decode = false
	}
	if opts.annotate {
		cfg.AnnotateHeaders = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// selectInput applies the positional contract: no argument reads stdin,
// one names the input file, a second sets the packet limit.
func selectInput(args []string, stdin io.Reader) (io.Reader, int, func(), error) {
	noop := func() {}
	limit := dump.NoLimit
	switch len(args) {
	case 0:
		return stdin, limit, noop, nil
	case 1, 2:
	default:
		return nil, 0, noop, errUsage
	}
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return nil, 0, noop, errUsage
		}
		limit = n
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, 0, noop, err
	}
	return f, limit, func() { _ = f.Close() }, nil
}
