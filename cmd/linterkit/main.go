package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/jrossi/linterkit"
	"github.com/jrossi/linterkit/adapters"
	"github.com/jrossi/linterkit/host"
	"github.com/jrossi/linterkit/manifest"
)

// Build variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		debug       = flag.Bool("debug", false, "Enable debug output")
		configFile  = flag.String("config", "", "Path to configuration file (.json, .yaml or .md)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "linterkit - linter adapter contract tools\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <command> [arguments]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  validate [file...]      Validate linter configuration files\n")
		fmt.Fprintf(os.Stderr, "  show                    Print a Markdown summary of configured linters\n")
		fmt.Fprintf(os.Stderr, "  expand <linter>         Print the expanded command of a linter for a file\n")
		fmt.Fprintf(os.Stderr, "  offenses <linter>       Read linter output on stdin and print offenses\n")
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("linterkit version %s\n", version)
		if commit != "none" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Printf("  built at: %s\n", date)
		}
		os.Exit(0)
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	app := &cli{
		configFile: *configFile,
		logger:     logger,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}

	var err error
	switch args[0] {
	case "validate":
		err = app.validate(args[1:])
	case "show":
		err = app.show(args[1:])
	case "expand":
		err = app.expand(args[1:])
	case "offenses":
		err = app.offenses(context.Background(), args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	configFile string
	logger     *slog.Logger
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

func (c *cli) loader() (*linterkit.ConfigLoader, error) {
	loader, err := linterkit.NewConfigLoader()
	if err != nil {
		return nil, err
	}
	loader.RegisterFormat(".md", manifest.ToJSON)
	return loader, nil
}

func (c *cli) loadConfig() (*linterkit.Config, error) {
	loader, err := c.loader()
	if err != nil {
		return nil, err
	}
	if c.configFile != "" {
		return loader.LoadFile(c.configFile)
	}
	config, err := loader.LoadConfig()
	if err != nil {
		return nil, err
	}
	if len(config.Linters) == 0 {
		return nil, fmt.Errorf("no linters configured; searched %s", strings.Join(loader.GetConfigPaths(), ", "))
	}
	return config, nil
}

// registry validates every linter and registers its adapter
func (c *cli) registry(config *linterkit.Config) (*host.Registry, error) {
	registry := host.NewRegistry(host.WithLogger(c.logger))
	for _, linterConfig := range config.Linters {
		adapter, err := adapters.FromConfig(linterConfig)
		if err != nil {
			return nil, err
		}
		if _, err := registry.Register(linterConfig, adapter); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (c *cli) validate(args []string) error {
	loader, err := c.loader()
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 && c.configFile != "" {
		files = []string{c.configFile}
	}
	if len(files) == 0 {
		for _, path := range loader.GetConfigPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
			}
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no configuration files to validate")
	}

	failed := 0
	for _, path := range files {
		config, err := loader.LoadFile(path)
		if err == nil {
			err = config.Validate()
		}
		if err == nil {
			_, err = c.registry(config)
		}
		if err != nil {
			failed++
			fmt.Fprintf(c.stderr, "✗ %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(c.stdout, "✓ %s (%d linter(s))\n", path, len(config.Linters))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(files))
	}
	return nil
}

func (c *cli) show(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	title := fs.String("title", "", "Report title")
	if err := fs.Parse(args); err != nil {
		return err
	}

	config, err := c.loadConfig()
	if err != nil {
		return err
	}
	report := &manifest.Report{Title: *title, Linters: config.Linters}
	return report.Render(c.stdout)
}

func (c *cli) expand(args []string) error {
	fs := flag.NewFlagSet("expand", flag.ContinueOnError)
	var (
		file     = fs.String("file", "", "Document path (required)")
		language = fs.String("language", "", "Editor language id of the document")
		code     = fs.String("code", "", "Offense code for fix-one and fix-category")
		mode     = fs.String("mode", "lint", "lint, fix-all, fix-one or fix-category")
		debug    = fs.Bool("debug", false, "Set the $debug variable")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *file == "" {
		return fmt.Errorf("usage: expand -file <path> [-language id] [-mode m] [-code c] <linter>")
	}

	config, err := c.loadConfig()
	if err != nil {
		return err
	}
	linterConfig, ok := config.Get(fs.Arg(0))
	if !ok {
		return fmt.Errorf("%w: %s", host.ErrUnknownLinter, fs.Arg(0))
	}

	m, err := host.ParseMode(*mode)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(*file)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", *file, err)
	}
	vars := host.NewVars(*file, *language, string(content))
	vars.Mode = m
	vars.Code = *code
	vars.Debug = *debug

	dir := filepath.Dir(*file)
	root, err := host.FindProjectRoot(dir)
	if err != nil {
		return err
	}
	applies, err := host.EvaluateWhen(root, linterConfig.When)
	if err != nil {
		return err
	}
	if !applies {
		fmt.Fprintf(c.stderr, "linter %s does not apply to project %s\n", linterConfig.Name, root)
		return nil
	}
	vars.Config, err = host.FindConfigFile(dir, root, linterConfig.ConfigFiles)
	if err != nil {
		return err
	}
	c.logger.Debug("expanding command", "linter", linterConfig.Name, "root", root, "config", vars.Config)

	sequences, err := host.Expand(linterConfig, vars)
	if err != nil {
		return err
	}
	for _, seq := range sequences {
		fmt.Fprintln(c.stdout, shellescape.QuoteCommand(seq))
	}
	return nil
}

func (c *cli) offenses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("offenses", flag.ContinueOnError)
	var (
		uri      = fs.String("uri", "", "Document URI the output belongs to")
		status   = fs.Int("status", 0, "Exit status of the linter command")
		markdown = fs.Bool("markdown", false, "Print a Markdown report")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: offenses [-uri u] [-status n] [-markdown] <linter> < output")
	}

	config, err := c.loadConfig()
	if err != nil {
		return err
	}
	registry, err := c.registry(config)
	if err != nil {
		return err
	}
	entry, err := registry.Lookup(fs.Arg(0))
	if err != nil {
		return err
	}

	stdout, err := io.ReadAll(c.stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	params := linterkit.LinterParams{
		DocumentURI: linterkit.DocumentURI(*uri),
		Stdout:      string(stdout),
		Status:      *status,
	}

	runner := host.NewRunner(1)
	results, err := runner.Run(ctx, registry, map[string]linterkit.LinterParams{entry.Name(): params})
	if err != nil {
		return err
	}
	offenses, err := host.AggregateResults(results)
	if err != nil {
		return err
	}

	if *markdown {
		report := &manifest.Report{Title: entry.Name(), Offenses: offenses}
		return report.Render(c.stdout)
	}
	for _, o := range offenses {
		fmt.Fprintf(c.stdout, "%s:%d:%d: %s %s: %s\n", o.DocumentURI, o.LineStart+1, o.ColumnStart+1,
			o.Severity, o.Code, o.Message)
	}
	return nil
}
