// humanizer is a terminal chatbot that asks a hosted model to write like a
// person. Each line typed is sent with a fixed humanization instruction and
// tuned sampling parameters; the reply is printed and the last ten exchanges
// are kept as context.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/germanamz/humanizer/cmd/humanizer/internal/credentials"
	"github.com/germanamz/humanizer/cmd/humanizer/internal/render"
	"github.com/germanamz/humanizer/cmd/humanizer/internal/repl"
	"github.com/germanamz/humanizer/pkg/engine"
	"github.com/germanamz/humanizer/pkg/logger"
	"github.com/germanamz/humanizer/pkg/preset"
)

type options struct {
	configPath string
	envFile    string
	presetName string
	plain      bool
	debug      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if err := loadDotEnv(opts.envFile); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log := logger.New(
		logger.WithWriter(stderr),
		logger.WithDebug(opts.debug || logger.DebugFromEnv()),
		logger.WithPrefix("humanizer"),
	)
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := chat(ctx, opts, stdin, stdout, log); err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("humanizer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file (default: "+engine.DefaultConfigPath+" if present)")
	fs.StringVar(&opts.envFile, "env", ".env", "path to .env file (ignored if missing)")
	fs.StringVarP(&opts.presetName, "preset", "p", "", "preset to run ("+strings.Join(preset.Names(), ", ")+")")
	fs.BoolVar(&opts.plain, "plain", false, "plain text output, no colors or spinner")
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: humanizer [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	return opts, nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// loadConfig reads the explicit config file, or the default one if present.
func loadConfig(path string) (engine.Config, error) {
	if path != "" {
		return engine.LoadConfig(path)
	}
	return engine.LoadConfigIfExists(engine.DefaultConfigPath)
}

func chat(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer, log *slog.Logger) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.presetName != "" {
		cfg.Preset = opts.presetName
	}

	p, err := engine.Resolve(cfg)
	if err != nil {
		return err
	}

	in := bufio.NewReader(stdin)
	presenter, interactive := newPresenter(opts.plain, stdin, stdout)

	presenter.Welcome(p)

	var prompter credentials.Prompter = credentials.LinePrompter{In: in, Out: stdout}
	if interactive {
		prompter = credentials.FormPrompter{}
	}

	apiKey, source, err := credentials.Resolve(credentials.Request{
		ConfigKey: cfg.APIKey,
		EnvVar:    p.Vendor.KeyEnv(),
		Title:     fmt.Sprintf("Enter your %s API key", vendorTitle(p.Vendor)),
	}, prompter, presenter.Warn)
	if err != nil {
		return err
	}
	log.Debug("credential resolved", "source", source, "env", p.Vendor.KeyEnv())

	eng, err := engine.New(p, apiKey,
		engine.WithMaxTurns(cfg.MaxTurns),
		engine.WithLogger(log),
	)
	if err != nil {
		return err
	}

	presenter.Ready(p.Model)

	loop := &repl.Loop{
		Asker:     eng,
		Presenter: presenter,
		In:        in,
		Out:       stdout,
		KeyEnv:    p.Vendor.KeyEnv(),
		Events:    eng.Events(),
		Logger:    log,
	}
	return loop.Run(ctx)
}

// newPresenter picks Rich output when both ends are terminals and --plain was
// not given. The bool reports whether stdin is interactive.
func newPresenter(plain bool, stdin io.Reader, stdout io.Writer) (render.Presenter, bool) {
	inFile, inOK := stdin.(*os.File)
	outFile, outOK := stdout.(*os.File)
	interactive := inOK && render.IsTerminal(inFile)

	if plain || !outOK || !render.IsTerminal(outFile) {
		return &render.Plain{Out: stdout}, interactive
	}
	return render.NewRich(stdout, render.TerminalWidth(outFile, 100)), interactive
}

func vendorTitle(v preset.Vendor) string {
	switch v {
	case preset.Gemini:
		return "Gemini"
	case preset.OpenAI:
		return "OpenAI"
	}
	return string(v)
}
