// Command pilotctl is the pilotdesk client: it submits pilot requests with an
// offline fallback, runs the admin table REPL, and lists the local cache.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"

	"github.com/mb3rlab/pilotdesk/internal/adapter/driven/localcache"
	"github.com/mb3rlab/pilotdesk/internal/adapter/driven/remote"
	"github.com/mb3rlab/pilotdesk/internal/adapter/driving/cli"
	"github.com/mb3rlab/pilotdesk/internal/application"
	"github.com/mb3rlab/pilotdesk/internal/config"
	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

const usage = `usage: pilotctl [flags] <command> [command flags]

commands:
  submit -email ADDR -company NAME [-comment TEXT] [-country CC]
  admin                interactive admin table
  cache                list locally cached requests

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "pilotctl:", err)
		os.Exit(1)
	}
}

// app carries the wiring shared by every subcommand.
type app struct {
	lang   language.Tag
	logger *slog.Logger
	client *remote.Client
	cache  *localcache.FileCache
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("pilotctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "base URL of the applications service")
	fs.StringVar(&cfg.CachePath, "cache", cfg.CachePath, "local cache file")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "message language (ru, en)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	a, err := newApp(cfg, *verbose, stderr)
	if err != nil {
		return err
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "submit":
		return a.submit(ctx, rest, stdout, stderr)
	case "admin":
		if !a.client.Configured() {
			a.logger.Warn("no endpoint configured, the admin table stays locked; run 'pilotctl cache' to see locally saved requests")
		}
		controller := application.NewSessionController(a.client, a.cache, a.logger)
		cli.RunAdmin(ctx, controller, a.lang, stdin)
		return nil
	case "cache":
		return cli.ListCache(ctx, a.cache, a.lang, stdout)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newApp(cfg *config.ClientConfig, verbose bool, stderr io.Writer) (*app, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cachePath := cfg.CachePath
	if cachePath == "" {
		p, err := localcache.DefaultPath()
		if err != nil {
			return nil, err
		}
		cachePath = p
	}

	lang := i18n.Match(cfg.Lang, os.Getenv("LANG"))
	client, err := remote.NewClient(cfg.Endpoint, cfg.Timeout, lang.String())
	if err != nil {
		return nil, err
	}

	return &app{
		lang:   lang,
		logger: logger,
		client: client,
		cache:  localcache.New(cachePath, logger),
	}, nil
}

func (a *app) submit(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var in model.SubmissionInput
	fs.StringVar(&in.Email, "email", "", "work email (required)")
	fs.StringVar(&in.Company, "company", "", "company name (required)")
	fs.StringVar(&in.Comment, "comment", "", "optional comment")
	fs.StringVar(&in.Country, "country", "", "ISO country code stored with an offline record")

	if err := fs.Parse(args); err != nil {
		return err
	}

	form := application.NewFormService(a.client, a.cache, a.logger)
	return cli.Submit(ctx, form, a.lang, in, stdout)
}
