package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/hyperjump/pdfchat/internal/app"
	"github.com/hyperjump/pdfchat/internal/backend"
	"github.com/hyperjump/pdfchat/internal/cli"
	"github.com/hyperjump/pdfchat/internal/config"
	"github.com/hyperjump/pdfchat/internal/extract"
	"github.com/hyperjump/pdfchat/internal/toast"
	"github.com/hyperjump/pdfchat/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// commonFlags are accepted by every subcommand that talks to the backend.
type commonFlags struct {
	configPath string
	backendURL string
	debug      bool
	output     string
	yes        bool
	noProgress bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.configPath, "config", defaultConfigPath, "config file path")
	fs.StringVar(&c.backendURL, "backend", "", "backend base URL")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	fs.StringVar(&c.output, "output", string(cli.OutputText), "output format: text or json")
	fs.BoolVar(&c.yes, "yes", false, "answer yes to confirmations")
	fs.BoolVar(&c.noProgress, "no-progress", false, "do not show the spinner")
	return c
}

// session is everything one command needs: config, logger, backend client,
// toast hub and the App wired to them.
type session struct {
	cfg        *config.Config
	configPath string
	format     cli.OutputFormat
	logger     *zap.Logger
	client     *backend.Client
	toasts     *toast.Hub
	prompter   *cli.Prompter
	app        *app.App
	stdout     io.Writer
	stderr     io.Writer
}

// newSession loads config (file, then .env and PDFCHAT_* variables, then
// flags) and wires the App. serve selects the server logger.
func newSession(c *commonFlags, stdin io.Reader, stdout, stderr io.Writer, serve bool) (*session, error) {
	format, err := cli.ParseOutputFormat(c.output)
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, resolved, err := loadConfig(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	config.ApplyEnv(cfg)
	if c.backendURL != "" {
		cfg.Backend.BaseURL = c.backendURL
	}

	debug := cfg.Debug || c.debug
	var logger *zap.Logger
	if serve {
		logger, err = utils.NewLogger(debug)
	} else {
		logger, err = utils.NewCLILogger(debug)
	}
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("debug", debug))

	// toasts are the result of most commands; keep stdout parseable in json mode
	toastOut := stdout
	if format == cli.OutputJSON {
		toastOut = stderr
	}
	hubOpts := []toast.HubOption{
		toast.WithDurations(cfg.UI.ToastHold, cfg.UI.ToastFade),
		toast.WithLogger(logger),
	}
	if !serve {
		hubOpts = append(hubOpts, toast.WithSink(cli.ToastPrinter(toastOut, isTerminal(toastOut))))
	}
	hub := toast.NewHub(hubOpts...)

	client := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(logger))

	page := app.NewPage(cfg.UI.StatusFadeDelay, cfg.UI.LatestResponseOnly)
	spin := !c.noProgress && isTerminal(stderr)
	page.AIResponse.Observe(cli.RegionSpinner(spin, stderr))
	page.PDFResponse.Observe(cli.RegionSpinner(spin, stderr))

	prompter := cli.NewPrompter(stdin, stderr, c.yes)
	opts := []app.Option{
		app.WithLogger(logger),
		app.WithOpener(cli.PrintOpener{Out: stdout}),
	}
	if cfg.Upload.PreflightOrDefault() {
		opts = append(opts, app.WithInspector(extract.NewInspector(cfg.Upload.MaxBytes())))
	}

	return &session{
		cfg:        cfg,
		configPath: resolved,
		format:     format,
		logger:     logger,
		client:     client,
		toasts:     hub,
		prompter:   prompter,
		app:        app.New(client, hub, prompter, page, opts...),
		stdout:     stdout,
		stderr:     stderr,
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// interruptible returns a context cancelled on Ctrl-C. The first interrupt
// consults the navigation guard while a query is in flight; a second one
// cancels regardless.
func (s *session) interruptible(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt)
	guard := s.app.Guard()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		asked := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-sig:
				if asked || guard.Allow() {
					cancel()
					return
				}
				asked = true
			}
		}
	}()
	return ctx, func() {
		signal.Stop(sig)
		cancel()
		wg.Wait()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
