package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjump/pdfchat/internal/app"
	"github.com/hyperjump/pdfchat/internal/cli"
	"github.com/hyperjump/pdfchat/internal/models"
	"github.com/hyperjump/pdfchat/internal/server"
	"github.com/hyperjump/pdfchat/internal/view"
	"github.com/hyperjump/pdfchat/internal/watcher"
	"go.uber.org/zap"
)

// parse parses args for a subcommand and opens a session.
func parse(name string, args []string, stdin io.Reader, stdout, stderr io.Writer, setup func(fs *flag.FlagSet)) (*session, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	if setup != nil {
		setup(fs)
	}
	if err := fs.Parse(argsReorder(fs, args)); err != nil {
		return nil, nil, err
	}
	s, err := newSession(common, stdin, stdout, stderr, name == "serve")
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return nil, nil, err
	}
	return s, fs, nil
}

// exitCode maps a handler error to an exit code. Handlers have already told
// the user what went wrong.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func runServe(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var host string
	var port int
	var watch bool
	s, _, err := parse("serve", args, stdin, stdout, stderr, func(fs *flag.FlagSet) {
		fs.StringVar(&host, "host", "", "listen host")
		fs.IntVar(&port, "port", 0, "listen port")
		fs.BoolVar(&watch, "watch", false, "also watch drop folders; manage them under /api/watch/directories")
	})
	if err != nil {
		return 2
	}
	defer s.close()
	if host != "" {
		s.cfg.Server.Host = host
	}
	if port != 0 {
		s.cfg.Server.Port = port
	}
	logger := s.logger

	srv, err := server.NewServer(s.app, s.toasts, s.cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", zap.Error(err))
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if watch {
		w := newDropWatcher(s, s.cfg.Watch.Directories)
		if err := w.Start(ctx); err != nil {
			logger.Error("Failed to start watcher", zap.Error(err))
			return 1
		}
		defer w.Stop()
		go w.SyncExistingFiles()
		srv.SetWatch(w, s.configPath)
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			return 1
		}
		return 0
	case <-sigChan:
	}

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	return 0
}

func runUpload(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s, fs, err := parse("upload", args, stdin, stdout, stderr, nil)
	if err != nil {
		return 2
	}
	defer s.close()
	ctx := context.Background()
	if fs.NArg() == 0 {
		// same notice as submitting the form without a file
		return exitCode(s.app.UploadPDF(ctx, nil))
	}
	code := 0
	for _, path := range fs.Args() {
		if err := uploadFile(ctx, s.app, path); err != nil {
			code = 1
		}
	}
	return code
}

func uploadFile(ctx context.Context, a *app.App, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return a.UploadPDF(ctx, &models.UploadFile{Name: path, Path: path, Content: errReader{err}})
	}
	defer f.Close()
	return a.UploadPDF(ctx, &models.UploadFile{Name: path, Path: path, Content: f})
}

// errReader fails every read with err, so an unreadable file is reported by
// the upload handler like any other upload failure.
type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func runList(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s, _, err := parse("list", args, stdin, stdout, stderr, nil)
	if err != nil {
		return 2
	}
	defer s.close()
	if err := s.app.ListPDFs(context.Background()); err != nil {
		return 1
	}
	if err := cli.WriteDocuments(stdout, s.app.Page().Documents.Render(), s.client.BaseURL(), s.format); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

func runDelete(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s, fs, err := parse("delete", args, stdin, stdout, stderr, nil)
	if err != nil {
		return 2
	}
	defer s.close()
	source := buildQuery(fs.Args())
	if source == "" {
		fmt.Fprintln(stderr, "Usage: pdfchat delete [flags] <source>")
		return 2
	}
	return exitCode(s.app.DeletePDF(context.Background(), source))
}

func runOpen(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s, fs, err := parse("open", args, stdin, stdout, stderr, nil)
	if err != nil {
		return 2
	}
	defer s.close()
	source := buildQuery(fs.Args())
	if source == "" {
		fmt.Fprintln(stderr, "Usage: pdfchat open [flags] <source>")
		return 2
	}
	if err := s.app.OpenDocument(source); err != nil {
		fmt.Fprintf(stderr, "open: %v\n", err)
		return 1
	}
	return 0
}

func runClearHistory(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s, _, err := parse("clear-history", args, stdin, stdout, stderr, nil)
	if err != nil {
		return 2
	}
	defer s.close()
	err = s.app.ClearChatHistory(context.Background())
	if werr := cli.WriteStatus(stdout, s.app.Page().HistoryStatus.State(), s.format); werr != nil {
		fmt.Fprintf(stderr, "write output: %v\n", werr)
		return 1
	}
	return exitCode(err)
}

func runClearDB(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s, _, err := parse("clear-db", args, stdin, stdout, stderr, nil)
	if err != nil {
		return 2
	}
	defer s.close()
	return exitCode(s.app.ClearDatabase(context.Background()))
}

type askFlags struct {
	llm        string
	promptType string
}

func (f *askFlags) register(withPromptType bool) func(fs *flag.FlagSet) {
	return func(fs *flag.FlagSet) {
		fs.StringVar(&f.llm, "llm", "", "model name")
		if withPromptType {
			fs.StringVar(&f.promptType, "prompt-type", "", "prompt type")
		}
	}
}

func (f *askFlags) model(s *session) string {
	if f.llm != "" {
		return f.llm
	}
	return s.cfg.UI.DefaultLLM
}

func runAsk(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var af askFlags
	s, fs, err := parse("ask", args, stdin, stdout, stderr, af.register(false))
	if err != nil {
		return 2
	}
	defer s.close()
	return s.answer(s.app.Page().AIResponse, func(ctx context.Context) error {
		return s.app.AskAI(ctx, buildQuery(fs.Args()), af.model(s))
	})
}

func runAskPDF(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var af askFlags
	s, fs, err := parse("ask-pdf", args, stdin, stdout, stderr, af.register(true))
	if err != nil {
		return 2
	}
	defer s.close()
	promptType := af.promptType
	if promptType == "" && len(s.cfg.UI.PromptTypes) > 0 {
		promptType = s.cfg.UI.PromptTypes[0]
	}
	return s.answer(s.app.Page().PDFResponse, func(ctx context.Context) error {
		return s.app.AskPDF(ctx, buildQuery(fs.Args()), promptType, af.model(s))
	})
}

func runCopyAsk(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var af askFlags
	s, fs, err := parse("copy-ask", args, stdin, stdout, stderr, af.register(false))
	if err != nil {
		return 2
	}
	defer s.close()
	return s.answer(s.app.Page().AIResponse, func(ctx context.Context) error {
		return s.app.CopyQueryToAI(ctx, buildQuery(fs.Args()), af.model(s))
	})
}

// answer runs one query under the interrupt guard and prints the region it
// wrote to. An empty query has already been reported and prints nothing.
func (s *session) answer(region *view.Region, ask func(ctx context.Context) error) int {
	ctx, stop := s.interruptible(context.Background())
	err := ask(ctx)
	stop()
	if errors.Is(err, app.ErrEmptyQuery) {
		return 2
	}
	if werr := cli.WriteRegion(s.stdout, region.ID(), region.State(), s.format); werr != nil {
		fmt.Fprintf(s.stderr, "write output: %v\n", werr)
		return 1
	}
	return exitCode(err)
}

func runWatch(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	syncExisting := true
	s, fs, err := parse("watch", args, stdin, stdout, stderr, func(fs *flag.FlagSet) {
		fs.BoolVar(&syncExisting, "sync", true, "upload PDFs already in the directories")
	})
	if err != nil {
		return 2
	}
	defer s.close()
	dirs := fs.Args()
	if len(dirs) == 0 {
		dirs = s.cfg.Watch.Directories
	}
	if len(dirs) == 0 {
		fmt.Fprintln(stderr, "Usage: pdfchat watch [flags] <dir>... (or set watch.directories in config)")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	w := newDropWatcher(s, dirs)
	if err := w.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "watch: %v\n", err)
		return 1
	}
	defer w.Stop()
	fmt.Fprintf(stderr, "Watching %d director%s for PDFs, Ctrl-C to stop\n", len(dirs), plural(len(dirs), "y", "ies"))
	if syncExisting {
		w.SyncExistingFiles()
	}
	<-ctx.Done()
	return 0
}

// newDropWatcher returns a watcher that uploads every matching file through
// the upload handler.
func newDropWatcher(s *session, dirs []string) *watcher.Watcher {
	return watcher.New(dirs, s.cfg.Watch.Patterns, s.cfg.Watch.RecursiveOrDefault(),
		func(ctx context.Context, path string) {
			if err := uploadFile(ctx, s.app, path); err != nil {
				s.logger.Warn("watch upload failed", zap.String("path", path), zap.Error(err))
			}
		},
		watcher.WithLogger(s.logger))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
