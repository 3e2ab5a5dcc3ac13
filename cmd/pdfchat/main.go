// Package main is the pdfchat CLI entry point.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/pdfchat/internal/config"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/pdfchat/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default file is not an error: every setting has a default.
// Returns the config and the path that was actually loaded ("" when none was).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}
	command, rest := args[0], args[1:]
	switch command {
	case "serve", "server":
		return runServe(rest, stdin, stdout, stderr)
	case "upload":
		return runUpload(rest, stdin, stdout, stderr)
	case "list":
		return runList(rest, stdin, stdout, stderr)
	case "delete":
		return runDelete(rest, stdin, stdout, stderr)
	case "open":
		return runOpen(rest, stdin, stdout, stderr)
	case "clear-history":
		return runClearHistory(rest, stdin, stdout, stderr)
	case "clear-db":
		return runClearDB(rest, stdin, stdout, stderr)
	case "ask":
		return runAsk(rest, stdin, stdout, stderr)
	case "ask-pdf":
		return runAskPDF(rest, stdin, stdout, stderr)
	case "copy-ask":
		return runCopyAsk(rest, stdin, stdout, stderr)
	case "watch":
		return runWatch(rest, stdin, stdout, stderr)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "pdfchat version %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}
}

// buildQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves every flag (with its value) in front of the positional
// arguments so that fs.Parse sees them, keeping both groups in their original
// order. Go's flag package stops at the first non-flag argument, so
// `pdfchat ask what is this -llm mistral` would otherwise leave -llm unparsed.
// fs tells flags that take a value from boolean ones; everything after "--"
// is positional.
func argsReorder(fs *flag.FlagSet, args []string) []string {
	flags := make([]string, 0, len(args))
	var positional []string
	dashed := false
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			dashed = true
			break
		}
		if len(a) < 2 || a[0] != '-' {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	if dashed {
		flags = append(flags, "--")
	}
	return append(flags, positional...)
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `pdfchat - chat with your PDFs through a document question-answering backend

Usage:
  pdfchat serve [flags]                 Start the web front-end
  pdfchat upload [flags] <file>...      Upload PDFs
  pdfchat list [flags]                  List uploaded documents
  pdfchat delete [flags] <source>       Delete a document (asks first)
  pdfchat open [flags] <source>         Print the view URL of a document
  pdfchat clear-history [flags]         Clear the backend chat history
  pdfchat clear-db [flags]              Delete all documents (asks first)
  pdfchat ask [flags] <query>           Ask the model a general question
  pdfchat ask-pdf [flags] <query>       Ask a question about the uploaded PDFs
  pdfchat copy-ask [flags] <query>      Send a PDF question to the general endpoint
  pdfchat watch [flags] [dir]...        Upload PDFs dropped into directories
  pdfchat version                       Show version
  pdfchat help                          Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/pdfchat/config.yaml, ./config.yaml if present)
  --backend string   Backend base URL (overrides config and PDFCHAT_BACKEND_URL)
  --debug            Enable debug logging
  --output string    Output format: text or json (default: text)
  --yes              Answer yes to confirmations (required when stdin is not a terminal)
  --no-progress      Do not show the spinner while waiting

Ask Flags:
  --llm string          Model name (default: ui.default_llm)
  --prompt-type string  Prompt type for ask-pdf (default: first of ui.prompt_types)

Serve Flags:
  --host string      Listen host (default: server.host)
  --port int         Listen port (default: server.port)
  --watch            Also watch drop folders (managed via /api/watch/directories)

Watch Flags:
  --sync             Upload PDFs already in the directories on start (default: true)

While a query is running, Ctrl-C asks before abandoning it; a second Ctrl-C always exits.

Environment:
  PDFCHAT_BACKEND_URL, PDFCHAT_BACKEND_TIMEOUT, PDFCHAT_SERVER_HOST, PDFCHAT_SERVER_PORT,
  PDFCHAT_DEFAULT_LLM, PDFCHAT_DEBUG (also read from ./.env)

Examples:
  pdfchat upload report.pdf
  pdfchat list --output json
  pdfchat ask-pdf --prompt-type summary "what are the key findings?"
  pdfchat ask what is retrieval augmented generation --llm mistral
  pdfchat delete --yes report.pdf
  pdfchat watch ~/Documents/inbox`)
}
