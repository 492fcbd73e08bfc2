package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/invoice-ocr/internal/extraction"
	"github.com/zombor/invoice-ocr/internal/ingest"
	"github.com/zombor/invoice-ocr/internal/invoice"
	"github.com/zombor/invoice-ocr/internal/scanning"
	"github.com/zombor/invoice-ocr/internal/scanning/tesseract"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("invoice-ocr")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		dbPath         = fs.StringLong("db", "invoice-ocr.db", "Database file path")
		storagePath    = fs.StringLong("storage", "./invoices", "Storage directory for uploaded images")
		layoutPath     = fs.StringLong("layout", "", "YAML file overriding the invoice layout (corrections, markers, vocabularies)")
		parseText      = fs.StringLong("parse-text", "", "Extract one invoice from a text file ('-' for stdin), print it as JSON and exit")
		recognizerType = fs.StringLong("recognizer", "tesseract", "Text recognizer: 'tesseract', 'gemini' or 'ollama'")
		tessLang       = fs.StringLong("tesseract-lang", "fra", "Tesseract trained data language")
		tessdata       = fs.StringLong("tessdata", "", "Directory holding tesseract .traineddata files")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama vision model name (e.g., llava, qwen2.5vl, minicpm-v)")
		watchDir       = fs.StringLong("watch-dir", "", "Directory to watch for new invoice images (optional)")
		watchDebounce  = fs.DurationLong("watch-debounce", 0, "Quiet period before a changed file is ingested (default 2s)")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		debug          = fs.BoolLong("debug", "Log normalized invoice text and extraction details")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_OCR"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	layout := extraction.DefaultLayout()
	if *layoutPath != "" {
		var err error
		layout, err = extraction.LoadLayout(*layoutPath)
		if err != nil {
			slog.Error("Failed to load layout", "path", *layoutPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Loaded invoice layout", "path", *layoutPath)
	}

	pipeline, err := extraction.New(layout, slog.Default())
	if err != nil {
		slog.Error("Invalid invoice layout", "error", err)
		os.Exit(1)
	}

	if *parseText != "" {
		os.Exit(runParseText(pipeline, *parseText, os.Stdout))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	slog.Info("Initializing database...")
	db, err := invoice.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize recognizer based on type
	var recognizer scanning.Recognizer
	switch *recognizerType {
	case "tesseract":
		slog.Info("Initializing Tesseract recognizer...", "language", *tessLang)
		recognizer = tesseract.New(tesseract.Config{
			Language:       *tessLang,
			TessdataPrefix: *tessdata,
		})
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini recognizer...", "model", *geminiModel)
		recognizer, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama recognizer...", "url", *ollamaURL, "model", *ollamaModel)
		recognizer, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid recognizer type", "type", *recognizerType, "valid", "tesseract, gemini or ollama")
		os.Exit(1)
	}
	defer recognizer.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := invoice.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	invoiceService := invoice.NewService(db, recognizer, pipeline, store)

	if *watchDir != "" {
		debounce := *watchDebounce
		if debounce <= 0 {
			debounce = defaultWatchDebounce
		}
		paths, _, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:    []string{*watchDir},
			Debounce: debounce,
		})
		if err != nil {
			slog.Error("Failed to watch directory", "dir", *watchDir, "error", err)
			os.Exit(1)
		}
		slog.Info("Watching for invoices", "dir", *watchDir)
		go ingest.Run(ctx, paths, invoiceService, slog.Default())
	}

	server := invoice.NewServer(invoiceService, invoice.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	})

	addr := fmt.Sprintf(":%d", *port)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	if err := server.Start(ctx, addr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutting down...")
}

// runParseText extracts one invoice from a text file and prints the result.
// It returns the process exit code.
func runParseText(pipeline *extraction.Pipeline, path string, out io.Writer) int {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		slog.Error("Failed to read text", "path", path, "error", err)
		return 1
	}

	output, code := parseTextOutput(pipeline, string(data))
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		slog.Error("Failed to write result", "error", err)
		return 1
	}
	return code
}

// parseTextOutput builds the JSON document printed by --parse-text
func parseTextOutput(pipeline *extraction.Pipeline, text string) (any, int) {
	result := pipeline.Process(text)
	if result.Status == extraction.StatusNoText {
		return map[string]string{"error": "No text extracted"}, 2
	}
	return map[string]any{
		"status": result.Status,
		"record": result.Record,
		"values": result.Record.Values(),
	}, 0
}
