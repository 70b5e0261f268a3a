package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/expensetrack/statement-import/internal/api"
	"github.com/expensetrack/statement-import/internal/extractor"
	"github.com/expensetrack/statement-import/internal/ledger"
	"github.com/expensetrack/statement-import/internal/parser"
	"github.com/expensetrack/statement-import/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	jsonFlag := flag.Bool("json", false, "Emit recognized transactions as JSON to stdout instead of CSV")
	headerFlag := flag.Bool("header", true, "Include the column header row in CSV output")
	serveFlag := flag.Bool("serve", false, "Run the HTTP import API instead of converting files")
	portFlag := flag.Int("port", 8080, "Port for the HTTP API (with --serve)")
	debugFlag := flag.Bool("debug", false, "Enable debug logging of the recognizer chain")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Import — transaction recognizer

Reads bank and UPI wallet statement exports (.pdf or .txt), recognizes
the transaction records inside them and classifies each as income or
expense with a spending category.

Usage:
  statement-import [flags] <statement.pdf|statement.txt> [more files ...]
  statement-import --serve [--port 8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a PDF statement to CSV
  statement-import statement.pdf

  # Parse a plain-text export and print JSON
  statement-import --json statement.txt

  # Custom output path
  statement-import --output=transactions.csv statement.pdf

  # Run the HTTP API
  statement-import --serve --port 9090

Recognized formats:
  block        - multi-line blocks (date, time and detail on separate lines)
  tabular-row  - "Jul 20, 2025 Paid to STORE DEBIT ₹190"
  compact-row  - "DEBIT₹30Paid to JOGI SUPER STORE"
  legacy       - single-line rows with DD/MM/YYYY, YYYY-MM-DD or DD-MM-YYYY dates
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-import v%s\n", version)
		os.Exit(0)
	}

	logger := log.New(os.Stderr)
	if *debugFlag {
		logger.SetLevel(log.DebugLevel)
	}

	if *serveFlag {
		runServer(*portFlag, logger)
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	engine := parser.New(logger)
	for _, inputPath := range flag.Args() {
		if err := processFile(engine, inputPath, *outputFlag, *jsonFlag, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(engine *parser.Engine, inputPath, outputPath string, asJSON, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	var text string
	switch ext := strings.ToLower(filepath.Ext(inputPath)); ext {
	case ".pdf":
		fmt.Printf("Processing: %s\n", inputPath)
		extracted, err := extractor.ExtractTextCombined(inputPath)
		if err != nil {
			return fmt.Errorf("PDF extraction failed: %w", err)
		}
		text = extracted
	case ".txt":
		fmt.Printf("Processing: %s\n", inputPath)
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return err
		}
		text = string(data)
	default:
		return fmt.Errorf("expected a .pdf or .txt file, got %q", ext)
	}

	report, err := engine.Parse(text)
	if err != nil {
		return err
	}

	fmt.Printf("  Recognized %d transaction(s) (%d of %d lines matched)\n",
		len(report.Transactions), report.MatchedLines, report.TotalLines)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Transactions)
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, report.Transactions); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)
	return nil
}

func runServer(port int, logger *log.Logger) {
	engine := parser.New(logger)
	book := ledger.New()

	app := fiber.New(fiber.Config{
		AppName:   "statement-import v" + version,
		BodyLimit: 32 << 20,
	})

	handler := api.New(engine, book, logger)
	handler.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", port)
	logger.Info("starting import API", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
