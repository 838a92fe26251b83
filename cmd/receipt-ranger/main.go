package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"receiptranger/internal/pipeline"
	"receiptranger/internal/receipt"
	"receiptranger/internal/scanning"
	"receiptranger/internal/sheets"
	"receiptranger/internal/state"
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

	fs := ff.NewFlagSet("receipt-ranger")
	var (
		receiptsDir = fs.StringLong("receipts-dir", filepath.Join("data", "receipts"), "Directory of receipt images (directory mode)")
		statePath   = fs.StringLong("state", "processed_receipts.json", "Processing state file path")
		archivePath = fs.StringLong("archive", "receipt-ranger.db", "Receipt archive database path")
		outputDir   = fs.StringLong("output", "output", "Output directory for TSV/JSON exports")
		exclusions  = fs.StringLong("exclusions", "exclusions.txt", "Plain-text exclusion criteria file")
		reprocess   = fs.BoolLong("reprocess", "Reprocess files even when unchanged since the last run")
		scannerType = fs.StringLong("scanner", "gemini", "Scanner type: 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set RECEIPT_RANGER_GEMINI_KEY)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, qwen2-vl)")
		credentials = fs.StringLong("sheets-credentials", "", "Google service account credentials file (enables spreadsheet sync)")
		spreadsheet = fs.StringLong("spreadsheet", "", "Google Sheets spreadsheet ID")
		repairSheet = fs.BoolLong("repair-sheets", "Realign misaligned spreadsheet rows before reconciling")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_RANGER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Load processing state. A corrupt file is fatal: proceeding would
	// silently forget which receipts were already processed.
	st, err := state.Load(*statePath)
	if err != nil {
		slog.Error("Failed to load state", "path", *statePath, "error", err)
		os.Exit(1)
	}

	// Explicit file arguments override directory mode.
	var plan []pipeline.PlannedFile
	if args := fs.GetArgs(); len(args) > 0 {
		plan = pipeline.PlanFiles(args)
	} else {
		plan, err = pipeline.PlanDirectory(*receiptsDir, st.Files, *reprocess)
		if err != nil {
			slog.Error("Failed to plan receipts", "error", err)
			os.Exit(1)
		}
	}

	if len(plan) == 0 {
		fmt.Println("No new receipts to process.")
		os.Exit(0)
	}

	scanner, err := newScanner(*scannerType, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel)
	if err != nil {
		slog.Error("Failed to initialize scanner", "error", err)
		os.Exit(1)
	}
	defer scanner.Close()

	criteria := pipeline.LoadExclusionCriteria(*exclusions)

	svc := pipeline.NewService(scanner)
	results := svc.ProcessFiles(plan, criteria)

	for _, r := range pipeline.InvalidResults(results) {
		if r.Failed() {
			continue // already logged by the service
		}
		slog.Warn("File is not a valid receipt", "file", r.File.Name, "reason", r.Receipt.ValidationError)
	}

	valid := pipeline.ValidReceipts(results)
	if len(valid) == 0 {
		fmt.Println("No receipts were successfully processed.")
		os.Exit(1)
	}

	included, excluded := receipt.Partition(valid)
	for _, r := range excluded {
		slog.Warn("Receipt excluded from table", "detail", receipt.ExclusionWarning(r))
	}

	deduped := receipt.Dedupe(included)

	// Merge into state before persisting anything else; the fingerprint map
	// only records files whose extraction yielded a valid receipt.
	st.MergeReceipts(deduped)
	for _, r := range results {
		if !r.Failed() && r.Receipt.IsValidReceipt {
			st.RecordFile(r.File.Name, r.File.Fingerprint)
		}
	}

	if err := writeOutputs(*outputDir, deduped); err != nil {
		slog.Error("Failed to write outputs", "error", err)
		os.Exit(1)
	}

	if err := st.Save(*statePath); err != nil {
		slog.Error("Failed to save state", "error", err)
		os.Exit(1)
	}

	archiveReceipts(*archivePath, deduped)

	fmt.Printf("\nProcessed %d receipt(s). Output saved to %s/\n\n", len(deduped), *outputDir)
	receipt.RenderTable(os.Stdout, deduped)

	if *spreadsheet != "" {
		syncSpreadsheet(*credentials, *spreadsheet, *repairSheet, deduped)
	}
}

// newScanner builds the configured extraction provider.
func newScanner(scannerType, geminiKey, geminiModel, ollamaURL, ollamaModel string) (scanning.Scanner, error) {
	switch scannerType {
	case "gemini":
		if geminiKey == "" {
			geminiKey = os.Getenv("GEMINI_API_KEY")
		}
		if geminiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner...", "model", geminiModel)
		return scanning.NewGemini(geminiKey, geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", ollamaURL, "model", ollamaModel)
		return scanning.NewOllama(ollamaURL, ollamaModel)
	default:
		return nil, fmt.Errorf("invalid scanner type %q: valid types are gemini or ollama", scannerType)
	}
}

// writeOutputs persists the TSV and JSON exports for this batch.
func writeOutputs(dir string, receipts []receipt.Receipt) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tsv := strings.Join(receipt.BuildTSVLines(receipts), "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "receipts.tsv"), []byte(tsv), 0644); err != nil {
		return fmt.Errorf("writing TSV: %w", err)
	}

	data, err := receipt.BuildJSON(receipts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "receipts.json"), data, 0644); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

// archiveReceipts records the batch in the local archive. Archive trouble is
// reported but never fails a run whose state and outputs are already safe.
func archiveReceipts(path string, receipts []receipt.Receipt) {
	archive, err := receipt.NewBoltArchive(path)
	if err != nil {
		slog.Error("Failed to open receipt archive", "path", path, "error", err)
		return
	}
	defer archive.Close()

	for _, r := range receipts {
		if err := archive.SaveReceipt(&r); err != nil {
			slog.Error("Failed to archive receipt", "key", r.Key(), "error", err)
		}
	}
}

// syncSpreadsheet reconciles the batch against Google Sheets and uploads the
// genuinely new receipts. Any reconciliation failure skips the upload
// entirely rather than risking a duplicate row.
func syncSpreadsheet(credentials, spreadsheetID string, repair bool, receipts []receipt.Receipt) {
	ctx := context.Background()

	api, err := sheets.NewGoogleSheets(ctx, credentials, spreadsheetID)
	if err != nil {
		slog.Error("Spreadsheet sync unavailable", "error", err)
		return
	}
	reconciler := sheets.NewReconciler(api)

	if repair {
		repaired, err := reconciler.RepairAll(ctx)
		if err != nil {
			slog.Error("Worksheet repair failed", "error", err)
			return
		}
		if len(repaired) > 0 {
			slog.Info("Repaired worksheets", "worksheets", strings.Join(repaired, ", "))
		}
	}

	fresh, err := reconciler.FilterNew(ctx, receipts)
	if err != nil {
		// Fail closed: without a trustworthy duplicate set, uploading
		// could double-count.
		slog.Error("Could not reconcile against spreadsheet; skipping upload", "error", err)
		return
	}

	if len(fresh) == 0 {
		slog.Info("All receipts already exist in the spreadsheet. Nothing to upload.")
		return
	}

	uploaded, errs := reconciler.Upload(ctx, fresh)
	for _, err := range errs {
		slog.Error("Upload error", "error", err)
	}
	if uploaded > 0 {
		slog.Info("Uploaded new receipts to spreadsheet", "count", uploaded)
	}
}
