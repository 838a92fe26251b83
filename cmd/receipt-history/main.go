package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"receiptranger/internal/receipt"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-history")
	var (
		archivePath = fs.StringLong("archive", "receipt-ranger.db", "Receipt archive database path")
		month       = fs.StringLong("month", "", "Filter by month (YYYY-MM)")
		vendor      = fs.StringLong("vendor", "", "Filter by vendor substring (case-insensitive)")
		minAmount   = fs.Float64Long("min-amount", -1, "Filter by minimum amount")
		maxAmount   = fs.Float64Long("max-amount", -1, "Filter by maximum amount")
		category    = fs.StringLong("category", "", "Filter by category (canonical label or alias)")
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

	filter := receipt.NewFilter()
	filter.Month = *month
	filter.Vendor = *vendor
	filter.MinAmount = *minAmount
	filter.MaxAmount = *maxAmount
	if *category != "" {
		label, ok := receipt.ParseCategory(*category)
		if !ok {
			slog.Error("Unknown category", "category", *category)
			os.Exit(1)
		}
		filter.Category = label
	}

	archive, err := receipt.NewBoltArchive(*archivePath)
	if err != nil {
		slog.Error("Failed to open receipt archive", "path", *archivePath, "error", err)
		os.Exit(1)
	}
	defer archive.Close()

	matched, err := receipt.FilterReceipts(archive, filter)
	if err != nil {
		slog.Error("Failed to query archive", "error", err)
		os.Exit(1)
	}

	if len(matched) == 0 {
		fmt.Println("No receipts matched.")
		return
	}

	rows := make([]receipt.Receipt, len(matched))
	for i, r := range matched {
		rows[i] = *r
	}
	receipt.RenderTable(os.Stdout, rows)
	fmt.Printf("\n%d receipt(s) matched.\n", len(rows))
}
