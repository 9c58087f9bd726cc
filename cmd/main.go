// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"resume-redact/internal/config"
	"resume-redact/internal/engine"
	"resume-redact/internal/furniture"
	"resume-redact/internal/help"
	"resume-redact/internal/observability"
	"resume-redact/internal/parallel"
	"resume-redact/internal/patterns"
	"resume-redact/internal/redact"
	"resume-redact/internal/version"
	"resume-redact/internal/web"
)

func main() {
	inputFile := flag.String("file", "", "Path to the input PDF, or a glob pattern (e.g., resumes/*.pdf)")
	batchDir := flag.String("batch", "", "Directory of PDFs to redact in one batch")
	outputFile := flag.String("output", "", "Path to the output file (single-file mode; default: <name>_redacted.<format>)")
	outputDir := flag.String("output-dir", "", "Directory for batch output (default: ./redacted)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	outputFormat := flag.String("format", "", "Output format: pdf or docx (default: pdf)")
	categories := flag.String("categories", "", "Categories to redact: email, phone, linkedin, portfolio, all_urls, or combinations like 'email,phone' (default: all)")
	headerText := flag.String("header", "", "Header text stamped onto redacted output")
	footerText := flag.String("footer", "", "Footer text stamped onto redacted output (default: company footer)")
	logoFile := flag.String("logo", "", "Path to a PNG or JPEG logo stamped top-left")
	previewMode := flag.Bool("preview", false, "Report what would be redacted without writing output")
	jsonOutput := flag.Bool("json", false, "Emit reports as JSON instead of text")
	listCategories := flag.Bool("list-categories", false, "List detection categories and exit")
	verbose := flag.Bool("verbose", false, "Display per-file detail")
	debug := flag.Bool("debug", false, "Enable debug logging of each pipeline stage")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	quiet := flag.Bool("quiet", false, "Suppress progress output (useful for scripts and CI/CD)")
	workers := flag.Int("workers", 0, "Batch worker count (default: one per CPU, capped at 8)")
	showVersion := flag.Bool("version", false, "Show version information")
	webMode := flag.Bool("web", false, "Start the HTTP API server instead of processing files")
	webAddr := flag.String("addr", "", "Listen address for the HTTP API (default: :8080)")

	flag.Parse()

	if *noColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if *listCategories {
		help.NewSystem(color.NoColor).PrintCategories()
		return
	}

	cfg := config.LoadConfigOrDefault(*configFile)
	applyFlags(cfg, *outputFormat, *headerText, *footerText, *webAddr, *workers)

	level := observability.LevelOff
	if *debug || cfg.Defaults.Debug {
		level = observability.LevelDebug
	}
	observer := observability.New(level, os.Stderr)
	eng := engine.New(observer)

	if *webMode {
		server := web.NewWebServer(cfg, eng, observer)
		if err := server.Start(); err != nil {
			fatal(err)
		}
		return
	}

	if *inputFile == "" && *batchDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no input specified (use --file or --batch)")
		flag.Usage()
		os.Exit(2)
	}

	opts, err := buildOptions(cfg, *categories, *logoFile)
	if err != nil {
		fatal(err)
	}

	files, err := collectInputs(*inputFile, *batchDir)
	if err != nil {
		fatal(err)
	}
	if len(files) == 0 {
		fatal(fmt.Errorf("no PDF files matched the input"))
	}

	switch {
	case *previewMode:
		err = runPreview(eng, files, opts.Categories, *jsonOutput, *quiet)
	case len(files) == 1 && *batchDir == "":
		err = runSingle(eng, files[0], *outputFile, opts, *jsonOutput, *verbose, *quiet)
	default:
		err = runBatch(eng, observer, cfg, files, *outputDir, opts, *jsonOutput, *quiet)
	}
	if err != nil {
		fatal(err)
	}
}

func applyFlags(cfg *config.Config, format, header, footer, addr string, workers int) {
	if format != "" {
		cfg.Defaults.Format = strings.ToLower(format)
	}
	if header != "" {
		cfg.Furniture.HeaderText = header
	}
	if footer != "" {
		cfg.Furniture.FooterText = footer
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if workers > 0 {
		cfg.Batch.Workers = workers
	}
}

func buildOptions(cfg *config.Config, categoryList, logoFile string) (engine.Options, error) {
	var opts engine.Options

	if categoryList == "" && len(cfg.Defaults.Categories) > 0 {
		categoryList = strings.Join(cfg.Defaults.Categories, ",")
	}
	if categoryList != "" && !strings.EqualFold(categoryList, "all") {
		for _, part := range strings.Split(categoryList, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				opts.Categories = append(opts.Categories, patterns.Category(strings.ToLower(part)))
			}
		}
	}

	opts.Format = cfg.Defaults.Format
	opts.Padding = cfg.Redaction.PaddingPoints
	opts.ScrubMetadata = cfg.Redaction.ScrubMetadata
	if cfg.Redaction.FillColor != "" {
		rgb, err := config.ParseHexColor(cfg.Redaction.FillColor)
		if err != nil {
			return opts, err
		}
		opts.Fill = redact.Fill{R: rgb[0], G: rgb[1], B: rgb[2]}
	}

	opts.Furniture = furniture.Spec{
		HeaderText: cfg.Furniture.HeaderText,
		FooterText: cfg.Furniture.FooterText,
		EdgeOffset: cfg.Furniture.EdgeOffset,
		BandHeight: cfg.Furniture.BandHeight,
		FontSize:   cfg.Furniture.FontSize,
	}
	if logoFile == "" {
		logoFile = cfg.Furniture.LogoPath
	}
	if logoFile != "" {
		logo, err := os.ReadFile(logoFile)
		if err != nil {
			return opts, fmt.Errorf("read logo: %w", err)
		}
		opts.Furniture.Logo = logo
	}
	return opts, nil
}

// collectInputs expands the --file value (path or glob) and --batch
// directory into a sorted list of PDF paths.
func collectInputs(inputFile, batchDir string) ([]string, error) {
	var files []string

	if inputFile != "" {
		if strings.ContainsAny(inputFile, "*?[") {
			matches, err := filepath.Glob(inputFile)
			if err != nil {
				return nil, fmt.Errorf("bad glob pattern %q: %w", inputFile, err)
			}
			files = append(files, matches...)
		} else {
			files = append(files, inputFile)
		}
	}
	if batchDir != "" {
		entries, err := os.ReadDir(batchDir)
		if err != nil {
			return nil, fmt.Errorf("read batch directory: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				files = append(files, filepath.Join(batchDir, e.Name()))
			}
		}
	}

	var pdfs []string
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), ".pdf") {
			pdfs = append(pdfs, f)
		}
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

func runPreview(eng *engine.Engine, files []string, cats []patterns.Category, asJSON, quiet bool) error {
	var previews []*engine.Preview
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		pv, err := eng.Preview(context.Background(), filepath.Base(path), data, cats)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		previews = append(previews, pv)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(previews)
	}

	for _, pv := range previews {
		color.New(color.FgWhite, color.Bold).Printf("%s (%d pages)\n", pv.File, pv.PageCount)
		if pv.Total == 0 {
			color.Green("  nothing to redact\n")
			continue
		}
		for cat, matches := range pv.Matches {
			fmt.Printf("  %s (%d):\n", cat, pv.Counts[cat])
			for _, m := range matches {
				color.Cyan("    %s\n", m)
			}
		}
		for _, u := range pv.Unresolved {
			color.Yellow("  warning: %s %q on page %d: %s\n", u.Category, u.Text, u.Page+1, u.Reason)
		}
		if !quiet {
			fmt.Println()
		}
	}
	return nil
}

func runSingle(eng *engine.Engine, path, outputPath string, opts engine.Options, asJSON, verbose, quiet bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	result, err := eng.Process(context.Background(), filepath.Base(path), data, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(path, result.Report.Format)
	}
	if err := os.WriteFile(outputPath, result.Output, 0o600); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Report)
	}
	if !quiet {
		printReport(result.Report, outputPath, verbose)
	}
	return nil
}

func runBatch(eng *engine.Engine, observer *observability.Observer, cfg *config.Config, files []string, outputDir string, opts engine.Options, asJSON, quiet bool) error {
	if outputDir == "" {
		outputDir = cfg.Redaction.OutputDir
	}
	if outputDir == "" {
		outputDir = "./redacted"
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return err
	}

	var jobs []parallel.Job
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		jobs = append(jobs, parallel.Job{
			ID:      fmt.Sprintf("job-%d", i),
			Name:    filepath.Base(path),
			Data:    data,
			Options: opts,
		})
	}

	results, err := parallel.ProcessBatch(context.Background(), eng, observer, jobs, cfg.Batch.Workers)
	if err != nil {
		return err
	}

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
			color.Red("FAIL %s: %v\n", res.Name, res.Err)
			continue
		}
		outPath := filepath.Join(outputDir, filepath.Base(defaultOutputPath(res.Name, res.Report.Format)))
		if err := os.WriteFile(outPath, res.Output, 0o600); err != nil {
			return err
		}
		if !quiet {
			color.Green("ok   %s -> %s (%d redactions)\n", res.Name, outPath, res.Report.Total)
		}
	}

	if asJSON {
		reports := make([]engine.Report, 0, len(results))
		for _, res := range results {
			if res.Err == nil {
				reports = append(reports, res.Report)
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(files))
	}
	return nil
}

func printReport(report engine.Report, outputPath string, verbose bool) {
	color.Green("Redacted %s -> %s\n", report.File, outputPath)
	fmt.Printf("  pages: %d, redactions: %d, glyphs removed: %d\n",
		report.PageCount, report.Total, report.GlyphsRemoved)
	if verbose {
		cats := make([]string, 0, len(report.Counts))
		for cat := range report.Counts {
			cats = append(cats, string(cat))
		}
		sort.Strings(cats)
		for _, cat := range cats {
			fmt.Printf("  %-12s %d\n", cat, report.Counts[patterns.Category(cat)])
		}
	}
	for _, u := range report.Unresolved {
		color.Yellow("  warning: %s %q on page %d not removed: %s\n", u.Category, u.Text, u.Page+1, u.Reason)
	}
	for _, w := range report.Warnings {
		color.Yellow("  warning: %s\n", w)
	}
	for _, d := range report.Degradations {
		fmt.Printf("  note: %s\n", d)
	}
}

func defaultOutputPath(path, format string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_redacted." + format
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func fatal(err error) {
	color.Red("Error: %v\n", err)
	os.Exit(1)
}
