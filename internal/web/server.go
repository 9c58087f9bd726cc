// Copyright Recrui8, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web exposes the redaction engine over HTTP: single-file
// redact and preview, batch redact returning a zip, and a supported
// types listing for client form population.
package web

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"resume-redact/internal/config"
	"resume-redact/internal/engine"
	"resume-redact/internal/observability"
	"resume-redact/internal/parallel"
	"resume-redact/internal/patterns"
	"resume-redact/internal/version"
)

// WebServer represents the web server instance
type WebServer struct {
	cfg      *config.Config
	engine   *engine.Engine
	observer *observability.Observer
	server   *http.Server
}

// ErrorResponse is the JSON body for request failures
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewWebServer creates a new web server instance
func NewWebServer(cfg *config.Config, eng *engine.Engine, obs *observability.Observer) *WebServer {
	return &WebServer{cfg: cfg, engine: eng, observer: obs}
}

// Start starts the web server and blocks until it stops
func (ws *WebServer) Start() error {
	addr := ws.cfg.Server.Addr
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not bind %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/supported-types", ws.handleSupportedTypes)
	mux.HandleFunc("/api/redact", ws.handleRedact)
	mux.HandleFunc("/api/preview", ws.handlePreview)
	mux.HandleFunc("/api/batch-redact", ws.handleBatchRedact)

	ws.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	fmt.Printf("resume-redact API listening on %s\n", listener.Addr())
	if err := ws.server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the web server
func (ws *WebServer) Stop() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}

func (ws *WebServer) handleHealth(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	responseWriter.Header().Set("Content-Type", "application/json")
	json.NewEncoder(responseWriter).Encode(map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (ws *WebServer) handleSupportedTypes(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cats := ws.engine.Registry().Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, string(c))
	}
	responseWriter.Header().Set("Content-Type", "application/json")
	json.NewEncoder(responseWriter).Encode(map[string]any{
		"categories":     names,
		"output_formats": []string{engine.FormatPDF, engine.FormatDOCX},
		"input_types":    []string{".pdf"},
	})
}

// handleRedact runs a full redaction pass on one uploaded PDF and
// streams the output back. The run report travels in the
// X-Redaction-Report header so the body stays pure document bytes.
func (ws *WebServer) handleRedact(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name, data, opts, ok := ws.parseRedactRequest(responseWriter, request)
	if !ok {
		return
	}

	result, err := ws.engine.Process(request.Context(), name, data, opts)
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return
	}

	report, _ := json.Marshal(result.Report)
	outName := outputName(name, result.Report.Format)
	responseWriter.Header().Set("Content-Type", contentTypeFor(result.Report.Format))
	responseWriter.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outName))
	responseWriter.Header().Set("X-Redaction-Report", string(report))
	responseWriter.Write(result.Output)
}

func (ws *WebServer) handlePreview(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := request.ParseMultipartForm(ws.maxUploadBytes()); err != nil {
		ws.sendErrorWithStatus(responseWriter, "could not parse upload: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	name, data, err := ws.readUpload(request, "file")
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return
	}
	cats, err := parseCategories(request.FormValue("categories"))
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return
	}

	preview, err := ws.engine.Preview(request.Context(), name, data, cats)
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return
	}
	responseWriter.Header().Set("Content-Type", "application/json")
	json.NewEncoder(responseWriter).Encode(preview)
}

// handleBatchRedact accepts multiple files and returns a zip archive
// of redacted outputs plus a report.json. One bad file yields an entry
// in the report, never a failed batch.
func (ws *WebServer) handleBatchRedact(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := request.ParseMultipartForm(ws.maxUploadBytes()); err != nil {
		ws.sendErrorWithStatus(responseWriter, "could not parse upload: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if request.MultipartForm == nil || len(request.MultipartForm.File["files"]) == 0 {
		ws.sendError(responseWriter, "no files uploaded (use the 'files' field)")
		return
	}

	opts, err := ws.optionsFromForm(request)
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return
	}

	var jobs []parallel.Job
	for i, header := range request.MultipartForm.File["files"] {
		data, err := readFileHeader(header)
		if err != nil {
			ws.sendError(responseWriter, fmt.Sprintf("read %s: %v", header.Filename, err))
			return
		}
		jobs = append(jobs, parallel.Job{
			ID:      fmt.Sprintf("job-%d", i),
			Name:    filepath.Base(header.Filename),
			Data:    data,
			Options: opts,
		})
	}

	results, err := parallel.ProcessBatch(request.Context(), ws.engine, ws.observer, jobs, ws.cfg.Batch.Workers)
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return
	}

	responseWriter.Header().Set("Content-Type", "application/zip")
	responseWriter.Header().Set("Content-Disposition", `attachment; filename="redacted.zip"`)
	zw := zip.NewWriter(responseWriter)
	defer zw.Close()

	type batchEntry struct {
		File    string         `json:"file"`
		Success bool           `json:"success"`
		Error   string         `json:"error,omitempty"`
		Report  *engine.Report `json:"report,omitempty"`
	}
	var entries []batchEntry
	processed := 0
	for _, res := range results {
		if res.Err != nil {
			entries = append(entries, batchEntry{File: res.Name, Error: res.Err.Error()})
			continue
		}
		processed++
		entry := batchEntry{File: res.Name, Success: true}
		report := res.Report
		entry.Report = &report
		entries = append(entries, entry)

		w, err := zw.Create(outputName(res.Name, res.Report.Format))
		if err != nil {
			return
		}
		if _, err := w.Write(res.Output); err != nil {
			return
		}
	}
	if w, err := zw.Create("report.json"); err == nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]any{
			"processed": processed,
			"errors":    len(results) - processed,
			"results":   entries,
		})
	}
}

// parseRedactRequest extracts the upload and options for single-file
// redaction, writing the error response itself on failure.
func (ws *WebServer) parseRedactRequest(responseWriter http.ResponseWriter, request *http.Request) (string, []byte, engine.Options, bool) {
	var opts engine.Options
	if err := request.ParseMultipartForm(ws.maxUploadBytes()); err != nil {
		ws.sendErrorWithStatus(responseWriter, "could not parse upload: "+err.Error(), http.StatusRequestEntityTooLarge)
		return "", nil, opts, false
	}
	name, data, err := ws.readUpload(request, "file")
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return "", nil, opts, false
	}
	opts, err = ws.optionsFromForm(request)
	if err != nil {
		ws.sendError(responseWriter, err.Error())
		return "", nil, opts, false
	}
	return name, data, opts, true
}

func (ws *WebServer) optionsFromForm(request *http.Request) (engine.Options, error) {
	var opts engine.Options

	cats, err := parseCategories(request.FormValue("categories"))
	if err != nil {
		return opts, err
	}
	opts.Categories = cats

	format := strings.ToLower(strings.TrimSpace(request.FormValue("format")))
	if format == "" {
		format = ws.cfg.Defaults.Format
	}
	opts.Format = format

	opts.Padding = ws.cfg.Redaction.PaddingPoints
	opts.ScrubMetadata = ws.cfg.Redaction.ScrubMetadata
	if rgb, err := config.ParseHexColor(ws.cfg.Redaction.FillColor); err == nil {
		opts.Fill.R, opts.Fill.G, opts.Fill.B = rgb[0], rgb[1], rgb[2]
	}

	opts.Furniture.HeaderText = request.FormValue("header")
	opts.Furniture.FooterText = request.FormValue("footer")
	if opts.Furniture.HeaderText == "" {
		opts.Furniture.HeaderText = ws.cfg.Furniture.HeaderText
	}
	if opts.Furniture.FooterText == "" {
		opts.Furniture.FooterText = ws.cfg.Furniture.FooterText
	}
	opts.Furniture.EdgeOffset = ws.cfg.Furniture.EdgeOffset
	opts.Furniture.BandHeight = ws.cfg.Furniture.BandHeight
	opts.Furniture.FontSize = ws.cfg.Furniture.FontSize

	if _, logo, err := ws.readOptionalUpload(request, "logo"); err == nil && logo != nil {
		opts.Furniture.Logo = logo
	}
	return opts, nil
}

func (ws *WebServer) readUpload(request *http.Request, field string) (string, []byte, error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("no file uploaded (use the %q field)", field)
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return "", nil, fmt.Errorf("unsupported file type %q (only PDF input is supported)", filepath.Ext(header.Filename))
	}
	data, err := io.ReadAll(io.LimitReader(file, ws.maxUploadBytes()+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > ws.maxUploadBytes() {
		return "", nil, fmt.Errorf("file exceeds the %d MB upload limit", ws.cfg.Server.MaxUploadMB)
	}
	return filepath.Base(header.Filename), data, nil
}

func (ws *WebServer) readOptionalUpload(request *http.Request, field string) (string, []byte, error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, ws.maxUploadBytes()))
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(header.Filename), data, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (ws *WebServer) maxUploadBytes() int64 {
	mb := ws.cfg.Server.MaxUploadMB
	if mb <= 0 {
		mb = 25
	}
	return mb << 20
}

func parseCategories(raw string) ([]patterns.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	var cats []patterns.Category
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cats = append(cats, patterns.Category(strings.ToLower(part)))
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("categories must name at least one detection category")
	}
	return cats, nil
}

func outputName(input, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + "_redacted." + format
}

func contentTypeFor(format string) string {
	if format == engine.FormatDOCX {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

// sendError sends an error response with appropriate status code
func (ws *WebServer) sendError(responseWriter http.ResponseWriter, message string) {
	ws.sendErrorWithStatus(responseWriter, message, http.StatusBadRequest)
}

// sendErrorWithStatus sends an error response with a specific HTTP status code
func (ws *WebServer) sendErrorWithStatus(responseWriter http.ResponseWriter, message string, statusCode int) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)
	json.NewEncoder(responseWriter).Encode(ErrorResponse{Error: message})
}
