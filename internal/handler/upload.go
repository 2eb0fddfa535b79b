// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"trafficwatch/internal/cache"
	"trafficwatch/internal/ingest"
	"trafficwatch/internal/middleware"
	"trafficwatch/internal/model"
	"trafficwatch/internal/render"
	"trafficwatch/internal/store"
)

// UploadHandler handles CSV ingestion into the traffic collection.
type UploadHandler struct {
	traffic  store.TrafficStore
	uploads  store.UploadStore
	renderer *render.Renderer
	cache    cache.Cacher
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(traffic store.TrafficStore, uploads store.UploadStore, renderer *render.Renderer, cacher cache.Cacher, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		traffic:  traffic,
		uploads:  uploads,
		renderer: renderer,
		cache:    cacher,
		maxBytes: maxBytes,
	}
}

// UploadForm renders the CSV upload page.
func (h *UploadHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{Title: "Upload CSV"}
	if user := middleware.GetUser(r); user != nil {
		data.UserName = user.Name
		data.IsAdmin = user.IsAdmin()
	}

	if err := h.renderer.Render(w, r, "frontend/upload", data); err != nil {
		logAndInternalError(w, "failed to render upload page", "error", err)
	}
}

// Upload ingests a multipart CSV file. The whole batch is parsed first and
// written with a single bulk insert, so a malformed file stores nothing.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		slog.Warn("upload rejected: bad multipart body", "error", err)
		flashError(w, r, h.renderer, RouteUploadForm, "Upload failed: file too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("upload rejected: missing file field", "error", err)
		flashError(w, r, h.renderer, RouteUploadForm, "Please choose a CSV file to upload")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != ingest.MIMETypeCSV {
		slog.Warn("upload rejected: wrong content type", "content_type", ct, "filename", header.Filename)
		flashError(w, r, h.renderer, RouteUploadForm, "Only CSV files are accepted")
		return
	}

	records, err := ingest.ReadCSV(file)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyFile) {
			flashError(w, r, h.renderer, RouteUploadForm, "The uploaded file is empty")
			return
		}
		slog.Error("csv parse failed", "filename", header.Filename, "error", err)
		flashError(w, r, h.renderer, RouteUploadForm, "Ingestion failed: could not parse the CSV file")
		return
	}

	if err := h.traffic.InsertMany(r.Context(), records); err != nil {
		slog.Error("csv ingest insert failed", "filename", header.Filename, "rows", len(records), "error", err)
		flashError(w, r, h.renderer, RouteUploadForm, "Ingestion failed, please try again")
		return
	}

	upload := &model.Upload{
		BatchID:   uuid.NewString(),
		Filename:  header.Filename,
		Rows:      len(records),
		CreatedAt: time.Now(),
	}
	if user := middleware.GetUser(r); user != nil {
		upload.UploadedBy = user.Email
	}
	if err := h.uploads.Create(r.Context(), upload); err != nil {
		// Rows are already in; losing the summary is not worth failing the upload.
		slog.Error("upload summary write failed", "batch_id", upload.BatchID, "error", err)
	}

	// Aggregates are stale now.
	if err := h.cache.Delete(r.Context(), cacheKeyDashboard); err != nil {
		slog.Warn("dashboard cache invalidation failed", "error", err)
	}

	slog.Info("csv ingested", "filename", header.Filename, "rows", len(records), "batch_id", upload.BatchID)
	flashSuccess(w, r, h.renderer, RouteUploadForm, "Upload successful")
}
