// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"trafficwatch/internal/cache"
	"trafficwatch/internal/render"
	"trafficwatch/internal/stats"
	"trafficwatch/internal/store"
)

// cacheKeyDashboard is where the computed aggregate lives between uploads.
const cacheKeyDashboard = "dashboard-data"

// DashboardHandler serves the dashboard aggregate, both as JSON and as the
// admin page.
type DashboardHandler struct {
	traffic  store.TrafficStore
	uploads  store.UploadStore
	renderer *render.Renderer
	cache    cache.Cacher
	cacheTTL time.Duration
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(traffic store.TrafficStore, uploads store.UploadStore, renderer *render.Renderer, cacher cache.Cacher, cacheTTL time.Duration) *DashboardHandler {
	return &DashboardHandler{
		traffic:  traffic,
		uploads:  uploads,
		renderer: renderer,
		cache:    cacher,
		cacheTTL: cacheTTL,
	}
}

// DashboardData serves the traffic aggregate as JSON.
func (h *DashboardHandler) DashboardData(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboard(r.Context())
	if err != nil {
		slog.Error("dashboard aggregation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// dashboard returns the aggregate, computing and caching it on a miss.
func (h *DashboardHandler) dashboard(ctx context.Context) (stats.Dashboard, error) {
	var cached stats.Dashboard
	err := h.cache.Get(ctx, cacheKeyDashboard, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		// A broken cache degrades to a full scan, not an error page.
		slog.Warn("dashboard cache read failed", "error", err)
	}

	records, err := h.traffic.FindAll(ctx)
	if err != nil {
		return stats.Dashboard{}, err
	}

	dashboard := stats.Aggregate(records)
	if err := h.cache.Set(ctx, cacheKeyDashboard, dashboard, h.cacheTTL); err != nil {
		slog.Warn("dashboard cache write failed", "error", err)
	}
	return dashboard, nil
}
