// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"trafficwatch/internal/middleware"
	"trafficwatch/internal/model"
	"trafficwatch/internal/render"
	"trafficwatch/internal/stats"
)

// AttackTypeCount is one slice of the attack-type chart on the dashboard.
type AttackTypeCount struct {
	Label string
	Count int
}

// attackTypeSeries is the static classification shown on the dashboard.
// Per-type detection is not implemented; the chart carries placeholder
// numbers until a classifier fills them in.
var attackTypeSeries = []AttackTypeCount{
	{Label: "DoS", Count: 20},
	{Label: "Phishing", Count: 10},
	{Label: "SQL Injection", Count: 8},
	{Label: "XSS", Count: 7},
}

// adminHomeData is the view model for the admin dashboard page.
type adminHomeData struct {
	Dashboard     stats.Dashboard
	AttackTypes   []AttackTypeCount
	RecentUploads []model.Upload
}

// AdminHome renders the admin dashboard with the traffic aggregate,
// the attack-type chart and the latest upload batches.
func (h *DashboardHandler) AdminHome(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboard(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to build admin dashboard", "error", err)
		return
	}

	uploads, err := h.uploads.ListRecent(r.Context(), 10)
	if err != nil {
		// The dashboard is still useful without the upload history.
		slog.Warn("recent uploads lookup failed", "error", err)
	}

	data := render.TemplateData{
		Title: "Dashboard",
		Data: adminHomeData{
			Dashboard:     dashboard,
			AttackTypes:   attackTypeSeries,
			RecentUploads: uploads,
		},
	}
	if user := middleware.GetUser(r); user != nil {
		data.UserName = user.Name
		data.IsAdmin = user.IsAdmin()
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		logAndInternalError(w, "failed to render admin dashboard", "error", err)
	}
}
