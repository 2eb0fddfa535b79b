// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"trafficwatch/internal/middleware"
	"trafficwatch/internal/render"
)

// FrontendHandler serves the public and member-facing pages.
type FrontendHandler struct {
	renderer *render.Renderer
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{renderer: renderer}
}

// Landing renders the public landing page.
func (h *FrontendHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "frontend/landing", render.TemplateData{Title: "TrafficWatch"}); err != nil {
		logAndInternalError(w, "failed to render landing page", "error", err)
	}
}

// Homepage renders the signed-in member home page.
func (h *FrontendHandler) Homepage(w http.ResponseWriter, r *http.Request) {
	data := render.TemplateData{Title: "Home"}
	if user := middleware.GetUser(r); user != nil {
		data.UserName = user.Name
		data.IsAdmin = user.IsAdmin()
	}

	if err := h.renderer.Render(w, r, "frontend/home", data); err != nil {
		logAndInternalError(w, "failed to render home page", "error", err)
	}
}

// FlashDemo sets a one-shot notice and redirects to the landing page.
func (h *FrontendHandler) FlashDemo(w http.ResponseWriter, r *http.Request) {
	flashSuccess(w, r, h.renderer, RouteRoot, "Flash message works")
}
