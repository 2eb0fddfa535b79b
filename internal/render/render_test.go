// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"trafficwatch/internal/session"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<html><body>{{template "flash" .}}{{block "content" .}}{{end}}</body></html>{{end}}`,
		)},
		"partials/flash.html": {Data: []byte(
			`{{define "flash"}}{{if .Flash}}<div class="alert-{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`,
		)},
		"auth/login.html": {Data: []byte(
			`{{define "content"}}<h1>{{.Title}}</h1>{{end}}`,
		)},
		"frontend/home.html": {Data: []byte(
			`{{define "content"}}<p>Welcome {{.UserName}}</p>{{end}}`,
		)},
	}
}

func TestNew_ParsesPageTemplates(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS(), IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{"auth/login", "frontend/home"} {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS(), IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := r.Render(rec, req, "admin/nope", TemplateData{}); err == nil {
		t.Error("Render should fail for an unknown template")
	}
}

func TestRender_WritesHTML(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS(), IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	if err := r.Render(rec, req, "auth/login", TemplateData{Title: "Log In"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q; want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Log In</h1>") {
		t.Errorf("body = %q; want rendered title", rec.Body.String())
	}
}

func TestRender_FlashShowsExactlyOnce(t *testing.T) {
	sm := session.New(nil, true)
	r, err := New(Config{TemplatesFS: testTemplatesFS(), SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var bodies []string
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Wrong password", "error")

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			if err := r.Render(rec, req, "auth/login", TemplateData{Title: "Log In"}); err != nil {
				t.Errorf("Render: %v", err)
			}
			bodies = append(bodies, rec.Body.String())
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))

	if len(bodies) != 2 {
		t.Fatalf("got %d renders; want 2", len(bodies))
	}
	if !strings.Contains(bodies[0], "Wrong password") || !strings.Contains(bodies[0], "alert-error") {
		t.Errorf("first render should carry the flash, got %q", bodies[0])
	}
	if strings.Contains(bodies[1], "Wrong password") {
		t.Error("second render should not repeat a consumed flash")
	}
}
