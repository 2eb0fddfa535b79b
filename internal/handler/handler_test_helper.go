// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"trafficwatch/internal/auth"
	"trafficwatch/internal/cache"
	"trafficwatch/internal/middleware"
	"trafficwatch/internal/render"
	"trafficwatch/internal/session"
	"trafficwatch/internal/store"
	"trafficwatch/web"
)

const (
	testAdminEmail    = "admin@mail.com"
	testAdminPassword = "admin123"
)

// testEnv wires handlers, in-memory stores and a session manager into a
// router mirroring the production route table (CSRF excluded).
type testEnv struct {
	users   *store.MemoryUserStore
	traffic *store.MemoryTrafficStore
	uploads *store.MemoryUploadStore
	cache   *cache.MemoryCache
	sm      *scs.SessionManager
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates sub fs: %v", err)
	}

	sm := session.New(nil, true)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	env := &testEnv{
		users:   store.NewMemoryUserStore(),
		traffic: store.NewMemoryTrafficStore(),
		uploads: store.NewMemoryUploadStore(),
		cache:   cache.NewMemoryCache(),
		sm:      sm,
	}

	svc := auth.NewServiceAccount(testAdminEmail, testAdminPassword)
	authHandler := NewAuthHandler(env.users, renderer, sm, svc)
	frontend := NewFrontendHandler(renderer)
	upload := NewUploadHandler(env.traffic, env.uploads, renderer, env.cache, 1<<20)
	dashboard := NewDashboardHandler(env.traffic, env.uploads, renderer, env.cache, 30*time.Second)

	r := chi.NewRouter()
	r.Get(RouteRoot, frontend.Landing)
	r.Get(RouteLanding, frontend.Landing)
	r.Get(RouteFlash, frontend.FlashDemo)
	r.Get(RouteLogin, authHandler.LoginForm)
	r.Post(RouteLogin, authHandler.Login)
	r.Get(RouteRegister, authHandler.RegisterForm)
	r.Post(RouteRegister, authHandler.Register)
	r.Get(RouteLogout, authHandler.Logout)
	r.Get(RouteDashboardData, dashboard.DashboardData)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sm))
		r.Use(middleware.LoadUser(sm, env.users))
		r.Get(RouteHomepage, frontend.Homepage)
		r.Get(RouteUploadForm, upload.UploadForm)
		r.Post(RouteUpload, upload.Upload)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sm))
		r.Use(middleware.RequireAdmin(sm))
		r.Use(middleware.LoadUser(sm, env.users))
		r.Get(RouteAdminHome, dashboard.AdminHome)
	})

	env.handler = sm.LoadAndSave(r)
	return env
}

// get performs a GET request with the given session cookies.
func (e *testEnv) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form POST with the given session cookies.
func (e *testEnv) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// postMultipart performs a multipart POST with the given body and content type.
func (e *testEnv) postMultipart(path, contentType string, body io.Reader, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// login posts the credentials and returns the session cookies.
func (e *testEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	rec := e.postForm(RouteLogin, url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d; want %d", rec.Code, http.StatusSeeOther)
	}
	return rec.Result().Cookies()
}

// register posts a registration form and fails the test on error.
func (e *testEnv) register(t *testing.T, name, email, password string) {
	t.Helper()

	rec := e.postForm(RouteRegister, url.Values{
		"name":     {name},
		"email":    {email},
		"phone":    {"555-0100"},
		"password": {password},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register status = %d; want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != RouteLogin {
		t.Fatalf("register redirect = %q; want %q", loc, RouteLogin)
	}
}

// followFlash renders the given page with the session cookies and returns
// the body, so tests can assert on the flashed message.
func (e *testEnv) followFlash(t *testing.T, path string, cookies []*http.Cookie) string {
	t.Helper()
	rec := e.get(path, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d; want %d", path, rec.Code, http.StatusOK)
	}
	return rec.Body.String()
}
