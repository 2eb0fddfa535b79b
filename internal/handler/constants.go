// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteLanding is the public landing page.
	RouteLanding = "/landing"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteHomepage is the signed-in member homepage.
	RouteHomepage = "/homepage"
	// RouteUploadForm is the CSV upload form.
	RouteUploadForm = "/uploadcsv"
	// RouteUpload is the CSV upload submission target.
	RouteUpload = "/upload"
	// RouteAdminHome is the admin dashboard page.
	RouteAdminHome = "/admin/home"
	// RouteDashboardData is the dashboard aggregate API.
	RouteDashboardData = "/api/dashboard-data"
	// RouteFlash demonstrates the one-shot flash mechanism.
	RouteFlash = "/flash"
)

// Flash message types rendered by the flash partial.
const (
	flashSuccessType = "success"
	flashErrorType   = "error"
	flashInfoType    = "info"
)
