// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"trafficwatch/internal/model"
	"trafficwatch/internal/stats"
)

func seedTraffic(t *testing.T, env *testEnv, records []model.TrafficRecord) {
	t.Helper()
	if err := env.traffic.InsertMany(context.Background(), records); err != nil {
		t.Fatalf("InsertMany: %v", err)
	}
}

func getDashboard(t *testing.T, env *testEnv) stats.Dashboard {
	t.Helper()

	rec := env.get(RouteDashboardData, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q; want application/json", ct)
	}

	var d stats.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decoding body %q: %v", rec.Body.String(), err)
	}
	return d
}

func TestDashboardData_Empty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(RouteDashboardData, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"totalRequest":0`) {
		t.Errorf("body = %q; want zero totalRequest", body)
	}
	// Histograms must serialize as objects, never null.
	for _, key := range []string{`"methodCount":{}`, `"statusCount":{}`, `"srcPortCount":{}`} {
		if !strings.Contains(body, key) {
			t.Errorf("body = %q; missing %s", body, key)
		}
	}
}

func TestDashboardData_Aggregates(t *testing.T) {
	env := newTestEnv(t)
	seedTraffic(t, env, []model.TrafficRecord{
		{model.FieldStatusCode: "200", model.FieldMethod: "GET", model.FieldSrcPort: "51234"},
		{model.FieldStatusCode: "404", model.FieldMethod: "GET", model.FieldSrcPort: "51234"},
		{model.FieldStatusCode: "500", model.FieldMethod: "POST", model.FieldSrcPort: "51235"},
	})

	d := getDashboard(t, env)

	if d.TotalRequest != 3 || d.TotalAttack != 2 {
		t.Errorf("totals = %d/%d; want 3/2", d.TotalRequest, d.TotalAttack)
	}
	if d.AttackPercentage != 66.67 {
		t.Errorf("attackPercentage = %v; want 66.67", d.AttackPercentage)
	}
	if d.MethodCount["GET"] != 2 || d.SrcPortCount["51234"] != 2 {
		t.Errorf("histograms = %v / %v; want GET=2 and 51234=2", d.MethodCount, d.SrcPortCount)
	}
}

func TestDashboardData_StoreError(t *testing.T) {
	env := newTestEnv(t)
	env.traffic.FailWith = errors.New("connection reset")

	rec := env.get(RouteDashboardData, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	// The underlying storage error message is passed through to the caller.
	if !strings.Contains(body["error"], "connection reset") {
		t.Errorf(`body["error"] = %q; want the underlying message`, body["error"])
	}
}

func TestDashboardData_ServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	seedTraffic(t, env, []model.TrafficRecord{{model.FieldStatusCode: "200"}})

	first := getDashboard(t, env)
	if first.TotalRequest != 1 {
		t.Fatalf("totalRequest = %d; want 1", first.TotalRequest)
	}

	// Writes that bypass the upload flow do not invalidate the cache.
	seedTraffic(t, env, []model.TrafficRecord{{model.FieldStatusCode: "404"}})

	second := getDashboard(t, env)
	if second.TotalRequest != 1 {
		t.Errorf("totalRequest = %d; want the cached 1", second.TotalRequest)
	}
}

func TestDashboardData_UploadInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	cookies := loginUser(t, env)

	if d := getDashboard(t, env); d.TotalRequest != 0 {
		t.Fatalf("totalRequest = %d; want 0 before any upload", d.TotalRequest)
	}

	ct, body := csvBody(t, "traffic.csv", "text/csv", sampleCSV)
	env.postMultipart(RouteUpload, ct, body, cookies)

	d := getDashboard(t, env)
	if d.TotalRequest != 3 {
		t.Errorf("totalRequest = %d; want 3 after the upload", d.TotalRequest)
	}
	if d.TotalAttack != 2 {
		t.Errorf("totalAttack = %d; want 2 (404 and 500)", d.TotalAttack)
	}
}
