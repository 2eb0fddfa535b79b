// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
)

const sampleCSV = "frame.time,tcp.srcport,http.request.method,http.response.code\n" +
	`"Jan 1, 2025 10:00:00",51234,GET,200` + "\n" +
	`"Jan 1, 2025 10:00:01",51234,GET,404` + "\n" +
	`"Jan 1, 2025 10:00:02",51235,POST,500` + "\n"

// csvBody builds a multipart body with a single file part of the given
// content type.
func csvBody(t *testing.T, filename, contentType, content string) (string, *bytes.Buffer) {
	t.Helper()

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("part write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart close: %v", err)
	}
	return w.FormDataContentType(), buf
}

func loginUser(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()
	env.register(t, "Alice", "alice@example.com", "s3cret-pass")
	return env.login(t, "alice@example.com", "s3cret-pass")
}

func TestUpload_IngestsCSV(t *testing.T) {
	env := newTestEnv(t)
	cookies := loginUser(t, env)

	ct, body := csvBody(t, "traffic.csv", "text/csv", sampleCSV)
	rec := env.postMultipart(RouteUpload, ct, body, cookies)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != RouteUploadForm {
		t.Errorf("redirect = %q; want %q", loc, RouteUploadForm)
	}

	if n := env.traffic.Count(); n != 3 {
		t.Errorf("stored records = %d; want 3", n)
	}

	uploads, err := env.uploads.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(uploads) != 1 {
		t.Fatalf("upload summaries = %d; want 1", len(uploads))
	}
	if uploads[0].Filename != "traffic.csv" || uploads[0].Rows != 3 {
		t.Errorf("summary = %+v; want traffic.csv with 3 rows", uploads[0])
	}
	if uploads[0].UploadedBy != "alice@example.com" {
		t.Errorf("UploadedBy = %q; want the uploader's email", uploads[0].UploadedBy)
	}
	if uploads[0].BatchID == "" {
		t.Error("BatchID should be assigned")
	}

	pageBody := env.followFlash(t, RouteUploadForm, cookies)
	if !strings.Contains(pageBody, "Upload successful") {
		t.Error("successful upload should flash a confirmation")
	}
}

func TestUpload_RejectsNonCSV(t *testing.T) {
	env := newTestEnv(t)
	cookies := loginUser(t, env)

	ct, body := csvBody(t, "traffic.txt", "text/plain", sampleCSV)
	rec := env.postMultipart(RouteUpload, ct, body, cookies)

	if loc := rec.Header().Get("Location"); loc != RouteUploadForm {
		t.Fatalf("redirect = %q; want %q", loc, RouteUploadForm)
	}
	if n := env.traffic.Count(); n != 0 {
		t.Errorf("stored records = %d; want 0 after a rejected upload", n)
	}

	pageBody := env.followFlash(t, RouteUploadForm, cookies)
	if !strings.Contains(pageBody, "Only CSV files are accepted") {
		t.Error("rejected upload should flash the reason")
	}
}

func TestUpload_EmptyFile(t *testing.T) {
	env := newTestEnv(t)
	cookies := loginUser(t, env)

	ct, body := csvBody(t, "empty.csv", "text/csv", "")
	rec := env.postMultipart(RouteUpload, ct, body, cookies)

	if loc := rec.Header().Get("Location"); loc != RouteUploadForm {
		t.Fatalf("redirect = %q; want %q", loc, RouteUploadForm)
	}
	if n := env.traffic.Count(); n != 0 {
		t.Errorf("stored records = %d; want 0", n)
	}
}

func TestUpload_MalformedCSVStoresNothing(t *testing.T) {
	env := newTestEnv(t)
	cookies := loginUser(t, env)

	ct, body := csvBody(t, "broken.csv", "text/csv", "a,b\n\"unterminated,2\n")
	env.postMultipart(RouteUpload, ct, body, cookies)

	if n := env.traffic.Count(); n != 0 {
		t.Errorf("stored records = %d; want 0 for a malformed file", n)
	}
}

func TestUpload_InsertFailure(t *testing.T) {
	env := newTestEnv(t)
	cookies := loginUser(t, env)
	env.traffic.FailWith = errors.New("write concern error")

	ct, body := csvBody(t, "traffic.csv", "text/csv", sampleCSV)
	rec := env.postMultipart(RouteUpload, ct, body, cookies)

	if loc := rec.Header().Get("Location"); loc != RouteUploadForm {
		t.Fatalf("redirect = %q; want %q", loc, RouteUploadForm)
	}

	uploads, err := env.uploads.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(uploads) != 0 {
		t.Errorf("upload summaries = %d; want 0 when the insert failed", len(uploads))
	}
}

func TestUpload_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	ct, body := csvBody(t, "traffic.csv", "text/csv", sampleCSV)
	rec := env.postMultipart(RouteUpload, ct, body, nil)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != RouteLogin {
		t.Errorf("redirect = %q; want %q", loc, RouteLogin)
	}
	if n := env.traffic.Count(); n != 0 {
		t.Errorf("stored records = %d; want 0", n)
	}
}
