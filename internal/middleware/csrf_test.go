package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDefaultCSRFConfig(t *testing.T) {
	authKey := []byte("12345678901234567890123456789012")

	dev := DefaultCSRFConfig(authKey, true)
	if len(dev.AuthKey) != 32 {
		t.Errorf("AuthKey length = %d; want 32", len(dev.AuthKey))
	}
	if len(dev.TrustedOrigins) != 2 {
		t.Fatalf("dev TrustedOrigins = %d; want 2", len(dev.TrustedOrigins))
	}
	for _, origin := range dev.TrustedOrigins {
		// The csrf library expects host:port values, not full URLs.
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin %q must be host:port, not a URL", origin)
		}
	}

	prod := DefaultCSRFConfig(authKey, false)
	if len(prod.TrustedOrigins) != 0 {
		t.Errorf("prod TrustedOrigins = %d; want none", len(prod.TrustedOrigins))
	}
}

func TestCSRF_AllowsSafeMethods(t *testing.T) {
	authKey := []byte("12345678901234567890123456789012")
	h := CSRF(DefaultCSRFConfig(authKey, false))(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET status = %d; want %d", rec.Code, http.StatusOK)
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	authKey := []byte("12345678901234567890123456789012")
	h := CSRF(DefaultCSRFConfig(authKey, false))(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-site POST status = %d; want %d", rec.Code, http.StatusForbidden)
	}
}
