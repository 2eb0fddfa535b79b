package session

import (
	"net/http"
	"testing"
	"time"
)

func TestNew_MemoryStore(t *testing.T) {
	sm := New(nil, true)

	if sm.Store == nil {
		t.Fatal("session manager should have a store")
	}
	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v; want 24h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("cookie should be HttpOnly")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v; want Lax", sm.Cookie.SameSite)
	}
	if sm.Cookie.Secure {
		t.Error("cookie should not be Secure in development")
	}
}

func TestNew_SecureInProduction(t *testing.T) {
	sm := New(nil, false)
	if !sm.Cookie.Secure {
		t.Error("cookie should be Secure outside development")
	}
}
