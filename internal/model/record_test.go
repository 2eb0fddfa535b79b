package model

import "testing"

func TestLookup_FlatKeyWins(t *testing.T) {
	rec := TrafficRecord{
		"http.request.method": "GET",
		"http": map[string]any{
			"request": map[string]any{"method": "POST"},
		},
	}

	v, ok := rec.Lookup("http.request.method")
	if !ok {
		t.Fatal("Lookup should find the flat key")
	}
	if v != "GET" {
		t.Errorf("Lookup = %v; want GET (flat key must win over nested path)", v)
	}
}

func TestLookup_NestedPath(t *testing.T) {
	rec := TrafficRecord{
		"http": map[string]any{
			"response": map[string]any{"code": "404"},
		},
	}

	v, ok := rec.Lookup("http.response.code")
	if !ok {
		t.Fatal("Lookup should walk nested documents")
	}
	if v != "404" {
		t.Errorf("Lookup = %v; want 404", v)
	}
}

func TestLookup_Absent(t *testing.T) {
	rec := TrafficRecord{"ip.src": "10.0.0.1"}

	if _, ok := rec.Lookup("tcp.srcport"); ok {
		t.Error("Lookup should report absent fields")
	}
	if _, ok := rec.Lookup("ip.src.extra"); ok {
		t.Error("Lookup should not descend into scalar values")
	}
}

func TestLookupString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		ok    bool
	}{
		{"string", "404", "404", true},
		{"int", 443, "443", true},
		{"int32", int32(500), "500", true},
		{"int64", int64(8080), "8080", true},
		{"whole float", float64(404), "404", true},
		{"fractional float", 1.5, "1.5", true},
		{"nil", nil, "", false},
		{"unsupported", []string{"x"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := TrafficRecord{"field": tt.value}
			got, ok := rec.LookupString("field")
			if ok != tt.ok {
				t.Fatalf("LookupString ok = %v; want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("LookupString = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	u := User{Role: RoleUser}
	if u.IsAdmin() {
		t.Error("regular user should not be admin")
	}

	admin := ServiceAccountUser("admin@mail.com")
	if !admin.IsAdmin() {
		t.Error("service account user should be admin")
	}
	if admin.Name != "Administrator" {
		t.Errorf("service account name = %q; want Administrator", admin.Name)
	}
}
