// internal/tenant/resolver_test.go
//
// Unit-tests for header resolution and sanitisation.
//
// Run: go test ./internal/tenant -v

package tenant

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/edusphere/edusphere/internal/httpx"
)

func TestFromRequest(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "acme", "acme", false},
		{"valid mixed", "Acme-Co_2", "Acme-Co_2", false},
		{"missing", "", "", true},
		{"dot", "acme.co", "", true},
		{"space", "acme co", "", true},
		{"slash", "../etc", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/courses", nil)
			if tc.header != "" {
				r.Header.Set(HeaderName, tc.header)
			}
			got, err := FromRequest(r)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				var apiErr *httpx.Error
				if !errors.As(err, &apiErr) || apiErr.Status != 400 {
					t.Fatalf("expected 400-class error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"acme":      "acme",
		"ACME":      "acme",
		"Acme-Co":   "acme_co",
		"a-b-c":     "a_b_c",
		"already_s": "already_s",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, id := range []string{"acme", "ACME", "Acme-Co", "x-Y_z-9", "T-1-t-1"} {
		once := Sanitize(id)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", id, twice, once)
		}
	}
}
