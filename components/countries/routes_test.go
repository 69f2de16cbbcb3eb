package countries

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/signup"); got != "/signup/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("signup"); got != "/signup/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/signup/", WithRoutePath("api/c")); got != "/signup/api/c" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := LookupMountPath(""); got != "/api/countries/lookup" {
		t.Fatalf("unexpected lookup mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersHandlers(t *testing.T) {
	mux := http.NewServeMux()
	patterns, err := RegisterRoutes(mux, "/signup", WithCountries(sampleCountries))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{"/signup/api/countries", "/signup/api/countries/lookup"}
	if diff := cmp.Diff(want, patterns); diff != "" {
		t.Fatalf("registered patterns mismatch (-want +got):\n%s", diff)
	}

	for _, target := range []string{patterns[0] + "?q=aus", patterns[1] + "?country=Austria"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", target, rec.Code)
		}
	}
}

func TestRegisterRoutes_RejectsCollidingPaths(t *testing.T) {
	_, err := RegisterRoutes(http.NewServeMux(), "", WithRoutePath("/x"), WithLookupPath("/x"))
	if err == nil {
		t.Fatalf("expected collision error")
	}
}

func TestRegisterRoutes_MuxFuncAdapter(t *testing.T) {
	var registered []string
	mux := MuxFunc(func(pattern string, _ http.Handler) {
		registered = append(registered, pattern)
	})
	if _, err := RegisterRoutes(mux, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(registered) != 2 {
		t.Fatalf("expected two registrations, got %v", registered)
	}
}

func TestComponent_ServesFixedList(t *testing.T) {
	c := New(WithCountries(sampleCountries))
	if c.Loader() != nil {
		t.Fatalf("expected no loader for fixed list")
	}
	if got := c.Snapshot(); len(got.Countries) != 3 || got.Loading {
		t.Fatalf("unexpected snapshot %#v", got)
	}
}
