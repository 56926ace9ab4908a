package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
	"github.com/JonMunkholm/tablekeeper/internal/core"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"no proxies ignores header", nil, "203.0.113.5:4000", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.5"},
		{"trusted cidr uses x-real-ip", []string{"10.0.0.0/8"}, "10.1.2.3:80", map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
		{"trusted single ip uses xff first hop", []string{"127.0.0.1"}, "127.0.0.1:80", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.1"}, "5.6.7.8"},
		{"untrusted proxy ignored", []string{"10.0.0.0/8"}, "192.168.1.1:80", map[string]string{"X-Real-IP": "1.2.3.4"}, "192.168.1.1"},
		{"invalid header ignored", []string{"10.0.0.0/8"}, "10.0.0.2:80", map[string]string{"X-Real-IP": "garbage"}, "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := TokenFromRequest(req, "token"); got != "" {
		t.Errorf("TokenFromRequest(empty) = %q", got)
	}

	req.Header.Set("Authorization", "Bearer abc.def")
	if got := TokenFromRequest(req, "token"); got != "abc.def" {
		t.Errorf("TokenFromRequest(bearer) = %q", got)
	}

	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	if got := TokenFromRequest(req, "token"); got != "from-cookie" {
		t.Errorf("TokenFromRequest(cookie) = %q, cookie should win", got)
	}
}

type fakeAuth map[string]auth.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (auth.User, error) {
	if token == "" {
		return auth.User{}, auth.ErrMissingToken
	}
	if token == "boom" {
		return auth.User{}, errors.New("db down")
	}
	u, ok := f[token]
	if !ok {
		return auth.User{}, auth.ErrInvalidToken
	}
	return u, nil
}

func TestRequireUser(t *testing.T) {
	authn := fakeAuth{"good": {ID: "user-1"}}
	respond := func(w http.ResponseWriter, _ *http.Request, err error, status int) {
		http.Error(w, err.Error(), status)
	}

	var seen string
	h := RequireUser(authn, "token", respond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = core.UserIDFromContext(r.Context())
	}))

	tests := []struct {
		token string
		want  int
	}{
		{"", http.StatusUnauthorized},
		{"bad", http.StatusForbidden},
		{"boom", http.StatusInternalServerError},
		{"good", http.StatusOK},
	}

	for _, tt := range tests {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("token %q: status = %d, want %d", tt.token, rec.Code, tt.want)
		}
		if tt.want == http.StatusOK && seen != "user-1" {
			t.Errorf("user id on context = %q, want user-1", seen)
		}
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/items/{id}", "418")); got != 2 {
		t.Errorf("items counter = %v, want 2", got)
	}

	n, err := testutil.GatherAndCount(reg, "tablekeeper_http_requests_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("requests_total series = %d, want 2", n)
	}
}

func TestLogger_RecordsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("")))

	if rec.Code != http.StatusCreated || rec.Body.String() != "ok" {
		t.Errorf("response = %d %q", rec.Code, rec.Body.String())
	}
}
