package session

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"token-rush-go/internal/models"
)

const testOrigin = "https://game.example.com"

func newTestGuard() *Guard {
	return NewGuard(models.SessionConfig{
		MaxAge:     7 * 24 * time.Hour,
		CSRFMaxAge: 7 * 24 * time.Hour,
		Secure:     true,
	}, testOrigin)
}

type requestOpts struct {
	method     string
	session    string
	csrfCookie string
	csrfHeader string
	origin     string
	referer    string
}

func newRequest(o requestOpts) *http.Request {
	if o.method == "" {
		o.method = http.MethodPost
	}
	r := httptest.NewRequest(o.method, testOrigin+"/api/penalty", nil)
	if o.session != "" {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: o.session})
	}
	if o.csrfCookie != "" {
		r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: o.csrfCookie})
	}
	if o.csrfHeader != "" {
		r.Header.Set(CSRFHeaderName, o.csrfHeader)
	}
	if o.origin != "" {
		r.Header.Set("Origin", o.origin)
	}
	if o.referer != "" {
		r.Header.Set("Referer", o.referer)
	}
	return r
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		req     requestOpts
		opts    []VerifyOption
		wantErr error
	}{
		{
			name:    "no session cookie",
			req:     requestOpts{csrfCookie: "abc", csrfHeader: "abc"},
			wantErr: ErrNoSession,
		},
		{
			name:    "no session cookie on GET",
			req:     requestOpts{method: http.MethodGet},
			wantErr: ErrNoSession,
		},
		{
			name:    "missing csrf header",
			req:     requestOpts{session: "tok", csrfCookie: "abc"},
			wantErr: ErrInvalidCSRF,
		},
		{
			name:    "missing csrf cookie",
			req:     requestOpts{session: "tok", csrfHeader: "abc"},
			wantErr: ErrInvalidCSRF,
		},
		{
			name:    "mismatched csrf",
			req:     requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abd"},
			wantErr: ErrInvalidCSRF,
		},
		{
			name:    "csrf differs only in case",
			req:     requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "ABC"},
			wantErr: ErrInvalidCSRF,
		},
		{
			name:    "foreign origin",
			req:     requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abc", origin: "https://evil.example.com"},
			wantErr: ErrBadOrigin,
		},
		{
			name:    "foreign referer",
			req:     requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abc", referer: "https://evil.example.com/page"},
			wantErr: ErrBadOrigin,
		},
		{
			name:    "origin wins over referer",
			req:     requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abc", origin: "https://evil.example.com", referer: testOrigin + "/"},
			wantErr: ErrBadOrigin,
		},
		{
			name:    "unparseable origin",
			req:     requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abc", origin: "null"},
			wantErr: ErrBadOrigin,
		},
		{
			name: "same origin",
			req:  requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abc", origin: testOrigin},
		},
		{
			name: "same origin with default port",
			req:  requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abc", origin: "https://GAME.example.com:443"},
		},
		{
			name: "same origin referer",
			req:  requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abc", referer: testOrigin + "/play?x=1"},
		},
		{
			name: "no origin or referer is permitted",
			req:  requestOpts{session: "tok", csrfCookie: "abc", csrfHeader: "abc"},
		},
		{
			name: "GET skips csrf",
			req:  requestOpts{method: http.MethodGet, session: "tok"},
		},
		{
			name: "csrf disabled for POST",
			req:  requestOpts{session: "tok", origin: "https://evil.example.com"},
			opts: []VerifyOption{WithCSRFMethods()},
		},
		{
			name:    "csrf enforced for GET when requested",
			req:     requestOpts{method: http.MethodGet, session: "tok"},
			opts:    []VerifyOption{WithCSRFMethods("get")},
			wantErr: ErrInvalidCSRF,
		},
	}

	g := newTestGuard()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := g.Verify(newRequest(tt.req), tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if token != "" {
					t.Errorf("expected no token on failure, got %q", token)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != "tok" {
				t.Errorf("expected auth token %q, got %q", "tok", token)
			}
		})
	}
}

func TestVerify_DerivedOrigin(t *testing.T) {
	g := NewGuard(models.SessionConfig{}, "")

	r := httptest.NewRequest(http.MethodPost, "http://localhost:3000/api/reward", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})
	r.Header.Set(CSRFHeaderName, "abc")
	r.Header.Set("Origin", "http://localhost:3000")

	if _, err := g.Verify(r); err != nil {
		t.Fatalf("expected request origin to match, got %v", err)
	}

	r.Header.Set("X-Forwarded-Proto", "https")
	if _, err := g.Verify(r); !errors.Is(err, ErrBadOrigin) {
		t.Fatalf("expected BAD_ORIGIN behind https proxy, got %v", err)
	}
}

func TestVerifySameOrigin(t *testing.T) {
	g := newTestGuard()

	if err := g.VerifySameOrigin(newRequest(requestOpts{})); !errors.Is(err, ErrBadOrigin) {
		t.Errorf("missing origin should be rejected, got %v", err)
	}
	if err := g.VerifySameOrigin(newRequest(requestOpts{origin: testOrigin})); err != nil {
		t.Errorf("same origin should pass, got %v", err)
	}
	if err := g.VerifySameOrigin(newRequest(requestOpts{referer: testOrigin + "/login"})); err != nil {
		t.Errorf("same origin referer should pass, got %v", err)
	}
	if err := g.VerifySameOrigin(newRequest(requestOpts{origin: "http://game.example.com"})); !errors.Is(err, ErrBadOrigin) {
		t.Errorf("scheme mismatch should be rejected, got %v", err)
	}
}

func TestGenerateCSRFToken(t *testing.T) {
	a, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("GenerateCSRFToken failed: %v", err)
	}
	b, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("GenerateCSRFToken failed: %v", err)
	}
	if a == b {
		t.Error("tokens should be random")
	}

	raw, err := base64.RawURLEncoding.DecodeString(a)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("expected 32 bytes, got %d", len(raw))
	}
}

func TestIssueCookies(t *testing.T) {
	g := newTestGuard()
	w := httptest.NewRecorder()

	csrfToken, err := g.IssueCookies(w, "provider-token")
	if err != nil {
		t.Fatalf("IssueCookies failed: %v", err)
	}

	if got := w.Header().Get(CSRFHeaderName); got != csrfToken {
		t.Errorf("expected header %q, got %q", csrfToken, got)
	}

	cookies := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c
	}

	sessionCookie := cookies[SessionCookieName]
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}
	if sessionCookie.Value != "provider-token" || !sessionCookie.HttpOnly || !sessionCookie.Secure {
		t.Errorf("unexpected session cookie: %+v", sessionCookie)
	}
	if sessionCookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("unexpected session max-age %d", sessionCookie.MaxAge)
	}
	if sessionCookie.SameSite != http.SameSiteLaxMode || sessionCookie.Path != "/" {
		t.Errorf("unexpected session cookie attributes: %+v", sessionCookie)
	}

	csrfCookie := cookies[CSRFCookieName]
	if csrfCookie == nil {
		t.Fatal("csrf cookie not set")
	}
	if csrfCookie.Value != csrfToken {
		t.Errorf("csrf cookie %q does not match header %q", csrfCookie.Value, csrfToken)
	}
	if csrfCookie.HttpOnly {
		t.Error("csrf cookie must be readable by the client")
	}
}

func TestIssueCookies_FallbackMaxAge(t *testing.T) {
	g := NewGuard(models.SessionConfig{}, testOrigin)
	w := httptest.NewRecorder()

	if _, err := g.IssueCookies(w, "tok"); err != nil {
		t.Fatalf("IssueCookies failed: %v", err)
	}

	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case SessionCookieName:
			if c.MaxAge != 3600 {
				t.Errorf("expected 1h session fallback, got %d", c.MaxAge)
			}
			if c.Secure {
				t.Error("secure flag should follow config")
			}
		case CSRFCookieName:
			if c.MaxAge != 900 {
				t.Errorf("expected 15m csrf fallback, got %d", c.MaxAge)
			}
		}
	}
}

func TestClearCookies(t *testing.T) {
	g := newTestGuard()
	w := httptest.NewRecorder()

	g.ClearCookies(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.Value != "" {
			t.Errorf("cookie %s should be empty, got %q", c.Name, c.Value)
		}
		if c.MaxAge >= 0 {
			t.Errorf("cookie %s should expire immediately, got max-age %d", c.Name, c.MaxAge)
		}
	}
}
