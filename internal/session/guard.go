/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"token-rush-go/internal/models"
)

const (
	SessionCookieName = "app_session"
	CSRFCookieName    = "csrf-token"
	CSRFHeaderName    = "X-CSRF-Token"

	csrfTokenBytes = 32

	fallbackSessionMaxAge = time.Hour
	fallbackCSRFMaxAge    = 15 * time.Minute
)

// DefaultCSRFMethods are the state-changing methods that need a CSRF token.
var DefaultCSRFMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Error is a guard rejection. Its Code is safe to return to clients.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return e.Code
}

var (
	ErrNoSession   = &Error{Code: "NO_SESSION"}
	ErrInvalidCSRF = &Error{Code: "INVALID_CSRF"}
	ErrBadOrigin   = &Error{Code: "BAD_ORIGIN"}
)

// Guard validates cookie sessions and CSRF tokens and issues the cookies
// after login.
type Guard struct {
	sessionMaxAge time.Duration
	csrfMaxAge    time.Duration
	secure        bool
	origin        string
}

// NewGuard creates a guard. An empty origin makes the guard derive the
// server origin from each request's scheme and Host.
func NewGuard(cfg models.SessionConfig, origin string) *Guard {
	return &Guard{
		sessionMaxAge: cfg.MaxAge,
		csrfMaxAge:    cfg.CSRFMaxAge,
		secure:        cfg.Secure,
		origin:        origin,
	}
}

type verifyOptions struct {
	csrfMethods map[string]struct{}
}

// VerifyOption customizes a single Verify call
type VerifyOption func(*verifyOptions)

// WithCSRFMethods replaces the set of methods that require CSRF validation.
// Calling it with no methods disables CSRF checks, for read-only endpoints.
func WithCSRFMethods(methods ...string) VerifyOption {
	return func(o *verifyOptions) {
		o.csrfMethods = methodSet(methods)
	}
}

func methodSet(methods []string) map[string]struct{} {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[strings.ToUpper(m)] = struct{}{}
	}
	return set
}

// Verify returns the provider auth token carried by the session cookie.
// State-changing requests must also present a CSRF header equal to the CSRF
// cookie and come from the server's own origin.
func (g *Guard) Verify(r *http.Request, opts ...VerifyOption) (string, error) {
	o := verifyOptions{csrfMethods: methodSet(DefaultCSRFMethods)}
	for _, opt := range opts {
		opt(&o)
	}

	authToken := cookieValue(r, SessionCookieName)
	if authToken == "" {
		return "", ErrNoSession
	}

	if _, ok := o.csrfMethods[strings.ToUpper(r.Method)]; ok {
		csrfHeader := r.Header.Get(CSRFHeaderName)
		csrfCookie := cookieValue(r, CSRFCookieName)
		if csrfHeader == "" || csrfCookie == "" ||
			subtle.ConstantTimeCompare([]byte(csrfHeader), []byte(csrfCookie)) != 1 {
			return "", ErrInvalidCSRF
		}

		if !g.originAllowed(r, true) {
			return "", ErrBadOrigin
		}
	}

	return authToken, nil
}

// VerifySameOrigin is the strict origin check for unauthenticated
// state-changing endpoints: a request carrying neither Origin nor Referer is
// rejected.
func (g *Guard) VerifySameOrigin(r *http.Request) error {
	if !g.originAllowed(r, false) {
		return ErrBadOrigin
	}
	return nil
}

// originAllowed compares the Origin header, or the origin of the Referer when
// Origin is absent, with the server origin.
func (g *Guard) originAllowed(r *http.Request, allowMissing bool) bool {
	value := r.Header.Get("Origin")
	if value == "" {
		value = r.Header.Get("Referer")
	}
	if value == "" {
		return allowMissing
	}

	requestOrigin, ok := originOf(value)
	if !ok {
		return false
	}
	expected, ok := originOf(g.ServerOrigin(r))
	if !ok {
		return false
	}
	return requestOrigin == expected
}

// ServerOrigin is the configured origin or, when none is configured, the
// origin the request was addressed to.
func (g *Guard) ServerOrigin(r *http.Request) string {
	if g.origin != "" {
		return g.origin
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}

// originOf normalizes a URL to scheme://host[:port], dropping default ports.
func originOf(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	if h, port, err := net.SplitHostPort(host); err == nil {
		if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
			host = h
			if strings.Contains(h, ":") {
				host = "[" + h + "]"
			}
		}
	}
	return scheme + "://" + host, true
}

// GenerateCSRFToken returns 32 random bytes, base64url encoded without padding.
func GenerateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("unable to generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// IssueCookies sets the HttpOnly session cookie and the readable CSRF cookie,
// and echoes the CSRF token in a response header.
func (g *Guard) IssueCookies(w http.ResponseWriter, authToken string) (string, error) {
	csrfToken, err := GenerateCSRFToken()
	if err != nil {
		return "", err
	}

	sessionMaxAge := g.sessionMaxAge
	if sessionMaxAge <= 0 {
		sessionMaxAge = fallbackSessionMaxAge
	}
	csrfMaxAge := g.csrfMaxAge
	if csrfMaxAge <= 0 {
		csrfMaxAge = fallbackCSRFMaxAge
	}

	http.SetCookie(w, g.cookie(SessionCookieName, authToken, true, int(sessionMaxAge.Seconds())))
	http.SetCookie(w, g.cookie(CSRFCookieName, csrfToken, false, int(csrfMaxAge.Seconds())))
	w.Header().Set(CSRFHeaderName, csrfToken)

	return csrfToken, nil
}

// ClearCookies expires both cookies.
func (g *Guard) ClearCookies(w http.ResponseWriter) {
	http.SetCookie(w, g.cookie(SessionCookieName, "", true, -1))
	http.SetCookie(w, g.cookie(CSRFCookieName, "", false, -1))
}

func (g *Guard) cookie(name, value string, httpOnly bool, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
