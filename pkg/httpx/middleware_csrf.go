package httpx

import (
	"crypto/subtle"
	"net/http"
)

// Cookie and header names for browser sessions. The session cookie is
// HttpOnly; the anti-forgery cookie is script-readable so the frontend
// can echo it back in the header.
const (
	SessionCookie = "tn_session"
	CSRFCookie    = "tn_csrf"
	CSRFHeader    = "X-CSRF-Token"
)

// CSRFMiddleware enforces the double-submit check on state-mutating
// requests authenticated by the session cookie: the value of the tn_csrf
// cookie must be echoed in X-CSRF-Token. Requests carrying an
// Authorization header are exempt, since a cross-site attacker cannot
// set one, and so are safe methods and anonymous requests.
func CSRFMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mutating(r.Method) || r.Header.Get("Authorization") != "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := r.Cookie(SessionCookie)
			if err != nil || session.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(CSRFCookie)
			header := r.Header.Get(CSRFHeader)
			if err != nil || cookie.Value == "" || header == "" ||
				subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "csrf_mismatch",
					"error_description": "missing or mismatched anti-forgery token",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
