package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

const tokenCookieName = "ab_token"

func (s *Server) validToken(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.token)) == 1
}

// apiAuth accepts a bearer token, a token query param or the dashboard cookie.
func (s *Server) apiAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && s.validToken(bearer) {
			next.ServeHTTP(w, r)
			return
		}
		if q := r.URL.Query().Get("token"); q != "" && s.validToken(q) {
			next.ServeHTTP(w, r)
			return
		}
		if cookie, err := r.Cookie(tokenCookieName); err == nil && s.validToken(cookie.Value) {
			next.ServeHTTP(w, r)
			return
		}

		writeError(w, http.StatusUnauthorized, "unauthorized")
	})
}

// dashboardAuth checks for valid token in query param or cookie
func (s *Server) dashboardAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Check query param first
		queryToken := r.URL.Query().Get("token")
		if queryToken != "" {
			if s.validToken(queryToken) {
				// Valid token in query param - set cookie and redirect without param
				http.SetCookie(w, &http.Cookie{
					Name:     tokenCookieName,
					Value:    s.token,
					Path:     "/",
					HttpOnly: true,
					MaxAge:   int(24 * time.Hour / time.Second), // 24 hours
					SameSite: http.SameSiteLaxMode,
				})

				// Redirect to same path without token param
				newURL := *r.URL
				q := newURL.Query()
				q.Del("token")
				newURL.RawQuery = q.Encode()
				http.Redirect(w, r, newURL.String(), http.StatusFound)
				return
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		cookie, err := r.Cookie(tokenCookieName)
		if err != nil || !s.validToken(cookie.Value) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
