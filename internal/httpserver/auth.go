// internal/httpserver/auth.go
//
// Presenter tokens.
// Responsibilities:
//   - Issue an HS256 JWT to a presenter that attaches (subject = presenter id).
//   - Set / clear the matching cookie for browser presenters.
//   - requireAuth middleware: accept the token from the Authorization header,
//     the cookie, or a ?token= query parameter (WebSocket clients cannot set
//     headers), and put the presenter id into the request context.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	cookieName = "hangman_presenter"
	issuer     = "hangman"
)

// ctxPresenterKey is the context key for the presenter id.
type ctxPresenterKey struct{}

// PresenterID returns the presenter id placed in ctx by requireAuth.
func PresenterID(ctx context.Context) string {
	id, _ := ctx.Value(ctxPresenterKey{}).(string)
	return id
}

// signToken creates a presenter token for a fresh id.
func (s *Server) signToken(now time.Time) (id, token string, exp time.Time, err error) {
	id = uuid.NewString()
	exp = now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	token, err = t.SignedString([]byte(s.opts.Secret))
	return id, token, exp, err
}

// parseToken validates a presenter token and returns its subject.
func (s *Server) parseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

// setAuthCookie writes the presenter cookie.
func setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// clearAuthCookie deletes the presenter cookie.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// tokenFrom extracts a token from the Authorization header, the cookie or
// the query string, in that order.
func tokenFrom(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// requireAuth enforces a valid presenter token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := tokenFrom(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, err := s.parseToken(tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxPresenterKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
