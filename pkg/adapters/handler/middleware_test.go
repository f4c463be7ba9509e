package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, expires time.Time) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantUserID string
	}{
		{
			name:       "valid token",
			cookie:     "", // filled below, needs *testing.T
			wantStatus: http.StatusOK,
			wantUserID: "user-42",
		},
		{
			name:       "missing cookie",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			cookie:     "not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			cookie:     "wrong-secret",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			cookie:     "expired",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty subject",
			cookie:     "no-subject",
			wantStatus: http.StatusUnauthorized,
		},
	}

	mw := NewMiddleware(&config.Config{JWTSecret: testSecret}, logger.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID = UserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/links", nil)
			switch tt.cookie {
			case "":
				if tt.name == "valid token" {
					req.AddCookie(&http.Cookie{
						Name:  "auth_token",
						Value: signToken(t, testSecret, "user-42", time.Now().Add(time.Hour)),
					})
				}
			case "wrong-secret":
				req.AddCookie(&http.Cookie{
					Name:  "auth_token",
					Value: signToken(t, "other-secret", "user-42", time.Now().Add(time.Hour)),
				})
			case "expired":
				req.AddCookie(&http.Cookie{
					Name:  "auth_token",
					Value: signToken(t, testSecret, "user-42", time.Now().Add(-time.Hour)),
				})
			case "no-subject":
				req.AddCookie(&http.Cookie{
					Name:  "auth_token",
					Value: signToken(t, testSecret, "", time.Now().Add(time.Hour)),
				})
			default:
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}

			rec := httptest.NewRecorder()
			mw.AuthMiddleware(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotUserID != tt.wantUserID {
				t.Errorf("user id = %q, want %q", gotUserID, tt.wantUserID)
			}
		})
	}
}

func TestAuthMiddlewareRedirectsBrowserRequests(t *testing.T) {
	mw := NewMiddleware(&config.Config{JWTSecret: testSecret}, logger.NewNop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a session")
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	mw.AuthMiddleware(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}
