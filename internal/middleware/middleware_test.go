package middleware

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"drive/internal/auth"
	"drive/internal/domain/models"
	"drive/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, key *ecdsa.PrivateKey, sub, role string, exp time.Time) string {
	t.Helper()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, _ := httputil.OwnerFrom(r.Context())
		_, _ = io.WriteString(w, owner)
	})
}

func TestAuth(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	verifier := auth.NewKeyfuncVerifier(func(*jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, discardLogger())
	handler := Auth(verifier, discardLogger())(echoUser())

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "/folders", "Bearer " + signToken(t, key, "user-1", "authenticated", time.Now().Add(time.Hour)), http.StatusOK, "user-1"},
		{"missing header", "/folders", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/folders", "Basic abc", http.StatusUnauthorized, ""},
		{"expired", "/folders", "Bearer " + signToken(t, key, "user-1", "authenticated", time.Now().Add(-time.Hour)), http.StatusUnauthorized, ""},
		{"anonymous role", "/folders", "Bearer " + signToken(t, key, "user-1", "anon", time.Now().Add(time.Hour)), http.StatusUnauthorized, ""},
		{"empty subject", "/folders", "Bearer " + signToken(t, key, "", "authenticated", time.Now().Add(time.Hour)), http.StatusUnauthorized, ""},
		{"health is public", "/health", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
			}
		})
	}
}

func TestAuth_RejectsOtherKey(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	other, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	verifier := auth.NewKeyfuncVerifier(func(*jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, discardLogger())

	_, err = verifier.VerifyToken(signToken(t, other, "user-1", "authenticated", time.Now().Add(time.Hour)))
	assert.Error(t, err)
}

func TestDevAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	DevAuth("dev-user")(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files", nil))
	assert.Equal(t, "dev-user", rec.Body.String())
}

func TestRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()
	Recovery(discardLogger())(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, httputil.CodeInternal, body["code"])
}

func TestInstrument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Instrument(discardLogger(), mux)(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/abc", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type logLine struct {
	Msg    string `json:"msg"`
	Route  string `json:"route"`
	Status int    `json:"status"`
}

func TestInstrumentSeesPanicsAndAuthFailures(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/{id}", func(http.ResponseWriter, *http.Request) { panic("boom") })

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	verifier := auth.NewKeyfuncVerifier(func(*jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, discardLogger())

	var h http.Handler = Auth(verifier, discardLogger())(mux)
	h = Recovery(discardLogger())(h)
	h = Instrument(logger, mux)(h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/abc", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/files/abc", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, "user-1", "authenticated", time.Now().Add(time.Hour)))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var lines []logLine
	dec := json.NewDecoder(&logs)
	for dec.More() {
		var l logLine
		require.NoError(t, dec.Decode(&l))
		if l.Msg == "request" {
			lines = append(lines, l)
		}
	}
	require.Len(t, lines, 2)
	assert.Equal(t, logLine{Msg: "request", Route: "GET /files/{id}", Status: http.StatusUnauthorized}, lines[0])
	assert.Equal(t, logLine{Msg: "request", Route: "GET /files/{id}", Status: http.StatusInternalServerError}, lines[1])
}
