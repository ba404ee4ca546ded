package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"simblissima-pedidos/pkg/logging"
)

const loginURL = "/login/"

func newTestAuthenticator() (*Authenticator, *jwtauth.JWTAuth) {
	tokenAuth := jwtauth.New("HS256", []byte("secret"), nil)
	return NewAuthenticator(tokenAuth, loginURL, logging.NewNop()), tokenAuth
}

func TestAuthenticator(t *testing.T) {
	authenticator, tokenAuth := newTestAuthenticator()
	_, valid, err := tokenAuth.Encode(map[string]any{"user_id": 1})
	require.NoError(t, err)
	_, foreign, err := jwtauth.New("HS256", []byte("other"), nil).Encode(map[string]any{"user_id": 1})
	require.NoError(t, err)

	tests := []struct {
		name         string
		header       string
		cookie       string
		wantRedirect bool
	}{
		{name: "no token", wantRedirect: true},
		{name: "garbage token", header: "Bearer garbage", wantRedirect: true},
		{name: "token signed by someone else", header: "Bearer " + foreign, wantRedirect: true},
		{name: "header token", header: "Bearer " + valid},
		{name: "cookie token", cookie: valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken string
			handler := authenticator.CreateHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotToken = TokenFromContext(r.Context())
			}))

			r := httptest.NewRequest(http.MethodGet, "/pedidos/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "jwt", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if tt.wantRedirect {
				assert.Equal(t, http.StatusSeeOther, w.Code)
				assert.Equal(t, loginURL, w.Header().Get("Location"))
				assert.Empty(t, gotToken)
				return
			}
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, valid, gotToken)
		})
	}
}

func TestProfile_IssuesCookie(t *testing.T) {
	var profileID string
	handler := NewProfile(false).CreateHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID = ProfileFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pedidos/", nil))

	require.NotEmpty(t, profileID)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ProfileCookieName, cookies[0].Name)
	assert.Equal(t, profileID, cookies[0].Value)
}

func TestProfile_KeepsExistingCookie(t *testing.T) {
	const existing = "5f1f2c8e-3c3b-4f44-9a55-111111111111"
	var profileID string
	handler := NewProfile(false).CreateHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID = ProfileFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/pedidos/", nil)
	r.AddCookie(&http.Cookie{Name: ProfileCookieName, Value: existing})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, existing, profileID)
	assert.Empty(t, w.Result().Cookies())
}

func TestPanicRecover(t *testing.T) {
	handler := NewPanicRecover(logging.NewNop()).CreateHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func serveWithLoggerContext(t *testing.T, r *http.Request) (*httptest.ResponseRecorder, map[string]any, string) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.Wrap(zap.New(core))

	var requestID string
	handler := NewLoggerContext().CreateHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = RequestIDFromContext(r.Context())
		logger.InfoCtx(r.Context(), "served")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, 1, logs.Len())
	return w, logs.All()[0].ContextMap(), requestID
}

func TestLoggerContext_IssuesRequestID(t *testing.T) {
	w, fields, requestID := serveWithLoggerContext(t, httptest.NewRequest(http.MethodGet, "/pedidos/lista/", nil))

	_, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, requestID, w.Header().Get(RequestIDHeader))
	assert.Equal(t, requestID, fields["request-id"])
	assert.Equal(t, "/pedidos/lista/", fields["path"])
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.NotContains(t, fields, "client-addr")
	assert.NotContains(t, fields, "websocket")
}

func TestLoggerContext_KeepsProxyRequestID(t *testing.T) {
	const existing = "0b7c1e3a-8f0e-4a7d-9d2b-222222222222"
	r := httptest.NewRequest(http.MethodGet, "/pedidos/ws/", nil)
	r.Header.Set(RequestIDHeader, existing)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.Header.Set("Upgrade", "websocket")

	w, fields, requestID := serveWithLoggerContext(t, r)

	assert.Equal(t, existing, requestID)
	assert.Equal(t, existing, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "203.0.113.7", fields["client-addr"])
	assert.Equal(t, true, fields["websocket"])
}

func TestLoggerContext_ReplacesMalformedRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/pedidos/", nil)
	r.Header.Set(RequestIDHeader, "\"><script>")

	w, fields, requestID := serveWithLoggerContext(t, r)

	assert.NotEqual(t, "\"><script>", requestID)
	assert.Equal(t, requestID, w.Header().Get(RequestIDHeader))
	assert.Equal(t, requestID, fields["request-id"])
}
