package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"simblissima-pedidos/pkg/logging"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// LoggerContext tags the log lines of a request with its route and an id. A valid id set by
// the proxy is kept, any other request gets a fresh one. The id is echoed on the response.
type LoggerContext struct{}

func NewLoggerContext() *LoggerContext {
	return &LoggerContext{}
}

func (lc *LoggerContext) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		fields := []zap.Field{
			zap.String("request-id", requestID),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.String("remote-addr", r.RemoteAddr),
		}
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			client, _, _ := strings.Cut(forwarded, ",")
			fields = append(fields, zap.String("client-addr", strings.TrimSpace(client)))
		}
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			fields = append(fields, zap.Bool("websocket", true))
		}

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(logging.WithContextFields(ctx, fields...)))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
