package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"

	"simblissima-pedidos/pkg/logging"
)

type tokenKey struct{}

// Authenticator lets through requests carrying a valid backend token, from the Authorization header
// or the "jwt" cookie, and sends everything else to the login page.
type Authenticator struct {
	tokenAuth *jwtauth.JWTAuth
	loginURL  string
	logger    *logging.ZapLogger
}

func NewAuthenticator(tokenAuth *jwtauth.JWTAuth, loginURL string, logger *logging.ZapLogger) *Authenticator {
	return &Authenticator{
		tokenAuth: tokenAuth,
		loginURL:  loginURL,
		logger:    logger,
	}
}

func (a *Authenticator) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := jwtauth.TokenFromHeader(r)
		if raw == "" {
			raw = jwtauth.TokenFromCookie(r)
		}
		if raw == "" {
			a.logger.DebugCtx(r.Context(), "no token, redirecting to login")
			http.Redirect(w, r, a.loginURL, http.StatusSeeOther)
			return
		}

		token, err := jwtauth.VerifyToken(a.tokenAuth, raw)
		if err != nil {
			a.logger.InfoCtx(r.Context(), "rejected token, redirecting to login", zap.Error(err))
			http.Redirect(w, r, a.loginURL, http.StatusSeeOther)
			return
		}

		ctx := jwtauth.NewContext(r.Context(), token, nil)
		ctx = context.WithValue(ctx, tokenKey{}, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromContext returns the raw token the request was authenticated with.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
