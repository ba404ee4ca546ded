package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"simblissima-pedidos/pkg/logging"
)

const (
	ProfileCookieName = "pedidos_profile"
	profileCookieAge  = 365 * 24 * time.Hour
)

type profileKey struct{}

// Profile tags each browser with a stable id. The id scopes the persisted expansion state and the
// server-side view of the order list.
type Profile struct {
	secure bool
}

func NewProfile(secure bool) *Profile {
	return &Profile{secure: secure}
}

func (p *Profile) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID := ""
		if cookie, err := r.Cookie(ProfileCookieName); err == nil {
			if id, err := uuid.Parse(cookie.Value); err == nil {
				profileID = id.String()
			}
		}
		if profileID == "" {
			profileID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ProfileCookieName,
				Value:    profileID,
				Path:     "/",
				MaxAge:   int(profileCookieAge.Seconds()),
				HttpOnly: true,
				Secure:   p.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), profileKey{}, profileID)
		ctx = logging.WithContextFields(ctx, zap.String("profile", profileID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ProfileFromContext(ctx context.Context) string {
	id, _ := ctx.Value(profileKey{}).(string)
	return id
}
