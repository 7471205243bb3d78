package auth

import (
	"net/http"
	"time"
)

// SessionCookie builds the cookie that carries a session token. Production
// deployments run cross-site behind HTTPS, so the cookie is Secure with
// SameSite=None there; development relaxes to Lax over plain HTTP.
func SessionCookie(name, token string, ttl time.Duration, production bool) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
	if production {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// ClearSessionCookie expires the session cookie. Logout only removes the
// client copy; the token itself stays valid until natural expiry.
func ClearSessionCookie(name string, production bool) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
	if production {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
