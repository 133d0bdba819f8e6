package credential

import (
	"net/http"
	"net/url"
	"time"
)

// cookieMaxAge bounds the cookie copy's lifetime. The backend owns real token
// expiry; the cookie only has to outlive a working day.
const cookieMaxAge = 24 * time.Hour

// CookieProjection maintains the cookie copy of the token inside an
// http.CookieJar scoped to the backend origin. The same jar is handed to the
// API client, so every request through the route gate carries the cookie.
type CookieProjection struct {
	jar    http.CookieJar
	origin *url.URL
	secure bool
}

// NewCookieProjection binds the projection to the origin the gate fronts.
// secure should be true in production so the cookie never travels plaintext.
func NewCookieProjection(jar http.CookieJar, origin *url.URL, secure bool) *CookieProjection {
	return &CookieProjection{
		jar:    jar,
		origin: origin,
		secure: secure,
	}
}

// Set writes or overwrites the auth_token cookie.
func (p *CookieProjection) Set(token string) {
	p.jar.SetCookies(p.origin, []*http.Cookie{p.build(token, int(cookieMaxAge.Seconds()))})
}

// Drop removes the cookie copy. Jars delete on a non-positive max age.
func (p *CookieProjection) Drop() {
	p.jar.SetCookies(p.origin, []*http.Cookie{p.build("", -1)})
}

// Value returns the current cookie copy, if any.
func (p *CookieProjection) Value() (string, bool) {
	for _, c := range p.jar.Cookies(p.origin) {
		if c.Name == TokenCookie && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

func (p *CookieProjection) build(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
