package shopify

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	stateCookieName   = "shopify_app_state"
	sessionCookieName = "shopify_app_session"

	stateCookieTTL   = 10 * time.Minute
	sessionCookieTTL = 24 * time.Hour
)

var defaultCookieMaxAge = map[string]time.Duration{
	stateCookieName:   stateCookieTTL,
	sessionCookieName: sessionCookieTTL,
}

// cookieSigner writes and reads signed cookies keyed by the app secret.
// Each cookie name has its own codec so the signed timestamp is checked against that cookie's max age.
type cookieSigner struct {
	codecs map[string]*securecookie.SecureCookie
	maxAge map[string]time.Duration
	secure bool
}

func newCookieSigner(secret string, secure bool, maxAge map[string]time.Duration) *cookieSigner {
	s := &cookieSigner{
		codecs: make(map[string]*securecookie.SecureCookie, len(maxAge)),
		maxAge: maxAge,
		secure: secure,
	}
	for name, ttl := range maxAge {
		s.codecs[name] = securecookie.New([]byte(secret), nil).
			MaxAge(int(ttl / time.Second)).
			SetSerializer(securecookie.JSONEncoder{})
	}
	return s
}

func (s *cookieSigner) set(w http.ResponseWriter, name, value string) error {
	codec, ok := s.codecs[name]
	if !ok {
		return fmt.Errorf("unknown cookie %q", name)
	}
	encoded, err := codec.Encode(name, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(s.maxAge[name] / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *cookieSigner) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// get returns the cookie value when present, correctly signed and younger than its max age
func (s *cookieSigner) get(r *http.Request, name string) (string, bool) {
	codec, ok := s.codecs[name]
	if !ok {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	var value string
	if err := codec.Decode(name, cookie.Value, &value); err != nil {
		return "", false
	}
	return value, true
}
