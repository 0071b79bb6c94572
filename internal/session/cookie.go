package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const cookieIDKey = "sid"

// CookieBinder ties a browser to a session id through a signed cookie.
// The cookie carries the id only; the token stays server side.
type CookieBinder struct {
	store *sessions.CookieStore
	name  string
}

// NewCookieBinder creates a binder signing cookies with secret
func NewCookieBinder(secret []byte, name string, ttl time.Duration, secure bool) *CookieBinder {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieBinder{store: store, name: name}
}

// SessionID returns the id carried by the request cookie
func (b *CookieBinder) SessionID(r *http.Request) (string, bool) {
	sess, err := b.store.Get(r, b.name)
	if err != nil || sess.IsNew {
		return "", false
	}
	id, ok := sess.Values[cookieIDKey].(string)
	return id, ok && id != ""
}

// Bind writes a cookie carrying id
func (b *CookieBinder) Bind(w http.ResponseWriter, r *http.Request, id string) error {
	sess, _ := b.store.Get(r, b.name)
	sess.Values[cookieIDKey] = id
	return sess.Save(r, w)
}

// Clear expires the cookie
func (b *CookieBinder) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := b.store.Get(r, b.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
