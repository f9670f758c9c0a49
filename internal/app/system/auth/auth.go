package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "adarshgram-session"

	isAuthKey         = "is_authenticated"
	contractorIDKey   = "contractor_id"
	usernameKey       = "username"
	nameKey           = "name"
	specializationKey = "specialization"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current contractor                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionContractor is what we cache in the cookie and inject into
// r.Context(). Only ID is authoritative; the rest is display data.
type SessionContractor struct {
	ID             string
	Username       string
	Name           string
	Specialization string
}

// ObjectID parses ID.
func (c *SessionContractor) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.ID)
}

type ctxKey string

const currentContractorKey ctxKey = "currentContractor"

// CurrentContractor returns the signed-in contractor and a "found?" flag.
func CurrentContractor(r *http.Request) (*SessionContractor, bool) {
	c, ok := r.Context().Value(currentContractorKey).(*SessionContractor)
	return c, ok
}

// WithTestContractor injects c as LoadSessionContractor would. Handler tests
// use it to bypass the cookie round trip.
func WithTestContractor(r *http.Request, c *SessionContractor) *http.Request {
	return withContractor(r, c)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store for contractor sessions.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. secure marks
// cookies Secure with SameSite=None; use false for local http.
func NewSessionManager(sessionKey, name, domain string, ttl time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("ttl", ttl))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// LoadSessionContractor injects the contractor into context when the cookie
// carries a signed-in session. Undecodable cookies are ignored.
func (sm *SessionManager) LoadSessionContractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			var scErr securecookie.Error
			if errors.As(err, &scErr) && scErr.IsDecode() {
				sm.log.Debug("ignoring undecodable session cookie", zap.Error(err))
			} else {
				sm.log.Warn("session load failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			c := &SessionContractor{
				ID:             getString(sess, contractorIDKey),
				Username:       getString(sess, usernameKey),
				Name:           getString(sess, nameKey),
				Specialization: getString(sess, specializationKey),
			}
			if c.ID != "" {
				r = withContractor(r, c)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn answers 401 with a JSON error unless a contractor is in
// context (set by LoadSessionContractor).
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentContractor(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"sign in required"}` + "\n"))
	})
}

// SignIn stores c in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, c SessionContractor) error {
	sess, _ := sm.store.Get(r, sm.name) // a fresh session is returned on decode errors
	sess.Values[isAuthKey] = true
	sess.Values[contractorIDKey] = c.ID
	sess.Values[usernameKey] = c.Username
	sess.Values[nameKey] = c.Name
	sess.Values[specializationKey] = c.Specialization
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Name is the cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// helpers

func withContractor(r *http.Request, c *SessionContractor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentContractorKey, c))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
