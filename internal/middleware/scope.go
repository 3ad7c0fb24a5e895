package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const scopeCookieName = "ATELIER_SCOPE"

// Scoper mints and verifies the signed browser-scope cookie. The cookie
// carries only an identifier; all state lives server-side keyed by it.
type Scoper struct {
	signKey []byte
	secure  bool
}

// NewScoper builds the scope middleware. An empty signing key gets a
// process-ephemeral one (dev only).
func NewScoper(signingKey string, secure bool) *Scoper {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Printf("scope: failed to generate signing key: %v", err)
			key = []byte("insecure-dev-key-please-set-ATELIER_WEB_SCOPE_SIGNING_KEY")
		}
		log.Printf("scope: using ephemeral signing key (dev). Set ATELIER_WEB_SCOPE_SIGNING_KEY for production.")
	}
	return &Scoper{signKey: key, secure: secure}
}

// Middleware loads or initializes the browser scope and stores its id in the
// request context. A missing, malformed, or forged cookie mints a fresh
// scope rather than failing.
func (s *Scoper) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, fromCookie := s.readCookie(r)
		if scope == "" {
			scope = ulid.Make().String()
		}
		if !fromCookie {
			s.writeCookie(w, scope)
		}
		next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
	})
}

func (s *Scoper) readCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(scopeCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return "", false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, s.signKey)
	mac.Write([]byte(parts[0]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", false
	}
	return parts[0], true
}

func (s *Scoper) writeCookie(w http.ResponseWriter, scope string) {
	mac := hmac.New(sha256.New, s.signKey)
	mac.Write([]byte(scope))
	val := scope + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	http.SetCookie(w, &http.Cookie{
		Name:     scopeCookieName,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

// CSRFToken derives the per-scope token checked on form submissions.
func (s *Scoper) CSRFToken(scope string) string {
	mac := hmac.New(sha256.New, s.signKey)
	mac.Write([]byte("csrf:" + scope))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CSRF verifies that modifying requests carry the scope-bound token in the
// csrf_token form field.
func (s *Scoper) CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isSafeMethod(r.Method) {
			scope := ScopeID(r.Context())
			if err := r.ParseForm(); err != nil {
				http.Error(w, "invalid form", http.StatusBadRequest)
				return
			}
			token := r.FormValue("csrf_token")
			if token == "" || !hmac.Equal([]byte(token), []byte(s.CSRFToken(scope))) {
				http.Error(w, "invalid CSRF token", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
