package session

import (
	"net/http" // Cookie attributes
	"time"     // Cookie expiry

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/golang-jwt/jwt/v5" // Signed cookie payload
	"github.com/pkg/errors"        // Error wrapping
)

// CookieName is the name of the session cookie
const CookieName = "session"

// contextKey is where the middleware stores the request's session
const contextKey = "session"

// Flash categories
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash is a one-time notice shown on the next rendered page
type Flash struct {
	Category string `json:"category"` // Bootstrap-style category
	Message  string `json:"message"`  // Text shown to the user
}

// Claims is the signed content of the session cookie
type Claims struct {
	LoggedIn             bool    `json:"logged_in"`          // Logged-in flag
	Username             string  `json:"username,omitempty"` // Logged-in username
	Flashes              []Flash `json:"flashes,omitempty"`  // Pending flash messages
	jwt.RegisteredClaims                                     // Standard JWT claims
}

// Session is the mutable per-request view of the cookie
type Session struct {
	claims Claims // Current values
	dirty  bool   // Needs to be written back
}

// Store signs and verifies session cookies
type Store struct {
	secret []byte        // HMAC secret
	ttl    time.Duration // Cookie lifetime
	secure bool          // Send cookie over HTTPS only
}

// NewStore creates a Store; secret must be non-empty
func NewStore(secret string, ttl time.Duration, secure bool) *Store {
	return &Store{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Encode signs the session claims into a cookie value
func (s *Store) Encode(sess *Session) (string, error) {
	claims := sess.claims
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)), // Session expires after ttl
		IssuedAt:  jwt.NewNumericDate(time.Now()),            // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString(s.secret)                // Sign the token with the secret
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session")
	}
	return signed, nil
}

// Decode verifies a cookie value and returns its session
func (s *Store) Decode(value string) (*Session, error) {
	token, err := jwt.ParseWithClaims(value, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err // Tampered, expired or malformed
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return &Session{claims: *claims}, nil
}

// Middleware loads the session cookie into the request context.
// An invalid cookie yields an empty session.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := &Session{} // Empty session by default
		if value, err := c.Cookie(CookieName); err == nil && value != "" {
			if decoded, err := s.Decode(value); err == nil {
				sess = decoded
			} else {
				sess.dirty = true // Overwrite the bad cookie on the next save
			}
		}
		c.Set(contextKey, sess)
		c.Next()
	}
}

// Save writes the session cookie if the session changed
func (s *Store) Save(c *gin.Context) error {
	sess := Get(c)
	if !sess.dirty {
		return nil
	}
	value, err := s.Encode(sess)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, int(s.ttl.Seconds()), "/", "", s.secure, true)
	sess.dirty = false
	return nil
}

// Get returns the request's session, or a detached empty one when the middleware did not run
func Get(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	sess := &Session{}
	c.Set(contextKey, sess)
	return sess
}

// LoggedIn reports the logged-in flag
func (s *Session) LoggedIn() bool { return s.claims.LoggedIn }

// Username returns the logged-in username
func (s *Session) Username() string { return s.claims.Username }

// Login marks the session as logged in as username
func (s *Session) Login(username string) {
	s.claims.LoggedIn = true
	s.claims.Username = username
	s.dirty = true
}

// Logout clears the logged-in flag and username
func (s *Session) Logout() {
	s.claims.LoggedIn = false
	s.claims.Username = ""
	s.dirty = true
}

// AddFlash queues a message for the next rendered page
func (s *Session) AddFlash(category, message string) {
	s.claims.Flashes = append(s.claims.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns and clears the pending flash messages
func (s *Session) PopFlashes() []Flash {
	flashes := s.claims.Flashes
	if len(flashes) > 0 {
		s.claims.Flashes = nil
		s.dirty = true
	}
	return flashes
}
