// Package session stores the visitor cart and flash message in a signed,
// encrypted cookie. There is no server-side session table: the cookie is the
// only copy, so every mutating response has to call Save.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/cart"
)

const DefaultCookieName = "__verve_session"

// maxCookieLength is what browsers reliably store for one cookie, name and
// value together.
const maxCookieLength = 4096

// ErrTooLarge is returned by Encode and Save when the encoded session would
// not fit in a cookie.
var ErrTooLarge = errors.New("session: encoded cookie too large")

type Options struct {
	CookieName string
	// HashKey signs the cookie (HMAC-SHA256); 32 or 64 bytes recommended.
	HashKey []byte
	// BlockKey encrypts the cookie with AES; must be 16, 24 or 32 bytes.
	BlockKey []byte
	MaxAge   time.Duration
	Secure   bool
}

// Store encodes cart.State values into cookies and back.
type Store struct {
	name   string
	maxAge time.Duration
	secure bool
	codec  *securecookie.SecureCookie
	log    *zap.Logger
}

func NewStore(opts Options, log *zap.Logger) (*Store, error) {
	if len(opts.HashKey) == 0 {
		return nil, errors.New("session: hash key is required")
	}
	switch len(opts.BlockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("session: block key must be 16, 24 or 32 bytes, got %d", len(opts.BlockKey))
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7 * 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}

	codec := securecookie.New(opts.HashKey, opts.BlockKey)
	codec.MaxAge(int(opts.MaxAge.Seconds()))
	// Length is checked in Encode so callers can tell it apart.
	codec.MaxLength(0)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Store{
		name:   opts.CookieName,
		maxAge: opts.MaxAge,
		secure: opts.Secure,
		codec:  codec,
		log:    log,
	}, nil
}

func (s *Store) CookieName() string { return s.name }

// Encode signs and encrypts st into an opaque token.
func (s *Store) Encode(st cart.State) (string, error) {
	token, err := s.codec.Encode(s.name, st)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if len(s.name)+1+len(token) > maxCookieLength {
		return "", ErrTooLarge
	}
	return token, nil
}

// Decode verifies token and returns its state. Tokens that fail verification,
// have expired or do not parse yield an empty state.
func (s *Store) Decode(token string) cart.State {
	if token == "" {
		return cart.State{}
	}
	if len(token) > maxCookieLength {
		s.log.Debug("discarding oversized session cookie", zap.Int("len", len(token)))
		return cart.State{}
	}
	var st cart.State
	if err := s.codec.Decode(s.name, token, &st); err != nil {
		s.log.Debug("discarding session cookie", zap.Error(err))
		return cart.State{}
	}
	st.Items = cart.Normalize(st.Items)
	return st
}

// Load reads the session from the request cookie.
func (s *Store) Load(r *http.Request) cart.State {
	c, err := r.Cookie(s.name)
	if err != nil {
		return cart.State{}
	}
	return s.Decode(c.Value)
}

// Save writes st back to the client as a Set-Cookie header.
func (s *Store) Save(w http.ResponseWriter, st cart.State) error {
	token, err := s.Encode(st)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		Expires:  time.Now().Add(s.maxAge),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy expires the session cookie.
func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
