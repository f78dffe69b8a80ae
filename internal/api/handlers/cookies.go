package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// cookieStore keeps client markers in browser cookies. Writes made during
// the request are visible to later reads in the same request.
type cookieStore struct {
	c       *gin.Context
	secure  bool
	pending map[string]bool
}

func newCookieStore(c *gin.Context, secure bool) *cookieStore {
	return &cookieStore{c: c, secure: secure, pending: make(map[string]bool)}
}

func (s *cookieStore) Get(_ context.Context, key string) (bool, bool, error) {
	if v, ok := s.pending[key]; ok {
		return v, true, nil
	}
	raw, err := s.c.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return raw == "true", true, nil
}

// Set writes the cookie. A zero ttl makes a session cookie.
func (s *cookieStore) Set(_ context.Context, key string, value bool, ttl time.Duration) error {
	s.pending[key] = value
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, strconv.FormatBool(value), int(ttl.Seconds()), "/", "", s.secure, false)
	return nil
}
