// Package session stores the bearer credential between invocations and hands
// it to the gateway as an oauth2.TokenSource.
package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"taskhub/internal/config"
)

// ErrNoSession is returned when no credential is stored or held.
var ErrNoSession = errors.New("no session")

// Store persists the session token.
type Store interface {
	// Load returns the stored token, or ErrNoSession.
	Load(ctx context.Context) (*oauth2.Token, error)

	// Save replaces the stored token.
	Save(ctx context.Context, tok *oauth2.Token) error

	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Open returns the store selected by cfg: Redis when RedisURL is set,
// otherwise the token file in the config directory.
func Open(cfg *config.Config) (Store, error) {
	if cfg.RedisURL != "" {
		s, err := NewRedisStore(cfg.RedisURL, cfg.SessionKey)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		return s, nil
	}
	return NewFileStore(cfg.TokenPath()), nil
}

// NewToken wraps an access token returned by the login endpoint.
func NewToken(accessToken string) *oauth2.Token {
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
}
