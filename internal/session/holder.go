package session

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// Holder is the in-process session. It implements oauth2.TokenSource and
// returns ErrNoSession while logged out, which the gateway treats as
// "send no Authorization header".
type Holder struct {
	mu  sync.RWMutex
	tok *oauth2.Token
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Token implements oauth2.TokenSource.
func (h *Holder) Token() (*oauth2.Token, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.tok == nil {
		return nil, ErrNoSession
	}
	tok := *h.tok
	return &tok, nil
}

// Active reports whether a credential is held.
func (h *Holder) Active() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tok != nil
}

// Set replaces the held credential.
func (h *Holder) Set(tok *oauth2.Token) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tok = tok
}

// Clear drops the held credential.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tok = nil
}

// Manager ties the holder to its persistent store.
type Manager struct {
	Store  Store
	Holder *Holder
}

// NewManager creates a manager over store with a fresh holder.
func NewManager(store Store) *Manager {
	return &Manager{Store: store, Holder: NewHolder()}
}

// Restore loads the stored credential into the holder. A missing credential
// is not an error; Restore reports whether one was found.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	tok, err := m.Store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		m.Holder.Clear()
		return false, nil
	}
	if err != nil {
		return false, err
	}
	m.Holder.Set(tok)
	return true, nil
}

// Begin stores and holds a freshly issued access token.
func (m *Manager) Begin(ctx context.Context, accessToken string) error {
	tok := NewToken(accessToken)
	if err := m.Store.Save(ctx, tok); err != nil {
		return err
	}
	m.Holder.Set(tok)
	return nil
}

// End forgets the credential everywhere.
func (m *Manager) End(ctx context.Context) error {
	m.Holder.Clear()
	return m.Store.Clear(ctx)
}
