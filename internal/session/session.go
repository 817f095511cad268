// Package session manages the active wallet session: exactly one connected
// account at a time, with a session-scoped context that cancels all
// per-session background work (balance polling) on disconnect.
package session

import (
	"context"
	"crypto/ecdsa"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// Session represents the currently connected account.
type Session struct {
	// Address is the account address derived from the signing key.
	Address common.Address

	key    *ecdsa.PrivateKey
	ctx    context.Context
	cancel context.CancelFunc
}

// Key returns the session signing key.
func (s *Session) Key() *ecdsa.PrivateKey {
	return s.key
}

// Context returns the session-scoped context. It is canceled exactly once,
// when the session ends; background tasks tied to the session must stop when
// it does.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Manager owns the single active session and notifies observers of
// connect/disconnect events.
type Manager struct {
	mu           sync.Mutex
	current      *Session
	onConnect    []func(*Session)
	onDisconnect []func(*Session)
}

// NewManager creates a session manager with no active session.
func NewManager() *Manager {
	return &Manager{}
}

// OnConnect registers an observer invoked after a session is established.
func (m *Manager) OnConnect(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onConnect = append(m.onConnect, fn)
}

// OnDisconnect registers an observer invoked after a session ends.
func (m *Manager) OnDisconnect(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDisconnect = append(m.onDisconnect, fn)
}

// Connect establishes a session from the available signing keys. The first
// key becomes the active account; additional keys are unused. Any existing
// session ends first, so reconnect cycles never leak background tasks.
func (m *Manager) Connect(keys ...*ecdsa.PrivateKey) (*Session, error) {
	if len(keys) == 0 || keys[0] == nil {
		return nil, stakeerr.ErrConnection
	}

	m.Disconnect()

	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		Address: crypto.PubkeyToAddress(keys[0].PublicKey),
		key:     keys[0],
		ctx:     ctx,
		cancel:  cancel,
	}

	m.mu.Lock()
	m.current = sess
	observers := make([]func(*Session), len(m.onConnect))
	copy(observers, m.onConnect)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(sess)
	}

	return sess, nil
}

// Disconnect ends the active session, if any, canceling its context.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	sess := m.current
	m.current = nil
	observers := make([]func(*Session), len(m.onDisconnect))
	copy(observers, m.onDisconnect)
	m.mu.Unlock()

	if sess == nil {
		return
	}

	sess.cancel()
	for _, fn := range observers {
		fn(sess)
	}
}

// Current returns the active session, or false when disconnected.
func (m *Manager) Current() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current != nil
}
