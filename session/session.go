// Package session resolves invite codes and refresh tokens to a seat owner.
package session

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"werewolf/domain"

	"github.com/google/uuid"
)

const (
	inviteDigits      = 6
	maxInviteAttempts = 32
)

// Grant is what a token resolves to.
type Grant struct {
	User   domain.User `json:"user"`
	RoomID string      `json:"roomId"`
}

type refresh struct {
	grant   Grant
	expires time.Time
}

// Store keeps tokens in memory. Invites are single use, at most one per user.
// Refresh tokens live for a fixed TTL and each user holds at most one per room.
type Store struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	invites       map[string]Grant
	inviteByUser  map[string]string
	refresh       map[string]refresh
	refreshByUser map[seatKey]string
}

type seatKey struct {
	userID string
	roomID string
}

func (g Grant) key() seatKey {
	return seatKey{userID: g.User.ID, roomID: g.RoomID}
}

func NewStore(ttl time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		ttl:           ttl,
		now:           now,
		invites:       map[string]Grant{},
		inviteByUser:  map[string]string{},
		refresh:       map[string]refresh{},
		refreshByUser: map[seatKey]string{},
	}
}

// MintInvite issues a fresh invite code for g, revoking the user's previous one.
func (s *Store) MintInvite(g Grant) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.inviteByUser[g.User.ID]; ok {
		delete(s.invites, old)
		delete(s.inviteByUser, g.User.ID)
	}

	for range maxInviteAttempts {
		code, err := inviteCode()
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.UnexpectedInviteError, err)
		}
		if _, taken := s.invites[code]; taken {
			continue
		}
		s.invites[code] = g
		s.inviteByUser[g.User.ID] = code
		return code, nil
	}
	return "", domain.ErrInviteExhausted
}

// PeekInvite resolves code without consuming it.
func (s *Store) PeekInvite(code string) (Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.invites[code]
	if !ok {
		return Grant{}, domain.ErrInvalidToken
	}
	return g, nil
}

// ClaimInvite consumes code. A second claim of the same code fails.
func (s *Store) ClaimInvite(code string) (Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.invites[code]
	if !ok {
		return Grant{}, domain.ErrInvalidToken
	}
	delete(s.invites, code)
	if s.inviteByUser[g.User.ID] == code {
		delete(s.inviteByUser, g.User.ID)
	}
	return g, nil
}

// MintRefresh issues a refresh token for g and invalidates the previous one
// the user held for the same room.
func (s *Store) MintRefresh(g Grant) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.refreshByUser[g.key()]; ok {
		delete(s.refresh, old)
	}
	token := uuid.NewString()
	s.refresh[token] = refresh{grant: g, expires: s.now().Add(s.ttl)}
	s.refreshByUser[g.key()] = token
	return token
}

// ResolveRefresh looks up an unexpired refresh token without consuming it;
// the next MintRefresh for the same user replaces it.
func (s *Store) ResolveRefresh(token string) (Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.refresh[token]
	if !ok {
		return Grant{}, domain.ErrInvalidToken
	}
	if !s.now().Before(r.expires) {
		s.dropRefreshLocked(token, r.grant)
		return Grant{}, domain.ErrExpiredToken
	}
	return r.grant, nil
}

// Resolve accepts either kind of token. Invites are consumed.
func (s *Store) Resolve(token string) (Grant, error) {
	if g, err := s.ClaimInvite(token); err == nil {
		return g, nil
	}
	return s.ResolveRefresh(token)
}

// RevokeRoom drops every token pointing at roomID.
func (s *Store) RevokeRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, g := range s.invites {
		if g.RoomID == roomID {
			delete(s.invites, code)
			delete(s.inviteByUser, g.User.ID)
		}
	}
	for token, r := range s.refresh {
		if r.grant.RoomID == roomID {
			s.dropRefreshLocked(token, r.grant)
		}
	}
}

// Sweep removes expired refresh tokens and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for token, r := range s.refresh {
		if !now.Before(r.expires) {
			s.dropRefreshLocked(token, r.grant)
			dropped++
		}
	}
	return dropped
}

func (s *Store) dropRefreshLocked(token string, g Grant) {
	delete(s.refresh, token)
	if s.refreshByUser[g.key()] == token {
		delete(s.refreshByUser, g.key())
	}
}

func inviteCode() (string, error) {
	n, err := crand.Int(crand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", inviteDigits, n.Int64()), nil
}
