package coins

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Session is the state a user builds while using the dashboard.
type Session struct {
	ID        string    `json:"id"`
	Portfolio Portfolio `json:"portfolio"`
	Watchlist Watchlist `json:"watchlist"`
}

// Action is a user action on a session.
//
// Apply returns the new session; the input session is never modified.
type Action interface {
	Apply(s Session) (Session, error)
}

// AddHolding adds Amount to the holding of CoinID.
type AddHolding struct {
	CoinID string
	Amount Quantity
}

func (a AddHolding) Apply(s Session) (Session, error) {
	id := strings.TrimSpace(a.CoinID)
	if id == "" {
		return s, ErrEmptyCoinID
	}
	if !a.Amount.IsPositive() {
		return s, fmt.Errorf("cannot add %s of %s: %w", a.Amount, id, ErrInvalidAmount)
	}
	s.Portfolio = s.Portfolio.add(id, a.Amount)
	return s, nil
}

// RemoveHolding removes the whole holding of CoinID.
type RemoveHolding struct{ CoinID string }

func (a RemoveHolding) Apply(s Session) (Session, error) {
	p, ok := s.Portfolio.remove(a.CoinID)
	if !ok {
		return s, fmt.Errorf("cannot remove %q: %w", a.CoinID, ErrNotHeld)
	}
	s.Portfolio = p
	return s, nil
}

// ClearPortfolio removes every holding.
type ClearPortfolio struct{}

func (ClearPortfolio) Apply(s Session) (Session, error) {
	s.Portfolio = Portfolio{}
	return s, nil
}

// Watch appends CoinID to the watchlist.
type Watch struct{ CoinID string }

func (a Watch) Apply(s Session) (Session, error) {
	id := strings.TrimSpace(a.CoinID)
	if id == "" {
		return s, ErrEmptyCoinID
	}
	if s.Watchlist.Contains(id) {
		return s, fmt.Errorf("cannot watch %q: %w", id, ErrAlreadyWatched)
	}
	s.Watchlist = s.Watchlist.add(id)
	return s, nil
}

// Unwatch removes CoinID from the watchlist.
type Unwatch struct{ CoinID string }

func (a Unwatch) Apply(s Session) (Session, error) {
	if !s.Watchlist.Contains(a.CoinID) {
		return s, fmt.Errorf("cannot unwatch %q: %w", a.CoinID, ErrNotWatched)
	}
	s.Watchlist = s.Watchlist.remove(a.CoinID)
	return s, nil
}

// ClearWatchlist removes every watched coin.
type ClearWatchlist struct{}

func (ClearWatchlist) Apply(s Session) (Session, error) {
	s.Watchlist = Watchlist{}
	return s, nil
}

// Sessions keeps the sessions of concurrent users apart.
// It is safe for concurrent use.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]Session)}
}

// New creates an empty session with a fresh id.
func (r *Sessions) New() Session {
	s := Session{ID: uuid.NewString()}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return s
}

// Get returns the current state of session id.
func (r *Sessions) Get(id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrUnknownSession)
	}
	return s, nil
}

// Update applies a to session id and stores the result.
// On error the stored session is unchanged.
func (r *Sessions) Update(id string, a Action) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %q: %w", id, ErrUnknownSession)
	}
	next, err := a.Apply(s)
	if err != nil {
		return s, err
	}
	r.sessions[id] = next
	return next, nil
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
