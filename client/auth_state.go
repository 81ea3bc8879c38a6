package client

import "sync"

// User is the identity the server reports for the signed-in member.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// State is the resolution of the caller's authentication.
type State int

const (
	// StateUnresolved means no session check has completed yet. UIs
	// should hold rendering auth-dependent chrome until this clears.
	StateUnresolved State = iota

	// StateAuthenticated means a member is signed in.
	StateAuthenticated

	// StateAnonymous means the session check completed and found nobody.
	StateAnonymous
)

// Snapshot is an immutable view of the auth state at one moment.
type Snapshot struct {
	User   *User
	State  State
	Booted bool
}

// AuthState tracks who is signed in on one client. Booted flips to true
// the first time any resolution completes (sign-in, sign-out, or a
// bootstrap that found no session) and never flips back, so consumers
// can tell "not signed in" apart from "haven't checked yet".
type AuthState struct {
	mu     sync.Mutex
	user   *User
	state  State
	booted bool
	subs   map[int]func(Snapshot)
	nextID int
}

// NewAuthState creates an unresolved auth state.
func NewAuthState() *AuthState {
	return &AuthState{subs: make(map[int]func(Snapshot))}
}

// Snapshot returns the current state.
func (a *AuthState) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Booted reports whether any session resolution has completed.
func (a *AuthState) Booted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.booted
}

// CurrentUser returns the signed-in member, or nil.
func (a *AuthState) CurrentUser() *User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

// OnChange subscribes to state transitions. The callback runs
// synchronously with each change; the returned function unsubscribes.
func (a *AuthState) OnChange(fn func(Snapshot)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// setUser records a signed-in member and marks the state resolved.
func (a *AuthState) setUser(u *User) {
	a.mu.Lock()
	a.user = u
	a.state = StateAuthenticated
	a.booted = true
	snap, fns := a.snapshotLocked(), a.subscribersLocked()
	a.mu.Unlock()

	notify(fns, snap)
}

// markAnonymous records that no session exists and marks the state
// resolved. Used by both bootstrap misses and logout.
func (a *AuthState) markAnonymous() {
	a.mu.Lock()
	a.user = nil
	a.state = StateAnonymous
	a.booted = true
	snap, fns := a.snapshotLocked(), a.subscribersLocked()
	a.mu.Unlock()

	notify(fns, snap)
}

func (a *AuthState) snapshotLocked() Snapshot {
	return Snapshot{User: a.user, State: a.state, Booted: a.booted}
}

func (a *AuthState) subscribersLocked() []func(Snapshot) {
	fns := make([]func(Snapshot), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	return fns
}

// notify runs outside the lock so callbacks may call back into the state.
func notify(fns []func(Snapshot), snap Snapshot) {
	for _, fn := range fns {
		fn(snap)
	}
}
