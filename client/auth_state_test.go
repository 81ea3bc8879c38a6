package client

import "testing"

func TestAuthStateStartsUnresolved(t *testing.T) {
	a := NewAuthState()

	snap := a.Snapshot()
	if snap.State != StateUnresolved {
		t.Errorf("state = %v, want unresolved", snap.State)
	}
	if snap.Booted {
		t.Error("fresh state must not be booted")
	}
	if snap.User != nil {
		t.Errorf("user = %+v, want nil", snap.User)
	}
}

func TestAuthStateBootsOnAnyResolution(t *testing.T) {
	// Resolving to anonymous boots.
	a := NewAuthState()
	a.markAnonymous()
	if !a.Booted() {
		t.Error("anonymous resolution must set booted")
	}
	if a.Snapshot().State != StateAnonymous {
		t.Errorf("state = %v, want anonymous", a.Snapshot().State)
	}

	// Resolving to a user boots too.
	b := NewAuthState()
	b.setUser(&User{ID: "1", Name: "Ada"})
	if !b.Booted() {
		t.Error("sign-in resolution must set booted")
	}
	if b.Snapshot().State != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", b.Snapshot().State)
	}
}

func TestAuthStateBootedNeverReverts(t *testing.T) {
	a := NewAuthState()
	a.setUser(&User{ID: "1", Name: "Ada"})
	a.markAnonymous()

	snap := a.Snapshot()
	if !snap.Booted {
		t.Error("booted must survive sign-out")
	}
	if snap.State != StateAnonymous || snap.User != nil {
		t.Errorf("after sign-out: state=%v user=%+v", snap.State, snap.User)
	}
}

func TestAuthStateOnChange(t *testing.T) {
	a := NewAuthState()

	var got []Snapshot
	unsubscribe := a.OnChange(func(s Snapshot) {
		got = append(got, s)
	})

	a.setUser(&User{ID: "1", Name: "Ada"})
	a.markAnonymous()

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0].State != StateAuthenticated || got[0].User == nil {
		t.Errorf("first notification = %+v, want authenticated", got[0])
	}
	if got[1].State != StateAnonymous || got[1].User != nil {
		t.Errorf("second notification = %+v, want anonymous", got[1])
	}

	unsubscribe()
	a.setUser(&User{ID: "2", Name: "Grace"})
	if len(got) != 2 {
		t.Errorf("got %d notifications after unsubscribe, want 2", len(got))
	}
}
