package google

import (
	"testing"
	"time"
)

func TestStateRoundTrip(t *testing.T) {
	c := NewClient("id", "secret", "http://localhost/google/callback", "state-key")

	now := time.Now()
	state := c.signState(now)
	if !c.verifyState(state, now) {
		t.Fatal("freshly signed state rejected")
	}
	if !c.verifyState(state, now.Add(stateTTL-time.Second)) {
		t.Fatal("state rejected before TTL")
	}
	if c.verifyState(state, now.Add(stateTTL+time.Minute)) {
		t.Fatal("expired state accepted")
	}
}

func TestStateTamperRejected(t *testing.T) {
	c := NewClient("id", "secret", "http://localhost/google/callback", "state-key")

	state := c.signState(time.Now())
	if c.verifyState(state+"0", time.Now()) {
		t.Fatal("tampered signature accepted")
	}
	if c.verifyState("not-a-state", time.Now()) {
		t.Fatal("garbage state accepted")
	}

	other := NewClient("id", "secret", "http://localhost/google/callback", "other-key")
	if other.verifyState(state, time.Now()) {
		t.Fatal("state signed with a different key accepted")
	}
}
