package relay_test

import (
	"strings"
	"testing"

	"github.com/parley-chat/parley/internal/relay"
)

func TestNextIdentityStartsAtBase(t *testing.T) {
	id := relay.NextIdentity(map[string]struct{}{})
	if id != "User#1000" {
		t.Fatalf("expected User#1000, got %s", id)
	}
}

func TestNextIdentitySkipsCollisions(t *testing.T) {
	active := map[string]struct{}{
		"User#1000": {},
		"User#1001": {},
		"User#1003": {},
	}
	if id := relay.NextIdentity(active); id != "User#1002" {
		t.Fatalf("expected User#1002, got %s", id)
	}
}

func TestNewAuthToken(t *testing.T) {
	token := relay.NewAuthToken()
	if len(token) != 50 {
		t.Fatalf("expected 50 symbols, got %d", len(token))
	}
	for _, r := range token {
		if !strings.ContainsRune("0123456789abcdefghijklmnopqrstuvwxyz", r) {
			t.Fatalf("symbol %q outside token alphabet", r)
		}
	}
	if token == relay.NewAuthToken() {
		t.Fatal("two tokens should not collide")
	}
}

func TestNewColour(t *testing.T) {
	colour := relay.NewColour()
	if !strings.HasPrefix(colour, "hsl(") || !strings.HasSuffix(colour, ", 60%, 60%)") {
		t.Fatalf("unexpected colour format: %q", colour)
	}
}
