package tokenseal

import (
	"errors"
	"strings"
	"testing"
)

var testParams = &Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1}

func TestSealAndOpen(t *testing.T) {
	s, err := NewSealer("station-secret", testParams)
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	sealed, err := s.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if strings.Contains(sealed, "payload") {
		t.Fatalf("sealed token leaks plaintext: %s", sealed)
	}
	plain, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if plain != "eyJhbGciOiJIUzI1NiJ9.payload.sig" {
		t.Fatalf("unexpected plaintext %q", plain)
	}

	again, _ := s.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	if again == sealed {
		t.Fatalf("expected fresh nonce per seal")
	}
}

func TestOpenRejectsWrongKeyAndGarbage(t *testing.T) {
	a, _ := NewSealer("secret-a", testParams)
	b, _ := NewSealer("secret-b", testParams)
	sealed, _ := a.Seal("token")

	if _, err := b.Open(sealed); !errors.Is(err, ErrTampered) {
		t.Fatalf("expected ErrTampered, got %v", err)
	}
	for _, bad := range []string{"", "token", "v2$abc", "v1$!!!", "v1$AAAA"} {
		if _, err := a.Open(bad); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: expected ErrMalformed, got %v", bad, err)
		}
	}
}

func TestNewSealerRequiresSecret(t *testing.T) {
	if _, err := NewSealer("  ", testParams); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}
