package fetcher

import (
	"math/rand"
	"testing"
)

func TestIdentitySourceDeterministicWithSeed(t *testing.T) {
	pool := []string{"a", "b", "c"}

	first := NewIdentitySource(pool, rand.New(rand.NewSource(42)))
	second := NewIdentitySource(pool, rand.New(rand.NewSource(42)))

	for i := 0; i < 20; i++ {
		one, two := first.Next(), second.Next()
		if one.UserAgent != two.UserAgent {
			t.Fatalf("iteration %d: user agents diverged (%q vs %q)", i, one.UserAgent, two.UserAgent)
		}
		if one.SessionCookie != two.SessionCookie {
			t.Fatalf("iteration %d: cookies diverged", i)
		}
	}
}

func TestIdentitySourcePoolMembership(t *testing.T) {
	pool := []string{"a", " ", "b", ""}
	src := NewIdentitySource(pool, rand.New(rand.NewSource(7)))

	for i := 0; i < 50; i++ {
		ident := src.Next()
		if ident.UserAgent != "a" && ident.UserAgent != "b" {
			t.Fatalf("user agent %q not in cleaned pool", ident.UserAgent)
		}
	}
}

func TestIdentitySourceFreshCookies(t *testing.T) {
	src := NewIdentitySource([]string{"a"}, rand.New(rand.NewSource(7)))

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		ident := src.Next()
		if len(ident.SessionCookie) != 32 {
			t.Fatalf("expected 32-char hex cookie, got %q", ident.SessionCookie)
		}
		if _, dup := seen[ident.SessionCookie]; dup {
			t.Fatalf("cookie value %q reused", ident.SessionCookie)
		}
		seen[ident.SessionCookie] = struct{}{}
	}
}

func TestIdentitySourceEmptyPool(t *testing.T) {
	src := NewIdentitySource(nil, rand.New(rand.NewSource(7)))
	ident := src.Next()
	if ident.UserAgent != "" {
		t.Fatalf("expected empty user agent, got %q", ident.UserAgent)
	}
	if ident.SessionCookie == "" {
		t.Fatal("expected a session cookie even without a pool")
	}
}
