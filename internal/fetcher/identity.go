package fetcher

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Identity is the spoofed browser persona attached to one outbound request.
type Identity struct {
	UserAgent     string
	SessionCookie string
}

// sessionCookieName is the synthesized session-identifier cookie the page
// fetch carries; the value is random and never reused across requests.
const sessionCookieName = "tt_session_id"

// IdentitySource hands out a fresh persona per request from a fixed user
// agent pool and an injectable random source, so tests stay deterministic.
type IdentitySource struct {
	mu   sync.Mutex
	pool []string
	rng  *rand.Rand
}

// NewIdentitySource builds a source over the given pool. A nil rng falls
// back to an unseeded process-wide source.
func NewIdentitySource(pool []string, rng *rand.Rand) *IdentitySource {
	cleaned := make([]string, 0, len(pool))
	for _, ua := range pool {
		if ua = strings.TrimSpace(ua); ua != "" {
			cleaned = append(cleaned, ua)
		}
	}
	return &IdentitySource{pool: cleaned, rng: rng}
}

// Next returns the persona for the next request.
func (s *IdentitySource) Next() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	ident := Identity{}
	if len(s.pool) > 0 {
		ident.UserAgent = s.pool[s.intn(len(s.pool))]
	}
	ident.SessionCookie = s.cookieValue()
	return ident
}

func (s *IdentitySource) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

func (s *IdentitySource) cookieValue() string {
	if s.rng != nil {
		if id, err := uuid.NewRandomFromReader(s.rng); err == nil {
			return strings.ReplaceAll(id.String(), "-", "")
		}
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
