package promo

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
)

// ErrSuperseded is returned by Submit when a newer code was submitted
// while this resolution was in flight. The superseded result is
// discarded: the last submitted code wins, regardless of which lookup
// completes first.
var ErrSuperseded = errors.New("promo submission superseded")

// Session holds the single active discount rule for a cart. Submissions
// replace the active rule, never compose with it. The cart stays mutable
// while a lookup is in flight; the pricing engine re-derives the discount
// amount against the current subtotal on every read, so a rule resolved
// against an older subtotal cannot over-discount.
type Session struct {
	resolver Resolver

	mu        sync.Mutex
	seq       uint64
	rule      *Rule
	rejection string
}

// NewSession creates a Session using the given resolver.
func NewSession(resolver Resolver) *Session {
	return &Session{resolver: resolver}
}

// Submit resolves code and records the outcome, unless a newer submission
// was made in the meantime, in which case the result is dropped and
// ErrSuperseded returned. A rejection clears any active rule and records
// the reason; a storage failure leaves the session untouched.
func (s *Session) Submit(ctx context.Context, code string) (*Rule, error) {
	s.mu.Lock()
	s.seq++
	mine := s.seq
	s.mu.Unlock()

	rule, err := s.resolver.Resolve(ctx, code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if mine != s.seq {
		return nil, ErrSuperseded
	}

	if err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			s.rule = nil
			s.rejection = rej.Reason
		}
		return nil, err
	}

	s.rule = rule
	s.rejection = ""
	return rule, nil
}

// Active returns the active rule, or the rejection reason from the most
// recent failed submission. At most one of the two is set.
func (s *Session) Active() (*Rule, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rule, s.rejection
}

// Clear drops the active rule and any recorded rejection.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rule = nil
	s.rejection = ""
}
