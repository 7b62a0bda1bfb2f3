// Package checkout decides when a cart may proceed to order submission
// and drives the submission itself.
package checkout

import (
	"context"
	"net/url"
)

// Reason explains why the gate blocked a checkout attempt. Neither reason
// is an error: both are navigable states.
type Reason string

const (
	// ReasonEmptyCart blocks checkout with nothing to buy. No redirect is
	// offered; the caller presents an empty-state affordance.
	ReasonEmptyCart Reason = "empty_cart"
	// ReasonUnauthenticated blocks checkout pending login. The decision
	// carries a redirect to the login page with the original destination,
	// so checkout resumes after authentication.
	ReasonUnauthenticated Reason = "unauthenticated"
)

// Decision is the gate's verdict on a checkout attempt.
type Decision struct {
	Allowed  bool
	Reason   Reason
	Redirect string
}

// AuthService reports the shopper's authentication state. It is polled on
// every gate evaluation, never cached.
type AuthService interface {
	IsAuthenticated(ctx context.Context) bool
}

// Gate is a two-state machine: Allowed requires a non-empty cart and an
// authenticated shopper; everything else is Blocked.
type Gate struct {
	auth      AuthService
	loginPath string
}

// NewGate creates a Gate that redirects blocked-unauthenticated attempts
// to loginPath.
func NewGate(auth AuthService, loginPath string) *Gate {
	return &Gate{auth: auth, loginPath: loginPath}
}

// Evaluate decides whether a checkout heading for destination may
// proceed. The empty-cart check runs first: an unauthenticated shopper
// with an empty cart has nothing to resume after login.
func (g *Gate) Evaluate(ctx context.Context, itemCount int, destination string) Decision {
	if itemCount == 0 {
		return Decision{Reason: ReasonEmptyCart}
	}
	if !g.auth.IsAuthenticated(ctx) {
		return Decision{
			Reason:   ReasonUnauthenticated,
			Redirect: g.loginPath + "?next=" + url.QueryEscape(destination),
		}
	}
	return Decision{Allowed: true}
}
