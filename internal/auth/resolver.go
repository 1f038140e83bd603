package auth

import (
	"context"
	"fmt"
)

// Strategy names an authentication verification method.
type Strategy string

const (
	// StrategyLocal verifies an email/password pair.
	StrategyLocal Strategy = "local"
	// StrategyBearer verifies a signed bearer token.
	StrategyBearer Strategy = "bearer"
	// StrategyGoogle verifies a Google OAuth profile.
	StrategyGoogle Strategy = "google"
)

// Credential is the union of inputs the verification strategies accept.
type Credential struct {
	Email    string
	Password string
	Token    string
	Profile  *OAuthProfile
}

// Verifier executes one verification path, returning the authenticated user
// or a rejection error.
type Verifier func(ctx context.Context, cred Credential) (*User, error)

// Resolver dispatches an authentication attempt to exactly one verification
// strategy. Strategies are registered at construction and the resolver is
// injected where needed; there is no process-wide mutable registry.
type Resolver struct {
	verifiers map[Strategy]Verifier
}

// NewResolver constructs an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{verifiers: make(map[Strategy]Verifier)}
}

// Register adds a verification strategy.
func (r *Resolver) Register(s Strategy, v Verifier) {
	r.verifiers[s] = v
}

// Verify runs the named strategy against the credential.
func (r *Resolver) Verify(ctx context.Context, s Strategy, cred Credential) (*User, error) {
	v, ok := r.verifiers[s]
	if !ok {
		return nil, fmt.Errorf("auth: unknown strategy %q", s)
	}
	return v(ctx, cred)
}
