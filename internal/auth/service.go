package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkpost/inkpost/internal/shared"
)

// Mailer enqueues transactional mail. The zero value (nil) disables mail.
type Mailer interface {
	EnqueueWelcome(ctx context.Context, email, name string) error
}

// Service wraps authentication business rules: credential verification,
// token issuance, OAuth account linking and revocation.
type Service struct {
	repo     Repository
	tokens   *TokenIssuer
	revoked  *RevocationList
	resolver *Resolver
	mailer   Mailer
}

// NewService constructs a Service and wires the verification strategies into
// an explicit resolver.
func NewService(repo Repository, tokens *TokenIssuer, revoked *RevocationList, mailer Mailer) *Service {
	s := &Service{
		repo:    repo,
		tokens:  tokens,
		revoked: revoked,
		mailer:  mailer,
	}
	r := NewResolver()
	r.Register(StrategyLocal, s.verifyLocal)
	r.Register(StrategyBearer, s.verifyBearer)
	r.Register(StrategyGoogle, s.verifyGoogle)
	s.resolver = r
	return s
}

// Resolver exposes the strategy resolver for middleware and handlers.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Register creates a local account and issues its first token. Duplicate
// emails surface as shared.ErrDuplicateEmail from the unique index.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("auth: hash password: %w", err)
	}

	user := &User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	if s.mailer != nil {
		// Mail is best effort; registration already succeeded.
		_ = s.mailer.EnqueueWelcome(ctx, user.Email, user.Name)
	}

	return user, token, nil
}

// Login verifies local credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.resolver.Verify(ctx, StrategyLocal, Credential{Email: email, Password: password})
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginWithGoogle resolves an OAuth profile to an account, linking or
// creating one as needed, and issues a token.
func (s *Service) LoginWithGoogle(ctx context.Context, profile *OAuthProfile) (*User, string, error) {
	user, err := s.resolver.Verify(ctx, StrategyGoogle, Credential{Profile: profile})
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// AuthenticateToken verifies a bearer token and loads its user.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (*User, TokenClaims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, TokenClaims{}, err
	}
	user, err := s.resolver.Verify(ctx, StrategyBearer, Credential{Token: token})
	if err != nil {
		return nil, TokenClaims{}, err
	}
	return user, claims, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, identity shared.Identity) error {
	return s.revoked.Revoke(ctx, identity.TokenID, identity.ExpiresAt)
}

// verifyLocal is the read-only email/password path. Unknown emails and bad
// passwords both collapse to ErrInvalidCredentials; store faults do not.
func (s *Service) verifyLocal(ctx context.Context, cred Credential) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, cred.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cred.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// verifyBearer is the read-only token path.
func (s *Service) verifyBearer(ctx context.Context, cred Credential) (*User, error) {
	claims, err := s.tokens.Verify(cred.Token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, shared.ErrUnauthenticated
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// verifyGoogle resolves a provider profile in three steps: match by provider
// id, else link by email, else create a password-less account.
func (s *Service) verifyGoogle(ctx context.Context, cred Credential) (*User, error) {
	profile := cred.Profile
	if profile == nil || profile.ID == "" {
		return nil, shared.ErrUnauthenticated
	}

	user, err := s.repo.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err = s.repo.FindByEmail(ctx, profile.Email)
	if err == nil {
		if err := s.repo.LinkGoogleID(ctx, user.ID, profile.ID); err != nil {
			return nil, err
		}
		googleID := profile.ID
		user.GoogleID = &googleID
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	googleID := profile.ID
	user = &User{
		Name:     profile.Name,
		Email:    profile.Email,
		GoogleID: &googleID,
	}
	if profile.Picture != "" {
		picture := profile.Picture
		user.ProfilePicture = &picture
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
