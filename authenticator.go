package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther composes the credential validator, the token service, and the
// account registry into the registration/login/resolution flows.
type Auther struct {
	provider     IdentityProvider
	registry     AccountRegisterer
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithAccountRegisterer wires the directory capability that creates records.
// Register calls fail until one is provided.
func (s *Auther) WithAccountRegisterer(registry AccountRegisterer) *Auther {
	s.registry = registry
	return s
}

// WithTokenService overrides the codec built from Config
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login validates the email/password pair against the directory and mints a
// token for the verified identity.
func (s *Auther) Login(ctx context.Context, email, password string) (Identity, string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		return nil, "", err
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error: %v", err)
		return nil, "", err
	}

	return identity, token, nil
}

// Register delegates record creation to the directory, which hashes the
// password before persisting, then mints a token for the new identity. A
// duplicate email surfaces ErrEmailAlreadyRegistered; nothing is retried.
func (s *Auther) Register(ctx context.Context, email, password, fullName string) (Identity, string, error) {
	if s.registry == nil {
		return nil, "", errors.New("no account registerer configured", errors.CategoryInternal)
	}

	user, err := s.registry.RegisterUser(ctx, email, password, fullName)
	if err != nil {
		s.logger.Error("Register create record error: %v", err)
		return nil, "", err
	}

	identity := IdentityFromUser(user)

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Register token generation error: %v", err)
		return nil, "", err
	}

	return identity, token, nil
}

// IdentityFromToken verifies the raw token and resolves the account behind
// it. A vanished account reports the same failure as a bad token; an account
// that was deactivated after issuance reports ErrUserInactive.
func (s *Auther) IdentityFromToken(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		s.logger.Error("IdentityFromToken validation failed: %v", err)
		return nil, err
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	return identity, nil
}

// TokenFor mints a fresh token for an already resolved identity
func (s *Auther) TokenFor(identity Identity) (string, error) {
	return s.tokenService.Generate(identity)
}

var _ Authenticator = (*Auther)(nil)
