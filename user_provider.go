package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// The directory is consumed through three independent capabilities so callers
// depend only on what they need and the auth core never grows a hard edge to
// the storage layer.

// UserCreator persists a freshly built user record
type UserCreator interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
}

// CredentialStore retrieves the login candidate by email, password hash
// included. The hash is excluded from every other projection.
type CredentialStore interface {
	GetByEmailWithPassword(ctx context.Context, email string) (*User, error)
}

// UserStore retrieves a user record by identifier
type UserStore interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// UserProvider resolves identities against the user directory
type UserProvider struct {
	credentials CredentialStore
	users       UserStore
	logger      Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(credentials CredentialStore, users UserStore) *UserProvider {
	return &UserProvider{
		credentials: credentials,
		users:       users,
		logger:      defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user by email, compare the password, and
// return the identity. Unknown email and wrong password produce the same
// error value so callers cannot tell which one failed.
func (u UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := u.credentials.GetByEmailWithPassword(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		u.logger.Error("VerifyIdentity store lookup failed: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to compare password hash")
	}

	return IdentityFromUser(user), nil
}

// FindIdentityByID loads the record behind a verified token's claims and
// checks it is still eligible. Roles come from this read, never the token.
func (u UserProvider) FindIdentityByID(ctx context.Context, id string) (Identity, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		u.logger.Error("FindIdentityByID store lookup failed: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during resolution")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return IdentityFromUser(user), nil
}

// IdentityFromUser strips the password hash from a user record, leaving the
// externally safe representation.
func IdentityFromUser(user *User) Identity {
	roles := make([]UserRole, len(user.Roles))
	copy(roles, user.Roles)

	return authIdentity{
		id:       user.ID.String(),
		email:    user.Email,
		fullName: user.FullName,
		roles:    roles,
	}
}

type authIdentity struct {
	id       string
	email    string
	fullName string
	roles    []UserRole
}

func (a authIdentity) ID() string        { return a.id }
func (a authIdentity) Email() string     { return a.email }
func (a authIdentity) FullName() string  { return a.fullName }
func (a authIdentity) Roles() []UserRole { return a.roles }

var _ Identity = authIdentity{}
var _ IdentityProvider = UserProvider{}
