package auth

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes exposed alongside structured errors so API consumers can branch
// without string matching messages.
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeEmailTaken      = "EMAIL_ALREADY_REGISTERED"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeTokenInvalid    = "TOKEN_INVALID"
	TextCodeUserInactive    = "USER_INACTIVE"
	TextCodeForbidden       = "FORBIDDEN"
	TextCodeMissingIdentity = "MISSING_IDENTITY"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
)

// ErrIdentityNotFound is the error we return for non found identities. It is
// internal to the resolution path; login and token validation never expose it.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is returned for every failed login, whether the
// email is unknown or the password is wrong. Keeping a single value prevents
// account enumeration through error shapes.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString rejects empty passwords before they reach the hasher
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrEmailAlreadyRegistered is returned when registration hits the directory's
// email uniqueness constraint. Registration is not retried.
var ErrEmailAlreadyRegistered = errors.New("a user with that email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a token's expiration timestamp has passed
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers signature mismatches and structural failures
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is the resolution-time failure: the token did not resolve to
// a live account. A vanished account is reported identically to a bad token.
var ErrTokenInvalid = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrUserInactive is distinct from ErrTokenInvalid: the token checks out but
// the account was deactivated after issuance.
var ErrUserInactive = errors.New("user is not active, please contact support", errors.CategoryAuth).
	WithTextCode(TextCodeUserInactive).
	WithCode(errors.CodeUnauthorized)

// ErrMissingIdentity flags a caller ordering bug: the role gate ran before
// identity resolution. It is a defect, not a request outcome.
var ErrMissingIdentity = errors.New("no identity resolved before authorization", errors.CategoryInternal).
	WithTextCode(TextCodeMissingIdentity).
	WithCode(errors.CodeInternal)

// NewForbiddenError builds the role-gate rejection, carrying the identity's
// display name and the acceptable roles for caller diagnostics.
func NewForbiddenError(fullName string, required []UserRole) *errors.Error {
	roles := make([]string, len(required))
	for i, r := range required {
		roles[i] = string(r)
	}

	return errors.New(
		fmt.Sprintf("user %s is not allowed, valid roles are: %s", fullName, strings.Join(roles, ", ")),
		errors.CategoryAuthz,
	).
		WithTextCode(TextCodeForbidden).
		WithCode(errors.CodeForbidden).
		WithMetadata(map[string]any{
			"user":        fullName,
			"valid_roles": roles,
		})
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
