package hikeusers

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeInvalidCreds identifies the undifferentiated login failure.
	TextCodeInvalidCreds = "invalid_credentials"
	// TextCodeDuplicateUser identifies a registration with a taken username.
	TextCodeDuplicateUser = "duplicate_username"
	// TextCodeUserNotFound identifies lookups for an absent username.
	TextCodeUserNotFound = "user_not_found"
	// TextCodeNoUpdateData identifies an empty partial update.
	TextCodeNoUpdateData = "no_update_data"
	// TextCodeTokenExpired identifies an expired bearer token.
	TextCodeTokenExpired = "token_expired"
	// TextCodeTokenMalformed identifies a structurally invalid bearer token.
	TextCodeTokenMalformed = "token_malformed"
)

// ErrUserNotFound is returned when a username does not resolve to a record.
var ErrUserNotFound = errors.New("no such user", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrDuplicateUsername is returned when registering an already taken
// username. The store's unique constraint is the authoritative source.
var ErrDuplicateUsername = errors.New("duplicate username", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateUser).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials is the single failure for the authenticate path. It
// never reveals whether the username existed.
var ErrInvalidCredentials = errors.New("invalid username/password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the verification failure from the password
// hasher, covering mismatches and malformed stored hashes alike.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrEmptyPassword rejects hashing an empty plaintext.
var ErrEmptyPassword = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrPasswordTooLong rejects plaintexts over bcrypt's 72 byte input limit.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrNoUpdateData is returned by the partial-update builder for an empty
// field map; silently no-op-ing would mask a caller error.
var ErrNoUpdateData = errors.New("no data to update", errors.CategoryBadInput).
	WithTextCode(TextCodeNoUpdateData).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a token fails validation on exp.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for any structural or signature failure.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession is returned when a parsed token carries claims
// we cannot turn into a session.
var ErrUnableToDecodeSession = errors.New("unable to decode session claims", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

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

// isUniqueViolation sniffs driver-specific unique constraint failures so the
// insert path can map them to ErrDuplicateUsername.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint violation")
}
