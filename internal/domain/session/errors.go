// internal/domain/session/errors.go
package session

import (
	"errors"
	"strings"
)

// AuthCode is the closed taxonomy for identity-operation failures.
// Every provider error code maps to exactly one member; unmapped codes
// collapse to AuthUnknown with the raw code preserved for logs.
type AuthCode string

const (
	AuthInvalidEmail          AuthCode = "invalid_email"
	AuthWeakPassword          AuthCode = "weak_password"
	AuthEmailAlreadyInUse     AuthCode = "email_already_in_use"
	AuthUserNotFound          AuthCode = "user_not_found"
	AuthWrongPassword         AuthCode = "wrong_password"
	AuthTooManyRequests       AuthCode = "too_many_requests"
	AuthNetworkError          AuthCode = "network_error"
	AuthNotAuthorized         AuthCode = "not_authorized"
	AuthMisconfiguredProvider AuthCode = "misconfigured_provider"
	AuthInvalidInput          AuthCode = "invalid_input"
	AuthUnknown               AuthCode = "unknown"
)

// authMessages are the only auth failure strings shown to end users.
var authMessages = map[AuthCode]string{
	AuthInvalidEmail:          "Please enter a valid email address.",
	AuthWeakPassword:          "Password should be at least 6 characters long.",
	AuthEmailAlreadyInUse:     "This email is already registered. Please sign in instead.",
	AuthUserNotFound:          "No account found with this email. Please sign up first.",
	AuthWrongPassword:         "Email or password is incorrect. Please try again or reset your password.",
	AuthTooManyRequests:       "Too many failed attempts. Please try again later.",
	AuthNetworkError:          "Network error. Please check your internet connection.",
	AuthNotAuthorized:         "This account is not allowed to sign in. Please contact support.",
	AuthMisconfiguredProvider: "Authentication is not available right now. Please contact support.",
	AuthInvalidInput:          "Please provide a valid email and password.",
	AuthUnknown:               "An error occurred. Please try again.",
}

// AuthError carries an AuthCode plus the raw provider detail (logs only).
type AuthError struct {
	Code   AuthCode
	Detail string
}

func (e *AuthError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Detail
}

// UserMessage returns the pre-written message for the code.
func (e *AuthError) UserMessage() string {
	if e == nil {
		return authMessages[AuthUnknown]
	}
	if msg, ok := authMessages[e.Code]; ok {
		return msg
	}
	return authMessages[AuthUnknown]
}

func NewAuthError(code AuthCode, detail string) *AuthError {
	return &AuthError{Code: code, Detail: detail}
}

// AuthCodeOf extracts the taxonomy code from err, or AuthUnknown.
func AuthCodeOf(err error) AuthCode {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return AuthUnknown
}

// ProviderError is what identity adapters surface: the provider's raw error
// code (e.g. "EMAIL_EXISTS") plus its message. Mapping to AuthCode happens
// here, not in the adapter, so the table stays in one place.
type ProviderError struct {
	ProviderCode string
	Message      string
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return e.ProviderCode
	}
	return e.ProviderCode + ": " + e.Message
}

// providerCodeTable maps Identity Toolkit error identifiers to the closed
// taxonomy. The provider sometimes appends detail after the identifier
// ("WEAK_PASSWORD : Password should be ..."); MapProviderCode strips that.
var providerCodeTable = map[string]AuthCode{
	"EMAIL_EXISTS":                AuthEmailAlreadyInUse,
	"EMAIL_NOT_FOUND":             AuthUserNotFound,
	"INVALID_PASSWORD":            AuthWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":   AuthWrongPassword,
	"INVALID_EMAIL":               AuthInvalidEmail,
	"WEAK_PASSWORD":               AuthWeakPassword,
	"MISSING_PASSWORD":            AuthInvalidInput,
	"MISSING_EMAIL":               AuthInvalidInput,
	"TOO_MANY_ATTEMPTS_TRY_LATER": AuthTooManyRequests,
	"USER_DISABLED":               AuthNotAuthorized,
	"ADMIN_ONLY_OPERATION":        AuthNotAuthorized,
	"OPERATION_NOT_ALLOWED":       AuthMisconfiguredProvider,
	"CONFIGURATION_NOT_FOUND":     AuthMisconfiguredProvider,
	"API_KEY_INVALID":             AuthMisconfiguredProvider,
	"APP_NOT_AUTHORIZED":          AuthMisconfiguredProvider,
}

// MapProviderCode maps a raw provider code to the closed taxonomy.
func MapProviderCode(raw string) AuthCode {
	code := strings.TrimSpace(raw)
	// "WEAK_PASSWORD : ..." / "TOO_MANY_ATTEMPTS_TRY_LATER : ..." variants
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}
	if mapped, ok := providerCodeTable[strings.ToUpper(code)]; ok {
		return mapped
	}
	return AuthUnknown
}

// FromProviderError collapses any identity-adapter error into an AuthError.
// Non-provider errors (transport, context) count as network failures.
func FromProviderError(err error) *AuthError {
	if err == nil {
		return nil
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return &AuthError{Code: MapProviderCode(pe.ProviderCode), Detail: pe.Error()}
	}
	return &AuthError{Code: AuthNetworkError, Detail: err.Error()}
}
