// internal/platform/di/auth_adapter.go
package di

import (
	"context"
	"errors"

	firebaseauth "firebase.google.com/go/v4/auth"

	"tradehub/internal/adapters/out/mail"
	"tradehub/internal/domain/session"
)

// ========================================
// usecase.TokenVerifier adapter
// ========================================

// TokenVerifierAdapter restores a persisted session by verifying its stored
// ID token with Firebase Auth.
type TokenVerifierAdapter struct {
	auth *firebaseauth.Client
}

func NewTokenVerifierAdapter(auth *firebaseauth.Client) *TokenVerifierAdapter {
	return &TokenVerifierAdapter{auth: auth}
}

func (a *TokenVerifierAdapter) Verify(ctx context.Context, idToken string) (session.Session, error) {
	if a == nil || a.auth == nil {
		return session.Session{}, errors.New("di.TokenVerifierAdapter: auth client is nil")
	}

	tok, err := a.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return session.Session{}, err
	}

	email, _ := tok.Claims["email"].(string)
	name, _ := tok.Claims["name"].(string)
	return session.New(tok.UID, email, name), nil
}

// ========================================
// usecase.ResetMailer adapter
// ========================================

// ResetMailerAdapter generates a password-reset link via Firebase Auth and
// delivers it through SendGrid, replacing the provider's built-in reset
// mail.
type ResetMailerAdapter struct {
	auth   *firebaseauth.Client
	mailer *mail.SendGridClient
}

func NewResetMailerAdapter(auth *firebaseauth.Client, mailer *mail.SendGridClient) *ResetMailerAdapter {
	return &ResetMailerAdapter{auth: auth, mailer: mailer}
}

func (a *ResetMailerAdapter) PasswordResetLink(ctx context.Context, email string) (string, error) {
	if a == nil || a.auth == nil {
		return "", errors.New("di.ResetMailerAdapter: auth client is nil")
	}
	return a.auth.PasswordResetLink(ctx, email)
}

func (a *ResetMailerAdapter) SendResetMail(ctx context.Context, to, link string) error {
	if a == nil || a.mailer == nil {
		return errors.New("di.ResetMailerAdapter: mailer is nil")
	}
	return a.mailer.SendResetMail(ctx, to, link)
}
