// internal/application/usecase/auth_usecase.go
package usecase

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"tradehub/internal/domain/session"
)

const (
	authTokenStorageKey = "authToken"
	minPasswordLength   = 6
)

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignUpResult reports a successful signup. The profile write is
// best-effort: when it fails, the signup still succeeds and Warning carries
// the user-facing note.
type SignUpResult struct {
	Session        session.Session
	ProfileCreated bool
	Warning        string
}

// AuthUsecase wraps the identity provider: local pre-validation, the single
// current-session value, and translation of provider codes into the closed
// AuthError taxonomy. Expected failures are returned as *session.AuthError,
// never panics, never raw provider strings.
type AuthUsecase struct {
	provider IdentityProvider
	profiles ProfileRepository
	verifier TokenVerifier
	mailer   ResetMailer
	sessions *SessionStore
	local    LocalStore
}

// NewAuthUsecase wires the controller. provider and sessions are required;
// profiles, verifier, mailer, local are optional (nil disables the feature).
func NewAuthUsecase(provider IdentityProvider, profiles ProfileRepository, verifier TokenVerifier, mailer ResetMailer, sessions *SessionStore, local LocalStore) *AuthUsecase {
	return &AuthUsecase{
		provider: provider,
		profiles: profiles,
		verifier: verifier,
		mailer:   mailer,
		sessions: sessions,
		local:    local,
	}
}

// SignUp creates an account, sets the display name, and issues a best-effort
// profile document. Local validation happens before any remote call.
func (uc *AuthUsecase) SignUp(ctx context.Context, email, password, displayName string) (SignUpResult, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)

	if err := validateEmail(email); err != nil {
		return SignUpResult{}, err
	}
	if len(password) < minPasswordLength {
		return SignUpResult{}, session.NewAuthError(session.AuthWeakPassword, "password shorter than minimum")
	}
	if displayName == "" {
		return SignUpResult{}, session.NewAuthError(session.AuthInvalidInput, "display name is empty")
	}

	ps, err := uc.provider.SignUp(ctx, email, password, displayName)
	if err != nil {
		ae := session.FromProviderError(err)
		log.Printf("[auth] signup failed code=%s detail=%s", ae.Code, ae.Detail)
		return SignUpResult{}, ae
	}

	sess := session.New(ps.UID, ps.Email, ps.DisplayName)
	res := SignUpResult{Session: sess, ProfileCreated: true}

	// Profile write is best-effort: auth success is never rolled back.
	if uc.profiles != nil {
		if perr := uc.profiles.Create(ctx, sess.ID, sess.Email, sess.DisplayName); perr != nil {
			log.Printf("[auth] profile creation failed (auth succeeded): %v", perr)
			res.ProfileCreated = false
			res.Warning = "Your account was created, but profile setup is incomplete."
		}
	}

	uc.storeToken(ps.IDToken)
	uc.publish(&sess)
	return res, nil
}

// Login signs in with email and password.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (session.Session, error) {
	email = strings.TrimSpace(email)

	if err := validateEmail(email); err != nil {
		return session.Session{}, err
	}
	if password == "" {
		return session.Session{}, session.NewAuthError(session.AuthInvalidInput, "password is empty")
	}

	ps, err := uc.provider.SignIn(ctx, email, password)
	if err != nil {
		ae := session.FromProviderError(err)
		log.Printf("[auth] login failed code=%s detail=%s", ae.Code, ae.Detail)
		return session.Session{}, ae
	}

	sess := session.New(ps.UID, ps.Email, ps.DisplayName)
	uc.storeToken(ps.IDToken)
	uc.publish(&sess)
	return sess, nil
}

// Logout clears the current session.
func (uc *AuthUsecase) Logout(ctx context.Context) error {
	if err := uc.provider.SignOut(ctx); err != nil {
		ae := session.FromProviderError(err)
		log.Printf("[auth] logout failed code=%s detail=%s", ae.Code, ae.Detail)
		return ae
	}
	if uc.local != nil {
		uc.local.Remove(authTokenStorageKey)
	}
	uc.publish(nil)
	return nil
}

// ResetPassword triggers the out-of-band reset flow. Whether the email is
// registered is not revealed: the custom-mail path swallows lookup failures,
// and the provider path surfaces whatever indistinguishable answer the
// provider gives.
func (uc *AuthUsecase) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	if uc.mailer != nil {
		link, err := uc.mailer.PasswordResetLink(ctx, email)
		if err != nil {
			// Unknown address or link failure: log and report success so the
			// surface stays indistinguishable.
			log.Printf("[auth] reset link generation failed (reported success): %v", err)
			return nil
		}
		if err := uc.mailer.SendResetMail(ctx, email, link); err != nil {
			ae := session.FromProviderError(err)
			log.Printf("[auth] reset mail delivery failed code=%s detail=%s", ae.Code, ae.Detail)
			return ae
		}
		return nil
	}

	if err := uc.provider.SendPasswordReset(ctx, email); err != nil {
		ae := session.FromProviderError(err)
		log.Printf("[auth] reset request failed code=%s detail=%s", ae.Code, ae.Detail)
		return ae
	}
	return nil
}

// Restore republishes the session persisted from a previous run, if a valid
// ID token is stored; otherwise publishes signed-out. Call once at startup.
func (uc *AuthUsecase) Restore(ctx context.Context) {
	if uc.verifier == nil || uc.local == nil {
		uc.publish(nil)
		return
	}
	raw, ok := uc.local.Get(authTokenStorageKey)
	if !ok {
		uc.publish(nil)
		return
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil || token == "" {
		uc.publish(nil)
		return
	}
	sess, err := uc.verifier.Verify(ctx, token)
	if err != nil || !sess.Valid() {
		log.Printf("[auth] stored session invalid, signing out: %v", err)
		uc.local.Remove(authTokenStorageKey)
		uc.publish(nil)
		return
	}
	uc.publish(&sess)
}

// OnSessionChange binds fn to the session store: one immediate firing with
// the current state, then one per change. Returns an idempotent unsubscribe.
func (uc *AuthUsecase) OnSessionChange(fn func(SessionState)) func() {
	if uc.sessions == nil {
		return func() {}
	}
	return uc.sessions.Subscribe(fn)
}

// UpdateProfile patches the signed-in user's profile document.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, updates map[string]any) error {
	if uc.profiles == nil {
		return session.NewAuthError(session.AuthMisconfiguredProvider, "profile repository not configured")
	}
	st := uc.sessions.Current()
	if st.Session == nil {
		return session.NewAuthError(session.AuthNotAuthorized, "no active session")
	}
	if err := uc.profiles.Update(ctx, st.Session.ID, updates); err != nil {
		ae := session.FromProviderError(err)
		log.Printf("[auth] profile update failed code=%s detail=%s", ae.Code, ae.Detail)
		return ae
	}
	return nil
}

func (uc *AuthUsecase) publish(sess *session.Session) {
	if uc.sessions == nil {
		return
	}
	uc.sessions.publish(SessionState{Known: true, Session: sess})
}

func (uc *AuthUsecase) storeToken(idToken string) {
	if uc.local == nil || idToken == "" {
		return
	}
	if raw, err := json.Marshal(idToken); err == nil {
		uc.local.Set(authTokenStorageKey, raw)
	}
}

func validateEmail(email string) *session.AuthError {
	if email == "" || !emailRx.MatchString(email) {
		return session.NewAuthError(session.AuthInvalidEmail, "malformed email address")
	}
	return nil
}
