// internal/application/usecase/ports.go
package usecase

import (
	"context"
	"time"

	"tradehub/internal/domain/cart"
	"tradehub/internal/domain/session"
	"tradehub/internal/domain/wishlist"
)

// LocalStore is the local persistent key-value medium used to cache cart,
// wishlist, and session state between runs. Implementations log failures and
// never surface them: readers fall back to defaults.
type LocalStore interface {
	// Get returns the raw JSON for key, or ok=false when absent/broken.
	Get(key string) (value []byte, ok bool)
	// Set stores raw JSON under key (best-effort).
	Set(key string, value []byte)
	// Remove deletes key (best-effort).
	Remove(key string)
}

// SyncPort pushes local cart/wishlist state to the remote store for an
// authenticated session. The default is NopSync; reducer logic never depends
// on sync outcome.
type SyncPort interface {
	PushCart(ctx context.Context, s session.Session, c *cart.Cart) error
	PushWishlist(ctx context.Context, s session.Session, w *wishlist.Wishlist) error
}

// NopSync is the default SyncPort: remote sync disabled.
type NopSync struct{}

func (NopSync) PushCart(context.Context, session.Session, *cart.Cart) error { return nil }
func (NopSync) PushWishlist(context.Context, session.Session, *wishlist.Wishlist) error {
	return nil
}

// ProviderSession is what the identity provider hands back on sign-up or
// sign-in.
type ProviderSession struct {
	UID          string
	Email        string
	DisplayName  string
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
}

// IdentityProvider is the managed identity boundary (consumed, not
// implemented here). Errors carry the provider code via
// *session.ProviderError.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, displayName string) (ProviderSession, error)
	SignIn(ctx context.Context, email, password string) (ProviderSession, error)
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
}

// ProfileRepository persists the user profile document keyed by session id.
type ProfileRepository interface {
	Create(ctx context.Context, uid, email, displayName string) error
	Update(ctx context.Context, uid string, updates map[string]any) error
}

// TokenVerifier validates a stored ID token when restoring a session at
// startup. Optional; without it, restore publishes signed-out.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (session.Session, error)
}

// ResetMailer delivers a password-reset link through a custom mail channel
// instead of the provider's built-in mail. Optional.
type ResetMailer interface {
	PasswordResetLink(ctx context.Context, email string) (string, error)
	SendResetMail(ctx context.Context, to, link string) error
}
