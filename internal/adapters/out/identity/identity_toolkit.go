// internal/adapters/out/identity/identity_toolkit.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"tradehub/internal/application/usecase"
	"tradehub/internal/domain/session"
)

// IdentityToolkitProvider implements usecase.IdentityProvider against the
// Google Identity Toolkit (Firebase Auth email/password) API, authenticated
// by the project's web API key.
type IdentityToolkitProvider struct {
	svc *identitytoolkit.Service
}

// NewIdentityToolkitProvider builds the provider. apiKey is the Firebase web
// API key (not a service-account credential).
func NewIdentityToolkitProvider(ctx context.Context, apiKey string) (*IdentityToolkitProvider, error) {
	if apiKey == "" {
		return nil, errors.New("identity: api key is empty")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identity: service init failed: %w", err)
	}
	return &IdentityToolkitProvider{svc: svc}, nil
}

func (p *IdentityToolkitProvider) SignUp(ctx context.Context, email, password, displayName string) (usecase.ProviderSession, error) {
	if p == nil || p.svc == nil {
		return usecase.ProviderSession{}, errors.New("identity: provider not initialized")
	}

	resp, err := p.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}).Context(ctx).Do()
	if err != nil {
		return usecase.ProviderSession{}, toProviderError(err)
	}

	ps := usecase.ProviderSession{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    time.Duration(resp.ExpiresIn) * time.Second,
	}
	if ps.Email == "" {
		ps.Email = email
	}
	if ps.DisplayName == "" {
		ps.DisplayName = displayName
	}
	return ps, nil
}

func (p *IdentityToolkitProvider) SignIn(ctx context.Context, email, password string) (usecase.ProviderSession, error) {
	if p == nil || p.svc == nil {
		return usecase.ProviderSession{}, errors.New("identity: provider not initialized")
	}

	resp, err := p.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return usecase.ProviderSession{}, toProviderError(err)
	}

	return usecase.ProviderSession{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    time.Duration(resp.ExpiresIn) * time.Second,
	}, nil
}

// SignOut is client-side with this provider: tokens are discarded by the
// caller; there is nothing to revoke remotely.
func (p *IdentityToolkitProvider) SignOut(ctx context.Context) error {
	_ = ctx
	return nil
}

func (p *IdentityToolkitProvider) SendPasswordReset(ctx context.Context, email string) error {
	if p == nil || p.svc == nil {
		return errors.New("identity: provider not initialized")
	}

	_, err := p.svc.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return toProviderError(err)
	}
	return nil
}

// toProviderError surfaces the raw provider code for the session-domain
// mapping table; transport failures pass through untouched and are treated
// as network errors upstream.
func toProviderError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &session.ProviderError{
			ProviderCode: gerr.Message,
			Message:      fmt.Sprintf("identity toolkit status %d", gerr.Code),
		}
	}
	return err
}
