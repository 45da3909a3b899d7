// internal/platform/di/container.go
package di

import (
	"context"
	"log"

	"tradehub/internal/adapters/out/firestore"
	"tradehub/internal/adapters/out/gcs"
	"tradehub/internal/adapters/out/identity"
	"tradehub/internal/adapters/out/mail"
	"tradehub/internal/application/query"
	"tradehub/internal/application/usecase"
	"tradehub/internal/store"
)

// Container wires the storefront data-access layer: the store manager,
// catalog queries, cart/wishlist reducers, and the auth controller, all over
// the shared Infra clients.
type Container struct {
	Infra *Infra

	Store    *store.Manager
	Catalog  *query.CatalogQuery
	Sessions *usecase.SessionStore
	Cart     *usecase.CartUsecase
	Wishlist *usecase.WishlistUsecase
	Auth     *usecase.AuthUsecase
}

// NewContainer builds the full wiring. Optional infra (Firebase Auth, GCS,
// SendGrid, identity API key) degrades feature-by-feature, never the whole
// container.
func NewContainer(ctx context.Context, inf *Infra) (*Container, error) {
	driver := firestore.NewDocumentStoreFS(inf.Firestore)
	mgr := store.NewManager(driver)

	var images query.ImageResolver
	if inf.GCS != nil && inf.Config.ProductImageBucket != "" {
		images = gcs.NewProductImageRepositoryGCS(inf.GCS, inf.Config.ProductImageBucket)
	}
	catalog := query.NewCatalogQuery(mgr, images)

	sessions := usecase.NewSessionStore()
	cartUC := usecase.NewCartUsecase(inf.LocalStore, usecase.NopSync{}, sessions)
	wishUC := usecase.NewWishlistUsecase(inf.LocalStore, usecase.NopSync{}, sessions, cartUC)

	var authUC *usecase.AuthUsecase
	if inf.IdentityAPIKey != "" {
		provider, err := identity.NewIdentityToolkitProvider(ctx, inf.IdentityAPIKey)
		if err != nil {
			return nil, err
		}

		var verifier usecase.TokenVerifier
		if inf.FirebaseAuth != nil {
			verifier = NewTokenVerifierAdapter(inf.FirebaseAuth)
		}

		var mailer usecase.ResetMailer
		if inf.FirebaseAuth != nil && inf.SendGridAPIKey != "" && inf.Config.SendGridFrom != "" {
			mailer = NewResetMailerAdapter(
				inf.FirebaseAuth,
				mail.NewSendGridClient(inf.SendGridAPIKey, inf.Config.SendGridFrom),
			)
			log.Printf("[di] custom reset mail path enabled (sendgrid)")
		}

		profiles := firestore.NewProfileRepositoryFS(inf.Firestore)
		authUC = usecase.NewAuthUsecase(provider, profiles, verifier, mailer, sessions, inf.LocalStore)
	} else {
		log.Printf("[di] identity api key missing: auth operations disabled")
	}

	return &Container{
		Infra:    inf,
		Store:    mgr,
		Catalog:  catalog,
		Sessions: sessions,
		Cart:     cartUC,
		Wishlist: wishUC,
		Auth:     authUC,
	}, nil
}

// Close releases infra clients.
func (c *Container) Close() {
	if c == nil {
		return
	}
	c.Infra.Close()
}
