// internal/platform/di/infra.go
package di

import (
	"context"
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"tradehub/internal/adapters/out/localstore"
	appcfg "tradehub/internal/infra/config"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/FirebaseAuth/GCS/SecretManager)
// - owns the local persistent store (sqlite)
// - owns env/config-resolved runtime settings
//
// Firestore and the local store are strict (return error); Firebase Auth,
// Secret Manager, and GCS are best-effort (warn + continue) so the catalog
// and cart keep working when auth or images are unavailable.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	Firestore     *firestore.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	GCS           *storage.Client
	SecretManager *secretmanager.Client
	LocalStore    *localstore.SQLiteStore

	// Resolved secrets
	IdentityAPIKey string
	SendGridAPIKey string
}

// NewInfra initializes shared infra.
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("di.infra: config is nil")
	}

	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("di.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: projectID,
	}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[di.infra] Using credentials file for GCP clients")
	} else {
		log.Printf("[di.infra] Using Application Default Credentials")
	}

	// 1) Strict: Firestore
	fs, err := firestore.NewClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, errors.New("di.infra: firestore init failed: " + err.Error())
	}
	inf.Firestore = fs

	// 2) Strict: local store
	ls, err := localstore.NewSQLiteStore(cfg.LocalStorePath)
	if err != nil {
		fs.Close()
		return nil, errors.New("di.infra: local store init failed: " + err.Error())
	}
	inf.LocalStore = ls

	// 3) Best-effort: Firebase app + Auth (session restore, reset links)
	{
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, clientOpts...)
		if err != nil {
			log.Printf("[di.infra] firebase app unavailable (session restore disabled): %v", err)
		} else {
			inf.FirebaseApp = app
			if ac, err := app.Auth(ctx); err != nil {
				log.Printf("[di.infra] firebase auth unavailable (session restore disabled): %v", err)
			} else {
				inf.FirebaseAuth = ac
			}
		}
	}

	// 4) Best-effort: Secret Manager (API keys not provided via env)
	{
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di.infra] secret manager unavailable: %v", err)
		} else {
			inf.SecretManager = sm
		}
	}

	// 5) Best-effort: GCS (product image signed URLs)
	{
		gcs, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[di.infra] gcs unavailable (image urls unresolved): %v", err)
		} else {
			inf.GCS = gcs
		}
	}

	inf.resolveSecrets(ctx)

	return inf, nil
}

// resolveSecrets fills IdentityAPIKey / SendGridAPIKey from env first, then
// Secret Manager.
func (inf *Infra) resolveSecrets(ctx context.Context) {
	sp := newSecretProviderSM(inf.SecretManager, inf.ProjectID)

	inf.IdentityAPIKey = strings.TrimSpace(inf.Config.IdentityAPIKey)
	if inf.IdentityAPIKey == "" {
		if v, err := sp.Get(ctx, inf.Config.IdentityAPIKeySecret); err != nil {
			log.Printf("[di.infra] identity api key unresolved (auth disabled): %v", err)
		} else {
			inf.IdentityAPIKey = v
		}
	}

	inf.SendGridAPIKey = strings.TrimSpace(inf.Config.SendGridAPIKey)
	if inf.SendGridAPIKey == "" && inf.Config.SendGridFrom != "" {
		if v, err := sp.Get(ctx, inf.Config.SendGridAPIKeySecret); err != nil {
			log.Printf("[di.infra] sendgrid key unresolved (provider reset mail kept): %v", err)
		} else {
			inf.SendGridAPIKey = v
		}
	}
}

// Close releases owned clients.
func (inf *Infra) Close() {
	if inf == nil {
		return
	}
	if inf.LocalStore != nil {
		if err := inf.LocalStore.Close(); err != nil {
			log.Printf("[di.infra] local store close: %v", err)
		}
	}
	if inf.SecretManager != nil {
		if err := inf.SecretManager.Close(); err != nil {
			log.Printf("[di.infra] secret manager close: %v", err)
		}
	}
	if inf.GCS != nil {
		if err := inf.GCS.Close(); err != nil {
			log.Printf("[di.infra] gcs close: %v", err)
		}
	}
	if inf.Firestore != nil {
		if err := inf.Firestore.Close(); err != nil {
			log.Printf("[di.infra] firestore close: %v", err)
		}
	}
}
