// internal/infra/config/config.go
package config

import "os"

// Config holds environment-resolved settings for the storefront data layer.
// The core contracts never read env vars directly; everything funnels
// through here once at bootstrap.
type Config struct {
	GCPCreds                 string
	ProjectID                string
	FirestoreCredentialsFile string

	// Firebase web API key for Identity Toolkit calls. When empty,
	// IdentityAPIKeySecret names a Secret Manager secret holding it.
	IdentityAPIKey       string
	IdentityAPIKeySecret string

	// SendGrid (optional custom password-reset mail path).
	SendGridAPIKey       string
	SendGridAPIKeySecret string
	SendGridFrom         string

	// Bucket holding product image objects (optional).
	ProductImageBucket string

	// Local persistent store (sqlite file).
	LocalStorePath string
}

// Load reads env vars and returns the Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "")

	return &Config{
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ProjectID:                getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		IdentityAPIKey:       os.Getenv("FIREBASE_WEB_API_KEY"),
		IdentityAPIKeySecret: getenvDefault("FIREBASE_WEB_API_KEY_SECRET", "firebase-web-api-key"),

		SendGridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		SendGridAPIKeySecret: getenvDefault("SENDGRID_API_KEY_SECRET", "sendgrid-api-key"),
		SendGridFrom:         os.Getenv("SENDGRID_FROM"),

		ProductImageBucket: os.Getenv("PRODUCT_IMAGE_BUCKET"),

		LocalStorePath: getenvDefault("LOCAL_STORE_PATH", "tradehub.db"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
