// internal/platform/di/secret_provider_sm.go
package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errSecretProviderNotConfigured = errors.New("di: secret provider not configured")

// secretProviderSM resolves API keys from Secret Manager
// (projects/<project>/secrets/<id>/versions/latest).
type secretProviderSM struct {
	sm        *secretmanager.Client
	projectID string
}

func newSecretProviderSM(sm *secretmanager.Client, projectID string) *secretProviderSM {
	return &secretProviderSM{sm: sm, projectID: projectID}
}

func (p *secretProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("secretProviderSM: secretID is empty")
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("secretProviderSM: projectID is empty")
	}

	name := "projects/" + prj + "/secrets/" + sid + "/versions/latest"
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secretProviderSM: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secretProviderSM: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
