// internal/adapters/out/firestore/profile_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradehub/internal/domain/common"
)

const usersCollection = "users"

// ProfileRepositoryFS persists user profile documents (users/<uid>).
// Satisfies usecase.ProfileRepository.
type ProfileRepositoryFS struct {
	Client *firestore.Client
}

func NewProfileRepositoryFS(client *firestore.Client) *ProfileRepositoryFS {
	return &ProfileRepositoryFS{Client: client}
}

func (r *ProfileRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(usersCollection)
}

// Create writes the profile record issued at signup. createdAt/updatedAt are
// server-assigned so client clock skew never affects ordering.
func (r *ProfileRepositoryFS) Create(ctx context.Context, uid, email, displayName string) error {
	if r == nil || r.Client == nil {
		return errors.New("firestore client is nil")
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return common.NewDataError(common.CodeInvalidInput, "empty uid")
	}

	var name any
	if n := strings.TrimSpace(displayName); n != "" {
		name = n
	}

	_, err := r.col().Doc(uid).Set(ctx, map[string]any{
		"email":       strings.TrimSpace(email),
		"displayName": name,
		"avatar":      nil,
		"role":        "user",
		"createdAt":   firestore.ServerTimestamp,
		"updatedAt":   firestore.ServerTimestamp,
	})
	return err
}

// Update patches the named profile fields and refreshes updatedAt.
func (r *ProfileRepositoryFS) Update(ctx context.Context, uid string, updates map[string]any) error {
	if r == nil || r.Client == nil {
		return errors.New("firestore client is nil")
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return common.NewDataError(common.CodeInvalidInput, "empty uid")
	}
	if len(updates) == 0 {
		return nil
	}

	ups := make([]firestore.Update, 0, len(updates)+1)
	for k, v := range updates {
		ups = append(ups, firestore.Update{Path: k, Value: v})
	}
	ups = append(ups, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	_, err := r.col().Doc(uid).Update(ctx, ups)
	if err != nil && status.Code(err) == codes.NotFound {
		return common.NewDataError(common.CodeNotFound, err.Error())
	}
	return err
}

// Get reads a profile record.
func (r *ProfileRepositoryFS) Get(ctx context.Context, uid string) (map[string]any, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, common.NewDataError(common.CodeNotFound, "empty uid")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, common.NewDataError(common.CodeNotFound, err.Error())
		}
		return nil, err
	}
	return snap.Data(), nil
}
