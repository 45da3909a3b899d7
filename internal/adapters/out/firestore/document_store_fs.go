// internal/adapters/out/firestore/document_store_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradehub/internal/domain/common"
	"tradehub/internal/store"
)

// DocumentStoreFS is the Firestore implementation of store.Driver.
type DocumentStoreFS struct {
	Client *firestore.Client
}

func NewDocumentStoreFS(client *firestore.Client) *DocumentStoreFS {
	return &DocumentStoreFS{Client: client}
}

func (s *DocumentStoreFS) col(name string) *firestore.CollectionRef {
	return s.Client.Collection(strings.TrimSpace(name))
}

// ========================
// store.Driver impl
// ========================

func (s *DocumentStoreFS) GetDoc(ctx context.Context, collection, id string) (store.Document, error) {
	if s == nil || s.Client == nil {
		return store.Document{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return store.Document{}, common.NewDataError(common.CodeNotFound, "empty document id")
	}

	snap, err := s.col(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return store.Document{}, common.NewDataError(common.CodeNotFound, err.Error())
		}
		return store.Document{}, err
	}

	return snapToDocument(snap), nil
}

func (s *DocumentStoreFS) QueryDocs(ctx context.Context, collection string, spec store.QuerySpec) ([]store.Document, any, error) {
	if s == nil || s.Client == nil {
		return nil, nil, errors.New("firestore client is nil")
	}

	q, err := s.buildQuery(collection, spec)
	if err != nil {
		return nil, nil, err
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var (
		docs []store.Document
		last *firestore.DocumentSnapshot
	)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, snapToDocument(snap))
		last = snap
	}

	// The last snapshot is the resume token: StartAfter with a document
	// snapshot positions the next page regardless of the sort key set.
	var token any
	if last != nil {
		token = last
	}
	return docs, token, nil
}

func (s *DocumentStoreFS) SetDoc(ctx context.Context, collection, id string, data map[string]any) error {
	if s == nil || s.Client == nil {
		return errors.New("firestore client is nil")
	}

	payload := make(map[string]any, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	// Server-assigned timestamps: client clocks never decide ordering.
	payload["createdAt"] = firestore.ServerTimestamp
	payload["updatedAt"] = firestore.ServerTimestamp

	ref := s.docRef(collection, id)
	_, err := ref.Set(ctx, payload)
	return err
}

func (s *DocumentStoreFS) UpdateDoc(ctx context.Context, collection, id string, updates map[string]any) error {
	if s == nil || s.Client == nil {
		return errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return common.NewDataError(common.CodeInvalidInput, "empty document id")
	}

	ups := make([]firestore.Update, 0, len(updates)+1)
	for k, v := range updates {
		ups = append(ups, firestore.Update{Path: k, Value: v})
	}
	ups = append(ups, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	_, err := s.col(collection).Doc(id).Update(ctx, ups)
	return err
}

func (s *DocumentStoreFS) DeleteDoc(ctx context.Context, collection, id string) error {
	if s == nil || s.Client == nil {
		return errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return common.NewDataError(common.CodeInvalidInput, "empty document id")
	}

	// Firestore delete is idempotent; deleting an absent doc is not an error.
	_, err := s.col(collection).Doc(id).Delete(ctx)
	return err
}

func (s *DocumentStoreFS) BatchWrite(ctx context.Context, ops []store.WriteOp) error {
	if s == nil || s.Client == nil {
		return errors.New("firestore client is nil")
	}

	b := s.Client.Batch()
	for _, op := range ops {
		ref := s.docRef(op.Collection, op.DocID)
		switch op.Kind {
		case store.WriteSet:
			payload := make(map[string]any, len(op.Data)+2)
			for k, v := range op.Data {
				payload[k] = v
			}
			payload["createdAt"] = firestore.ServerTimestamp
			payload["updatedAt"] = firestore.ServerTimestamp
			b.Set(ref, payload)
		case store.WriteUpdate:
			ups := make([]firestore.Update, 0, len(op.Data)+1)
			for k, v := range op.Data {
				ups = append(ups, firestore.Update{Path: k, Value: v})
			}
			ups = append(ups, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
			b.Update(ref, ups)
		case store.WriteDelete:
			b.Delete(ref)
		}
	}
	_, err := b.Commit(ctx)
	return err
}

func (s *DocumentStoreFS) ListenDoc(collection, id string, fn func(*store.Document, error)) func() {
	if s == nil || s.Client == nil || fn == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	it := s.col(collection).Doc(strings.TrimSpace(id)).Snapshots(ctx)

	go func() {
		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				fn(nil, err)
				return
			}
			if !snap.Exists() {
				fn(nil, common.NewDataError(common.CodeNotFound, "document not found"))
				continue
			}
			doc := snapToDocument(snap)
			fn(&doc, nil)
		}
	}()

	return func() {
		cancel()
		it.Stop()
	}
}

func (s *DocumentStoreFS) ListenQuery(collection string, spec store.QuerySpec, fn func([]store.Document, error)) func() {
	if s == nil || s.Client == nil || fn == nil {
		return func() {}
	}

	q, err := s.buildQuery(collection, spec)
	if err != nil {
		fn(nil, err)
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	it := q.Snapshots(ctx)

	go func() {
		for {
			qs, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				fn(nil, err)
				return
			}

			var docs []store.Document
			di := qs.Documents
			for {
				snap, err := di.Next()
				if errors.Is(err, iterator.Done) {
					break
				}
				if err != nil {
					fn(nil, err)
					return
				}
				docs = append(docs, snapToDocument(snap))
			}
			fn(docs, nil)
		}
	}()

	return func() {
		cancel()
		it.Stop()
	}
}

// ========================
// helpers
// ========================

func (s *DocumentStoreFS) docRef(collection, id string) *firestore.DocumentRef {
	c := s.col(collection)
	if strings.TrimSpace(id) == "" {
		return c.NewDoc()
	}
	return c.Doc(strings.TrimSpace(id))
}

// buildQuery compiles a QuerySpec into a firestore.Query.
func (s *DocumentStoreFS) buildQuery(collection string, spec store.QuerySpec) (firestore.Query, error) {
	q := s.col(collection).Query

	limit := 0
	for _, c := range spec.Constraints {
		switch {
		case c.IsWhere():
			q = q.Where(c.Field, string(c.Op), c.Value)
		case c.IsOrderBy():
			dir := firestore.Asc
			if c.Dir == store.Desc {
				dir = firestore.Desc
			}
			q = q.OrderBy(c.Field, dir)
		case c.IsLimit():
			limit = c.N
		}
	}
	if spec.PageLimit > 0 {
		limit = spec.PageLimit
	}

	if spec.After != nil {
		snap, ok := spec.After.(*firestore.DocumentSnapshot)
		if !ok {
			return firestore.Query{}, common.NewDataError(common.CodeInvalidInput, "cursor token is not a firestore snapshot")
		}
		q = q.StartAfter(snap)
	}

	if limit > 0 {
		q = q.Limit(limit)
	}
	return q, nil
}

func snapToDocument(snap *firestore.DocumentSnapshot) store.Document {
	return store.Document{
		ID:   snap.Ref.ID,
		Data: snap.Data(),
	}
}
