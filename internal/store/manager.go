// internal/store/manager.go
package store

import (
	"context"
	"log"

	"tradehub/internal/domain/common"
)

// Manager is the uniform interface over one-time fetch, real-time
// subscription, and cursor pagination against the remote document client.
//
// Failure policy: fetches fail fast with a *common.DataError and are never
// retried here; retry, if any, belongs to the caller. Each subscription is
// independent: a failure is delivered as (nil, err) to that subscription's
// callback only.
type Manager struct {
	driver Driver
}

func NewManager(driver Driver) *Manager {
	return &Manager{driver: driver}
}

// FetchOne reads a single document. One round trip, no caching.
func (m *Manager) FetchOne(ctx context.Context, collection, id string) (Document, error) {
	if m == nil || m.driver == nil {
		return Document{}, common.NewDataError(common.CodeUnknown, "store manager not initialized")
	}
	if collection == "" || id == "" {
		return Document{}, common.NewDataError(common.CodeInvalidInput, "collection and id are required")
	}
	doc, err := m.driver.GetDoc(ctx, collection, id)
	if err != nil {
		return Document{}, common.FromStoreError(err)
	}
	return doc, nil
}

// FetchMany runs a one-time query and returns the result set plus a cursor
// positioned after the last document, for follow-up pagination.
func (m *Manager) FetchMany(ctx context.Context, collection string, cs ...Constraint) ([]Document, *Cursor, error) {
	if m == nil || m.driver == nil {
		return nil, nil, common.NewDataError(common.CodeUnknown, "store manager not initialized")
	}
	if collection == "" {
		return nil, nil, common.NewDataError(common.CodeInvalidInput, "collection is required")
	}
	docs, token, err := m.driver.QueryDocs(ctx, collection, QuerySpec{Constraints: cs})
	if err != nil {
		return nil, nil, common.FromStoreError(err)
	}
	var cur *Cursor
	if token != nil {
		cur = &Cursor{
			collection:  collection,
			fingerprint: fingerprintOf(collection, cs),
			token:       token,
		}
	}
	return docs, cur, nil
}

// Paginate fetches one page of up to pageSize documents. Pass cursor = nil
// for the first page and the returned NextCursor afterwards. A cursor issued
// under a different collection or constraint set is rejected.
func (m *Manager) Paginate(ctx context.Context, collection string, cs []Constraint, pageSize int, cursor *Cursor) (Page, error) {
	if m == nil || m.driver == nil {
		return Page{}, common.NewDataError(common.CodeUnknown, "store manager not initialized")
	}
	if collection == "" || pageSize <= 0 {
		return Page{}, common.NewDataError(common.CodeInvalidInput, "collection and positive pageSize are required")
	}

	fp := fingerprintOf(collection, cs)
	spec := QuerySpec{Constraints: cs, PageLimit: pageSize}
	if cursor != nil {
		if cursor.collection != collection || cursor.fingerprint != fp {
			return Page{}, common.NewDataError(common.CodeInvalidInput,
				"cursor was issued for a different collection or constraint set")
		}
		spec.After = cursor.token
	}

	docs, token, err := m.driver.QueryDocs(ctx, collection, spec)
	if err != nil {
		return Page{}, common.FromStoreError(err)
	}

	page := Page{Items: docs, HasMore: len(docs) == pageSize}
	if token != nil && len(docs) > 0 {
		page.NextCursor = &Cursor{collection: collection, fingerprint: fp, token: token}
	}
	return page, nil
}

// SubscribeOne binds fn to a single document. fn fires once immediately with
// the current state and again on every remote change until the returned
// Unsubscribe is called.
func (m *Manager) SubscribeOne(collection, id string, fn func(*Document, error)) Unsubscribe {
	if m == nil || m.driver == nil || fn == nil {
		log.Printf("[store] SubscribeOne(%s/%s): manager not initialized", collection, id)
		return func() {}
	}
	sub := newSubscription(nil)
	sub.stop = m.driver.ListenDoc(collection, id, func(doc *Document, err error) {
		sub.deliver(func() {
			if err != nil {
				fn(nil, common.FromStoreError(err))
				return
			}
			fn(doc, nil)
		})
	})
	return sub.unsubscribe
}

// SubscribeMany binds fn to a filtered/sorted collection. Every firing
// delivers the full current result set (not a diff), server-sorted.
func (m *Manager) SubscribeMany(collection string, cs []Constraint, fn func([]Document, error)) Unsubscribe {
	if m == nil || m.driver == nil || fn == nil {
		log.Printf("[store] SubscribeMany(%s): manager not initialized", collection)
		return func() {}
	}
	sub := newSubscription(nil)
	sub.stop = m.driver.ListenQuery(collection, QuerySpec{Constraints: cs}, func(docs []Document, err error) {
		sub.deliver(func() {
			if err != nil {
				fn(nil, common.FromStoreError(err))
				return
			}
			fn(docs, nil)
		})
	})
	return sub.unsubscribe
}

// CreateDocument writes a document with server-assigned created/updated
// timestamps. An empty id lets the store mint one.
func (m *Manager) CreateDocument(ctx context.Context, collection, id string, data map[string]any) error {
	if m == nil || m.driver == nil {
		return common.NewDataError(common.CodeUnknown, "store manager not initialized")
	}
	if collection == "" {
		return common.NewDataError(common.CodeInvalidInput, "collection is required")
	}
	if err := m.driver.SetDoc(ctx, collection, id, data); err != nil {
		return common.FromStoreError(err)
	}
	return nil
}

// UpdateDocument patches the named fields only; updatedAt is refreshed
// server-side by the driver.
func (m *Manager) UpdateDocument(ctx context.Context, collection, id string, updates map[string]any) error {
	if m == nil || m.driver == nil {
		return common.NewDataError(common.CodeUnknown, "store manager not initialized")
	}
	if collection == "" || id == "" {
		return common.NewDataError(common.CodeInvalidInput, "collection and id are required")
	}
	if err := m.driver.UpdateDoc(ctx, collection, id, updates); err != nil {
		return common.FromStoreError(err)
	}
	return nil
}

// DeleteDocument removes a document. Deleting an absent document is not an
// error at the store boundary.
func (m *Manager) DeleteDocument(ctx context.Context, collection, id string) error {
	if m == nil || m.driver == nil {
		return common.NewDataError(common.CodeUnknown, "store manager not initialized")
	}
	if collection == "" || id == "" {
		return common.NewDataError(common.CodeInvalidInput, "collection and id are required")
	}
	if err := m.driver.DeleteDoc(ctx, collection, id); err != nil {
		return common.FromStoreError(err)
	}
	return nil
}

// BatchWrite applies a set of writes atomically.
func (m *Manager) BatchWrite(ctx context.Context, ops []WriteOp) error {
	if m == nil || m.driver == nil {
		return common.NewDataError(common.CodeUnknown, "store manager not initialized")
	}
	if len(ops) == 0 {
		return nil
	}
	if err := m.driver.BatchWrite(ctx, ops); err != nil {
		return common.FromStoreError(err)
	}
	return nil
}
