// internal/store/port.go
package store

import "context"

// QuerySpec is what a driver receives for a collection query: the caller's
// constraints plus pagination bounds resolved by the manager.
type QuerySpec struct {
	Constraints []Constraint
	// PageLimit, when > 0, overrides any Limit constraint.
	PageLimit int
	// After, when non-nil, is a resume token previously returned by the
	// driver for the same collection/constraint set.
	After any
}

// WriteOp is one entry of a batch write.
type WriteOp struct {
	Kind       WriteKind
	Collection string
	DocID      string
	Data       map[string]any
}

type WriteKind int

const (
	WriteSet WriteKind = iota
	WriteUpdate
	WriteDelete
)

// Driver is the remote document client boundary. Implementations translate
// these calls to the managed store's SDK and surface *common.DataError.
//
// Listen callbacks are invoked from driver-owned goroutines; the manager is
// responsible for delivery ordering and post-unsubscribe suppression.
type Driver interface {
	GetDoc(ctx context.Context, collection, id string) (Document, error)
	QueryDocs(ctx context.Context, collection string, spec QuerySpec) ([]Document, any, error)

	SetDoc(ctx context.Context, collection, id string, data map[string]any) error
	UpdateDoc(ctx context.Context, collection, id string, updates map[string]any) error
	DeleteDoc(ctx context.Context, collection, id string) error
	BatchWrite(ctx context.Context, ops []WriteOp) error

	// ListenDoc pushes the current document immediately and again on every
	// change, until the returned stop function is called. A missing document
	// is delivered as (nil, not-found error).
	ListenDoc(collection, id string, fn func(*Document, error)) (stop func())

	// ListenQuery pushes the full current result set on every change.
	ListenQuery(collection string, spec QuerySpec, fn func([]Document, error)) (stop func())
}
