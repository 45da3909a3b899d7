// internal/store/manager_test.go
package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehub/internal/domain/common"
)

// fakeDriver is an in-memory store.Driver with a controllable dataset and
// hand-pushed listener events.
type fakeDriver struct {
	mu      sync.Mutex
	docs    []Document
	failAll error

	queryCalls int

	docListeners []func(*Document, error)
	stopped      int
}

func (f *fakeDriver) GetDoc(_ context.Context, _, id string) (Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return Document{}, f.failAll
	}
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return Document{}, common.NewDataError(common.CodeNotFound, "no doc "+id)
}

// QueryDocs resumes after the token (index into docs) and honors PageLimit.
func (f *fakeDriver) QueryDocs(_ context.Context, _ string, spec QuerySpec) ([]Document, any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.failAll != nil {
		return nil, nil, f.failAll
	}

	start := 0
	if spec.After != nil {
		start = spec.After.(int) + 1
	}
	end := len(f.docs)
	if spec.PageLimit > 0 && start+spec.PageLimit < end {
		end = start + spec.PageLimit
	}
	if start >= len(f.docs) {
		return nil, nil, nil
	}

	out := append([]Document(nil), f.docs[start:end]...)
	return out, end - 1, nil
}

func (f *fakeDriver) SetDoc(context.Context, string, string, map[string]any) error    { return f.failAll }
func (f *fakeDriver) UpdateDoc(context.Context, string, string, map[string]any) error { return f.failAll }
func (f *fakeDriver) DeleteDoc(context.Context, string, string) error                 { return f.failAll }
func (f *fakeDriver) BatchWrite(context.Context, []WriteOp) error                     { return f.failAll }

func (f *fakeDriver) ListenDoc(_, _ string, fn func(*Document, error)) func() {
	f.mu.Lock()
	f.docListeners = append(f.docListeners, fn)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.stopped++
		f.mu.Unlock()
	}
}

func (f *fakeDriver) ListenQuery(_ string, _ QuerySpec, fn func([]Document, error)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(append([]Document(nil), f.docs...), nil)
	return func() {}
}

// pushDoc simulates a remote change delivered to all doc listeners.
func (f *fakeDriver) pushDoc(doc *Document, err error) {
	f.mu.Lock()
	fns := make([]func(*Document, error), len(f.docListeners))
	copy(fns, f.docListeners)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(doc, err)
	}
}

func dataset(n int) []Document {
	out := make([]Document, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Document{ID: fmt.Sprintf("doc-%03d", i), Data: map[string]any{"n": int64(i)}})
	}
	return out
}

func TestFetchOneMapsErrors(t *testing.T) {
	m := NewManager(&fakeDriver{docs: dataset(1)})

	doc, err := m.FetchOne(context.Background(), "products", "doc-000")
	require.NoError(t, err)
	assert.Equal(t, "doc-000", doc.ID)

	_, err = m.FetchOne(context.Background(), "products", "missing")
	assert.True(t, common.IsCode(err, common.CodeNotFound))

	_, err = m.FetchOne(context.Background(), "", "")
	assert.True(t, common.IsCode(err, common.CodeInvalidInput))
}

// Walking pages with the returned cursor must eventually reach
// hasMore=false, and the concatenation must equal the dataset in order with
// no duplicates and no omissions.
func TestPaginateWalksFullDataset(t *testing.T) {
	const total, pageSize = 23, 5
	m := NewManager(&fakeDriver{docs: dataset(total)})
	cs := []Constraint{OrderBy("n", Asc)}

	var (
		got    []Document
		cursor *Cursor
		pages  int
	)
	for {
		page, err := m.Paginate(context.Background(), "products", cs, pageSize, cursor)
		require.NoError(t, err)
		got = append(got, page.Items...)
		pages++
		require.Less(t, pages, 20, "pagination did not terminate")

		if !page.HasMore {
			break
		}
		require.NotNil(t, page.NextCursor)
		cursor = page.NextCursor
	}

	require.Len(t, got, total)
	for i, d := range got {
		assert.Equal(t, fmt.Sprintf("doc-%03d", i), d.ID)
	}
	assert.Equal(t, 5, pages) // 5+5+5+5+3
}

// When the remaining count equals the page size exactly, the approximation
// reports one extra page; the follow-up page is empty with hasMore=false.
func TestPaginateExactMultipleReportsExtraPage(t *testing.T) {
	const total, pageSize = 10, 5
	m := NewManager(&fakeDriver{docs: dataset(total)})
	cs := []Constraint{OrderBy("n", Asc)}

	page1, err := m.Paginate(context.Background(), "products", cs, pageSize, nil)
	require.NoError(t, err)
	assert.True(t, page1.HasMore)

	page2, err := m.Paginate(context.Background(), "products", cs, pageSize, page1.NextCursor)
	require.NoError(t, err)
	assert.True(t, page2.HasMore, "full final page still reports more")

	page3, err := m.Paginate(context.Background(), "products", cs, pageSize, page2.NextCursor)
	require.NoError(t, err)
	assert.Empty(t, page3.Items)
	assert.False(t, page3.HasMore)
}

func TestPaginateRejectsForeignCursor(t *testing.T) {
	m := NewManager(&fakeDriver{docs: dataset(8)})

	page, err := m.Paginate(context.Background(), "products", []Constraint{OrderBy("n", Asc)}, 3, nil)
	require.NoError(t, err)
	require.NotNil(t, page.NextCursor)

	// different constraint set
	_, err = m.Paginate(context.Background(), "products", []Constraint{OrderBy("price", Desc)}, 3, page.NextCursor)
	assert.True(t, common.IsCode(err, common.CodeInvalidInput))

	// different collection
	_, err = m.Paginate(context.Background(), "orders", []Constraint{OrderBy("n", Asc)}, 3, page.NextCursor)
	assert.True(t, common.IsCode(err, common.CodeInvalidInput))

	// where-clause order does not matter
	a := []Constraint{Where("a", OpEqual, 1), Where("b", OpEqual, 2), OrderBy("n", Asc)}
	b := []Constraint{Where("b", OpEqual, 2), Where("a", OpEqual, 1), OrderBy("n", Asc)}
	pa, err := m.Paginate(context.Background(), "products", a, 3, nil)
	require.NoError(t, err)
	_, err = m.Paginate(context.Background(), "products", b, 3, pa.NextCursor)
	assert.NoError(t, err)
}

func TestFetchManyReturnsCursor(t *testing.T) {
	f := &fakeDriver{docs: dataset(4)}
	m := NewManager(f)

	docs, cur, err := m.FetchMany(context.Background(), "products", OrderBy("n", Asc))
	require.NoError(t, err)
	assert.Len(t, docs, 4)
	require.NotNil(t, cur)

	// cursor continues where the fetch stopped
	page, err := m.Paginate(context.Background(), "products", []Constraint{OrderBy("n", Asc)}, 2, cur)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

// After Unsubscribe returns, a change pushed by the backend must not reach
// the callback, and calling Unsubscribe again is safe.
func TestSubscribeOneNoCallbackAfterUnsubscribe(t *testing.T) {
	f := &fakeDriver{}
	m := NewManager(f)

	var mu sync.Mutex
	calls := 0
	unsub := m.SubscribeOne("products", "doc-001", func(_ *Document, _ error) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	f.pushDoc(&Document{ID: "doc-001"}, nil)
	f.pushDoc(&Document{ID: "doc-001"}, nil)

	mu.Lock()
	before := calls
	mu.Unlock()
	assert.Equal(t, 2, before)

	unsub()
	unsub() // idempotent

	f.pushDoc(&Document{ID: "doc-001"}, nil)
	f.pushDoc(nil, common.NewDataError(common.CodeNetworkError, "late failure"))

	mu.Lock()
	after := calls
	mu.Unlock()
	assert.Equal(t, before, after, "callback fired after unsubscribe")

	f.mu.Lock()
	assert.Equal(t, 1, f.stopped, "driver teardown must run exactly once")
	f.mu.Unlock()
}

// A one-shot listener tears itself down from inside its own callback; the
// delivery must return and later changes must not fire.
func TestUnsubscribeFromWithinCallback(t *testing.T) {
	f := &fakeDriver{}
	m := NewManager(f)

	calls := 0
	var unsub Unsubscribe
	unsub = m.SubscribeOne("products", "doc-001", func(_ *Document, _ error) {
		calls++
		unsub()
	})

	done := make(chan struct{})
	go func() {
		f.pushDoc(&Document{ID: "doc-001"}, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery did not return after in-callback unsubscribe")
	}

	f.pushDoc(&Document{ID: "doc-001"}, nil)
	assert.Equal(t, 1, calls)

	f.mu.Lock()
	assert.Equal(t, 1, f.stopped)
	f.mu.Unlock()
}

// A failure on one subscription reaches only that subscription's callback.
func TestSubscriptionFailuresAreIndependent(t *testing.T) {
	f := &fakeDriver{}
	m := NewManager(f)

	var aErrs, bCalls int
	ua := m.SubscribeOne("products", "a", func(_ *Document, err error) {
		if err != nil {
			aErrs++
			assert.Equal(t, common.CodeNetworkError, common.CodeOf(err))
		}
	})
	defer ua()

	// only listener a is registered when the failure is pushed
	f.pushDoc(nil, common.NewDataError(common.CodeNetworkError, "boom"))

	ub := m.SubscribeOne("products", "b", func(_ *Document, _ error) { bCalls++ })
	defer ub()

	assert.Equal(t, 1, aErrs)
	assert.Zero(t, bCalls)
}

func TestSubscribeManyDeliversFullResultSet(t *testing.T) {
	f := &fakeDriver{docs: dataset(3)}
	m := NewManager(f)

	var got []Document
	unsub := m.SubscribeMany("products", []Constraint{OrderBy("n", Asc)}, func(docs []Document, err error) {
		require.NoError(t, err)
		got = docs
	})
	defer unsub()

	// fake driver fires synchronously at bind time with the current set
	require.Len(t, got, 3)
	assert.Equal(t, "doc-000", got[0].ID)
}
