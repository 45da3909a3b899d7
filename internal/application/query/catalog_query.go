// internal/application/query/catalog_query.go
package query

import (
	"context"
	"log"

	"tradehub/internal/domain/catalog"
	"tradehub/internal/store"
)

const productsCollection = "products"

// ImageResolver turns a stored image object path into a displayable URL.
// Optional: without it, snapshots keep the raw object path.
type ImageResolver interface {
	ResolveURL(ctx context.Context, objectPath string) (string, error)
}

// ProductFilter mirrors the storefront's listing controls: category, price
// range, sort, and limit, all applied server-side.
type ProductFilter struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string // "createdAt" | "price" | "rating"; default "createdAt"
	SortDesc  bool
	PageLimit int // default 100
}

// CatalogQuery reads the product catalog through the store manager.
type CatalogQuery struct {
	store  *store.Manager
	images ImageResolver
}

func NewCatalogQuery(m *store.Manager, images ImageResolver) *CatalogQuery {
	return &CatalogQuery{store: m, images: images}
}

// constraintsFor compiles a ProductFilter into store constraints.
func constraintsFor(f ProductFilter) []store.Constraint {
	var cs []store.Constraint
	if f.Category != "" {
		cs = append(cs, store.Where("category", store.OpEqual, f.Category))
	}
	if f.MinPrice != nil {
		cs = append(cs, store.Where("price", store.OpGreaterEqual, *f.MinPrice))
	}
	if f.MaxPrice != nil {
		cs = append(cs, store.Where("price", store.OpLessEqual, *f.MaxPrice))
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	dir := store.Asc
	if f.SortDesc {
		dir = store.Desc
	}
	cs = append(cs, store.OrderBy(sortBy, dir))

	limit := f.PageLimit
	if limit <= 0 {
		limit = 100
	}
	cs = append(cs, store.Limit(limit))
	return cs
}

// Products runs a one-time filtered catalog fetch.
func (q *CatalogQuery) Products(ctx context.Context, f ProductFilter) ([]catalog.Product, error) {
	docs, _, err := q.store.FetchMany(ctx, productsCollection, constraintsFor(f)...)
	if err != nil {
		return nil, err
	}
	return q.toProducts(ctx, docs), nil
}

// ProductsPage fetches one catalog page; pass the previous page's cursor to
// continue.
func (q *CatalogQuery) ProductsPage(ctx context.Context, f ProductFilter, pageSize int, cursor *store.Cursor) ([]catalog.Product, *store.Cursor, bool, error) {
	// Pagination supplies its own limit.
	f.PageLimit = 0
	cs := constraintsFor(f)
	page, err := q.store.Paginate(ctx, productsCollection, trimLimit(cs), pageSize, cursor)
	if err != nil {
		return nil, nil, false, err
	}
	return q.toProducts(ctx, page.Items), page.NextCursor, page.HasMore, nil
}

// ProductByID fetches a single product.
func (q *CatalogQuery) ProductByID(ctx context.Context, productID string) (catalog.Product, error) {
	doc, err := q.store.FetchOne(ctx, productsCollection, productID)
	if err != nil {
		return catalog.Product{}, err
	}
	p := catalog.FromDocument(doc.ID, doc.Data)
	q.resolveImage(ctx, &p)
	return p, nil
}

// SubscribeProduct binds fn to live updates of one product (stock/price on a
// detail page). The unsubscribe handle must be called when the owning view
// goes away.
func (q *CatalogQuery) SubscribeProduct(productID string, fn func(*catalog.Product, error)) store.Unsubscribe {
	return q.store.SubscribeOne(productsCollection, productID, func(doc *store.Document, err error) {
		if err != nil {
			fn(nil, err)
			return
		}
		p := catalog.FromDocument(doc.ID, doc.Data)
		fn(&p, nil)
	})
}

// SubscribeProducts binds fn to a live filtered catalog view; each firing
// carries the full current result set.
func (q *CatalogQuery) SubscribeProducts(f ProductFilter, fn func([]catalog.Product, error)) store.Unsubscribe {
	return q.store.SubscribeMany(productsCollection, constraintsFor(f), func(docs []store.Document, err error) {
		if err != nil {
			fn(nil, err)
			return
		}
		out := make([]catalog.Product, 0, len(docs))
		for _, d := range docs {
			out = append(out, catalog.FromDocument(d.ID, d.Data))
		}
		fn(out, nil)
	})
}

func (q *CatalogQuery) toProducts(ctx context.Context, docs []store.Document) []catalog.Product {
	out := make([]catalog.Product, 0, len(docs))
	for _, d := range docs {
		p := catalog.FromDocument(d.ID, d.Data)
		q.resolveImage(ctx, &p)
		out = append(out, p)
	}
	return out
}

// resolveImage swaps the stored object path for a signed URL, best-effort.
func (q *CatalogQuery) resolveImage(ctx context.Context, p *catalog.Product) {
	if q.images == nil || p.ImagePath == "" {
		return
	}
	url, err := q.images.ResolveURL(ctx, p.ImagePath)
	if err != nil {
		log.Printf("[catalog] image url resolve failed for %s: %v", p.ID, err)
		return
	}
	p.ImagePath = url
}

// trimLimit strips Limit constraints: Paginate owns the page size. The input
// slice is left untouched.
func trimLimit(cs []store.Constraint) []store.Constraint {
	out := make([]store.Constraint, 0, len(cs))
	for _, c := range cs {
		if !c.IsLimit() {
			out = append(out, c)
		}
	}
	return out
}
