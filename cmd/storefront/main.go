// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradehub/internal/application/query"
	"tradehub/internal/application/usecase"
	"tradehub/internal/domain/catalog"
	"tradehub/internal/platform/di"
)

// Smoke/bootstrap entry point for the data-access layer: wires the
// container, restores the session, subscribes to the catalog, and prints
// what arrives. The real consumer is a UI layer embedding the packages.
func main() {
	ctx := context.Background()

	inf, err := di.NewInfra(ctx)
	if err != nil {
		log.Fatalf("[boot] infra init failed: %v", err)
	}

	c, err := di.NewContainer(ctx, inf)
	if err != nil {
		inf.Close()
		log.Fatalf("[boot] container init failed: %v", err)
	}
	defer c.Close()

	if c.Auth != nil {
		c.Auth.Restore(ctx)
	}

	unsubSession := c.Sessions.Subscribe(func(st usecase.SessionState) {
		switch {
		case !st.Known:
			log.Printf("[session] resolving…")
		case st.Session == nil:
			log.Printf("[session] signed out")
		default:
			log.Printf("[session] signed in uid=%s email=%s", st.Session.ID, st.Session.Email)
		}
	})
	defer unsubSession()

	// First catalog page + a live view of in-stock products.
	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	products, _, hasMore, err := c.Catalog.ProductsPage(fetchCtx, query.ProductFilter{SortBy: "createdAt", SortDesc: true}, 20, nil)
	cancel()
	if err != nil {
		log.Printf("[catalog] first page failed: %v", err)
	} else {
		log.Printf("[catalog] first page: %d products (hasMore=%v)", len(products), hasMore)
	}

	unsubCatalog := c.Catalog.SubscribeProducts(query.ProductFilter{SortBy: "createdAt", SortDesc: true, PageLimit: 20}, func(ps []catalog.Product, err error) {
		if err != nil {
			log.Printf("[catalog] live view error: %v", err)
			return
		}
		log.Printf("[catalog] live view: %d products", len(ps))
	})
	defer unsubCatalog()

	log.Printf("[boot] cart: %d items, total=%.2f", c.Cart.Count(), c.Cart.Total())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Printf("[boot] shutting down")
}
