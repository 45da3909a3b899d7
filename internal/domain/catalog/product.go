// internal/domain/catalog/product.go
package catalog

import (
	"strings"
)

// Product is the full product document as stored in the "products" collection.
type Product struct {
	ID          string  `json:"id" firestore:"id"`
	Name        string  `json:"name" firestore:"name"`
	Description string  `json:"description" firestore:"description"`
	Price       float64 `json:"price" firestore:"price"`
	Category    string  `json:"category" firestore:"category"`
	ImagePath   string  `json:"imagePath" firestore:"imagePath"`
	Rating      float64 `json:"rating" firestore:"rating"`
	Seller      string  `json:"seller" firestore:"seller"`
	InStock     bool    `json:"inStock" firestore:"inStock"`
}

// ProductSnapshot is the denormalized copy of product display fields carried
// by cart line items and wishlist entries. It is decoupled from the live
// product record: price/name changes after the copy do not rewrite it.
type ProductSnapshot struct {
	ProductID string  `json:"productId" firestore:"productId"`
	Name      string  `json:"name" firestore:"name"`
	Price     float64 `json:"price" firestore:"price"`
	Category  string  `json:"category" firestore:"category"`
	ImageURL  string  `json:"imageUrl" firestore:"imageUrl"`
}

// Snapshot captures the display fields of p.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		ImageURL:  p.ImagePath,
	}
}

// FromDocument maps a raw document (id + field map) into a Product.
// Unknown fields are ignored; missing fields keep zero values.
func FromDocument(id string, data map[string]any) Product {
	p := Product{ID: strings.TrimSpace(id)}
	if data == nil {
		return p
	}
	p.Name, _ = data["name"].(string)
	p.Description, _ = data["description"].(string)
	p.Category, _ = data["category"].(string)
	p.ImagePath, _ = data["imagePath"].(string)
	p.Seller, _ = data["seller"].(string)
	p.Price = toFloat(data["price"])
	p.Rating = toFloat(data["rating"])
	p.InStock, _ = data["inStock"].(bool)
	return p
}

// Firestore numbers decode as int64 or float64 depending on the stored value.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
