// Package resource provides API resource transformers that control exactly
// what JSON shape each model is exposed as.
//
// Define a transform function per model:
//
//	func ProductResource(p models.Product) resource.Map {
//	    return resource.Map{
//	        "id":    p.ID,
//	        "name":  p.Name,
//	        "price": p.Price,
//	    }
//	}
//
// Respond:
//
//	resource.One(w, product, ProductResource)
//	resource.Many(w, products, ProductResource)
//	resource.Page(w, products, ProductResource, pagination)
package resource

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// Map is the output shape of a transformer.
type Map = map[string]interface{}

// Transformer converts one model into its API representation.
type Transformer[T any] func(T) Map

// Transform applies t to every element of items.
func Transform[T any](items []T, t Transformer[T]) []Map {
	out := collection.Map(items, func(v T) Map { return t(v) })
	if out == nil {
		out = []Map{}
	}
	return out
}

// One writes a single transformed model in the standard success envelope.
func One[T any](w http.ResponseWriter, item T, t Transformer[T]) {
	response.Success(w, t(item))
}

// Many writes a transformed slice in the standard success envelope.
func Many[T any](w http.ResponseWriter, items []T, t Transformer[T]) {
	response.Success(w, Transform(items, t))
}

// Page writes a transformed slice with pagination metadata.
func Page[T any](w http.ResponseWriter, items []T, t Transformer[T], p orm.Pagination) {
	response.Paginated(w, Transform(items, t), p)
}
