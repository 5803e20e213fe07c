// Package graphql exposes a read-only GraphQL view of the catalog and the
// caller's orders at /graphql. Mutations stay on the REST surface.
package graphql

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

var (
	schemaOnce sync.Once
	schema     graphql.Schema
	schemaErr  error
)

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL queries. Mount behind the auth middleware so
// resolvers can read the caller's identity from the request context.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := loadSchema()
		if err != nil {
			response.ServerError(w, "")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         s,
			Context:        r.Context(),
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}

func loadSchema() (graphql.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = buildSchema()
	})
	return schema, schemaErr
}

func buildSchema() (graphql.Schema, error) {
	// id lives on the embedded base model, which the default resolver does
	// not reach into, so it gets an explicit resolver.
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if product, ok := p.Source.(models.Product); ok {
						return product.ID, nil
					}
					return nil, nil
				},
			},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Float},
			"stock":       &graphql.Field{Type: graphql.Int},
			"is_active":   &graphql.Field{Type: graphql.Boolean},
			"image_url":   &graphql.Field{Type: graphql.String},
		},
	})

	orderItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: graphql.Fields{
			"product_id": &graphql.Field{Type: graphql.Int},
			"quantity":   &graphql.Field{Type: graphql.Int},
			"price":      &graphql.Field{Type: graphql.Float},
			"product":    &graphql.Field{Type: productType},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if order, ok := p.Source.(models.Order); ok {
						return order.ID, nil
					}
					return nil, nil
				},
			},
			"order_number": &graphql.Field{Type: graphql.String},
			"total":        &graphql.Field{Type: graphql.Float},
			"status":       &graphql.Field{Type: graphql.String},
			"address":      &graphql.Field{Type: graphql.String},
			"phone":        &graphql.Field{Type: graphql.String},
			"items":        &graphql.Field{Type: graphql.NewList(orderItemType)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search":  &graphql.ArgumentConfig{Type: graphql.String},
					"page":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"perPage": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 15},
				},
				Resolve: resolveProducts,
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: resolveProduct,
			},
			"myOrders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: resolveMyOrders,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

func resolveProducts(p graphql.ResolveParams) (interface{}, error) {
	search, _ := p.Args["search"].(string)
	page, _ := p.Args["page"].(int)
	perPage, _ := p.Args["perPage"].(int)

	products, _, err := services.NewProductService().List(repositories.ProductQuery{
		Search: search,
		Page:   page,
		Limit:  perPage,
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func resolveProduct(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(int)

	product, err := services.NewProductService().Get(uint(id))
	if err != nil {
		return nil, err
	}
	return product, nil
}

func resolveMyOrders(p graphql.ResolveParams) (interface{}, error) {
	userID, ok := middleware.UserIDFromContext(p.Context)
	if !ok {
		return nil, services.ErrNotOwner
	}
	status, _ := p.Args["status"].(string)

	orders, _, err := services.NewOrderService().ListForUser(repositories.OrderQuery{
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
