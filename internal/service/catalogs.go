package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nordvik/shopsync/internal/adapter"
	"github.com/nordvik/shopsync/models"
)

type catalogService struct {
	gateway *adapter.CacheGateway
}

// NewCatalogService constructs the read-only catalog surface over the cache
// gateway.
func NewCatalogService(gateway *adapter.CacheGateway) CatalogService {
	return &catalogService{gateway: gateway}
}

func (s *catalogService) GetCatalogs(ctx context.Context, q models.CatalogQuery, useCache bool) <-chan CatalogsResult {
	req := adapter.Request{
		Method: http.MethodGet,
		Path:   "/v2/catalogs",
		Query:  catalogQueryParams(q),
	}

	out := make(chan CatalogsResult, 2)
	go func() {
		defer close(out)

		for event := range s.gateway.Fetch(ctx, req, useCache) {
			if event.Err != nil {
				out <- CatalogsResult{FromCache: event.FromCache, Err: event.Err}
				continue
			}

			var catalogs []models.Catalog
			if err := event.Response.Decode(&catalogs); err != nil {
				out <- CatalogsResult{FromCache: event.FromCache, Err: err}
				continue
			}

			out <- CatalogsResult{Catalogs: catalogs, FromCache: event.FromCache}
		}
	}()

	return out
}

func (s *catalogService) GetStores(ctx context.Context, q models.CatalogQuery, useCache bool) <-chan StoresResult {
	req := adapter.Request{
		Method: http.MethodGet,
		Path:   "/v2/stores",
		Query:  catalogQueryParams(q),
	}

	out := make(chan StoresResult, 2)
	go func() {
		defer close(out)

		for event := range s.gateway.Fetch(ctx, req, useCache) {
			if event.Err != nil {
				out <- StoresResult{FromCache: event.FromCache, Err: event.Err}
				continue
			}

			var stores []models.Store
			if err := event.Response.Decode(&stores); err != nil {
				out <- StoresResult{FromCache: event.FromCache, Err: err}
				continue
			}

			out <- StoresResult{Stores: stores, FromCache: event.FromCache}
		}
	}()

	return out
}

func catalogQueryParams(q models.CatalogQuery) url.Values {
	params := url.Values{}

	if len(q.CatalogIDs) > 0 {
		params.Set("catalog_ids", strings.Join(q.CatalogIDs, ","))
	}
	if len(q.DealerIDs) > 0 {
		params.Set("dealer_ids", strings.Join(q.DealerIDs, ","))
	}
	if len(q.StoreIDs) > 0 {
		params.Set("store_ids", strings.Join(q.StoreIDs, ","))
	}
	if len(q.OrderBy) > 0 {
		params.Set("order_by", strings.Join(q.OrderBy, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	return params
}
