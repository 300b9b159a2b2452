// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/pkg/pagination"
)

// # Service Layer

// Listing is one page of the filtered and sorted inventory.
type Listing struct {
	Items []Vehicle       `json:"items"`
	Meta  pagination.Meta `json:"meta"`
	Reset bool            `json:"reset"`
	Query string          `json:"query"` // Canonical shareable query string
}

// Options carries the dealer defaults used for inquiries.
type Options struct {
	DealerPhone   string
	DealerEmail   string
	FeaturedLimit int
	SimilarLimit  int
}

// Service exposes the read-only catalog to the HTTP layer and the CLI.
type Service struct {
	store   *Store
	options Options
	logger  *zap.Logger
}

// NewService constructs a new [Service] over a loaded [Store].
func NewService(store *Store, options Options, logger *zap.Logger) *Service {
	if options.FeaturedLimit < 1 {
		options.FeaturedLimit = 3
	}
	if options.SimilarLimit < 1 {
		options.SimilarLimit = 3
	}

	return &Service{
		store:   store,
		options: options,
		logger:  logger,
	}
}

// Store returns the underlying inventory.
func (service *Service) Store() *Store {
	return service.store
}

// # Inventory Lookups

/*
List filters, sorts and pages the inventory.

Description: The view is normalised first. A page past the end is served as
page 1 with Reset set, so a stale link never shows an empty grid.

Parameters:
  - context: context.Context
  - view: View (Criteria and sort key)
  - page: int (1-based)
  - limit: int (Page size)

Returns:
  - Listing
*/
func (service *Service) List(context context.Context, view View, page, limit int) Listing {
	view = view.Normalize()
	sorted := Sort(Filter(service.store.All(), view.Criteria), view.Sort)

	items, meta, reset := pagination.Slice(sorted, page, limit)
	if reset {
		service.logger.Debug("inventory_page_reset",
			zap.Int("requested_page", page),
			zap.Int("total_pages", meta.TotalPages),
		)
	}

	return Listing{
		Items: items,
		Meta:  meta,
		Reset: reset,
		Query: QueryString(View{Criteria: view.Criteria, Sort: view.Sort}),
	}
}

// Get returns one listing or a NotFound error.
func (service *Service) Get(context context.Context, id string) (Vehicle, error) {
	return service.store.Get(id)
}

// Similar returns the listings related to id.
func (service *Service) Similar(context context.Context, id string) ([]Vehicle, error) {
	vehicle, err := service.store.Get(id)
	if err != nil {
		return nil, err
	}
	return Similar(service.store.All(), vehicle, service.options.SimilarLimit), nil
}

// Facets returns the filter options of the whole inventory.
func (service *Service) Facets(context context.Context) Facets {
	return BuildFacets(service.store.All())
}

// Featured returns the landing page highlights.
func (service *Service) Featured(context context.Context) []Vehicle {
	return Featured(service.store.All(), service.options.FeaturedLimit)
}

// ByBrand returns every listing of one brand.
func (service *Service) ByBrand(context context.Context, brand string) []Vehicle {
	return ByBrand(service.store.All(), brand)
}

// Search runs the free-text predicate alone.
func (service *Service) Search(context context.Context, query string) []Vehicle {
	return Search(service.store.All(), query)
}

// Suggestions returns autocomplete entries for a partial query.
func (service *Service) Suggestions(context context.Context, query string) []Suggestion {
	return Suggestions(service.store.All(), query)
}

// Inquiry returns the prefilled messages and contact links for id.
func (service *Service) Inquiry(context context.Context, id string) (Inquiry, error) {
	vehicle, err := service.store.Get(id)
	if err != nil {
		return Inquiry{}, err
	}
	return BuildInquiry(vehicle, service.options.DealerPhone, service.options.DealerEmail), nil
}
