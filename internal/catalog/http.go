// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/autoluxe/internal/platform/request"
	"github.com/taibuivan/autoluxe/internal/platform/respond"
	"github.com/taibuivan/autoluxe/pkg/pagination"
)

// # Handler Implementation

// Handler implements the stateless HTTP layer of the inventory.
// Every endpoint is public and read-only.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the inventory endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listVehicles)
	router.Get("/facets", handler.getFacets)
	router.Get("/featured", handler.listFeatured)
	router.Get("/search", handler.searchVehicles)
	router.Get("/suggestions", handler.listSuggestions)
	router.Get("/brands/{brand}", handler.listByBrand)

	router.Get("/{id}", handler.getVehicle)
	router.Get("/{id}/similar", handler.listSimilar)
	router.Get("/{id}/inquiry", handler.getInquiry)

	return router
}

// # Inventory Endpoints

/*
GET /api/v1/vehicles.

Description: Retrieves one page of the filtered and sorted inventory.
Malformed filter parameters are coerced to their defaults, never rejected.

Request:
  - search: string
  - brands: string (Comma separated; "brand" also accepted)
  - minPrice, maxPrice: int
  - minYear, maxYear: int
  - transmissions, fuelTypes, bodyTypes, features: string (Comma separated)
  - location: string ("all" for any)
  - sort: string (featured, price-low, price-high, year-new, year-old, mileage-low)
  - page, limit: int

Response:
  - 200: Listing
*/
func (handler *Handler) listVehicles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	view := Decode(request.URL.Query())

	respond.OK(writer, handler.service.List(request.Context(), view, params.Page, params.Limit))
}

/*
GET /api/v1/vehicles/facets.

Response:
  - 200: Facets
*/
func (handler *Handler) getFacets(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Facets(request.Context()))
}

/*
GET /api/v1/vehicles/featured.

Response:
  - 200: []Vehicle
*/
func (handler *Handler) listFeatured(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Featured(request.Context()))
}

/*
GET /api/v1/vehicles/search.

Request:
  - q: string

Response:
  - 200: []Vehicle (Catalog order)
*/
func (handler *Handler) searchVehicles(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Search(request.Context(), request.URL.Query().Get(FieldQuery)))
}

/*
GET /api/v1/vehicles/suggestions.

Request:
  - q: string (Blank returns popular searches)

Response:
  - 200: []Suggestion
*/
func (handler *Handler) listSuggestions(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Suggestions(request.Context(), request.URL.Query().Get(FieldQuery)))
}

/*
GET /api/v1/vehicles/brands/{brand}.

Response:
  - 200: []Vehicle
*/
func (handler *Handler) listByBrand(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.ByBrand(request.Context(), requestutil.Param(request, FieldBrand)))
}

/*
GET /api/v1/vehicles/{id}.

Response:
  - 200: Vehicle
  - 404: NOT_FOUND
*/
func (handler *Handler) getVehicle(writer http.ResponseWriter, request *http.Request) {
	vehicle, err := handler.service.Get(request.Context(), requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, vehicle)
}

/*
GET /api/v1/vehicles/{id}/similar.

Response:
  - 200: []Vehicle (At most three, catalog order)
  - 404: NOT_FOUND
*/
func (handler *Handler) listSimilar(writer http.ResponseWriter, request *http.Request) {
	similar, err := handler.service.Similar(request.Context(), requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, similar)
}

/*
GET /api/v1/vehicles/{id}/inquiry.

Description: Generates the WhatsApp and SMS texts and the call, sms, chat and
mail links for a listing.

Response:
  - 200: Inquiry
  - 404: NOT_FOUND
*/
func (handler *Handler) getInquiry(writer http.ResponseWriter, request *http.Request) {
	inquiry, err := handler.service.Inquiry(request.Context(), requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, inquiry)
}
