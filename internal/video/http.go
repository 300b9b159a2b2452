// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/autoluxe/internal/platform/constants"
	requestutil "github.com/taibuivan/autoluxe/internal/platform/request"
	"github.com/taibuivan/autoluxe/internal/platform/respond"
	"github.com/taibuivan/autoluxe/pkg/pagination"
)

// FieldID is the route parameter of a video.
const FieldID = "id"

// featuredLimit is the landing page strip size.
const featuredLimit = 6

// # Handler Implementation

// Handler implements the stateless HTTP layer of the video hub.
type Handler struct {
	service *Service
}

// NewHandler constructs a new video [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the video endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listVideos)
	router.Get("/categories", handler.listCategories)
	router.Get("/featured", handler.listFeatured)
	router.Get("/{id}", handler.getVideo)
	router.Get("/{id}/related", handler.listRelated)

	return router
}

/*
GET /api/v1/videos.

Request:
  - category: string (all, walkaround, test-drive, review, maintenance, news)
  - sort: string (latest, popular, duration)
  - search: string
  - page, limit: int

Response:
  - 200: Listing
*/
func (handler *Handler) listVideos(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	view := Decode(request.URL.Query())

	respond.OK(writer, handler.service.List(request.Context(), view, params.Page, params.Limit))
}

/*
GET /api/v1/videos/categories.

Response:
  - 200: []CategoryCount
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Categories(request.Context()))
}

/*
GET /api/v1/videos/featured.

Request:
  - limit: int (Default 6)

Response:
  - 200: []Video
*/
func (handler *Handler) listFeatured(writer http.ResponseWriter, request *http.Request) {
	limit := requestutil.QueryInt(request, "limit", featuredLimit)
	respond.OK(writer, handler.service.Featured(request.Context(), min(max(limit, 1), constants.VideoPageSize)))
}

/*
GET /api/v1/videos/{id}.

Response:
  - 200: Detail
  - 404: NOT_FOUND
*/
func (handler *Handler) getVideo(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.Get(request.Context(), requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

/*
GET /api/v1/videos/{id}/related.

Response:
  - 200: []Video (At most three)
  - 404: NOT_FOUND
*/
func (handler *Handler) listRelated(writer http.ResponseWriter, request *http.Request) {
	related, err := handler.service.Related(request.Context(), requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, related)
}
