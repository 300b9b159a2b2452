// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/contact"
	"github.com/taibuivan/autoluxe/internal/detail"
	"github.com/taibuivan/autoluxe/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/autoluxe/internal/platform/request"
	"github.com/taibuivan/autoluxe/internal/platform/respond"
	"github.com/taibuivan/autoluxe/internal/platform/validate"
	"github.com/taibuivan/autoluxe/internal/video"
	"github.com/taibuivan/autoluxe/pkg/ws"
)

// Route parameters.
const (
	FieldSessionID = "sid"
	FieldVehicleID = "vid"
	FieldTicket    = "ticket"
)

// # Payloads

type createRequest struct {
	VisitorID string `json:"visitor_id"`
}

type sortRequest struct {
	Sort string `json:"sort"`
}

type openRequest struct {
	VehicleID string `json:"vehicle_id"`
}

type gotoRequest struct {
	Index *int `json:"index"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type playerRequest struct {
	VideoID string `json:"video_id"`
}

// Toggle is the membership of a listing after a favorite or saved toggle.
type Toggle struct {
	VehicleID string `json:"vehicle_id"`
	Active    bool   `json:"active"`
}

// Submission is the accepted contact form with its auto-reply preview.
type Submission struct {
	Record    contact.Record    `json:"record"`
	AutoReply contact.AutoReply `json:"auto_reply"`
}

// # Handler Implementation

// HandlerOptions configures the session transport.
type HandlerOptions struct {
	DealerPhone string
	CheckOrigin func(request *http.Request) bool
}

// Handler exposes sessions over HTTP and their events over websockets.
type Handler struct {
	manager     *Manager
	hub         *ws.Hub
	upgrader    *websocket.Upgrader
	dealerPhone string
	logger      *zap.Logger
}

// NewHandler constructs a new session [Handler].
func NewHandler(manager *Manager, hub *ws.Hub, options HandlerOptions, logger *zap.Logger) *Handler {
	return &Handler{
		manager:     manager,
		hub:         hub,
		upgrader:    &websocket.Upgrader{CheckOrigin: options.CheckOrigin},
		dealerPhone: options.DealerPhone,
		logger:      logger,
	}
}

// Routes returns a [chi.Router] configured with the session endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.createSession)

	router.Route("/{sid}", func(r chi.Router) {
		r.Use(withSessionID)

		r.Get("/", handler.getSession)
		r.Delete("/", handler.deleteSession)
		r.Get("/events", handler.streamEvents)

		// Inventory
		r.Put("/filters", handler.setFilters)
		r.Delete("/filters", handler.resetFilters)
		r.Put("/sort", handler.setSort)
		r.Get("/inventory", handler.getInventory)
		r.Get("/inventory/feed", handler.getFeed)
		r.Post("/inventory/more", handler.loadMore)

		// Detail view
		r.Get("/detail", handler.getDetail)
		r.Post("/detail", handler.openDetail)
		r.Delete("/detail", handler.closeDetail)
		r.Post("/detail/next", handler.carousel((*Session).NextImage))
		r.Post("/detail/previous", handler.carousel((*Session).PreviousImage))
		r.Post("/detail/pause", handler.carousel((*Session).PauseCarousel))
		r.Post("/detail/resume", handler.carousel((*Session).ResumeCarousel))
		r.Post("/detail/goto", handler.goToImage)

		// Visitor lists
		r.Get("/favorites", handler.listFavorites)
		r.Post("/favorites/{vid}", handler.toggleFavorite)
		r.Get("/saved", handler.listSaved)
		r.Post("/saved/{vid}", handler.toggleSaved)
		r.Get("/recent", handler.listRecent)
		r.Get("/search-history", handler.getSearchHistory)
		r.Delete("/search-history", handler.clearSearchHistory)
		r.Get("/theme", handler.getTheme)
		r.Put("/theme", handler.setTheme)
		r.Get("/analytics", handler.listAnalytics)

		// Contact
		r.Get("/contact/form", handler.prefillContact)
		r.Post("/contact", handler.submitContact)
		r.Get("/contact/{ticket}", handler.getSubmission)
		r.Get("/submissions", handler.listSubmissions)

		// Video hub
		r.Get("/videos", handler.getVideos)
		r.Put("/videos", handler.setVideoView)
		r.Post("/videos/more", handler.loadMoreVideos)
		r.Post("/player", handler.openVideo)
		r.Delete("/player", handler.closeVideo)
	})

	return router
}

// session resolves the {sid} parameter, writing the error response when it fails.
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) (*Session, bool) {
	session, err := handler.manager.Get(requestutil.Param(request, FieldSessionID))
	if err != nil {
		respond.Error(writer, request, err)
		return nil, false
	}
	return session, true
}

// withSessionID tags the request context and its logger with the session ID.
func withSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		id := chi.URLParam(request, FieldSessionID)

		ctx := ctxutil.WithSessionID(request.Context(), id)
		ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(zap.String("session_id", id)))
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// # Lifecycle Endpoints

/*
POST /api/v1/sessions.

Description: Starts a browsing session. Shared link parameters (filters, sort
and car) are read from the query string; without filters the visitor's saved
filters are restored.

Request:
  - visitor_id: string (Optional body field; resumes persisted state)

Response:
  - 201: Snapshot
*/
func (handler *Handler) createSession(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	session, err := handler.manager.Create(request.Context(), input.VisitorID, request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := session.Snapshot(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, snapshot)
}

/*
GET /api/v1/sessions/{sid}.

Response:
  - 200: Snapshot
  - 404: NOT_FOUND
*/
func (handler *Handler) getSession(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	snapshot, err := session.Snapshot(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, snapshot)
}

/*
DELETE /api/v1/sessions/{sid}.

Response:
  - 204: No Content
  - 404: NOT_FOUND
*/
func (handler *Handler) deleteSession(writer http.ResponseWriter, request *http.Request) {
	if err := handler.manager.Delete(requestutil.Param(request, FieldSessionID)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
GET /api/v1/sessions/{sid}/events.

Description: Upgrades to a websocket carrying detail, submission and notice
events of the session.
*/
func (handler *Handler) streamEvents(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	if err := handler.hub.Serve(handler.upgrader, writer, request, session.ID()); err != nil {
		handler.logger.Warn("ws_upgrade_failed", zap.String("session_id", session.ID()), zap.Error(err))
	}
}

// # Inventory Endpoints

/*
PUT /api/v1/sessions/{sid}/filters.

Request:
  - Body: catalog.Criteria

Response:
  - 200: Inventory (Page 1)
  - 400: VALIDATION_ERROR (Malformed body)
*/
func (handler *Handler) setFilters(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	criteria := catalog.DefaultCriteria()
	if err := requestutil.DecodeJSON(request, &criteria); err != nil {
		respond.Error(writer, request, err)
		return
	}

	inventory, err := session.SetFilters(request.Context(), criteria)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, inventory)
}

// DELETE /api/v1/sessions/{sid}/filters.
func (handler *Handler) resetFilters(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	inventory, err := session.ResetFilters(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, inventory)
}

/*
PUT /api/v1/sessions/{sid}/sort.

Request:
  - sort: string (featured, price-low, price-high, year-new, year-old, mileage-low)

Response:
  - 200: Inventory (Page 1)
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) setSort(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	var input sortRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	inventory, err := session.SetSort(request.Context(), input.Sort)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, inventory)
}

/*
GET /api/v1/sessions/{sid}/inventory.

Request:
  - page: int (Optional; the current page when absent)

Response:
  - 200: Inventory
*/
func (handler *Handler) getInventory(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}
	respond.OK(writer, session.Inventory(request.Context(), requestutil.QueryInt(request, "page", 0)))
}

// GET /api/v1/sessions/{sid}/inventory/feed.
func (handler *Handler) getFeed(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}
	respond.OK(writer, session.Feed(request.Context()))
}

// POST /api/v1/sessions/{sid}/inventory/more.
func (handler *Handler) loadMore(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}
	respond.OK(writer, session.LoadMore(request.Context()))
}

// # Detail View Endpoints

// GET /api/v1/sessions/{sid}/detail.
func (handler *Handler) getDetail(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}
	respond.OK(writer, session.Detail())
}

/*
POST /api/v1/sessions/{sid}/detail.

Request:
  - vehicle_id: string

Response:
  - 200: detail.State
  - 404: NOT_FOUND (Unknown listing; the view is unchanged)
*/
func (handler *Handler) openDetail(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	var input openRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := new(validate.Validator).Required(catalog.FieldVehicle, input.VehicleID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := session.OpenDetail(request.Context(), input.VehicleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, state)
}

// DELETE /api/v1/sessions/{sid}/detail.
func (handler *Handler) closeDetail(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	state, err := session.CloseDetail(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, state)
}

// carousel adapts a parameterless carousel operation to an endpoint.
// The view must be open; otherwise the response is 400.
func (handler *Handler) carousel(operation func(*Session) (detail.State, error)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		session, ok := handler.session(writer, request)
		if !ok {
			return
		}

		state, err := operation(session)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, state)
	}
}

/*
POST /api/v1/sessions/{sid}/detail/goto.

Request:
  - index: int (0-based image index)

Response:
  - 200: detail.State
  - 400: VALIDATION_ERROR (Missing or out of range index, or view closed)
*/
func (handler *Handler) goToImage(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	var input gotoRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := new(validate.Validator).Custom(detail.FieldIndex, input.Index == nil, "This field is required").Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := session.GoToImage(*input.Index)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, state)
}

// # Visitor List Endpoints

// GET /api/v1/sessions/{sid}/favorites.
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	handler.listVehicles(writer, request, (*Session).Favorites)
}

// POST /api/v1/sessions/{sid}/favorites/{vid}.
func (handler *Handler) toggleFavorite(writer http.ResponseWriter, request *http.Request) {
	handler.toggle(writer, request, (*Session).ToggleFavorite)
}

// GET /api/v1/sessions/{sid}/saved.
func (handler *Handler) listSaved(writer http.ResponseWriter, request *http.Request) {
	handler.listVehicles(writer, request, (*Session).Saved)
}

// POST /api/v1/sessions/{sid}/saved/{vid}.
func (handler *Handler) toggleSaved(writer http.ResponseWriter, request *http.Request) {
	handler.toggle(writer, request, (*Session).ToggleSaved)
}

// GET /api/v1/sessions/{sid}/recent.
func (handler *Handler) listRecent(writer http.ResponseWriter, request *http.Request) {
	handler.listVehicles(writer, request, (*Session).RecentlyViewed)
}

func (handler *Handler) listVehicles(
	writer http.ResponseWriter,
	request *http.Request,
	list func(*Session, context.Context) ([]catalog.Vehicle, error),
) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	vehicles, err := list(session, request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, vehicles)
}

func (handler *Handler) toggle(
	writer http.ResponseWriter,
	request *http.Request,
	flip func(*Session, context.Context, string) (bool, error),
) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	vehicleID := requestutil.Param(request, FieldVehicleID)
	active, err := flip(session, request.Context(), vehicleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, Toggle{VehicleID: vehicleID, Active: active})
}

// GET /api/v1/sessions/{sid}/search-history.
func (handler *Handler) getSearchHistory(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	history, err := session.Visitor().SearchHistory(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, history)
}

// DELETE /api/v1/sessions/{sid}/search-history.
func (handler *Handler) clearSearchHistory(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	if err := session.Visitor().ClearSearchHistory(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// GET /api/v1/sessions/{sid}/theme.
func (handler *Handler) getTheme(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	theme, err := session.Visitor().Theme(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, themeRequest{Theme: string(theme)})
}

/*
PUT /api/v1/sessions/{sid}/theme.

Request:
  - theme: string (light, dark)

Response:
  - 200: {theme}
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) setTheme(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	var input themeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	theme, err := session.Visitor().SetTheme(request.Context(), input.Theme)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, themeRequest{Theme: string(theme)})
}

// GET /api/v1/sessions/{sid}/analytics.
func (handler *Handler) listAnalytics(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	events, err := session.Visitor().Views(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, events)
}

// # Contact Endpoints

/*
GET /api/v1/sessions/{sid}/contact/form.

Request:
  - inquiry: string (Message type)
  - car: string (Vehicle ID; ignored when unknown)

Response:
  - 200: contact.Form (Prefilled)
*/
func (handler *Handler) prefillContact(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}
	respond.OK(writer, session.PrefillContact(request.URL.Query()))
}

/*
POST /api/v1/sessions/{sid}/contact.

Description: Accepts the form and schedules its delivery. The outcome arrives
as a submission event and a notice on the session's websocket, and on the
ticket endpoint.

Request:
  - Body: contact.Form

Response:
  - 202: Submission (Pending record and auto-reply preview)
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) submitContact(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	var form contact.Form
	if err := requestutil.DecodeJSON(request, &form); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := session.Submit(request.Context(), form)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Accepted(writer, Submission{Record: record, AutoReply: contact.BuildAutoReply(record, handler.dealerPhone)})
}

/*
GET /api/v1/sessions/{sid}/contact/{ticket}.

Response:
  - 200: contact.Record
  - 404: NOT_FOUND (Unknown ticket or another session's ticket)
*/
func (handler *Handler) getSubmission(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	record, err := session.Submission(request.Context(), requestutil.Param(request, FieldTicket))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

// GET /api/v1/sessions/{sid}/submissions.
func (handler *Handler) listSubmissions(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	records, err := session.Submissions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, records)
}

// # Video Hub Endpoints

// GET /api/v1/sessions/{sid}/videos.
func (handler *Handler) getVideos(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}
	respond.OK(writer, session.Videos(request.Context()))
}

/*
PUT /api/v1/sessions/{sid}/videos.

Request:
  - category: string
  - sort: string
  - search: string

Response:
  - 200: VideoFeed (Collapsed to the first step)
*/
func (handler *Handler) setVideoView(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	var view video.View
	if err := requestutil.DecodeJSON(request, &view); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session.SetVideoView(request.Context(), view))
}

// POST /api/v1/sessions/{sid}/videos/more.
func (handler *Handler) loadMoreVideos(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}
	respond.OK(writer, session.LoadMoreVideos(request.Context()))
}

/*
POST /api/v1/sessions/{sid}/player.

Request:
  - video_id: string

Response:
  - 200: video.Detail
  - 404: NOT_FOUND
*/
func (handler *Handler) openVideo(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	var input playerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	player, err := session.OpenVideo(request.Context(), input.VideoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, player)
}

// DELETE /api/v1/sessions/{sid}/player.
func (handler *Handler) closeVideo(writer http.ResponseWriter, request *http.Request) {
	session, ok := handler.session(writer, request)
	if !ok {
		return
	}

	session.CloseVideo(request.Context())
	respond.NoContent(writer)
}
