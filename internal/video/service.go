// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"

	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
	"github.com/taibuivan/autoluxe/pkg/pagination"
)

// # Service Layer

// VehicleLookup resolves a video's car reference.
type VehicleLookup interface {
	Get(id string) (catalog.Vehicle, error)
}

// Listing is one page of the hub.
type Listing struct {
	Items []Video         `json:"items"`
	Meta  pagination.Meta `json:"meta"`
	Reset bool            `json:"reset"`
	Query string          `json:"query"`
}

// Detail is a video with its linked listing and related videos.
type Detail struct {
	Video   Video            `json:"video"`
	Vehicle *catalog.Vehicle `json:"vehicle,omitempty"`
	Related []Video          `json:"related"`
	Views   string           `json:"views_display"`
}

// CategoryCount is a tab with its size.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// Service exposes the video hub.
type Service struct {
	library  *Library
	vehicles VehicleLookup
	logger   *zap.Logger
}

// NewService constructs a new [Service].
func NewService(library *Library, vehicles VehicleLookup, logger *zap.Logger) *Service {
	return &Service{library: library, vehicles: vehicles, logger: logger}
}

// Library returns the underlying video list.
func (service *Service) Library() *Library {
	return service.library
}

// Apply filters, searches and sorts the whole library for view.
func (service *Service) Apply(view View) []Video {
	view = view.Normalize()
	return Sort(Search(ByCategory(service.library.All(), view.Category), view.Search), view.Sort)
}

// List returns one page of the hub.
func (service *Service) List(ctx context.Context, view View, page, limit int) Listing {
	view = view.Normalize()
	items, meta, reset := pagination.Slice(service.Apply(view), page, limit)

	return Listing{
		Items: items,
		Meta:  meta,
		Reset: reset,
		Query: QueryString(View{Category: view.Category, Sort: view.Sort, Search: view.Search}),
	}
}

// Categories returns every tab with its video count.
func (service *Service) Categories(ctx context.Context) []CategoryCount {
	all := service.library.All()

	counts := make([]CategoryCount, 0, len(Categories()))
	for _, category := range Categories() {
		counts = append(counts, CategoryCount{Category: category, Count: len(ByCategory(all, category))})
	}
	return counts
}

// Featured returns the highlighted videos.
func (service *Service) Featured(ctx context.Context, limit int) []Video {
	return Featured(service.library.All(), limit)
}

// Get returns a video with its linked vehicle and related videos.
//
// A car reference missing from the catalog is dropped, not reported.
func (service *Service) Get(ctx context.Context, id string) (Detail, error) {
	v, err := service.library.Get(id)
	if err != nil {
		return Detail{}, err
	}

	detail := Detail{
		Video:   v,
		Related: Related(service.library.All(), v, constants.RelatedVideoLimit),
		Views:   FormatViews(v.Views),
	}

	if v.CarReference != "" && service.vehicles != nil {
		vehicle, err := service.vehicles.Get(v.CarReference)
		if err == nil {
			detail.Vehicle = &vehicle
		} else {
			service.logger.Debug("video_vehicle_missing",
				zap.String("video_id", v.ID),
				zap.String("car_reference", v.CarReference),
			)
		}
	}

	return detail, nil
}

// Related returns the videos related to id.
func (service *Service) Related(ctx context.Context, id string) ([]Video, error) {
	v, err := service.library.Get(id)
	if err != nil {
		return nil, err
	}
	return Related(service.library.All(), v, constants.RelatedVideoLimit), nil
}
