// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
	"github.com/taibuivan/autoluxe/internal/video"
)

// # Inventory

func (a *app) listCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List the filtered inventory",
		Long: `List one page of the inventory.

The optional argument is a shareable query string, for example
"brands=Toyota,Nissan&maxPrice=5000000&sort=price-low". Malformed values fall
back to their defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := catalog.DefaultView()
			if len(args) == 1 {
				view = catalog.ParseQueryString(args[0])
			}

			listing := a.catalog.List(cmd.Context(), view, page, limit)
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), listing)
			}
			return renderListing(cmd.OutOrStdout(), listing)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", constants.InventoryPageSize, "vehicles per page")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <vehicle-id>",
		Short: "Show one vehicle with its contact links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicle, err := a.catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("vehicle %q: %w", args[0], err)
			}
			inquiry, err := a.catalog.Inquiry(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					Vehicle catalog.Vehicle `json:"vehicle"`
					Inquiry catalog.Inquiry `json:"inquiry"`
				}{vehicle, inquiry})
			}
			return renderVehicle(cmd.OutOrStdout(), vehicle, inquiry)
		},
	}
}

func (a *app) similarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "similar <vehicle-id>",
		Short: "List vehicles similar to one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			similar, err := a.catalog.Similar(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("vehicle %q: %w", args[0], err)
			}

			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), similar)
			}
			return renderVehicles(cmd.OutOrStdout(), "Similar to "+args[0], similar)
		},
	}
}

func (a *app) facetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Show the available filter values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			facets := a.catalog.Facets(cmd.Context())
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), facets)
			}
			return renderFacets(cmd.OutOrStdout(), facets)
		},
	}
}

// # Video Hub

func (a *app) videosCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "videos [query]",
		Short: "List the video hub",
		Long: `List videos by category, sort and search.

The optional argument is a query string such as "category=review&sort=popular".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := video.DefaultView()
			if len(args) == 1 {
				view = video.ParseQueryString(args[0])
			}

			listing := a.videos.List(cmd.Context(), view, page, limit)
			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), listing)
			}
			return renderVideos(cmd.OutOrStdout(), listing)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", constants.VideoPageSize, "videos per page")
	return cmd
}

// badges lists the promotional flags of v.
func badges(v catalog.Vehicle) string {
	var flags []string
	if v.IsFeatured {
		flags = append(flags, "featured")
	}
	if v.IsHotDeal {
		flags = append(flags, "hot deal")
	}
	if v.IsCertified {
		flags = append(flags, "certified")
	}
	if v.IsFinancing {
		flags = append(flags, "financing")
	}
	return strings.Join(flags, ", ")
}

func optionalInt(value *int) string {
	if value == nil {
		return "-"
	}
	return strconv.Itoa(*value)
}
