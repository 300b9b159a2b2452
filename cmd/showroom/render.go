// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/video"
)

// # Styles

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

func title(out io.Writer, text string) {
	fmt.Fprintln(out, titleStyle.Render(text))
	fmt.Fprintln(out)
}

func newTable(out io.Writer, columns ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))

	rules := make([]string, len(columns))
	for i, column := range columns {
		rules[i] = strings.Repeat("─", len(column))
	}
	fmt.Fprintln(w, strings.Join(rules, "\t"))
	return w
}

// # Inventory

func renderListing(out io.Writer, listing catalog.Listing) error {
	meta := listing.Meta
	title(out, fmt.Sprintf("Inventory · page %d of %d · %d vehicles", meta.Page, max(meta.TotalPages, 1), meta.Total))

	if listing.Reset {
		fmt.Fprintln(out, noteStyle.Render("Requested page is out of range; showing page 1."))
	}
	if meta.Total == 0 {
		fmt.Fprintln(out, noteStyle.Render("No vehicles match these filters."))
		return nil
	}

	if err := vehicleTable(out, listing.Items); err != nil {
		return err
	}
	if listing.Query != "" {
		fmt.Fprintf(out, "\n%s %s\n", labelStyle.Render("Link:"), "?"+listing.Query)
	}
	return nil
}

func renderVehicles(out io.Writer, heading string, vehicles []catalog.Vehicle) error {
	title(out, heading)
	if len(vehicles) == 0 {
		fmt.Fprintln(out, noteStyle.Render("Nothing to show."))
		return nil
	}
	return vehicleTable(out, vehicles)
}

func vehicleTable(out io.Writer, vehicles []catalog.Vehicle) error {
	w := newTable(out, "ID", "VEHICLE", "PRICE", "MILEAGE", "LOCATION", "BADGES")
	for _, v := range vehicles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Title(), catalog.FormatPrice(v.Price), v.Mileage, v.Location, badges(v))
	}
	return w.Flush()
}

func renderVehicle(out io.Writer, v catalog.Vehicle, inquiry catalog.Inquiry) error {
	title(out, fmt.Sprintf("%s · %s %s", v.Title(), catalog.Currency, catalog.FormatAmount(v.Price)))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", v.ID},
		{"Brand", v.Brand},
		{"Body", v.BodyType},
		{"Engine", v.Engine},
		{"Power", v.Power},
		{"Torque", v.Torque},
		{"Transmission", v.Transmission},
		{"Fuel", v.FuelType},
		{"Mileage", v.Mileage},
		{"Doors / Seats", optionalInt(v.Doors) + " / " + optionalInt(v.Seats)},
		{"Colour", v.Color},
		{"Location", v.Location},
		{"Features", strings.Join(v.Features, ", ")},
		{"Badges", badges(v)},
		{"Images", strconv.Itoa(len(v.Images))},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render(row[0]), row[1])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if v.Description != "" {
		fmt.Fprintf(out, "\n%s\n", v.Description)
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Call"), inquiry.Links.Call)
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("SMS"), inquiry.Links.SMS)
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("WhatsApp"), inquiry.Links.WhatsApp)
	if inquiry.Links.Email != "" {
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Email"), inquiry.Links.Email)
	}
	return w.Flush()
}

func renderFacets(out io.Writer, facets catalog.Facets) error {
	title(out, "Filters")

	brands := make([]string, len(facets.Brands))
	for i, brand := range facets.Brands {
		brands[i] = fmt.Sprintf("%s (%d)", brand.Name, brand.Count)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Brands", strings.Join(brands, ", ")},
		{"Price", catalog.FormatPrice(facets.MinPrice) + " – " + catalog.FormatPrice(facets.MaxPrice)},
		{"Years", fmt.Sprintf("%d – %d", facets.MinYear, facets.MaxYear)},
		{"Body types", strings.Join(facets.BodyTypes, ", ")},
		{"Fuel types", strings.Join(facets.FuelTypes, ", ")},
		{"Transmissions", strings.Join(facets.Transmissions, ", ")},
		{"Locations", strings.Join(facets.Locations, ", ")},
		{"Features", strings.Join(facets.Features, ", ")},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render(row[0]), row[1])
	}
	return w.Flush()
}

// # Video Hub

func renderVideos(out io.Writer, listing video.Listing) error {
	meta := listing.Meta
	title(out, fmt.Sprintf("Videos · page %d of %d · %d videos", meta.Page, max(meta.TotalPages, 1), meta.Total))

	if listing.Reset {
		fmt.Fprintln(out, noteStyle.Render("Requested page is out of range; showing page 1."))
	}
	if meta.Total == 0 {
		fmt.Fprintln(out, noteStyle.Render("No videos match this search."))
		return nil
	}

	w := newTable(out, "ID", "TITLE", "CATEGORY", "DURATION", "VIEWS", "VEHICLE")
	for _, v := range listing.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Title, v.Category, v.Duration, video.FormatViews(v.Views), v.CarReference)
	}
	return w.Flush()
}
