// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/platform/constants"
	"github.com/taibuivan/autoluxe/internal/platform/logger"
	"github.com/taibuivan/autoluxe/internal/video"
)

// app carries the services every subcommand reads from.
type app struct {
	catalogPath string
	videosPath  string
	dealerPhone string
	dealerEmail string
	asJSON      bool
	debug       bool

	catalog *catalog.Service
	videos  *video.Service
}

func newRootCommand() *cobra.Command {
	state := &app{}

	cmd := &cobra.Command{
		Use:   "showroom",
		Short: "Browse the AutoLuxe inventory from the terminal",
		Long: `showroom lists, filters and inspects the dealership inventory and video hub.

Filter arguments use the same query strings as shared website links, so a link
copied from the browser can be pasted as-is.`,
		Version:           constants.AppVersion,
		SilenceUsage:      true,
		PersistentPreRunE: state.load,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&state.catalogPath, "catalog", os.Getenv("CATALOG_PATH"), "vehicle YAML file (default: embedded inventory)")
	flags.StringVar(&state.videosPath, "videos", os.Getenv("VIDEOS_PATH"), "video YAML file (default: embedded library)")
	flags.StringVar(&state.dealerPhone, "dealer-phone", "07605455312", "fallback phone for contact links")
	flags.StringVar(&state.dealerEmail, "dealer-email", "sales@autoluxe.co.ke", "dealer email for contact links")
	flags.BoolVar(&state.asJSON, "json", false, "print JSON instead of tables")
	flags.BoolVar(&state.debug, "debug", false, "log diagnostics to stderr")

	cmd.AddCommand(
		state.listCmd(),
		state.showCmd(),
		state.similarCmd(),
		state.facetsCmd(),
		state.videosCmd(),
	)
	return cmd
}

// load builds the services from the configured data files.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	log := zap.NewNop()
	if a.debug {
		built, err := logger.New(true)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		log = built
	}

	inventory, err := catalog.LoadFile(a.catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	library, err := video.LoadFile(a.videosPath)
	if err != nil {
		return fmt.Errorf("failed to load video library: %w", err)
	}

	a.catalog = catalog.NewService(inventory, catalog.Options{
		DealerPhone:   a.dealerPhone,
		DealerEmail:   a.dealerEmail,
		FeaturedLimit: constants.FeaturedLimit,
		SimilarLimit:  constants.SimilarLimit,
	}, log)
	a.videos = video.NewService(library, inventory, log)
	return nil
}

// printJSON writes value as indented JSON.
func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
