// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command showroom browses the AutoLuxe inventory and video hub from a terminal.
//
// It reads the same embedded data (or CATALOG_PATH / VIDEOS_PATH files) as the
// API server and accepts the same shareable query strings:
//
//	showroom list "brands=Toyota&sort=price-low"
//	showroom show BMW-M3-2023-001
//	showroom videos "category=maintenance"
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
