// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command ingest runs one harvest from the command line and persists it.
//
// # Usage
//
//	ingest -classification Coins -records 500
//	ingest -classification prints -records 100 -dry-run
//	ingest -replay harvests/coins/<batch-id>.json
//
// With -dry-run the batch is fetched, staged and previewed but nothing is
// written to the artifact store. The batch summary is printed to stdout as JSON;
// logs go to stderr. Ctrl-C stops paging and keeps what was already fetched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/relic/internal/app"
	"github.com/taibuivan/relic/internal/core/ingest"
	"github.com/taibuivan/relic/internal/platform/apperr"
	"github.com/taibuivan/relic/internal/platform/config"
	"github.com/taibuivan/relic/internal/platform/constants"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	classification string
	records        int
	pageSize       int
	dryRun         bool
	replay         string
}

func main() {
	opts := parseFlags()

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("app", constants.AppName), slog.String("command", "ingest"))
	slog.SetDefault(log)

	if err := run(opts, log); err != nil {
		log.Error("ingest_failed", slog.Any("error", err))
		os.Exit(exitCode(err))
	}
}

// exitCode treats rejected input (flag values or configuration) like a usage
// error. Everything else is a runtime failure.
func exitCode(err error) int {
	if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusBadRequest {
		return exitUsage
	}
	return exitFailure
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.classification, "classification", "", "provider classification to harvest (see the list below)")
	flag.IntVar(&opts.records, "records", constants.HarvestDefaultRecords, fmt.Sprintf("target record count (%d-%d)", constants.HarvestMinRecords, constants.HarvestMaxRecords))
	flag.IntVar(&opts.pageSize, "page-size", 0, "records per provider page (default PROVIDER_PAGE_SIZE)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "fetch and preview without writing to the store")
	flag.StringVar(&opts.replay, "replay", "", "archive key of a previously harvested batch to stage and persist again")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), "\nClassifications: Paintings, Sculpture, Coins, Jewelry, Drawings, Furniture,")
		fmt.Fprintln(flag.CommandLine.Output(), "Photographs, Prints, Textiles, Ceramics, Arms and Armor, Manuscripts")
	}
	flag.Parse()

	if opts.classification == "" && opts.replay == "" {
		flag.Usage()
		os.Exit(exitUsage)
	}
	return opts
}

func run(opts options, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	var summary *ingest.Summary
	if opts.replay != "" {
		summary, err = application.Ingest.Replay(ctx, opts.replay)
	} else {
		summary, err = application.Ingest.Harvest(ctx, ingest.Request{
			Classification: opts.classification,
			Records:        opts.records,
			PageSize:       opts.pageSize,
		})
	}
	if err != nil {
		return err
	}

	if summary.Partial {
		log.Warn("harvest_partial", slog.String("provider_error", summary.ProviderError))
	}

	// Persist with a fresh context so an interrupted fetch still commits what arrived.
	if opts.dryRun {
		preview, err := application.Ingest.Preview(context.WithoutCancel(ctx), summary.ID, 0)
		if err != nil {
			return err
		}
		log.Info("dry_run_preview",
			slog.Int("metadata", len(preview.Metadata)),
			slog.Int("media", len(preview.Media)),
			slog.Int("colors", len(preview.Colors)),
			slog.Int("dropped", preview.Dropped),
		)
	} else {
		persisted, err := application.Ingest.Persist(context.WithoutCancel(ctx), summary.ID)
		if err != nil {
			return fmt.Errorf("persist batch %s: %w", summary.ID, err)
		}
		summary = persisted
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
