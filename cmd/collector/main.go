package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	kcc "github.com/v6census/v6census/pkg/configs/census"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	kdb "github.com/v6census/v6census/pkg/domain/census/db"
	kpg "github.com/v6census/v6census/pkg/domain/census/db/postgres"
	"github.com/v6census/v6census/pkg/loop"
	"github.com/v6census/v6census/pkg/sources"
	"github.com/v6census/v6census/pkg/utils/filewatch"
	"github.com/v6census/v6census/pkg/utils/try"
)

func main() {
	logger := log.Default()
	logger.SetPrefix("[collector] ")

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM,
	)
	// call cancel() when this function exits
	defer cancel()

	// define command line flags
	//-- path to config file
	pconfig := flag.String(
		"config", os.Getenv("CENSUS_CONFIG"), "path to config file",
	)
	// parse command line flags
	flag.Parse()

	{
		// watch config
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			logger.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(kcc.LoadCensusConfig(*pconfig)).OrFatal(logger)
	env := try.To(kcc.ParseEnv()).OrFatal(logger)

	// get the snapshot store. empty URI means memory only.
	dburi := conf.Database()
	if env.Database != "" {
		dburi = env.Database
	}
	var db kdb.Database
	if dburi != "" {
		db = try.To(kpg.New(ctx, dburi)).OrFatal(logger)
		defer db.Close()
	}

	scfg := sources.Config{CloudflareAPIKey: env.CloudflareAPIKey}
	options := []kcd.Option{
		kcd.WithFamilies(sources.Families(scfg)...),
		kcd.WithLogger(logger),
		kcd.WithTTL(conf.Cache().TTL()),
		kcd.WithMaxParallel(conf.Collector().MaxParallel()),
		kcd.WithFetchTimeout(conf.Collector().FetchTimeout()),
	}
	if db != nil {
		options = append(options, kcd.WithStore(db.Snapshots()))
	}
	mgr := kcd.New(sources.Registry(scfg), options...)

	if db != nil {
		loaded := try.To(mgr.Hydrate(ctx)).OrFatal(logger)
		logger.Printf("hydrated %d snapshots from the store", loaded)
	}

	interval := conf.Collector().Interval()
	horizon := conf.Collector().ExpiryHorizon()
	logger.Printf(`start refresh loop /w interval "%s", horizon "%s"`, interval, horizon)

	total, err := loop.Start(
		ctx, 0,
		func(ctx context.Context, n int) (int, loop.Next) {
			snaps, err := mgr.RefreshExpiring(ctx, horizon)
			if err != nil {
				return n, loop.Break(err)
			}
			for _, s := range snaps {
				if s.Note != "" {
					logger.Printf("refreshed %s (%s: %s)", s.Key, s.Origin, s.Note)
				} else {
					logger.Printf("refreshed %s (%s)", s.Key, s.Origin)
				}
			}
			return n + len(snaps), loop.Continue(interval)
		},
		loop.WithTimeout(interval),
	)

	if err == nil {
		logger.Printf("refresh loop finished. %d snapshots refreshed", total)
		return
	} else if errors.Is(err, context.Canceled) {
		logger.Fatal(err, "(loop context is cancelled by:", context.Cause(ctx), ")")
	}

	logger.Fatal(err)
}
