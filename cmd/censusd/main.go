package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/v6census/v6census/pkg/auth"
	kcc "github.com/v6census/v6census/pkg/configs/census"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	kdb "github.com/v6census/v6census/pkg/domain/census/db"
	kpg "github.com/v6census/v6census/pkg/domain/census/db/postgres"
	"github.com/v6census/v6census/pkg/metrics"
	"github.com/v6census/v6census/pkg/sources"
	"github.com/v6census/v6census/pkg/utils/echoutil"
	"github.com/v6census/v6census/pkg/utils/filewatch"
	kstrings "github.com/v6census/v6census/pkg/utils/strings"

	"github.com/v6census/v6census/cmd/censusd/handlers"
)

func main() {

	configPath := flag.String("config-path", "", "census config path")
	loglevel := flag.String("loglevel", "", "log level. debug|info|warn|error|off. defaults to CENSUS_LOGLEVEL")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	env, err := kcc.ParseEnv()
	if err != nil {
		log.Fatalf("can not read environment: %s", err)
	}
	if *loglevel == "" {
		*loglevel = env.LogLevel
	}

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := kcc.LoadCensusConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	{
		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(ctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
	}

	api, err := root("/api")
	if err != nil {
		log.Fatalf("api root /api is invalid url or path: %s", err)
	}

	ctx := context.Background()

	// get the snapshot store. empty URI means memory only.
	dburi := conf.Database()
	if env.Database != "" {
		dburi = env.Database
	}
	var db kdb.Database
	if dburi != "" {
		db, err = kpg.New(ctx, dburi)
		if err != nil {
			log.Fatalf("can not connect to the snapshot store: %s", err)
		}
		defer db.Close()
	}

	scfg := sources.Config{CloudflareAPIKey: env.CloudflareAPIKey}
	mtr := metrics.New(prometheus.DefaultRegisterer, "v6census")

	options := []kcd.Option{
		kcd.WithFamilies(sources.Families(scfg)...),
		kcd.WithMetrics(mtr),
		kcd.WithTTL(conf.Cache().TTL()),
		kcd.WithMaxParallel(conf.Collector().MaxParallel()),
		kcd.WithFetchTimeout(conf.Collector().FetchTimeout()),
	}
	if db != nil {
		options = append(options, kcd.WithStore(db.Snapshots()))
	}
	mgr := kcd.New(sources.Registry(scfg), options...)

	if db != nil {
		if loaded, err := mgr.Hydrate(ctx); err != nil {
			log.Printf("can not hydrate the cache from the store: %s", err)
		} else {
			log.Printf("hydrated %d snapshots from the store", loaded)
		}
	}

	// handlers
	{
		e.GET(api("overview"), handlers.GetOverviewHandler(mgr))
		e.GET(api("sources"), handlers.GetSourcesHandler(mgr))
	}

	{
		e.GET(api("adoption"), handlers.GetAdoptionHandler(mgr))
		e.GET(api("adoption/countries"), handlers.GetCountriesHandler(mgr))
		e.GET(api("adoption/history"), handlers.GetAdoptionHistoryHandler(mgr))
	}

	{
		e.GET(api("bgp"), handlers.GetBGPHandler(mgr))
		e.GET(api("bgp/history"), handlers.GetBGPHistoryHandler(mgr))
		e.GET(api("bgp/prefixes"), handlers.GetBGPPrefixesHandler(mgr))
	}

	{
		e.GET(api("rir"), handlers.GetRIRHandler(mgr))
		e.GET(api("rir/:registry/"), handlers.GetRegistryHandler(mgr, "registry"))
	}

	{
		e.GET(api("cloud"), handlers.GetCloudHandler(mgr))
		e.GET(api("federal"), handlers.GetFederalHandler(mgr))
		e.GET(api("whois")+"*", handlers.GetWhoisHandler(mgr))
		e.GET(api("export")+"*", handlers.ExportHandler(mgr))
	}

	{
		bearer := auth.Bearer(conf.Admin().SignKey())
		e.POST(api("admin/refresh"), handlers.RefreshHandler(mgr), bearer)
		e.POST(api("admin/invalidate"), handlers.InvalidateHandler(mgr), bearer)
	}

	e.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health/", handlers.HealthHandler(db))

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.Port(), cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.Port()))
	}
}

// create api URL factory
//
// args:
//   - root: api root
//
// return:
// - func: it receive relative path from root, and returns full-path of URL.
func root(r string) (func(...string) string, error) {
	//    when r is https://example.org:8080/api/root/path
	origin := "" // https://example.org:8080/ . "/" terminated. if r is path only, this is empty.
	base := ""   // /api/root/path
	{
		b, err := url.Parse(r)
		if err != nil {
			return nil, err
		}
		base = b.Path
		if b.Host != "" || b.Scheme != "" {
			_r := *b
			r := &_r
			r.RawPath = ""
			r.Path = ""
			r.RawQuery = ""
			r.Fragment = ""
			origin = r.String()
		}
	}
	origin = kstrings.SuppySuffix(origin, "/")

	return func(s ...string) string {
		parts := make([]string, len(s)+1)
		parts[0] = base
		copy(parts[1:], s)
		path := path.Join(parts...)
		path = kstrings.TrimPrefixAll(path, "/")

		return kstrings.SuppySuffix(origin+path, "/")
	}, nil
}
