package main

/*
# Running
Usage: ./maptile-engine [ -t ] [ --database-path /path/to/store.bin ] --tile /default/12/2048/1362.png

Prints the rendered tile's per-feature RenderAttributes as JSON on stdout.
Pass --serve-admin to additionally expose the operational HTTP surface
(/health, /stats, /cache/clear) until interrupted.

# Configuration
Config file via `-c`/`--config`. Overridable with `MAPTILE_`-prefixed
environment variables (see internal/conf).

# Logging
Logging to stderr.
*/

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pborman/getopt/v2"
	log "github.com/sirupsen/logrus"

	"github.com/tobilg/maptile-engine/internal/admin"
	"github.com/tobilg/maptile-engine/internal/cache"
	"github.com/tobilg/maptile-engine/internal/conf"
	"github.com/tobilg/maptile-engine/internal/job"
	"github.com/tobilg/maptile-engine/internal/persist"
	"github.com/tobilg/maptile-engine/internal/rule"
	"github.com/tobilg/maptile-engine/internal/store"
)

var (
	flagHelp           bool
	flagVersion        bool
	flagDebugOn        bool
	flagTestModeOn     bool
	flagConfigFilename string
	flagStorePath      string
	flagStylesheetDir  string
	flagTileID         string
	flagServeAdmin     bool
)

func init() {
	getopt.FlagLong(&flagHelp, "help", '?', "Show command usage")
	getopt.FlagLong(&flagConfigFilename, "config", 'c', "", "config file name")
	getopt.FlagLong(&flagDebugOn, "debug", 'd', "Set logging level to TRACE")
	getopt.FlagLong(&flagTestModeOn, "test", 't', "Use an empty in-memory geodata store instead of loading one from disk")
	getopt.FlagLong(&flagVersion, "version", 'v', "Output the version information")
	getopt.FlagLong(&flagStorePath, "database-path", 0, "", "Path to a persisted geodata artifact")
	getopt.FlagLong(&flagStylesheetDir, "stylesheet-dir", 0, "", "Directory stylesheet asset paths resolve against")
	getopt.FlagLong(&flagTileID, "tile", 0, "", "Tile identifier to render, e.g. /default/12/2048/1362.png")
	getopt.FlagLong(&flagServeAdmin, "serve-admin", 0, "Serve the operational admin HTTP surface after rendering")
}

func main() {
	getopt.Parse()

	if flagHelp {
		getopt.Usage()
		os.Exit(1)
	}

	if flagVersion {
		fmt.Printf("%s %s\n", conf.AppConfig.Name, conf.AppConfig.Version)
		os.Exit(1)
	}

	log.Infof("----  %s - Version %s ----------", conf.AppConfig.Name, conf.AppConfig.Version)

	conf.InitConfig(flagConfigFilename, flagDebugOn)
	if flagDebugOn {
		log.SetLevel(log.TraceLevel)
	}
	conf.DumpConfig()

	assets, err := cache.NewAssetCache(conf.Configuration.Cache.AssetCacheSize)
	if err != nil {
		log.WithError(err).Fatal("failed to build asset cache")
	}

	var geodata *store.Geodata
	var sheet *rule.Stylesheet

	if flagTestModeOn || flagStorePath == "" {
		log.Info("running against an in-memory demo geodata store")
		geodata, err = store.NewGeodata(nil, nil, nil)
		if err != nil {
			log.WithError(err).Fatal("failed to build demo geodata")
		}
		sheet = rule.NewDemoStylesheet(flagStylesheetDir)
	} else {
		geodata, err = persist.LoadFile(flagStorePath)
		if err != nil {
			log.WithError(err).Fatalf("failed to load geodata store from %s", flagStorePath)
		}
		sheet = rule.NewDemoStylesheet(flagStylesheetDir)
	}

	if flagTileID != "" {
		attrs, err := job.Render(geodata, sheet, assets, flagTileID)
		if err != nil {
			log.WithError(err).Fatalf("failed to render tile %s", flagTileID)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(attrs); err != nil {
			log.WithError(err).Fatal("failed to encode render attributes")
		}
	}

	if flagServeAdmin {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		eng := &admin.Engine{Geodata: geodata, Assets: assets}
		if err := admin.Serve(ctx, conf.Configuration.Admin.ListenAddress, eng); err != nil {
			log.WithError(err).Fatal("admin surface exited with error")
		}
	}
}
