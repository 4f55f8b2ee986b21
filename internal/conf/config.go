// Package conf holds process-wide configuration: engine settings read
// from an optional TOML config file, overridden by MAPTILE_-prefixed
// environment variables, in the teacher's viper-based pattern.
package conf

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// IndexConfig holds leaf-capacity settings read from the config file and
// environment. The index package builds with its own compile-time constants
// (index.PointLeafCapacity, index.RectLeafCapacity) and does not read these
// values.
type IndexConfig struct {
	// PointLeafCapacity is the configured kd-tree leaf size.
	PointLeafCapacity int
	// RectLeafCapacity is the configured R-tree leaf size.
	RectLeafCapacity int
}

// RenderConfig holds default zoom bounds read from the config file and
// environment. Every rule carries its own ZoomBottom/ZoomTop; the rule
// engine does not read these values.
type RenderConfig struct {
	DefaultZoomBottom int
	DefaultZoomTop    int
}

// CacheConfig sizes the process-wide asset existence cache.
type CacheConfig struct {
	AssetCacheSize int
}

// AdminConfig configures the introspection-only HTTP surface.
type AdminConfig struct {
	ListenAddress string
	Debug         bool
}

// Config is the full, nested configuration tree. Zero value is never used
// directly — InitConfig populates Configuration with defaults overlaid by
// config file and environment.
type Config struct {
	Index  IndexConfig
	Render RenderConfig
	Cache  CacheConfig
	Admin  AdminConfig
}

// Configuration is the process-wide configuration singleton, populated by
// InitConfig.
var Configuration Config

// InitConfig loads configuration from an optional TOML file at path (skipped
// when empty) and MAPTILE_-prefixed environment variables, overlaying
// defaults. debug forces Admin.Debug on regardless of file/env, matching the
// teacher's command-line-overrides-config precedence for its debug flag.
func InitConfig(path string, debug bool) {
	v := viper.New()

	v.SetDefault("index.pointleafcapacity", 1024)
	v.SetDefault("index.rectleafcapacity", 100)
	v.SetDefault("render.defaultzoombottom", 0)
	v.SetDefault("render.defaultzoomtop", 18)
	v.SetDefault("cache.assetcachesize", 4096)
	v.SetDefault("admin.listenaddress", ":9001")
	v.SetDefault("admin.debug", false)

	v.SetEnvPrefix(AppConfig.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.WithError(err).WithField("path", path).Warn("conf: failed to read config file, using defaults/env only")
		}
	}

	Configuration = Config{
		Index: IndexConfig{
			PointLeafCapacity: v.GetInt("index.pointleafcapacity"),
			RectLeafCapacity:  v.GetInt("index.rectleafcapacity"),
		},
		Render: RenderConfig{
			DefaultZoomBottom: v.GetInt("render.defaultzoombottom"),
			DefaultZoomTop:    v.GetInt("render.defaultzoomtop"),
		},
		Cache: CacheConfig{
			AssetCacheSize: v.GetInt("cache.assetcachesize"),
		},
		Admin: AdminConfig{
			ListenAddress: v.GetString("admin.listenaddress"),
			Debug:         v.GetBool("admin.debug"),
		},
	}

	if debug {
		Configuration.Admin.Debug = true
	}
}

// DumpConfig logs the active configuration at info level, mirroring the
// teacher's startup diagnostics.
func DumpConfig() {
	log.WithFields(log.Fields{
		"index.pointLeafCapacity": Configuration.Index.PointLeafCapacity,
		"index.rectLeafCapacity":  Configuration.Index.RectLeafCapacity,
		"render.defaultZoomRange": [2]int{Configuration.Render.DefaultZoomBottom, Configuration.Render.DefaultZoomTop},
		"cache.assetCacheSize":    Configuration.Cache.AssetCacheSize,
		"admin.listenAddress":     Configuration.Admin.ListenAddress,
		"admin.debug":             Configuration.Admin.Debug,
	}).Info("conf: active configuration")
}
