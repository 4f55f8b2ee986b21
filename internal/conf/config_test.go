package conf

/*
 Copyright 2026 The maptile-engine Authors.
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at
      http://www.apache.org/licenses/LICENSE-2.0
 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

import (
	"os"
	"path/filepath"
	"testing"
)

func clearConfigEnvVars() {
	envVars := []string{
		"MAPTILE_INDEX_POINTLEAFCAPACITY",
		"MAPTILE_INDEX_RECTLEAFCAPACITY",
		"MAPTILE_RENDER_DEFAULTZOOMBOTTOM",
		"MAPTILE_RENDER_DEFAULTZOOMTOP",
		"MAPTILE_CACHE_ASSETCACHESIZE",
		"MAPTILE_ADMIN_LISTENADDRESS",
		"MAPTILE_ADMIN_DEBUG",
	}
	for _, ev := range envVars {
		os.Unsetenv(ev)
	}
	Configuration = Config{}
}

func TestDefaultValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	InitConfig("", false)

	if Configuration.Index.PointLeafCapacity != 1024 {
		t.Errorf("PointLeafCapacity = %d, want 1024", Configuration.Index.PointLeafCapacity)
	}
	if Configuration.Index.RectLeafCapacity != 100 {
		t.Errorf("RectLeafCapacity = %d, want 100", Configuration.Index.RectLeafCapacity)
	}
	if Configuration.Render.DefaultZoomTop != 18 {
		t.Errorf("DefaultZoomTop = %d, want 18", Configuration.Render.DefaultZoomTop)
	}
	if Configuration.Admin.ListenAddress != ":9001" {
		t.Errorf("ListenAddress = %q, want %q", Configuration.Admin.ListenAddress, ":9001")
	}
}

func TestEnvironmentVariableOverridesDefault(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("MAPTILE_INDEX_POINTLEAFCAPACITY", "256")
	os.Setenv("MAPTILE_ADMIN_LISTENADDRESS", "127.0.0.1:8080")

	InitConfig("", false)

	if Configuration.Index.PointLeafCapacity != 256 {
		t.Errorf("PointLeafCapacity = %d, want 256", Configuration.Index.PointLeafCapacity)
	}
	if Configuration.Admin.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %q, want %q", Configuration.Admin.ListenAddress, "127.0.0.1:8080")
	}
}

func TestConfigFileOverriddenByEnvironment(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	configContent := `
[cache]
assetcachesize = 2048
`
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "test_config.toml")
	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("MAPTILE_CACHE_ASSETCACHESIZE", "512")

	InitConfig(configFile, false)

	if Configuration.Cache.AssetCacheSize != 512 {
		t.Errorf("AssetCacheSize = %d, want 512 (env overrides config file)", Configuration.Cache.AssetCacheSize)
	}
}

func TestConfigFileOnly(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	configContent := `
[cache]
assetcachesize = 2048
`
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "test_config.toml")
	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	InitConfig(configFile, false)

	if Configuration.Cache.AssetCacheSize != 2048 {
		t.Errorf("AssetCacheSize = %d, want 2048 (from config file)", Configuration.Cache.AssetCacheSize)
	}
}

func TestDebugFlagOverridesConfig(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	InitConfig("", true)

	if !Configuration.Admin.Debug {
		t.Error("expected Admin.Debug to be forced on by the debug flag")
	}
}
