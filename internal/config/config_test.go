package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Mongo.Timeout != 10*time.Second || cfg.Storage.Breaker.Timeout != 5*time.Second {
		t.Fatalf("durations not decoded: %+v", cfg.Storage)
	}
	if cfg.Extractor.Codec != "H.264" || cfg.Extractor.AudioChannels != 2 {
		t.Fatalf("extractor defaults: %+v", cfg.Extractor)
	}
}

func TestFromYAMLOverridesDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte(`
storage:
  driver: mongo
  mongo:
    uri: mongodb://db:27017
logging:
  level: debug
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Storage.Driver != DriverMongo || cfg.Storage.Mongo.URI != "mongodb://db:27017" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Mongo.Database != "frameline" {
		t.Fatalf("database default lost: %q", cfg.Storage.Mongo.Database)
	}
	if cfg.Server.BasePath != "/v0" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"driver":    "storage:\n  driver: cassandra\n",
		"base path": "server:\n  base_path: v0\n",
		"level":     "logging:\n  level: loud\n",
		"breaker":   "storage:\n  breaker:\n    consecutive_failures: 0\n",
		"channels":  "extractor:\n  audio_channels: -1\n",
		"mongo uri": "storage:\n  driver: mongo\n  mongo:\n    uri: \"\"\n",
	}
	for name, doc := range cases {
		if _, err := FromYAML([]byte(doc)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected missing config error")
	}
	cfg, err := LoadOptional(dir)
	if err != nil || cfg == nil {
		t.Fatalf("load optional: cfg=%v err=%v", cfg, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "frameline.yml"), []byte(GenerateDefault()), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err != nil {
		t.Fatalf("load: %v", err)
	}
}
