package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig(viper.New(), "")
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.CartKey != "foodcart-cart" || cfg.StorageDriver != StorageDriverFile || cfg.Publisher != PublisherNone {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.PublishTimeout != 5*time.Second {
		t.Fatalf("PublishTimeout = %v", cfg.PublishTimeout)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foodcart.yaml")
	doc := "storage_driver: memory\ncart_key: my-cart\npublish_timeout: 250ms\ninitial_restaurants: 3\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOODCART_HTTP_ADDR", ":9999")

	cfg, err := LoadConfig(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.StorageDriver != StorageDriverMemory || cfg.CartKey != "my-cart" || cfg.InitialRestaurants != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.PublishTimeout != 250*time.Millisecond {
		t.Fatalf("PublishTimeout = %v", cfg.PublishTimeout)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}
