package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Driver != StoreSQLite {
		t.Errorf("store driver = %s, want %s", cfg.Store.Driver, StoreSQLite)
	}
	if cfg.Media.Driver != "fs" {
		t.Errorf("media driver = %s, want fs", cfg.Media.Driver)
	}
	if cfg.Media.Root == "" {
		t.Error("fs media root should default under the fieldbook home")
	}
	if cfg.HTTP.Addr != ":8090" {
		t.Errorf("http addr = %s", cfg.HTTP.Addr)
	}
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	cfg.Store.Driver = StorePostgres
	cfg.Store.DSN = "postgres://fieldbook@localhost/fieldbook"
	cfg.HTTP.Addr = ":9000"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Store.Driver != StorePostgres || loaded.Store.DSN != cfg.Store.DSN {
		t.Errorf("store = %+v", loaded.Store)
	}
	if loaded.HTTP.Addr != ":9000" {
		t.Errorf("http addr = %s", loaded.HTTP.Addr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FIELDBOOK_STORE_DRIVER", "memory")
	t.Setenv("FIELDBOOK_MEDIA_DRIVER", "s3")
	t.Setenv("FIELDBOOK_MEDIA_BUCKET", "fieldbook-media")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Driver != StoreMemory {
		t.Errorf("store driver = %s, want memory", cfg.Store.Driver)
	}
	if cfg.Media.Driver != "s3" || cfg.Media.Bucket != "fieldbook-media" {
		t.Errorf("media = %+v", cfg.Media)
	}
}

func TestHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := HomeDir()
	if err != nil {
		t.Fatalf("HomeDir failed: %v", err)
	}
	if dir != filepath.Join(home, ".fieldbook") {
		t.Errorf("home dir = %s", dir)
	}
}
