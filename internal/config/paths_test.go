package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDirEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvDataDir, tmp)

	d, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir(): %v", err)
	}
	if d != tmp {
		t.Fatalf("expected %s got %s", tmp, d)
	}
}

func TestDBPathEnvOverride(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "custom.db")
	t.Setenv(EnvDBPath, tmp)

	p, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}
	if p != tmp {
		t.Fatalf("expected %s got %s", tmp, p)
	}
}

func TestDBPathUnderDataDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvDataDir, tmp)
	t.Setenv(EnvDBPath, "")

	p, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}
	if want := filepath.Join(tmp, "upkeep.db"); p != want {
		t.Fatalf("expected %s got %s", want, p)
	}
}

func TestEnsureDataDirCreatesDir(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "nested", "state")
	t.Setenv(EnvDataDir, tmp)

	d, err := EnsureDataDir()
	if err != nil {
		t.Fatalf("EnsureDataDir(): %v", err)
	}
	if _, err := os.Stat(d); err != nil {
		t.Fatalf("expected dir %s to exist: %v", d, err)
	}
}

func TestUserConfigPathXDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	p, err := UserConfigPath()
	if err != nil {
		t.Fatalf("UserConfigPath(): %v", err)
	}
	if want := filepath.Join(tmp, "upkeep", "config.yml"); p != want {
		t.Fatalf("expected %s got %s", want, p)
	}
}
