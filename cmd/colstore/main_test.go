package main

import (
	"path/filepath"
	"testing"

	"github.com/Giulio2002/colstore"
)

func run(t *testing.T, dbPath string, args ...string) error {
	t.Helper()
	return newApp().Run(append([]string{"colstore", "--db", dbPath}, args...))
}

func TestCLIEditAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	if err := run(t, path, "set", "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := run(t, path, "set", "k", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := run(t, path, "add", "k", "extra"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := run(t, path, "get", "k"); err != nil {
		t.Fatalf("get: %v", err)
	}

	// Verify through the library what the commands left behind.
	cfg := colstore.DefaultConfig()
	cfg.Path = path
	ctx := colstore.NewContext(cfg)
	defer ctx.Close()
	col := colstore.NewCollection(ctx, "default")

	var out []colstore.ResolvedVariable
	col.ResolveSingleMatch("k", &out)
	if len(out) != 2 {
		t.Fatalf("got %d values under k, want replaced value plus duplicate: %+v", len(out), out)
	}
}

func TestCLIGetMissingKeyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	if err := run(t, path, "get", "absent"); err == nil {
		t.Fatal("get of absent key succeeded")
	}
}

func TestCLIDel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	if err := run(t, path, "set", "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := run(t, path, "del", "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if err := run(t, path, "get", "k"); err == nil {
		t.Fatal("key still resolvable after del")
	}
}

func TestCLIStatDumpGrep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	for _, kv := range [][2]string{{"req.1", "a"}, {"req.2", "b"}, {"res.1", "c"}} {
		if err := run(t, path, "set", kv[0], kv[1]); err != nil {
			t.Fatalf("set %s: %v", kv[0], err)
		}
	}

	if err := run(t, path, "stat"); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if err := run(t, path, "dump", "req."); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if err := run(t, path, "grep", "^res"); err != nil {
		t.Fatalf("grep: %v", err)
	}
}
