package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulate(t *testing.T) {
	out, err := run(t, "simulate", "--seed", "7", "--roam", "2s", "--misses", "0,3")
	if err != nil {
		t.Fatalf("simulate: %v\n%s", err, out)
	}
	for _, want := range []string{"Seed: 7", "--- Kitchen ---", "revealed", "--- Result ---", "2 stars"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimulateSameSeedSameRun(t *testing.T) {
	a, err := run(t, "simulate", "--seed", "11", "--roam", "3s")
	if err != nil {
		t.Fatal(err)
	}
	b, err := run(t, "simulate", "--seed", "11", "--roam", "3s")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("same seed produced different runs:\n%s\n---\n%s", a, b)
	}
}

func TestCatalog(t *testing.T) {
	out, err := run(t, "catalog")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Green Onion (green-onion)") || !strings.Contains(out, "Galbi Dinner: galbi, green-onion, rice") {
		t.Fatalf("unexpected catalog output:\n%s", out)
	}
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cafe.yaml")
	if err := os.WriteFile(path, []byte("fps: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", path, "simulate"); err == nil {
		t.Fatalf("expected invalid config to fail")
	}
}
