package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("found %q, want %q", got, want)
	}
}

func TestLoadDecodesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[build]\njobs = 4\n\n[log]\nlevel = \"debug\"\n")

	m, ok, err := Load(dir)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Root != dir {
		t.Errorf("Root = %q, want %q", m.Root, dir)
	}
	cfg := m.Config
	if cfg.Build.Jobs != 4 || cfg.Log.Level != "debug" {
		t.Errorf("decoded %+v", cfg)
	}
	if cfg.Build.MaxDiagnostics != 100 || !cfg.Build.Cache {
		t.Errorf("defaults lost: %+v", cfg.Build)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[build\n", "failed to parse TOML"},
		{"unknown key", "[build]\nturbo = true\n", "unknown keys: build.turbo"},
		{"negative jobs", "[build]\njobs = -1\n", "[build].jobs"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "[log].level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	var d Digest
	if !d.IsZero() {
		t.Fatal("zero digest not reported as zero")
	}
	a := Salt(d, "schema-1")
	b := Salt(d, "schema-2")
	if a == b || a.IsZero() {
		t.Fatalf("salting did not separate keys: %s %s", a.Hex(), b.Hex())
	}
	if len(a.Hex()) != 64 {
		t.Fatalf("hex length %d", len(a.Hex()))
	}
	if Combine(d) == Combine(d, a) {
		t.Fatal("Combine ignores parts")
	}
}
