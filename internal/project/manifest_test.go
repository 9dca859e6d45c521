package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"sable/internal/project"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoad_FindsManifestInParent(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "demo"

[codegen]
verify = false
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := project.Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatalf("manifest not found from nested dir")
	}
	if m.Config.Package.Name != "demo" {
		t.Errorf("package name = %q, want %q", m.Config.Package.Name, "demo")
	}
	if m.Root != root {
		t.Errorf("root = %q, want %q", m.Root, root)
	}
	if opts := m.Config.Codegen.Options(); opts.VerifyAfterGen {
		t.Errorf("verify = true, want manifest override to false")
	}
}

func TestLoad_NoManifest(t *testing.T) {
	_, ok, err := project.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("found a manifest in an empty temp dir")
	}
}

func TestCodegenConfig_Defaults(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `
[package]
name = "demo"
`)
	cfg, err := project.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if opts := cfg.Codegen.Options(); !opts.VerifyAfterGen {
		t.Errorf("verify defaults to false, want true")
	}
}

func TestLoadConfig_BadTOML(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `[package`)
	if _, err := project.LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
