package cli

import (
	"path/filepath"
	"testing"

	"github.com/blockarchiver/bkar/pkg/fs"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	realFS := fs.NewReal()

	if err := realFS.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := realFS.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadConfig_Defaults_When_No_Files_Present(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	env := []string{"XDG_CONFIG_HOME=" + filepath.Join(t.TempDir(), "config")}

	cfg, err := LoadConfig(fs.NewReal(), workDir, env)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg != (Config{}) {
		t.Errorf("cfg = %+v, want zero value", cfg)
	}
}

func TestLoadConfig_ReadsProjectFile(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	env := []string{"XDG_CONFIG_HOME=" + filepath.Join(t.TempDir(), "config")}

	writeTestFile(t, filepath.Join(workDir, configFileName), `{"default_verbose": 2}`)

	cfg, err := LoadConfig(fs.NewReal(), workDir, env)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DefaultVerbose != 2 {
		t.Errorf("DefaultVerbose = %d, want 2", cfg.DefaultVerbose)
	}
}

func TestLoadConfig_AcceptsJWCCComments(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	env := []string{"XDG_CONFIG_HOME=" + filepath.Join(t.TempDir(), "config")}

	writeTestFile(t, filepath.Join(workDir, configFileName), `{
		// verbosity used when -v is absent
		"default_verbose": 1,
	}`)

	cfg, err := LoadConfig(fs.NewReal(), workDir, env)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DefaultVerbose != 1 {
		t.Errorf("DefaultVerbose = %d, want 1", cfg.DefaultVerbose)
	}
}

func TestLoadConfig_ProjectOverridesGlobal(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	xdgHome := filepath.Join(t.TempDir(), "config")
	env := []string{"XDG_CONFIG_HOME=" + xdgHome}

	writeTestFile(t, filepath.Join(xdgHome, "bkar", "config.json"), `{"default_verbose": 1, "extract_dir": "global"}`)
	writeTestFile(t, filepath.Join(workDir, configFileName), `{"default_verbose": 2}`)

	cfg, err := LoadConfig(fs.NewReal(), workDir, env)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DefaultVerbose != 2 {
		t.Errorf("DefaultVerbose = %d, want 2 (project should override global)", cfg.DefaultVerbose)
	}

	if cfg.ExtractDir != "global" {
		t.Errorf("ExtractDir = %q, want %q (unset by project, should keep global)", cfg.ExtractDir, "global")
	}
}

func TestLoadConfig_InvalidJSON_Errors(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	env := []string{"XDG_CONFIG_HOME=" + filepath.Join(t.TempDir(), "config")}

	writeTestFile(t, filepath.Join(workDir, configFileName), `{not valid json`)

	_, err := LoadConfig(fs.NewReal(), workDir, env)
	if err == nil {
		t.Fatal("LoadConfig: expected error for invalid JSON, got nil")
	}
}
