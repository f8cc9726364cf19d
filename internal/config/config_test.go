package config

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/petems/listen-transcriber/internal/whisper"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvOutputDir, EnvFFmpeg, EnvWhisper, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Whisper.Model != "medium" || cfg.Whisper.Language != "auto" {
		t.Errorf("unexpected whisper defaults %+v", cfg.Whisper)
	}
	if cfg.Capture.Binary != "ffmpeg" || cfg.Capture.Format != "avfoundation" {
		t.Errorf("unexpected capture defaults %+v", cfg.Capture)
	}
	if !cfg.Recording.AppendTimestamp || !cfg.Notifications {
		t.Error("expected timestamps and notifications on by default")
	}
	if cfg.StopTimeout() != 5*time.Second {
		t.Errorf("unexpected stop timeout %v", cfg.StopTimeout())
	}
	if filepath.Base(cfg.OutputFolder) != "Transcripts" {
		t.Errorf("unexpected output folder %s", cfg.OutputFolder)
	}
	if cfg.File() != path {
		t.Errorf("expected file %s, got %s", path, cfg.File())
	}
}

func TestLoadJSONOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	raw := `{
  "output_folder": "` + filepath.ToSlash(dir) + `/out",
  "whisper": {"model": "small", "language": "es", "use_gpu": true},
  "recording": {"base_name": "standup", "append_timestamp": false}
}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.ModelSize() != whisper.ModelSmall || cfg.Language() != whisper.LanguageSpanish || !cfg.Whisper.UseGPU {
		t.Errorf("unexpected whisper config %+v", cfg.Whisper)
	}
	if cfg.Recording.BaseName != "standup" || cfg.Recording.AppendTimestamp {
		t.Errorf("unexpected recording config %+v", cfg.Recording)
	}
	// untouched sections keep their defaults
	if cfg.Whisper.Binary != "whisper-cli" {
		t.Errorf("expected default binary, got %q", cfg.Whisper.Binary)
	}
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	raw := `
output_folder = "/tmp/transcripts"
include_microphone = true

[whisper]
model = "small"
language = "en"
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !cfg.IncludeMicrophone || cfg.OutputFolder != "/tmp/transcripts" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Language() != whisper.LanguageEnglish {
		t.Errorf("expected en, got %q", cfg.Language())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown model", `{"whisper": {"model": "large-v3"}}`},
		{"unknown language", `{"whisper": {"language": "fr"}}`},
		{"negative timeout", `{"capture": {"stop_timeout_seconds": -1}}`},
		{"malformed json", `{"whisper":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.raw), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv(EnvOutputDir, "~/Meetings")
	t.Setenv(EnvFFmpeg, "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv(EnvWhisper, "/opt/whisper/whisper-cli")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputFolder != filepath.Join(home, "Meetings") {
		t.Errorf("expected tilde expansion, got %s", cfg.OutputFolder)
	}
	if cfg.Capture.Binary != "/opt/ffmpeg/bin/ffmpeg" || cfg.Whisper.Binary != "/opt/whisper/whisper-cli" {
		t.Errorf("binary overrides not applied: %+v %+v", cfg.Capture, cfg.Whisper)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
}

func TestSetOutputFolderPersists(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := cfg.SetOutputFolder("/data/transcripts"); err != nil {
		t.Fatalf("SetOutputFolder failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["output_folder"] != "/data/transcripts" {
		t.Errorf("unexpected persisted folder %v", raw["output_folder"])
	}

	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.OutputFolder != "/data/transcripts" {
		t.Errorf("expected reload to keep folder, got %s", reloaded.OutputFolder)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestSaveSkipsEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFFmpeg, "/tmp/one-off-ffmpeg")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvOutputDir, "/tmp/one-off-output")
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"log_level": "warn", "output_folder": "/data/meetings"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := cfg.Update(func(c *Config) { c.Whisper.Model = "small" }); err != nil {
		t.Fatal(err)
	}
	if cfg.Capture.Binary != "/tmp/one-off-ffmpeg" || cfg.OutputFolder != "/tmp/one-off-output" {
		t.Errorf("overrides must stay in effect after saving: %+v", cfg.Values)
	}

	clearEnv(t)
	saved, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Capture.Binary != "ffmpeg" {
		t.Errorf("env binary leaked into file: %s", saved.Capture.Binary)
	}
	if saved.LogLevel != "warn" {
		t.Errorf("env log level leaked into file: %s", saved.LogLevel)
	}
	if saved.OutputFolder != "/data/meetings" {
		t.Errorf("env output folder leaked into file: %s", saved.OutputFolder)
	}
	if saved.Whisper.Model != "small" {
		t.Errorf("explicit change not saved: %s", saved.Whisper.Model)
	}
}

func TestSetOutputFolderReplacesEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOutputDir, "/tmp/one-off-output")
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := cfg.SetOutputFolder("/data/chosen"); err != nil {
		t.Fatal(err)
	}

	clearEnv(t)
	saved, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.OutputFolder != "/data/chosen" {
		t.Errorf("expected chosen folder to be saved, got %s", saved.OutputFolder)
	}
	if saved.Capture.Binary != "ffmpeg" {
		t.Errorf("unexpected binary %s", saved.Capture.Binary)
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Whisper.Model = "small"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.ModelSize() != whisper.ModelSmall {
		t.Errorf("expected small, got %q", reloaded.Whisper.Model)
	}
}

func TestModelsPath(t *testing.T) {
	cfg := Default()
	cfg.OutputFolder = "/out"
	if got := cfg.ModelsPath(); got != filepath.Join("/out", "models") {
		t.Errorf("unexpected models path %s", got)
	}
}

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestResolveBinaryPrefersBundled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("bundle layout is unix only")
	}
	root := t.TempDir()
	exe := filepath.Join(root, "MacOS", "listen-transcriber")
	writeExecutable(t, exe)
	writeExecutable(t, filepath.Join(root, "Resources", "bin", "whisper-cli"))
	writeExecutable(t, filepath.Join(root, "MacOS", "bin", "ffmpeg"))

	orig := executable
	executable = func() (string, error) { return exe, nil }
	t.Cleanup(func() { executable = orig })

	got, err := ResolveBinary("ffmpeg")
	if err != nil || got != filepath.Join(root, "MacOS", "bin", "ffmpeg") {
		t.Errorf("expected bundled ffmpeg, got %q (%v)", got, err)
	}

	got, err = ResolveBinary("whisper-cli")
	if err != nil || filepath.Clean(got) != filepath.Join(root, "Resources", "bin", "whisper-cli") {
		t.Errorf("expected bundle resources whisper-cli, got %q (%v)", got, err)
	}
}

func TestResolveBinaryMissing(t *testing.T) {
	orig := executable
	executable = func() (string, error) { return filepath.Join(t.TempDir(), "app"), nil }
	t.Cleanup(func() { executable = orig })

	if _, err := ResolveBinary("definitely-not-a-real-binary-xyz"); !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := ResolveBinary(filepath.Join(t.TempDir(), "ffmpeg")); !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing absolute path, got %v", err)
	}
}

func TestUpdatePersists(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hotkey != "Ctrl+Shift+R" {
		t.Errorf("unexpected default hotkey %q", cfg.Hotkey)
	}

	if err := cfg.Update(func(c *Config) {
		c.Whisper.UseGPU = true
		c.Hotkey = ""
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.Whisper.UseGPU || reloaded.Hotkey != "" {
		t.Errorf("update not persisted: %+v", reloaded)
	}
}
