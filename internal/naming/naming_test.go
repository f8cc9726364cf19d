package naming

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Reunión Cliente!!", "reuni-n-cliente"},
		{"weekly_sync", "weekly_sync"},
		{"  Team -- Standup  ", "team-standup"},
		{"__private__", "private"},
		{"-_-lead_-", "lead"},
		{"2024 Q1 Review", "2024-q1-review"},
		{"", ""},
		{"!!!", ""},
		{"日本語", ""},
	}

	for _, tt := range tests {
		got := SanitizeBaseName(tt.input)
		if got != tt.want {
			t.Errorf("SanitizeBaseName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeBaseNameIdempotent(t *testing.T) {
	inputs := []string{
		"Reunión Cliente!!",
		"a--b__c",
		"_x_-",
		"Hello, World / 2024",
		"---",
		"mixed_CASE-name",
	}

	for _, in := range inputs {
		once := SanitizeBaseName(in)
		twice := SanitizeBaseName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestBuildRecordingName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		name      string
		base      string
		timestamp bool
		want      string
	}{
		{name: "default base with timestamp", base: "", timestamp: true, want: "meeting-2024-03-09T14-05-07Z"},
		{name: "default base without timestamp", base: "", timestamp: false, want: "meeting"},
		{name: "invalid base falls back", base: "???", timestamp: false, want: "meeting"},
		{name: "sanitized base", base: "Client Call", timestamp: false, want: "client-call"},
		{name: "sanitized base with timestamp", base: "Client Call", timestamp: true, want: "client-call-2024-03-09T14-05-07Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRecordingName(tt.base, tt.timestamp, now)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuildRecordingNameTimestampHasNoColons(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	got := BuildRecordingName("", true, time.Date(2024, 1, 2, 3, 4, 5, 0, loc))

	if !strings.HasPrefix(got, "meeting-") {
		t.Fatalf("expected meeting- prefix, got %q", got)
	}
	if strings.Contains(got, ":") {
		t.Errorf("expected no ':' in %q", got)
	}
	if got != "meeting-2024-01-02T06-04-05Z" {
		t.Errorf("expected timestamp normalised to UTC, got %q", got)
	}
}

func TestBuildRecordingNameCollidesWithoutTimestamp(t *testing.T) {
	now := time.Now()
	a := BuildRecordingName("Sync", false, now)
	b := BuildRecordingName("Sync", false, now.Add(500*time.Millisecond))
	if a != b {
		t.Errorf("expected identical names, got %q and %q", a, b)
	}
}

func TestResolvePaths(t *testing.T) {
	out := filepath.Join(t.TempDir(), "Transcripts")

	paths, err := ResolvePaths(out, "client-call")
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}

	if paths.AudioPath != filepath.Join(out, "client-call.wav") {
		t.Errorf("unexpected audio path %q", paths.AudioPath)
	}
	if paths.TranscriptBase != filepath.Join(out, "client-call-transcript") {
		t.Errorf("unexpected transcript base %q", paths.TranscriptBase)
	}
	if paths.TranscriptPath != paths.TranscriptBase+".txt" {
		t.Errorf("unexpected transcript path %q", paths.TranscriptPath)
	}

	for _, dir := range []string{out, filepath.Join(out, "models")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist: %v", dir, err)
		}
	}

	// Second call is a no-op on the filesystem
	if _, err := ResolvePaths(out, "client-call"); err != nil {
		t.Errorf("ResolvePaths should be idempotent: %v", err)
	}
}

func TestResolvePathsRequiresFolder(t *testing.T) {
	if _, err := ResolvePaths("", "x"); err == nil {
		t.Error("expected error for empty output folder")
	}
}

func TestTranscriptBaseFor(t *testing.T) {
	got := TranscriptBaseFor(filepath.Join("a", "b", "call.m4a"))
	want := filepath.Join("a", "b", "call-transcript")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/Meetings", filepath.Join(home, "Meetings")},
		{"/data/out", "/data/out"},
		{"~other/x", "~other/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
