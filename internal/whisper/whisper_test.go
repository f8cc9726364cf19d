package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/petems/listen-transcriber/internal/process"
)

type fakeRunner struct {
	result process.Result
	err    error
	// write creates the transcript file as the real engine would
	write string

	gotArgs []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (process.Result, error) {
	f.gotArgs = args
	if f.write != "" {
		if err := os.WriteFile(f.write, []byte("hello"), 0644); err != nil {
			return process.Result{}, err
		}
	}
	return f.result, f.err
}

func TestArgs(t *testing.T) {
	base := Request{
		ModelPath:      "/m/ggml-medium.bin",
		AudioPath:      "/o/call.wav",
		TranscriptBase: "/o/call-transcript",
	}

	tests := []struct {
		name   string
		mutate func(r *Request)
		want   []string
	}{
		{
			name:   "cpu auto language",
			mutate: func(r *Request) { r.Language = LanguageAuto },
			want:   []string{"-m", "/m/ggml-medium.bin", "-f", "/o/call.wav", "-otxt", "-of", "/o/call-transcript", "-ng"},
		},
		{
			name:   "gpu enabled drops -ng",
			mutate: func(r *Request) { r.UseGPU = true },
			want:   []string{"-m", "/m/ggml-medium.bin", "-f", "/o/call.wav", "-otxt", "-of", "/o/call-transcript"},
		},
		{
			name:   "explicit language",
			mutate: func(r *Request) { r.Language = LanguageSpanish },
			want:   []string{"-m", "/m/ggml-medium.bin", "-f", "/o/call.wav", "-otxt", "-of", "/o/call-transcript", "-ng", "-l", "es"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			if got := Args(req); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTranscribeSuccess(t *testing.T) {
	dir := t.TempDir()
	req := Request{AudioPath: filepath.Join(dir, "a.wav"), TranscriptBase: filepath.Join(dir, "a-transcript")}
	runner := &fakeRunner{
		result: process.Result{Output: "whisper log", ExitCode: 0},
		write:  req.TranscriptPath(),
	}

	res, err := NewCLI("whisper-cli", runner, zerolog.Nop()).Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if res.TranscriptPath != filepath.Join(dir, "a-transcript.txt") {
		t.Errorf("unexpected transcript path %q", res.TranscriptPath)
	}
	if res.Log != "whisper log" {
		t.Errorf("expected log to be kept, got %q", res.Log)
	}
}

func TestTranscribeNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	req := Request{TranscriptBase: filepath.Join(dir, "a-transcript")}
	runner := &fakeRunner{result: process.Result{Output: "error: failed to load model", ExitCode: 2}}

	res, err := NewCLI("whisper-cli", runner, zerolog.Nop()).Transcribe(context.Background(), req)
	if !errors.Is(err, ErrTranscriptionFailed) {
		t.Fatalf("expected ErrTranscriptionFailed, got %v", err)
	}
	if res.ExitCode != 2 || res.Log == "" {
		t.Errorf("expected exit code and log to be reported, got %+v", res)
	}
}

func TestTranscribeSilentSuccessWithoutFile(t *testing.T) {
	dir := t.TempDir()
	req := Request{TranscriptBase: filepath.Join(dir, "a-transcript")}
	runner := &fakeRunner{result: process.Result{ExitCode: 0}}

	_, err := NewCLI("whisper-cli", runner, zerolog.Nop()).Transcribe(context.Background(), req)
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestTranscribeLaunchError(t *testing.T) {
	launchErr := &process.LaunchError{Path: "whisper-cli", Err: errors.New("not found")}
	runner := &fakeRunner{err: launchErr}

	_, err := NewCLI("whisper-cli", runner, zerolog.Nop()).Transcribe(context.Background(), Request{})
	var le *process.LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("expected launch error, got %v", err)
	}
}

func TestParseModelSize(t *testing.T) {
	if got, err := ParseModelSize(" Medium "); err != nil || got != ModelMedium {
		t.Errorf("expected medium, got %q (%v)", got, err)
	}
	if _, err := ParseModelSize("large-v3"); err == nil {
		t.Error("expected error for unsupported size")
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"", LanguageAuto, false},
		{"auto", LanguageAuto, false},
		{"ES", LanguageSpanish, false},
		{"en", LanguageEnglish, false},
		{"fr", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLanguage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLanguage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModelSpec(t *testing.T) {
	spec := ModelSpec{Size: ModelSmall}
	if spec.FileName() != "ggml-small.bin" {
		t.Errorf("unexpected file name %q", spec.FileName())
	}
	if got := spec.URL("https://example.com/models/"); got != "https://example.com/models/ggml-small.bin" {
		t.Errorf("unexpected url %q", got)
	}
	if got := spec.URL(""); got != DefaultModelBaseURL+"/ggml-small.bin" {
		t.Errorf("unexpected default url %q", got)
	}
	if got := spec.Path("/out/models"); got != filepath.Join("/out/models", "ggml-small.bin") {
		t.Errorf("unexpected path %q", got)
	}
}
