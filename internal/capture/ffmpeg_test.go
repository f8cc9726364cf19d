package capture

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/petems/listen-transcriber/internal/process"
)

type fakeRunner struct {
	output   string
	exitCode int
	err      error

	gotName string
	gotArgs []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (process.Result, error) {
	f.gotName = name
	f.gotArgs = args
	if f.err != nil {
		return process.Result{}, f.err
	}
	return process.Result{Output: f.output, ExitCode: f.exitCode}, nil
}

func (f *fakeRunner) Start(name string, args ...string) (*process.Handle, error) {
	f.gotName = name
	f.gotArgs = args
	return nil, f.err
}

func TestListArgs(t *testing.T) {
	want := []string{"-f", "avfoundation", "-list_devices", "true", "-i", ""}
	if got := ListArgs("avfoundation"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRecordArgs(t *testing.T) {
	want := []string{"-f", "avfoundation", "-i", ":2", "-ar", "16000", "-ac", "1", "/tmp/out.wav"}
	if got := RecordArgs("avfoundation", 2, "/tmp/out.wav"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestListDevicesParsesNonZeroExit(t *testing.T) {
	runner := &fakeRunner{
		output:   "AVFoundation audio devices:\n[0] BlackHole 2ch\n",
		exitCode: 1,
	}
	engine := NewFFmpeg("/opt/bin/ffmpeg", "", runner, zerolog.Nop())

	catalog, err := engine.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices failed: %v", err)
	}
	if len(catalog) != 1 || catalog[0].Name != "BlackHole 2ch" {
		t.Errorf("unexpected catalog %+v", catalog)
	}
	if runner.gotName != "/opt/bin/ffmpeg" {
		t.Errorf("expected binary path to be used, got %q", runner.gotName)
	}
	if !reflect.DeepEqual(runner.gotArgs, ListArgs(DefaultFormat)) {
		t.Errorf("expected default format args, got %q", runner.gotArgs)
	}
}

func TestListDevicesLaunchError(t *testing.T) {
	launchErr := &process.LaunchError{Path: "ffmpeg", Err: errors.New("not found")}
	engine := NewFFmpeg("ffmpeg", DefaultFormat, &fakeRunner{err: launchErr}, zerolog.Nop())

	catalog, err := engine.ListDevices(context.Background())
	var le *process.LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("expected launch error, got %v", err)
	}
	if catalog == nil || len(catalog) != 0 {
		t.Errorf("expected empty catalog, got %+v", catalog)
	}
}

func TestRecordRejectsNegativeIndex(t *testing.T) {
	runner := &fakeRunner{}
	engine := NewFFmpeg("ffmpeg", DefaultFormat, runner, zerolog.Nop())

	if _, err := engine.Record(-1, "/tmp/x.wav"); err == nil {
		t.Fatal("expected error for negative index")
	}
	if runner.gotName != "" {
		t.Error("no process should be started")
	}
}

func TestRecordPropagatesLaunchError(t *testing.T) {
	launchErr := &process.LaunchError{Path: "ffmpeg", Err: errors.New("permission denied")}
	engine := NewFFmpeg("ffmpeg", DefaultFormat, &fakeRunner{err: launchErr}, zerolog.Nop())

	rec, err := engine.Record(1, "/tmp/x.wav")
	if rec != nil {
		t.Error("expected nil recording")
	}
	if !errors.Is(err, launchErr) {
		t.Errorf("expected launch error, got %v", err)
	}
}
