package capture

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/petems/listen-transcriber/internal/devices"
	"github.com/petems/listen-transcriber/internal/process"
)

// Output format required by the transcription engine
const (
	SampleRate = 16000
	Channels   = 1
)

// DefaultFormat is the ffmpeg input device family used for listing and capture
const DefaultFormat = "avfoundation"

// Engine is the capture engine surface used by the session orchestrator
type Engine interface {
	ListDevices(ctx context.Context) (devices.Catalog, error)
	Record(deviceIndex int, audioPath string) (Recording, error)
}

// Recording is a running capture process
type Recording interface {
	Pid() int
	Terminate() error
	Stop(ctx context.Context, grace time.Duration) error
	Done() <-chan struct{}
	Err() error
	Output() string
}

// Runner is the subset of process.Runner the engine needs
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (process.Result, error)
	Start(name string, args ...string) (*process.Handle, error)
}

// FFmpeg drives an ffmpeg binary as the capture engine
type FFmpeg struct {
	Binary string
	Format string
	runner Runner
	log    zerolog.Logger
}

// NewFFmpeg creates a capture engine for the ffmpeg binary at path
func NewFFmpeg(path, format string, runner Runner, log zerolog.Logger) *FFmpeg {
	if format == "" {
		format = DefaultFormat
	}
	return &FFmpeg{
		Binary: path,
		Format: format,
		runner: runner,
		log:    log,
	}
}

// ListArgs returns the argv that makes ffmpeg print its devices
func ListArgs(format string) []string {
	return []string{"-f", format, "-list_devices", "true", "-i", ""}
}

// RecordArgs returns the argv that records device index to audioPath as
// 16 kHz mono
func RecordArgs(format string, deviceIndex int, audioPath string) []string {
	return []string{
		"-f", format,
		"-i", ":" + strconv.Itoa(deviceIndex),
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		audioPath,
	}
}

// ListDevices runs the listing and parses the audio section. ffmpeg exits
// non-zero after listing, so only a launch failure is an error.
func (f *FFmpeg) ListDevices(ctx context.Context) (devices.Catalog, error) {
	res, err := f.runner.Run(ctx, f.Binary, ListArgs(f.Format)...)
	if err != nil {
		return devices.Catalog{}, err
	}

	catalog := devices.Parse(res.Output)
	f.log.Debug().Int("devices", len(catalog)).Int("exit_code", res.ExitCode).Msg("Listed capture devices")
	return catalog, nil
}

// Record starts capturing deviceIndex into audioPath
func (f *FFmpeg) Record(deviceIndex int, audioPath string) (Recording, error) {
	if deviceIndex < 0 {
		return nil, fmt.Errorf("invalid device index: %d", deviceIndex)
	}
	h, err := f.runner.Start(f.Binary, RecordArgs(f.Format, deviceIndex, audioPath)...)
	if err != nil {
		return nil, err
	}
	f.log.Info().Int("device", deviceIndex).Str("path", audioPath).Msg("Capture started")
	return h, nil
}
