package session

import (
	"context"
	"fmt"

	"github.com/petems/listen-transcriber/internal/audio"
	"github.com/petems/listen-transcriber/internal/devices"
	"github.com/petems/listen-transcriber/internal/whisper"
)

// Settings are the transcription options chosen by the user
type Settings struct {
	Model    whisper.ModelSize
	Language whisper.Language
	UseGPU   bool
}

// ModelSpec returns the model file selected by the settings
func (s Settings) ModelSpec() whisper.ModelSpec {
	return whisper.ModelSpec{Size: s.Model}
}

// State is a snapshot of the session. It is a copy; mutating it has no
// effect on the orchestrator.
type State struct {
	SelectedDevice    *int
	IncludeMicrophone bool

	Recording    bool
	Stopping     bool
	Transcribing bool
	Downloading  bool

	LastAudioPath      string
	LastTranscriptPath string
	OutputFolder       string

	Status         string
	Failed         bool
	DownloadStatus string
	LastEngineLog  string

	Devices  devices.Catalog
	Settings Settings
}

// Busy reports whether a background operation owns a process
func (s State) Busy() bool {
	return s.Recording || s.Stopping || s.Transcribing || s.Downloading
}

// SelectedDeviceName returns the catalog name of the selected device, or
// its index when it is not in the catalog.
func (s State) SelectedDeviceName() string {
	if s.SelectedDevice == nil {
		return ""
	}
	if d, ok := s.Devices.ByIndex(*s.SelectedDevice); ok {
		return d.Name
	}
	return fmt.Sprintf("device %d", *s.SelectedDevice)
}

func (s State) clone() State {
	out := s
	if s.SelectedDevice != nil {
		idx := *s.SelectedDevice
		out.SelectedDevice = &idx
	}
	if s.Devices != nil {
		out.Devices = append(devices.Catalog(nil), s.Devices...)
	}
	return out
}

// StatusUpdater receives state changes. Methods are called from the session
// goroutine and must not call back into the orchestrator synchronously.
type StatusUpdater interface {
	SetIdle()
	SetRecording()
	SetProcessing()
	SetError()
	SetStatus(State)
}

// Preferences persists user choices across runs
type Preferences interface {
	SetOutputFolder(path string) error
}

// Clipboard receives transcript text
type Clipboard interface {
	CopyFile(path string) (string, error)
}

// Notifier shows desktop notifications
type Notifier interface {
	Notify(title, message string) error
}

// ModelFetcher makes a model available locally
type ModelFetcher interface {
	Ensure(ctx context.Context, spec whisper.ModelSpec, dir string) (string, bool, error)
}

// ProbeFunc inspects a finished recording
type ProbeFunc func(path string) (audio.Info, error)
