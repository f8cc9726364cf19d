package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petems/listen-transcriber/internal/audio"
	"github.com/petems/listen-transcriber/internal/capture"
	"github.com/petems/listen-transcriber/internal/devices"
	"github.com/petems/listen-transcriber/internal/naming"
	"github.com/petems/listen-transcriber/internal/process"
	"github.com/petems/listen-transcriber/internal/whisper"
)

// DefaultStopTimeout is how long a capture gets to finalize its file after
// an interrupt before it is killed.
const DefaultStopTimeout = 5 * time.Second

// Config holds the collaborators and initial settings of an Orchestrator.
// Capture, Transcriber and Models are required.
type Config struct {
	Capture     capture.Engine
	Transcriber whisper.Transcriber
	Models      ModelFetcher
	Probe       ProbeFunc // defaults to audio.Probe
	Clipboard   Clipboard
	Notifier    Notifier
	Preferences Preferences
	Status      StatusUpdater
	Logger      zerolog.Logger

	OutputFolder      string
	IncludeMicrophone bool
	Settings          Settings
	StopTimeout       time.Duration
	CopyOnTranscribe  bool
	Now               func() time.Time
}

// StartOptions name a new recording
type StartOptions struct {
	BaseName        string
	AppendTimestamp bool
}

// TranscriptResult is the outcome of TranscribeLastAudio
type TranscriptResult struct {
	AudioPath      string
	TranscriptPath string
	Log            string
	ExitCode       int
}

// Orchestrator owns the recording and transcription session. All state is
// mutated by a single goroutine; public methods hand work to it and wait,
// background work posts its result back the same way.
type Orchestrator struct {
	engine      capture.Engine
	transcriber whisper.Transcriber
	models      ModelFetcher
	probe       ProbeFunc
	clipboard   Clipboard
	notifier    Notifier
	prefs       Preferences
	status      StatusUpdater
	log         zerolog.Logger

	stopTimeout      time.Duration
	copyOnTranscribe bool
	now              func() time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	ops       chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// owned by the loop goroutine
	st    State
	rec   capture.Recording
	dirty bool
	final State
}

// New starts an orchestrator. Call Close to stop it.
func New(cfg Config) *Orchestrator {
	if cfg.Probe == nil {
		cfg.Probe = audio.Probe
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultStopTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Settings.Model == "" {
		cfg.Settings.Model = whisper.ModelMedium
	}
	if cfg.Settings.Language == "" {
		cfg.Settings.Language = whisper.LanguageAuto
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		engine:           cfg.Capture,
		transcriber:      cfg.Transcriber,
		models:           cfg.Models,
		probe:            cfg.Probe,
		clipboard:        cfg.Clipboard,
		notifier:         cfg.Notifier,
		prefs:            cfg.Preferences,
		status:           cfg.Status,
		log:              cfg.Logger.With().Str("session", uuid.NewString()).Logger(),
		stopTimeout:      cfg.StopTimeout,
		copyOnTranscribe: cfg.CopyOnTranscribe,
		now:              cfg.Now,
		ctx:              ctx,
		cancel:           cancel,
		ops:              make(chan func()),
		quit:             make(chan struct{}),
		done:             make(chan struct{}),
		st: State{
			IncludeMicrophone: cfg.IncludeMicrophone,
			OutputFolder:      naming.ExpandHome(cfg.OutputFolder),
			Settings:          cfg.Settings,
			Status:            "Ready",
		},
	}

	go o.run()
	return o
}

func (o *Orchestrator) run() {
	defer close(o.done)
	for {
		select {
		case fn := <-o.ops:
			fn()
			if o.dirty {
				o.dirty = false
				o.publish()
			}
		case <-o.quit:
			o.final = o.st.clone()
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it. It must not be called
// from the loop goroutine.
func (o *Orchestrator) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case o.ops <- func() { defer close(finished); fn() }:
	case <-o.done:
		return ErrClosed
	}
	<-finished
	return nil
}

func (o *Orchestrator) publish() {
	if o.status == nil {
		return
	}
	s := o.st.clone()
	switch {
	case s.Failed:
		o.status.SetError()
	case s.Recording:
		o.status.SetRecording()
	case s.Stopping || s.Transcribing || s.Downloading:
		o.status.SetProcessing()
	default:
		o.status.SetIdle()
	}
	o.status.SetStatus(s)
}

func (o *Orchestrator) setStatus(msg string) {
	o.st.Status = msg
	o.st.Failed = false
	o.dirty = true
	o.log.Info().Msg(msg)
}

func (o *Orchestrator) fail(msg string, err error) {
	o.st.Status = msg
	o.st.Failed = true
	o.dirty = true
	o.log.Error().Err(err).Msg(msg)
}

func (o *Orchestrator) reject(op string, sentinel error, reason string) error {
	err := precondition(op, sentinel, reason)
	o.fail(fmt.Sprintf("Cannot %s: %s", op, reason), err)
	return err
}

func (o *Orchestrator) notify(title, message string) {
	if o.notifier == nil {
		return
	}
	go o.notifier.Notify(title, message)
}

// State returns a snapshot of the session
func (o *Orchestrator) State() State {
	var s State
	if err := o.do(func() { s = o.st.clone() }); err != nil {
		<-o.done
		return o.final
	}
	return s
}

// DetectDevices lists the capture devices and selects the preferred
// loopback device, or the microphone aggregate when the microphone is on.
func (o *Orchestrator) DetectDevices() *Task[devices.Catalog] {
	return o.listDevices("Detecting audio devices…", o.applyDetected)
}

// RefreshDevices lists the capture devices and selects the first one,
// then applies the microphone preference when it is on.
func (o *Orchestrator) RefreshDevices() *Task[devices.Catalog] {
	return o.listDevices("Refreshing device list…", o.applyRefreshed)
}

func (o *Orchestrator) listDevices(msg string, apply func()) *Task[devices.Catalog] {
	if err := o.do(func() { o.setStatus(msg) }); err != nil {
		return failedTask[devices.Catalog](err)
	}

	t := newTask[devices.Catalog]()
	go func() {
		catalog, err := o.engine.ListDevices(o.ctx)
		perr := o.do(func() {
			if err != nil {
				o.fail(launchFailure("list devices", err), err)
				t.complete(nil, err)
				return
			}
			o.st.Devices = catalog
			if len(catalog) == 0 {
				o.fail("No audio devices found. Check that ffmpeg can access your audio devices", nil)
			} else {
				apply()
			}
			t.complete(append(devices.Catalog{}, catalog...), nil)
		})
		if perr != nil {
			t.complete(nil, perr)
		}
	}()
	return t
}

func (o *Orchestrator) applyDetected() {
	o.applyPreference()
}

func (o *Orchestrator) applyRefreshed() {
	o.selectIndex(o.st.Devices[0].Index)
	if o.st.IncludeMicrophone {
		o.applyPreference()
		return
	}
	o.setStatus(fmt.Sprintf("Found %d audio devices, selected %s", len(o.st.Devices), o.st.Devices[0].Name))
}

func (o *Orchestrator) applyPreference() {
	rule := devices.PreferenceFor(o.st.IncludeMicrophone)
	d, ok := devices.SelectPreferred(o.st.Devices, o.st.IncludeMicrophone)
	if !ok {
		o.fail(rule.Missing, nil)
		return
	}
	o.selectIndex(d.Index)
	o.setStatus(rule.Found)
}

func (o *Orchestrator) selectIndex(index int) {
	o.st.SelectedDevice = &index
	o.dirty = true
}

// SelectDevice selects a capture device by index. The index does not have
// to be in the current catalog.
func (o *Orchestrator) SelectDevice(index int) error {
	var err error
	derr := o.do(func() {
		if index < 0 {
			err = o.reject("select device", ErrNoDevice, fmt.Sprintf("invalid device index %d", index))
			return
		}
		o.selectIndex(index)
		o.setStatus("Selected " + o.st.SelectedDeviceName())
	})
	if derr != nil {
		return derr
	}
	return err
}

// SelectDeviceByID selects a device from the current catalog
func (o *Orchestrator) SelectDeviceByID(id string) error {
	var err error
	derr := o.do(func() {
		d, ok := o.st.Devices.ByID(id)
		if !ok {
			err = o.reject("select device", ErrNoDevice, fmt.Sprintf("unknown device %q", id))
			return
		}
		o.selectIndex(d.Index)
		o.setStatus("Selected " + d.Name)
	})
	if derr != nil {
		return derr
	}
	return err
}

// SetIncludeMicrophone switches between loopback-only and loopback plus
// microphone capture. Without a catalog the choice is applied when the
// next one arrives.
func (o *Orchestrator) SetIncludeMicrophone(on bool) error {
	return o.do(func() {
		o.st.IncludeMicrophone = on
		if len(o.st.Devices) == 0 {
			o.setStatus("Microphone preference saved, it applies once devices are detected")
			return
		}
		o.applyPreference()
	})
}

// StartRecording starts a capture of the selected device into the output
// folder.
func (o *Orchestrator) StartRecording(opts StartOptions) (naming.Paths, error) {
	var paths naming.Paths
	var err error
	if derr := o.do(func() { paths, err = o.startRecording(opts) }); derr != nil {
		return naming.Paths{}, derr
	}
	return paths, err
}

func (o *Orchestrator) startRecording(opts StartOptions) (naming.Paths, error) {
	const op = "start recording"
	switch {
	case o.st.Stopping:
		return naming.Paths{}, o.reject(op, ErrBusy, "the previous recording is still stopping")
	case o.rec != nil:
		return naming.Paths{}, o.reject(op, ErrAlreadyRecording, "already recording")
	case o.st.Transcribing:
		return naming.Paths{}, o.reject(op, ErrBusy, "a transcription is running")
	case o.st.SelectedDevice == nil:
		return naming.Paths{}, o.reject(op, ErrNoDevice, "select a capture device first")
	}

	name := naming.BuildRecordingName(opts.BaseName, opts.AppendTimestamp, o.now())
	paths, err := naming.ResolvePaths(o.st.OutputFolder, name)
	if err != nil {
		o.fail("Cannot prepare output folder: "+err.Error(), err)
		return naming.Paths{}, err
	}

	rec, err := o.engine.Record(*o.st.SelectedDevice, paths.AudioPath)
	if err != nil {
		o.fail(launchFailure("start recording", err), err)
		return naming.Paths{}, err
	}

	o.rec = rec
	o.st.Recording = true
	o.st.LastAudioPath = paths.AudioPath
	o.st.LastTranscriptPath = ""
	o.log.Info().
		Int("device", *o.st.SelectedDevice).
		Int("pid", rec.Pid()).
		Str("path", paths.AudioPath).
		Msg("Recording started")
	o.setStatus("Recording to " + filepath.Base(paths.AudioPath))

	go o.watch(rec)
	return paths, nil
}

// watch clears a capture that exits without being stopped
func (o *Orchestrator) watch(rec capture.Recording) {
	<-rec.Done()
	_ = o.do(func() {
		if o.rec != rec || o.st.Stopping {
			return
		}
		o.rec = nil
		o.st.Recording = false
		o.st.LastEngineLog = rec.Output()

		reason := "capture engine exited"
		if err := rec.Err(); err != nil {
			reason = err.Error()
		}
		o.fail("Recording stopped unexpectedly: "+reason, rec.Err())
	})
}

// StopRecording stops the active capture and returns once the capture
// process has exited and its file is final.
func (o *Orchestrator) StopRecording(ctx context.Context) error {
	const op = "stop recording"
	var (
		rec  capture.Recording
		path string
		err  error
	)
	derr := o.do(func() {
		switch {
		case o.st.Stopping:
			err = o.reject(op, ErrBusy, "already stopping")
		case o.rec == nil:
			err = o.reject(op, ErrNotRecording, "no recording in progress")
		default:
			rec = o.rec
			path = o.st.LastAudioPath
			o.st.Stopping = true
			o.setStatus("Stopping recording…")
		}
	})
	if derr != nil {
		return derr
	}
	if err != nil {
		return err
	}

	stopErr := rec.Stop(ctx, o.stopTimeout)
	exited := isClosed(rec.Done())

	var (
		info     audio.Info
		probeErr error
	)
	if exited {
		info, probeErr = o.probe(path)
	}

	var result error
	derr = o.do(func() {
		o.st.Stopping = false
		if !exited {
			if stopErr == nil {
				stopErr = errors.New("capture still running")
			}
			result = fmt.Errorf("failed to stop recording: %w", stopErr)
			o.fail("Recording did not stop: "+stopErr.Error(), stopErr)
			return
		}

		o.rec = nil
		o.st.Recording = false
		o.st.LastEngineLog = rec.Output()

		base := filepath.Base(path)
		if probeErr != nil {
			result = fmt.Errorf("recording %s is unreadable: %w", base, probeErr)
			o.fail(fmt.Sprintf("Recording stopped but %s is unreadable: %v", base, probeErr), probeErr)
			return
		}
		o.log.Info().
			Str("path", path).
			Dur("duration", info.Duration).
			Int("sample_rate", info.Format.SampleRate).
			Msg("Recording finalized")
		o.setStatus(fmt.Sprintf("Recording saved: %s (%s)", base, info.Describe()))
		o.notify("Recording saved", base)
	})
	if derr != nil {
		return derr
	}
	return result
}

// ChooseAudio selects an existing audio file for transcription
func (o *Orchestrator) ChooseAudio(path string) error {
	const op = "choose audio"
	var err error
	derr := o.do(func() {
		switch {
		case o.rec != nil || o.st.Stopping:
			err = o.reject(op, ErrBusy, "stop the recording first")
			return
		case o.st.Transcribing:
			err = o.reject(op, ErrBusy, "a transcription is running")
			return
		}
		fi, serr := os.Stat(path)
		if serr != nil || !fi.Mode().IsRegular() {
			err = o.reject(op, ErrNoAudio, "audio file not found: "+path)
			return
		}
		o.st.LastAudioPath = path
		o.st.LastTranscriptPath = ""
		o.setStatus("Selected audio: " + filepath.Base(path))
	})
	if derr != nil {
		return derr
	}
	return err
}

// TranscribeLastAudio transcribes the last recorded or chosen audio file.
// Preconditions are checked before any process is started.
func (o *Orchestrator) TranscribeLastAudio() *Task[TranscriptResult] {
	var (
		req whisper.Request
		err error
	)
	derr := o.do(func() {
		req, err = o.prepareTranscription()
		if err != nil {
			return
		}
		o.st.Transcribing = true
		o.st.LastEngineLog = ""
		o.setStatus("Transcribing " + filepath.Base(req.AudioPath) + "…")
	})
	if derr != nil {
		return failedTask[TranscriptResult](derr)
	}
	if err != nil {
		return failedTask[TranscriptResult](err)
	}

	t := newTask[TranscriptResult]()
	go func() {
		o.log.Info().
			Str("audio", req.AudioPath).
			Str("model", req.ModelPath).
			Str("language", string(req.Language)).
			Bool("gpu", req.UseGPU).
			Msg("Transcription started")

		res, err := o.transcriber.Transcribe(o.ctx, req)
		result := TranscriptResult{
			AudioPath:      req.AudioPath,
			TranscriptPath: res.TranscriptPath,
			Log:            res.Log,
			ExitCode:       res.ExitCode,
		}

		var copyErr error
		copied := false
		if err == nil && o.copyOnTranscribe && o.clipboard != nil {
			_, copyErr = o.clipboard.CopyFile(res.TranscriptPath)
			copied = copyErr == nil
		}

		perr := o.do(func() {
			o.st.Transcribing = false
			o.st.LastEngineLog = res.Log
			if err != nil {
				o.fail(transcriptionFailure(err), err)
				t.complete(result, err)
				return
			}

			o.st.LastTranscriptPath = res.TranscriptPath
			base := filepath.Base(res.TranscriptPath)
			msg := "Transcript saved: " + base
			if copied {
				msg += " (copied to clipboard)"
			}
			if copyErr != nil {
				o.log.Warn().Err(copyErr).Msg("Failed to copy transcript")
			}
			o.setStatus(msg)
			o.notify("Transcript ready", base)
			t.complete(result, nil)
		})
		if perr != nil {
			t.complete(result, perr)
		}
	}()
	return t
}

func (o *Orchestrator) prepareTranscription() (whisper.Request, error) {
	const op = "transcribe"
	switch {
	case o.st.Transcribing:
		return whisper.Request{}, o.reject(op, ErrBusy, "a transcription is already running")
	case o.rec != nil || o.st.Stopping:
		return whisper.Request{}, o.reject(op, ErrBusy, "stop the recording first")
	case o.st.LastAudioPath == "":
		return whisper.Request{}, o.reject(op, ErrNoAudio, "record or choose an audio file first")
	}

	audioPath := o.st.LastAudioPath
	if _, err := os.Stat(audioPath); err != nil {
		return whisper.Request{}, o.reject(op, ErrNoAudio, "audio file not found: "+audioPath)
	}

	spec := o.st.Settings.ModelSpec()
	dir := naming.ModelsDir(o.st.OutputFolder)
	if !whisper.Exists(spec, dir) {
		return whisper.Request{}, o.reject(op, ErrModelMissing,
			fmt.Sprintf("model %s not found, download it first", spec.FileName()))
	}

	return whisper.Request{
		ModelPath:      spec.Path(dir),
		AudioPath:      audioPath,
		TranscriptBase: naming.TranscriptBaseFor(audioPath),
		Language:       o.st.Settings.Language,
		UseGPU:         o.st.Settings.UseGPU,
	}, nil
}

// EnsureModel makes the selected model available in the models folder,
// downloading it when absent. Only one download runs at a time.
func (o *Orchestrator) EnsureModel() *Task[string] {
	const op = "download model"
	var (
		spec    whisper.ModelSpec
		dir     string
		present bool
		err     error
	)
	derr := o.do(func() {
		if o.st.Downloading {
			err = o.reject(op, ErrBusy, "a download is already running")
			return
		}
		spec = o.st.Settings.ModelSpec()
		dir, err = naming.EnsureModelsDir(o.st.OutputFolder)
		if err != nil {
			o.fail("Cannot prepare models folder: "+err.Error(), err)
			return
		}
		if whisper.Exists(spec, dir) {
			present = true
			o.st.DownloadStatus = "Model ready: " + spec.FileName()
			o.setStatus(o.st.DownloadStatus)
			return
		}
		o.st.Downloading = true
		o.st.DownloadStatus = "Downloading " + spec.FileName() + "…"
		o.setStatus(o.st.DownloadStatus)
	})
	if derr != nil {
		return failedTask[string](derr)
	}
	if err != nil {
		return failedTask[string](err)
	}

	t := newTask[string]()
	if present {
		t.complete(spec.Path(dir), nil)
		return t
	}

	go func() {
		path, _, err := o.models.Ensure(o.ctx, spec, dir)
		perr := o.do(func() {
			o.st.Downloading = false
			if err != nil {
				o.st.DownloadStatus = "Download failed: " + err.Error()
				o.fail(o.st.DownloadStatus, err)
				t.complete("", err)
				return
			}
			o.st.DownloadStatus = "Downloaded " + spec.FileName()
			o.setStatus(o.st.DownloadStatus)
			o.notify("Model downloaded", spec.FileName())
			t.complete(path, nil)
		})
		if perr != nil {
			t.complete("", perr)
		}
	}()
	return t
}

// SetModel selects the model size used for transcription
func (o *Orchestrator) SetModel(size whisper.ModelSize) error {
	size, err := whisper.ParseModelSize(string(size))
	if err != nil {
		return err
	}
	return o.updateSettings("change model", "Model: "+string(size), func(s *Settings) {
		s.Model = size
	})
}

// SetLanguage selects the spoken language hint
func (o *Orchestrator) SetLanguage(lang whisper.Language) error {
	lang, err := whisper.ParseLanguage(string(lang))
	if err != nil {
		return err
	}
	return o.updateSettings("change language", "Language: "+lang.DisplayName(), func(s *Settings) {
		s.Language = lang
	})
}

// SetUseGPU toggles GPU acceleration of the transcription engine
func (o *Orchestrator) SetUseGPU(on bool) error {
	msg := "GPU disabled"
	if on {
		msg = "GPU enabled"
	}
	return o.updateSettings("change GPU setting", msg, func(s *Settings) {
		s.UseGPU = on
	})
}

func (o *Orchestrator) updateSettings(op, msg string, apply func(*Settings)) error {
	var err error
	derr := o.do(func() {
		if o.st.Transcribing || o.st.Downloading {
			err = o.reject(op, ErrBusy, "wait for the running transcription or download")
			return
		}
		apply(&o.st.Settings)
		o.setStatus(msg)
	})
	if derr != nil {
		return derr
	}
	return err
}

// SetOutputFolder changes and persists the folder recordings, transcripts
// and models are written to.
func (o *Orchestrator) SetOutputFolder(path string) error {
	const op = "change output folder"
	if strings.TrimSpace(path) == "" {
		return &PreconditionError{Op: op, Reason: "folder path is empty"}
	}
	path = naming.ExpandHome(path)
	var err error
	derr := o.do(func() {
		switch {
		case o.rec != nil || o.st.Stopping:
			err = o.reject(op, ErrBusy, "stop the recording first")
			return
		case o.st.Downloading:
			err = o.reject(op, ErrBusy, "a model download is running")
			return
		}
		if o.prefs != nil {
			if perr := o.prefs.SetOutputFolder(path); perr != nil {
				err = fmt.Errorf("failed to save output folder: %w", perr)
				o.fail("Cannot save output folder: "+perr.Error(), perr)
				return
			}
		}
		o.st.OutputFolder = path
		o.setStatus("Output folder: " + path)
	})
	if derr != nil {
		return derr
	}
	return err
}

// Report sets the status line on behalf of a collaborator
func (o *Orchestrator) Report(msg string) error {
	return o.do(func() { o.setStatus(msg) })
}

// CopyTranscript copies the last transcript to the clipboard
func (o *Orchestrator) CopyTranscript() (string, error) {
	const op = "copy transcript"
	var (
		path string
		err  error
	)
	derr := o.do(func() {
		switch {
		case o.st.LastTranscriptPath == "":
			err = o.reject(op, ErrNothingToCopy, "no transcript yet")
		case o.clipboard == nil:
			err = o.reject(op, ErrNothingToCopy, "clipboard unavailable")
		default:
			path = o.st.LastTranscriptPath
		}
	})
	if derr != nil {
		return "", derr
	}
	if err != nil {
		return "", err
	}

	text, cerr := o.clipboard.CopyFile(path)
	derr = o.do(func() {
		if cerr != nil {
			o.fail("Copy failed: "+cerr.Error(), cerr)
			return
		}
		o.setStatus("Transcript copied to clipboard")
	})
	if derr != nil {
		return "", derr
	}
	return text, cerr
}

// Close stops an active capture, waiting for it to exit, cancels background
// work and stops the session goroutine.
func (o *Orchestrator) Close(ctx context.Context) error {
	var err error
	o.closeOnce.Do(func() {
		var rec capture.Recording
		_ = o.do(func() {
			rec = o.rec
			if rec != nil {
				o.st.Stopping = true
				o.setStatus("Stopping recording…")
			}
		})
		if rec != nil {
			err = rec.Stop(ctx, o.stopTimeout)
			_ = o.do(func() {
				o.rec = nil
				o.st.Recording = false
				o.st.Stopping = false
				if err != nil {
					o.fail("Recording did not stop cleanly: "+err.Error(), err)
					return
				}
				o.setStatus("Recording saved: " + filepath.Base(o.st.LastAudioPath))
			})
		}
		o.cancel()
		close(o.quit)
		<-o.done
		o.log.Info().Msg("Session closed")
	})
	return err
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func launchFailure(op string, err error) string {
	var le *process.LaunchError
	if errors.As(err, &le) {
		return fmt.Sprintf("Cannot %s: %s could not be started (%v)", op, filepath.Base(le.Path), le.Err)
	}
	return fmt.Sprintf("Cannot %s: %v", op, err)
}

func transcriptionFailure(err error) string {
	switch {
	case errors.Is(err, whisper.ErrTranscriptionFailed):
		return fmt.Sprintf("Transcription failed (%v). See the engine log", err)
	case errors.Is(err, whisper.ErrNoTranscript):
		return "Transcription finished without a transcript. See the engine log"
	default:
		return launchFailure("transcribe", err)
	}
}
