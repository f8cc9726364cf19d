package tray

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/petems/listen-transcriber/internal/config"
	"github.com/petems/listen-transcriber/internal/devices"
	"github.com/petems/listen-transcriber/internal/hotkey"
	"github.com/petems/listen-transcriber/internal/logging"
	"github.com/petems/listen-transcriber/internal/naming"
	"github.com/petems/listen-transcriber/internal/process"
	"github.com/petems/listen-transcriber/internal/session"
	"github.com/petems/listen-transcriber/internal/whisper"
)

// maxDevices is the number of device menu slots; systray cannot remove items
const maxDevices = 16

// Session is the orchestrator surface driven by the menu
type Session interface {
	State() session.State
	DetectDevices() *session.Task[devices.Catalog]
	RefreshDevices() *session.Task[devices.Catalog]
	SelectDevice(index int) error
	SetIncludeMicrophone(on bool) error
	StartRecording(opts session.StartOptions) (naming.Paths, error)
	StopRecording(ctx context.Context) error
	ChooseAudio(path string) error
	SetOutputFolder(path string) error
	TranscribeLastAudio() *session.Task[session.TranscriptResult]
	EnsureModel() *session.Task[string]
	SetModel(size whisper.ModelSize) error
	SetLanguage(lang whisper.Language) error
	SetUseGPU(on bool) error
	CopyTranscript() (string, error)
	Report(msg string) error
	Close(ctx context.Context) error
}

type UI struct {
	session Session
	cfg     *config.Config
	runner  *process.Runner
	hotkeys *hotkey.Manager
	version string
	commit  string
	log     zerolog.Logger

	mu      sync.Mutex
	state   session.State
	updates chan struct{}

	// Menu items
	mStatus     *systray.MenuItem
	mDownload   *systray.MenuItem
	mRecord     *systray.MenuItem
	mTranscribe *systray.MenuItem
	mChoose     *systray.MenuItem
	mDevices    *systray.MenuItem
	mDetect     *systray.MenuItem
	mRefresh    *systray.MenuItem
	mMic        *systray.MenuItem
	mModels     *systray.MenuItem
	mLanguages  *systray.MenuItem
	mGPU        *systray.MenuItem
	mCopy       *systray.MenuItem

	mChangeFolder *systray.MenuItem

	deviceSlots []*systray.MenuItem
	deviceIdx   []int
	modelItems  map[whisper.ModelSize]*systray.MenuItem
	langItems   map[whisper.Language]*systray.MenuItem
}

// Status update methods for the session to call

func (u *UI) SetIdle() {
	u.updateIcon("idle")
}

func (u *UI) SetRecording() {
	u.updateIcon("recording")
}

func (u *UI) SetProcessing() {
	u.updateIcon("processing")
}

func (u *UI) SetError() {
	u.updateIcon("error")
}

// SetStatus stores the snapshot and schedules a menu refresh. It never
// blocks the session goroutine.
func (u *UI) SetStatus(s session.State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()

	select {
	case u.updates <- struct{}{}:
	default:
	}
}

func New(cfg *config.Config, log zerolog.Logger, version, commit string) *UI {
	return &UI{
		cfg:        cfg,
		runner:     process.NewRunner(log),
		hotkeys:    hotkey.New(log),
		version:    version,
		commit:     commit,
		log:        log,
		updates:    make(chan struct{}, 1),
		modelItems: make(map[whisper.ModelSize]*systray.MenuItem),
		langItems:  make(map[whisper.Language]*systray.MenuItem),
	}
}

// SetSession sets the session reference (for circular dependency resolution)
func (u *UI) SetSession(s Session) {
	u.session = s
}

// Run blocks on the tray event loop. It must run on the main thread.
func (u *UI) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.updateIcon("idle")
	systray.SetTooltip("Record and transcribe meetings locally")

	u.mStatus = systray.AddMenuItem("Ready", "Current status")
	u.mStatus.Disable()
	u.mDownload = systray.AddMenuItem("", "Model download status")
	u.mDownload.Disable()
	u.mDownload.Hide()
	systray.AddSeparator()

	u.mRecord = systray.AddMenuItem("Start Recording", "Record the selected device")
	u.mTranscribe = systray.AddMenuItem("Transcribe Last Audio", "Transcribe the last recording or chosen file")
	u.mChoose = systray.AddMenuItem("Choose Audio…", "Pick an existing audio file")
	u.mCopy = systray.AddMenuItem("Copy Transcript", "Copy the last transcript to the clipboard")
	systray.AddSeparator()

	u.mDevices = systray.AddMenuItem("Capture Device", "Select capture device")
	u.buildDeviceMenu()
	u.mDetect = systray.AddMenuItem("Detect BlackHole", "Find the loopback device")
	u.mRefresh = systray.AddMenuItem("Refresh Devices", "List capture devices again")
	u.mMic = systray.AddMenuItemCheckbox("Include Microphone", "Record through an aggregate device", u.cfg.IncludeMicrophone)
	systray.AddSeparator()

	u.mModels = systray.AddMenuItem("Model", "Select Whisper model")
	u.buildModelMenu()
	u.mLanguages = systray.AddMenuItem("Language", "Spoken language")
	u.buildLanguageMenu()
	u.mGPU = systray.AddMenuItemCheckbox("Use GPU", "Run transcription on the GPU", u.cfg.Whisper.UseGPU)
	mDownloadModel := systray.AddMenuItem("Download Model", "Fetch the selected model")

	systray.AddSeparator()
	mFolder := systray.AddMenuItem("Open Output Folder", "Show recordings and transcripts")
	u.mChangeFolder = systray.AddMenuItem("Change Output Folder…", "Choose where recordings are saved")
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About Listen Transcriber")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	go u.render()
	go u.handleEvents(mDownloadModel, mFolder, mLogs, mAbout, mQuit)

	if accel := u.cfg.Hotkey; accel != "" {
		switch err := u.hotkeys.Register(accel, u.toggleRecording); {
		case errors.Is(err, hotkey.ErrUnsupported):
			u.log.Debug().Err(err).Msg("Recording hotkey unavailable")
		case err != nil:
			u.log.Warn().Err(err).Msg("Recording hotkey unavailable")
		}
	}

	u.session.DetectDevices()
}

func (u *UI) handleEvents(mDownloadModel, mFolder, mLogs, mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mRecord.ClickedCh:
			go u.toggleRecording()
		case <-u.mTranscribe.ClickedCh:
			u.session.TranscribeLastAudio()
		case <-u.mChoose.ClickedCh:
			go u.chooseAudio()
		case <-u.mCopy.ClickedCh:
			u.session.CopyTranscript()
		case <-u.mDetect.ClickedCh:
			u.session.DetectDevices()
		case <-u.mRefresh.ClickedCh:
			u.session.RefreshDevices()
		case <-u.mMic.ClickedCh:
			u.toggleMicrophone()
		case <-u.mGPU.ClickedCh:
			u.toggleGPU()
		case <-mDownloadModel.ClickedCh:
			u.session.EnsureModel()
		case <-u.mChangeFolder.ClickedCh:
			go u.chooseFolder()
		case <-mFolder.ClickedCh:
			u.open(u.current().OutputFolder)
		case <-mLogs.ClickedCh:
			u.open(logging.Path())
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) toggleRecording() {
	if u.current().Recording {
		ctx, cancel := context.WithTimeout(context.Background(), u.cfg.StopTimeout()+10*time.Second)
		defer cancel()
		u.session.StopRecording(ctx)
		return
	}
	u.session.StartRecording(session.StartOptions{
		BaseName:        u.cfg.Recording.BaseName,
		AppendTimestamp: u.cfg.Recording.AppendTimestamp,
	})
}

func (u *UI) chooseAudio() {
	if path, ok := u.pick(false); ok {
		u.session.ChooseAudio(path)
	}
}

func (u *UI) chooseFolder() {
	path, ok := u.pick(true)
	if !ok {
		return
	}
	if err := u.session.SetOutputFolder(path); err != nil {
		return
	}
	u.log.Info().Str("folder", path).Msg("Changed output folder")
}

// pick runs the platform picker; ok is false when it is unavailable or
// was cancelled
func (u *UI) pick(folder bool) (string, bool) {
	name, args, ok := pickerCommand(runtime.GOOS, folder)
	if !ok {
		u.session.Report("Picking files is not supported here, use the listen-transcriber CLI")
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res, err := u.runner.Run(ctx, name, args...)
	if err != nil {
		u.log.Error().Err(err).Msg("File picker failed")
		return "", false
	}
	path := parsePickerOutput(res.Output)
	if !res.Success() || path == "" {
		// cancelled
		return "", false
	}
	return path, true
}

func (u *UI) buildDeviceMenu() {
	u.deviceSlots = make([]*systray.MenuItem, maxDevices)
	u.deviceIdx = make([]int, maxDevices)
	for i := range u.deviceSlots {
		item := u.mDevices.AddSubMenuItemCheckbox("", "", false)
		item.Hide()
		u.deviceSlots[i] = item

		go func(slot int, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				u.mu.Lock()
				index := u.deviceIdx[slot]
				u.mu.Unlock()
				u.log.Info().Int("device", index).Msg("Changed capture device")
				u.session.SelectDevice(index)
			}
		}(i, item)
	}
}

func (u *UI) buildModelMenu() {
	for _, size := range whisper.ModelSizes {
		item := u.mModels.AddSubMenuItemCheckbox(string(size), "", size == u.cfg.ModelSize())
		u.modelItems[size] = item

		go func(s whisper.ModelSize, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				oldModel := u.current().Settings.Model
				if err := u.session.SetModel(s); err != nil {
					continue
				}
				u.update(func(c *config.Config) { c.Whisper.Model = string(s) })
				u.log.Info().Str("from", string(oldModel)).Str("to", string(s)).Msg("Changed Whisper model")
			}
		}(size, item)
	}
}

func (u *UI) buildLanguageMenu() {
	for _, lang := range whisper.Languages {
		item := u.mLanguages.AddSubMenuItemCheckbox(lang.DisplayName(), "", lang == u.cfg.Language())
		u.langItems[lang] = item

		go func(l whisper.Language, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				if err := u.session.SetLanguage(l); err != nil {
					continue
				}
				u.update(func(c *config.Config) { c.Whisper.Language = string(l) })
			}
		}(lang, item)
	}
}

func (u *UI) toggleMicrophone() {
	on := !u.current().IncludeMicrophone
	if err := u.session.SetIncludeMicrophone(on); err != nil {
		return
	}
	u.update(func(c *config.Config) { c.IncludeMicrophone = on })
}

func (u *UI) toggleGPU() {
	on := !u.current().Settings.UseGPU
	if err := u.session.SetUseGPU(on); err != nil {
		return
	}
	u.update(func(c *config.Config) { c.Whisper.UseGPU = on })
}

func (u *UI) update(fn func(*config.Config)) {
	if err := u.cfg.Update(fn); err != nil {
		u.log.Error().Err(err).Msg("Failed to save config")
	}
}

func (u *UI) current() session.State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// render applies state snapshots to the menu
func (u *UI) render() {
	for range u.updates {
		s := u.current()

		u.mStatus.SetTitle(statusLine(s.Status))
		if s.DownloadStatus != "" {
			u.mDownload.SetTitle(statusLine(s.DownloadStatus))
			u.mDownload.Show()
		}

		u.mRecord.SetTitle(recordTitle(s))
		setEnabled(u.mRecord, !s.Stopping && !s.Transcribing)
		setEnabled(u.mTranscribe, !s.Busy() && s.LastAudioPath != "")
		setEnabled(u.mChoose, !s.Recording && !s.Stopping && !s.Transcribing)
		setEnabled(u.mCopy, s.LastTranscriptPath != "")
		setEnabled(u.mChangeFolder, !s.Recording && !s.Stopping && !s.Downloading)
		setChecked(u.mMic, s.IncludeMicrophone)
		setChecked(u.mGPU, s.Settings.UseGPU)

		for size, item := range u.modelItems {
			setChecked(item, size == s.Settings.Model)
		}
		for lang, item := range u.langItems {
			setChecked(item, lang == s.Settings.Language)
		}

		slots := deviceSlots(s.Devices, s.SelectedDevice, len(u.deviceSlots))
		u.mu.Lock()
		for i, item := range u.deviceSlots {
			if i >= len(slots) {
				item.Hide()
				continue
			}
			u.deviceIdx[i] = slots[i].Index
			item.SetTitle(slots[i].Title)
			setChecked(item, slots[i].Selected)
			item.Show()
		}
		u.mu.Unlock()
	}
}

func (u *UI) open(path string) {
	name, args := openCommand(runtime.GOOS, path)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := u.runner.Run(ctx, name, args...); err != nil {
			u.log.Error().Err(err).Str("path", path).Msg("Failed to open")
		}
	}()
}

func (u *UI) showAbout() {
	u.session.Report(fmt.Sprintf("Listen Transcriber %s (%s)", u.version, u.commit))
}

func (u *UI) onExit() {
	if err := u.hotkeys.Close(); err != nil {
		u.log.Warn().Err(err).Msg("Failed to release hotkeys")
	}

	ctx, cancel := context.WithTimeout(context.Background(), u.cfg.StopTimeout()+5*time.Second)
	defer cancel()
	if err := u.session.Close(ctx); err != nil {
		u.log.Error().Err(err).Msg("Shutdown error")
	}
}

// updateIcon sets the tray title with a status indicator
func (u *UI) updateIcon(status string) {
	systray.SetTitle(fmt.Sprintf("🎙 %s", emojiForStatus(status)))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "recording":
		return "🔴"
	case "processing":
		return "🟡"
	case "idle":
		return "🟢"
	case "error":
		return "⚪️"
	default:
		return "🟢"
	}
}

func recordTitle(s session.State) string {
	switch {
	case s.Stopping:
		return "Stopping…"
	case s.Recording:
		return "Stop Recording"
	}
	if name := s.SelectedDeviceName(); name != "" {
		return "Start Recording (" + name + ")"
	}
	return "Start Recording"
}

const maxStatusLen = 70

// statusLine shortens s to fit a menu item
func statusLine(s string) string {
	if utf8.RuneCountInString(s) <= maxStatusLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxStatusLen-1]) + "…"
}

type deviceSlot struct {
	Index    int
	Title    string
	Selected bool
}

// deviceSlots maps the catalog to at most n menu entries
func deviceSlots(catalog devices.Catalog, selected *int, n int) []deviceSlot {
	var out []deviceSlot
	for _, d := range catalog {
		if len(out) == n {
			break
		}
		out = append(out, deviceSlot{
			Index:    d.Index,
			Title:    d.Label(),
			Selected: selected != nil && *selected == d.Index,
		})
	}
	return out
}

func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "explorer", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

func pickerCommand(goos string, folder bool) (string, []string, bool) {
	switch goos {
	case "darwin":
		script := `POSIX path of (choose file with prompt "Choose audio to transcribe" of type {"public.audio"})`
		if folder {
			script = `POSIX path of (choose folder with prompt "Choose the output folder")`
		}
		return "osascript", []string{"-e", script}, true
	case "linux":
		if folder {
			return "zenity", []string{"--file-selection", "--directory", "--title=Choose the output folder"}, true
		}
		return "zenity", []string{"--file-selection", "--title=Choose audio to transcribe"}, true
	}
	return "", nil, false
}

func parsePickerOutput(out string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(line)
}

func setEnabled(item *systray.MenuItem, on bool) {
	if on {
		item.Enable()
	} else {
		item.Disable()
	}
}

func setChecked(item *systray.MenuItem, on bool) {
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}
