package output

import (
	"fmt"
	"io"
	"time"

	"github.com/petems/listen-transcriber/internal/devices"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) RecordingStarted(audioPath, device string) {
	fmt.Fprintf(f.w, "🔴 Recording %s to %s\n", device, audioPath)
}

func (f *Formatter) StopHint() {
	fmt.Fprintf(f.w, "   Press Ctrl+C to stop\n")
}

func (f *Formatter) RecordingStopped(audioPath string, duration time.Duration) {
	fmt.Fprintf(f.w, "⏹️  Recording stopped (%s): %s\n", formatDuration(duration), audioPath)
}

func (f *Formatter) Transcribing(audioPath string) {
	fmt.Fprintf(f.w, "📝 Transcribing %s...\n", audioPath)
}

func (f *Formatter) TranscribeDone(path string) {
	fmt.Fprintf(f.w, "✅ Transcript saved: %s\n", path)
}

func (f *Formatter) Downloading(model string) {
	fmt.Fprintf(f.w, "⬇️  Downloading %s...\n", model)
}

func (f *Formatter) ModelReady(path string) {
	fmt.Fprintf(f.w, "✅ Model ready: %s\n", path)
}

func (f *Formatter) Status(msg string) {
	fmt.Fprintf(f.w, "   %s\n", msg)
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) DeviceListHeader() {
	fmt.Fprintf(f.w, "🎧 Audio devices:\n\n")
}

func (f *Formatter) DeviceListItem(d devices.AudioDevice, selected bool) {
	marker := " "
	if selected {
		marker = "*"
	}
	fmt.Fprintf(f.w, "  %s %s\n", marker, d.Label())
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
