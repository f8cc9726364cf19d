package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for files that are not RIFF/WAVE audio
var ErrInvalidWAV = errors.New("not a valid WAV file")

// Info describes a recorded audio file
type Info struct {
	Path     string
	Size     int64
	Duration time.Duration
	Format   goaudio.Format
	BitDepth int
}

// Probe reads the WAV header of path. It does not decode samples.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open audio: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat audio: %w", err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%s: %w", path, ErrInvalidWAV)
	}

	dur, err := dec.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("failed to read duration: %w", err)
	}

	return Info{
		Path:     path,
		Size:     st.Size(),
		Duration: dur,
		Format: goaudio.Format{
			NumChannels: int(dec.NumChans),
			SampleRate:  int(dec.SampleRate),
		},
		BitDepth: int(dec.BitDepth),
	}, nil
}

// IsTranscribable reports whether the format matches what the capture
// engine is asked to produce for the transcription engine.
func (i Info) IsTranscribable(sampleRate, channels int) bool {
	return i.Format.SampleRate == sampleRate && i.Format.NumChannels == channels
}

// Describe is a short human readable summary for status lines
func (i Info) Describe() string {
	return fmt.Sprintf("%s, %d Hz, %d ch", FormatDuration(i.Duration), i.Format.SampleRate, i.Format.NumChannels)
}

// FormatDuration renders d as m:ss or h:mm:ss
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
