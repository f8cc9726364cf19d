package devices

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Section markers printed by `ffmpeg -f avfoundation -list_devices true -i ""`
const (
	audioSectionMarker = "AVFoundation audio devices"
	videoSectionMarker = "AVFoundation video devices"
)

var deviceLine = regexp.MustCompile(`\[(\d+)\] (.+)$`)

// AudioDevice represents an audio input device as seen by the capture engine
type AudioDevice struct {
	ID    string
	Index int
	Name  string
}

// NewAudioDevice builds a device, deriving its ID from index and name
func NewAudioDevice(index int, name string) AudioDevice {
	return AudioDevice{
		ID:    fmt.Sprintf("%d-%s", index, name),
		Index: index,
		Name:  name,
	}
}

// Label is the text shown to users when picking a device
func (d AudioDevice) Label() string {
	return fmt.Sprintf("[%d] %s", d.Index, d.Name)
}

// Catalog is one snapshot of the devices found by a listing.
// It is replaced wholesale on every refresh.
type Catalog []AudioDevice

// ByID returns the last device with the given ID
func (c Catalog) ByID(id string) (AudioDevice, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].ID == id {
			return c[i], true
		}
	}
	return AudioDevice{}, false
}

// ByIndex returns the first device with the given capture index
func (c Catalog) ByIndex(index int) (AudioDevice, bool) {
	for _, d := range c {
		if d.Index == index {
			return d, true
		}
	}
	return AudioDevice{}, false
}

// Parse extracts the audio devices from a device-listing transcript.
// Malformed or empty input yields an empty catalog, never an error.
func Parse(raw string) Catalog {
	devices := Catalog{}
	inAudio := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")

		if strings.Contains(line, audioSectionMarker) {
			inAudio = true
			continue
		}
		if strings.Contains(line, videoSectionMarker) {
			inAudio = false
			continue
		}
		if !inAudio {
			continue
		}

		m := deviceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(m[2])
		if name == "" {
			continue
		}
		devices = append(devices, NewAudioDevice(index, name))
	}

	return devices
}
