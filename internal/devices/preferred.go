package devices

import "strings"

// Preference is one row of the device selection table. Found and Missing
// are the status lines shown when the rule does or does not match.
type Preference struct {
	Microphone bool
	Match      func(lowerName string) bool
	Found      string
	Missing    string
}

var preferences = []Preference{
	{
		Microphone: true,
		Match: func(n string) bool {
			return strings.Contains(n, "aggregate") ||
				(strings.Contains(n, "mic") && strings.Contains(n, "blackhole"))
		},
		Found:   "Microphone on: using aggregate device",
		Missing: "No aggregate device found. Create one in Audio MIDI Setup combining BlackHole 2ch and your microphone",
	},
	{
		Microphone: false,
		Match: func(n string) bool {
			return strings.Contains(n, "blackhole 2ch")
		},
		Found:   "Microphone off: using BlackHole 2ch",
		Missing: "BlackHole 2ch not found. Install it with: brew install blackhole-2ch",
	},
}

// PreferenceFor returns the selection rule for the microphone setting
func PreferenceFor(microphone bool) Preference {
	for _, p := range preferences {
		if p.Microphone == microphone {
			return p
		}
	}
	// unreachable: the table covers both values
	return preferences[0]
}

// SelectPreferred returns the first device matching the rule for the
// microphone setting.
func SelectPreferred(catalog Catalog, microphone bool) (AudioDevice, bool) {
	rule := PreferenceFor(microphone)
	for _, d := range catalog {
		if rule.Match(strings.ToLower(d.Name)) {
			return d, true
		}
	}
	return AudioDevice{}, false
}
