package permissions

import "fmt"

// Status mirrors the AVFoundation authorization status values
type Status int

const (
	NotDetermined Status = 0
	Restricted    Status = 1
	Denied        Status = 2
	Authorized    Status = 3
)

func (s Status) String() string {
	switch s {
	case NotDetermined:
		return "not determined"
	case Restricted:
		return "restricted"
	case Denied:
		return "denied"
	case Authorized:
		return "authorized"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Report is the permission state relevant to capturing meeting audio
type Report struct {
	Microphone    Status
	ScreenCapture Status // system audio capture through loopback devices
}

// Granted reports whether capture can proceed with the microphone included
func (r Report) Granted() bool {
	return r.Microphone == Authorized && r.ScreenCapture == Authorized
}

// Messages are the status lines describing what is missing
func (r Report) Messages() []string {
	var msgs []string
	switch r.Microphone {
	case Authorized:
	case NotDetermined:
		msgs = append(msgs, "Microphone access requested, approve the system prompt")
	default:
		msgs = append(msgs, "Microphone access "+r.Microphone.String()+". Enable it in System Settings > Privacy & Security > Microphone")
	}
	if r.ScreenCapture != Authorized {
		msgs = append(msgs, "Screen recording access missing. Enable it in System Settings > Privacy & Security > Screen Recording")
	}
	return msgs
}

// Reporter receives permission status lines
type Reporter interface {
	Report(msg string) error
}

// platform hooks, replaced in tests
var (
	check   = platformCheck
	request = platformRequest
)

// Check returns the current permission state without prompting
func Check() Report {
	return check()
}

// Ensure requests missing permissions and reports the outcome through r.
// It never blocks on the user's answer.
func Ensure(r Reporter) Report {
	rep := check()
	if rep.Granted() {
		return rep
	}
	request(rep)

	for _, msg := range rep.Messages() {
		if r != nil {
			r.Report(msg)
		}
	}
	return rep
}
