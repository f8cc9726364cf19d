//go:build !darwin

package permissions

// Other platforms have no capture permission prompts
func platformCheck() Report {
	return Report{Microphone: Authorized, ScreenCapture: Authorized}
}

func platformRequest(Report) {}
