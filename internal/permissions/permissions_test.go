package permissions

import (
	"strings"
	"testing"
)

type recorder struct {
	msgs []string
}

func (r *recorder) Report(msg string) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

func withPlatform(t *testing.T, rep Report) *int {
	t.Helper()
	requests := 0
	origCheck, origRequest := check, request
	check = func() Report { return rep }
	request = func(Report) { requests++ }
	t.Cleanup(func() { check, request = origCheck, origRequest })
	return &requests
}

func TestEnsureGranted(t *testing.T) {
	requests := withPlatform(t, Report{Microphone: Authorized, ScreenCapture: Authorized})
	r := &recorder{}

	if rep := Ensure(r); !rep.Granted() {
		t.Error("expected granted")
	}
	if *requests != 0 || len(r.msgs) != 0 {
		t.Errorf("expected no prompts or messages, got %d / %v", *requests, r.msgs)
	}
}

func TestEnsureReportsMissing(t *testing.T) {
	requests := withPlatform(t, Report{Microphone: Denied, ScreenCapture: Denied})
	r := &recorder{}

	Ensure(r)
	if *requests != 1 {
		t.Errorf("expected one request, got %d", *requests)
	}
	if len(r.msgs) != 2 {
		t.Fatalf("expected two messages, got %v", r.msgs)
	}
	if !strings.Contains(r.msgs[0], "Microphone access denied") {
		t.Errorf("unexpected microphone message %q", r.msgs[0])
	}
	if !strings.Contains(r.msgs[1], "Screen recording") {
		t.Errorf("unexpected screen message %q", r.msgs[1])
	}
}

func TestMessagesNotDetermined(t *testing.T) {
	msgs := Report{Microphone: NotDetermined, ScreenCapture: Authorized}.Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "requested") {
		t.Errorf("unexpected messages %v", msgs)
	}
}

func TestStatusString(t *testing.T) {
	if Restricted.String() != "restricted" || Status(9).String() != "status(9)" {
		t.Error("unexpected status names")
	}
}

func TestCheckUsesPlatform(t *testing.T) {
	withPlatform(t, Report{Microphone: Restricted})
	if Check().Microphone != Restricted {
		t.Error("expected platform check result")
	}
}
