package notify

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNotifyDisabled(t *testing.T) {
	n := New(false, zerolog.Nop())
	n.send = func(title, message, icon string) error {
		t.Error("send must not be called when disabled")
		return nil
	}
	if err := n.Notify("Recording saved", "call.wav"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNotifyPrefixesTitle(t *testing.T) {
	n := New(true, zerolog.Nop())
	var gotTitle, gotMsg string
	n.send = func(title, message, icon string) error {
		gotTitle, gotMsg = title, message
		return nil
	}
	if err := n.Notify("Transcript ready", "call-transcript.txt"); err != nil {
		t.Fatal(err)
	}
	if gotTitle != "Listen Transcriber: Transcript ready" || gotMsg != "call-transcript.txt" {
		t.Errorf("unexpected notification %q / %q", gotTitle, gotMsg)
	}
}

func TestNotifyReturnsSendError(t *testing.T) {
	n := New(true, zerolog.Nop())
	boom := errors.New("no notification daemon")
	n.send = func(title, message, icon string) error { return boom }
	if err := n.Notify("x", "y"); !errors.Is(err, boom) {
		t.Errorf("expected send error, got %v", err)
	}
}
