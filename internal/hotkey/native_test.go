//go:build darwin || windows

package hotkey

import (
	"testing"

	"golang.design/x/hotkey"
)

func TestNativeMapping(t *testing.T) {
	a, err := Parse("Ctrl+Shift+R")
	if err != nil {
		t.Fatal(err)
	}
	mods, k, err := native(a)
	if err != nil {
		t.Fatalf("native failed: %v", err)
	}
	if len(mods) != 2 || mods[0] != hotkey.ModCtrl || mods[1] != hotkey.ModShift {
		t.Errorf("unexpected modifiers %v", mods)
	}
	if k != hotkey.KeyR {
		t.Errorf("expected R, got %v", k)
	}
}

func TestNativeCoversEveryKey(t *testing.T) {
	for _, name := range []string{"space", "a", "z", "0", "9", "f1", "f12"} {
		if _, _, err := native(Accel{Mods: []string{"ctrl"}, Key: name}); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
