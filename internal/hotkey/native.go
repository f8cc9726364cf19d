//go:build darwin || windows

package hotkey

import (
	"fmt"
	"runtime"

	"golang.design/x/hotkey"
)

// nativeKey forwards key presses of a golang.design/x/hotkey binding
type nativeKey struct {
	hk   *hotkey.Hotkey
	down chan struct{}
	done chan struct{}
}

func platformKey(a Accel) (key, error) {
	mods, k, err := native(a)
	if err != nil {
		return nil, err
	}
	return &nativeKey{
		hk:   hotkey.New(mods, k),
		down: make(chan struct{}),
		done: make(chan struct{}),
	}, nil
}

func (n *nativeKey) Register() error {
	if err := n.hk.Register(); err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-n.done:
				return
			case _, ok := <-n.hk.Keydown():
				if !ok {
					return
				}
				select {
				case n.down <- struct{}{}:
				case <-n.done:
					return
				}
			}
		}
	}()
	return nil
}

func (n *nativeKey) Unregister() error {
	close(n.done)
	return n.hk.Unregister()
}

func (n *nativeKey) Keydown() <-chan struct{} {
	return n.down
}

// native maps a parsed accelerator onto the library's codes
func native(a Accel) ([]hotkey.Modifier, hotkey.Key, error) {
	mods := make([]hotkey.Modifier, 0, len(a.Mods))
	for _, m := range a.Mods {
		mod, ok := nativeModifiers[m]
		if !ok {
			return nil, 0, fmt.Errorf("modifier %s not available on %s", m, runtime.GOOS)
		}
		mods = append(mods, mod)
	}
	k, ok := nativeKeys[a.Key]
	if !ok {
		return nil, 0, fmt.Errorf("key %s not available on %s", a.Key, runtime.GOOS)
	}
	return mods, k, nil
}

var nativeKeys = map[string]hotkey.Key{
	"space": hotkey.KeySpace,
	"a":     hotkey.KeyA,
	"b":     hotkey.KeyB,
	"c":     hotkey.KeyC,
	"d":     hotkey.KeyD,
	"e":     hotkey.KeyE,
	"f":     hotkey.KeyF,
	"g":     hotkey.KeyG,
	"h":     hotkey.KeyH,
	"i":     hotkey.KeyI,
	"j":     hotkey.KeyJ,
	"k":     hotkey.KeyK,
	"l":     hotkey.KeyL,
	"m":     hotkey.KeyM,
	"n":     hotkey.KeyN,
	"o":     hotkey.KeyO,
	"p":     hotkey.KeyP,
	"q":     hotkey.KeyQ,
	"r":     hotkey.KeyR,
	"s":     hotkey.KeyS,
	"t":     hotkey.KeyT,
	"u":     hotkey.KeyU,
	"v":     hotkey.KeyV,
	"w":     hotkey.KeyW,
	"x":     hotkey.KeyX,
	"y":     hotkey.KeyY,
	"z":     hotkey.KeyZ,
	"0":     hotkey.Key0,
	"1":     hotkey.Key1,
	"2":     hotkey.Key2,
	"3":     hotkey.Key3,
	"4":     hotkey.Key4,
	"5":     hotkey.Key5,
	"6":     hotkey.Key6,
	"7":     hotkey.Key7,
	"8":     hotkey.Key8,
	"9":     hotkey.Key9,
	"f1":    hotkey.KeyF1,
	"f2":    hotkey.KeyF2,
	"f3":    hotkey.KeyF3,
	"f4":    hotkey.KeyF4,
	"f5":    hotkey.KeyF5,
	"f6":    hotkey.KeyF6,
	"f7":    hotkey.KeyF7,
	"f8":    hotkey.KeyF8,
	"f9":    hotkey.KeyF9,
	"f10":   hotkey.KeyF10,
	"f11":   hotkey.KeyF11,
	"f12":   hotkey.KeyF12,
}
