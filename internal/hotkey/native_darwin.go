package hotkey

import "golang.design/x/hotkey"

var nativeModifiers = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModOption,
	"super": hotkey.ModCmd,
}
