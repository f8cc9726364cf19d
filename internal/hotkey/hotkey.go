package hotkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnsupported is returned by Register on platforms without a global
// hotkey backend.
var ErrUnsupported = errors.New("global hotkeys not supported")

// Accel is a parsed accelerator. Mods holds canonical modifier names
// ("ctrl", "shift", "alt", "super") in the order given.
type Accel struct {
	Mods []string
	Key  string
}

// key is a registered shortcut on the native backend
type key interface {
	Register() error
	Unregister() error
	Keydown() <-chan struct{}
}

// newKey is replaced in tests
var newKey = platformKey

type binding struct {
	key  key
	stop chan struct{}
}

// Manager owns the global shortcuts of the app
type Manager struct {
	log zerolog.Logger

	mu       sync.Mutex
	bindings map[string]*binding
}

func New(log zerolog.Logger) *Manager {
	return &Manager{
		log:      log,
		bindings: make(map[string]*binding),
	}
}

// Register binds accel (for example "Ctrl+Shift+R") to onPress. onPress runs
// on its own goroutine for every key press.
func (m *Manager) Register(accel string, onPress func()) error {
	a, err := Parse(accel)
	if err != nil {
		return err
	}
	norm := normalize(accel)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bindings[norm]; ok {
		return fmt.Errorf("hotkey %s already registered", accel)
	}

	hk, err := newKey(a)
	if err != nil {
		return fmt.Errorf("failed to register hotkey %s: %w", accel, err)
	}
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey %s: %w", accel, err)
	}

	b := &binding{key: hk, stop: make(chan struct{})}
	m.bindings[norm] = b
	go func() {
		for {
			select {
			case <-b.stop:
				return
			case _, ok := <-hk.Keydown():
				if !ok {
					return
				}
				go onPress()
			}
		}
	}()

	m.log.Info().Str("hotkey", accel).Msg("Hotkey registered")
	return nil
}

// Unregister removes the binding for accel
func (m *Manager) Unregister(accel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	norm := normalize(accel)
	b, ok := m.bindings[norm]
	if !ok {
		return fmt.Errorf("hotkey %s not registered", accel)
	}
	delete(m.bindings, norm)
	close(b.stop)
	return b.key.Unregister()
}

// Close removes every binding
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for norm, b := range m.bindings {
		close(b.stop)
		if err := b.key.Unregister(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.bindings, norm)
	}
	return firstErr
}

// Parse splits an accelerator such as "Ctrl+Shift+R" into modifiers and key.
// Exactly one non-modifier key is required.
func Parse(accel string) (Accel, error) {
	parts := strings.Split(normalize(accel), "+")
	if len(parts) < 2 {
		return Accel{}, fmt.Errorf("invalid hotkey %q: need at least one modifier and a key", accel)
	}

	var a Accel
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifiers[p]
		if !ok {
			return Accel{}, fmt.Errorf("invalid hotkey %q: unknown modifier %q", accel, p)
		}
		a.Mods = append(a.Mods, mod)
	}

	a.Key = parts[len(parts)-1]
	if !validKey(a.Key) {
		return Accel{}, fmt.Errorf("invalid hotkey %q: unknown key %q", accel, a.Key)
	}
	return a, nil
}

func normalize(accel string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(accel), " ", ""))
}

var modifiers = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"cmd":     "super",
	"super":   "super",
	"win":     "super",
}

// validKey accepts space, a-z, 0-9 and f1-f12
func validKey(k string) bool {
	switch {
	case k == "space":
		return true
	case len(k) == 1:
		c := k[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	case len(k) > 1 && k[0] == 'f':
		n, err := strconv.Atoi(k[1:])
		return err == nil && n >= 1 && n <= 12 && k[1] != '0'
	}
	return false
}
