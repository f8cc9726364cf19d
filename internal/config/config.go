package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/petems/listen-transcriber/internal/naming"
	"github.com/petems/listen-transcriber/internal/whisper"
)

const appName = "listen-transcriber"

// Environment overrides
const (
	EnvOutputDir = "LISTEN_TRANSCRIBER_OUTPUT_DIR"
	EnvFFmpeg    = "LISTEN_TRANSCRIBER_FFMPEG"
	EnvWhisper   = "LISTEN_TRANSCRIBER_WHISPER"
	EnvLogLevel  = "LISTEN_TRANSCRIBER_LOG_LEVEL"
)

// Config is the loaded configuration. Values holds what is read from and
// written to the file; environment overrides are layered on top and never
// saved.
type Config struct {
	Values

	mu   sync.Mutex
	path string
	file Values // as decoded, before overrides
	env  overridden
}

type Values struct {
	OutputFolder      string          `json:"output_folder" toml:"output_folder"`
	LogLevel          string          `json:"log_level" toml:"log_level"`
	IncludeMicrophone bool            `json:"include_microphone" toml:"include_microphone"`
	Hotkey            string          `json:"hotkey" toml:"hotkey"` // toggles recording from the tray, empty disables
	Recording         RecordingConfig `json:"recording" toml:"recording"`
	Capture           CaptureConfig   `json:"capture" toml:"capture"`
	Whisper           WhisperConfig   `json:"whisper" toml:"whisper"`
	CopyToClipboard   bool            `json:"copy_to_clipboard" toml:"copy_to_clipboard"`
	Notifications     bool            `json:"notifications" toml:"notifications"`
}

// overridden marks fields whose current value came from the environment
type overridden struct {
	outputFolder, ffmpeg, whisper, logLevel bool
}

type RecordingConfig struct {
	BaseName        string `json:"base_name" toml:"base_name"`
	AppendTimestamp bool   `json:"append_timestamp" toml:"append_timestamp"`
}

type CaptureConfig struct {
	Binary             string `json:"binary" toml:"binary"`
	Format             string `json:"format" toml:"format"` // ffmpeg input device family
	StopTimeoutSeconds int    `json:"stop_timeout_seconds" toml:"stop_timeout_seconds"`
}

type WhisperConfig struct {
	Binary       string `json:"binary" toml:"binary"`
	Model        string `json:"model" toml:"model"`       // "small" or "medium"
	Language     string `json:"language" toml:"language"` // "auto", "es", "en"
	UseGPU       bool   `json:"use_gpu" toml:"use_gpu"`
	ModelBaseURL string `json:"model_base_url" toml:"model_base_url"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{Values: Values{
		OutputFolder: defaultOutputFolder(),
		LogLevel:     "info",
		Hotkey:       "Ctrl+Shift+R",
		Recording: RecordingConfig{
			BaseName:        "",
			AppendTimestamp: true,
		},
		Capture: CaptureConfig{
			Binary:             "ffmpeg",
			Format:             "avfoundation",
			StopTimeoutSeconds: 5,
		},
		Whisper: WhisperConfig{
			Binary:       "whisper-cli",
			Model:        string(whisper.ModelMedium),
			Language:     string(whisper.LanguageAuto),
			UseGPU:       false,
			ModelBaseURL: whisper.DefaultModelBaseURL,
		},
		CopyToClipboard: false,
		Notifications:   true,
	}}
	cfg.file = cfg.Values
	return cfg
}

// Load reads the config from the platform config path or returns defaults
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path. A missing file yields defaults; the
// format follows the extension (.toml, otherwise JSON).
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, &cfg.Values); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.OutputFolder = naming.ExpandHome(cfg.OutputFolder)
	cfg.file = cfg.Values
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, v *Values) error {
	if isTOML(path) {
		_, err := toml.Decode(string(data), v)
		return err
	}
	return json.Unmarshal(data, v)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputFolder = naming.ExpandHome(v)
		c.env.outputFolder = true
	}
	if v := os.Getenv(EnvFFmpeg); v != "" {
		c.Capture.Binary = v
		c.env.ffmpeg = true
	}
	if v := os.Getenv(EnvWhisper); v != "" {
		c.Whisper.Binary = v
		c.env.whisper = true
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
		c.env.logLevel = true
	}
}

// persisted returns the values to write back, with overridden fields
// restored to what the file held.
func (c *Config) persisted() Values {
	v := c.Values
	if c.env.outputFolder {
		v.OutputFolder = c.file.OutputFolder
	}
	if c.env.ffmpeg {
		v.Capture.Binary = c.file.Capture.Binary
	}
	if c.env.whisper {
		v.Whisper.Binary = c.file.Whisper.Binary
	}
	if c.env.logLevel {
		v.LogLevel = c.file.LogLevel
	}
	return v
}

// Validate checks values that cannot be represented by the JSON types alone
func (c *Config) Validate() error {
	if _, err := whisper.ParseModelSize(c.Whisper.Model); err != nil {
		return fmt.Errorf("whisper.model: %w", err)
	}
	if _, err := whisper.ParseLanguage(c.Whisper.Language); err != nil {
		return fmt.Errorf("whisper.language: %w", err)
	}
	if c.Capture.StopTimeoutSeconds < 0 {
		return fmt.Errorf("capture.stop_timeout_seconds must not be negative")
	}
	if strings.TrimSpace(c.OutputFolder) == "" {
		return fmt.Errorf("output_folder must not be empty")
	}
	return nil
}

// SaveTo writes the config to path, creating its directory. Values taken
// from the environment are not written.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	v := c.persisted()
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Update applies fn and persists the result. Callers on other goroutines
// must change the config through Update. A field fn changes is saved even
// if the environment had overridden it.
func (c *Config) Update(fn func(*Config)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.Values
	fn(c)
	c.env.outputFolder = c.env.outputFolder && c.OutputFolder == before.OutputFolder
	c.env.ffmpeg = c.env.ffmpeg && c.Capture.Binary == before.Capture.Binary
	c.env.whisper = c.env.whisper && c.Whisper.Binary == before.Whisper.Binary
	c.env.logLevel = c.env.logLevel && c.LogLevel == before.LogLevel
	if c.path == "" {
		c.path = Path()
	}
	return c.SaveTo(c.path)
}

// SetOutputFolder changes the output folder and persists it
func (c *Config) SetOutputFolder(path string) error {
	return c.Update(func(c *Config) {
		c.OutputFolder = naming.ExpandHome(path)
	})
}

// File returns the path the config is read from and saved to
func (c *Config) File() string {
	return c.path
}

// StopTimeout is the grace period for a capture to finalize its file
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.Capture.StopTimeoutSeconds) * time.Second
}

// ModelSize returns the validated model size
func (c *Config) ModelSize() whisper.ModelSize {
	size, _ := whisper.ParseModelSize(c.Whisper.Model)
	return size
}

// Language returns the validated language
func (c *Config) Language() whisper.Language {
	lang, _ := whisper.ParseLanguage(c.Whisper.Language)
	return lang
}

// ModelsPath returns the models folder inside the output folder
func (c *Config) ModelsPath() string {
	return naming.ModelsDir(c.OutputFolder)
}

// executable is replaced in tests
var executable = os.Executable

// ResolveBinary locates an engine binary. Absolute paths are used as is;
// bare names are looked up in a bin folder bundled next to the executable
// (or in a macOS app bundle's Resources), then on PATH.
func ResolveBinary(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("binary name not set")
	}
	if filepath.IsAbs(name) {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}

	if exe, err := executable(); err == nil {
		dir := filepath.Dir(exe)
		for _, candidate := range []string{
			filepath.Join(dir, "bin", name),
			filepath.Join(dir, "..", "Resources", "bin", name),
		} {
			if isExecutable(candidate) {
				return candidate, nil
			}
		}
	}

	return exec.LookPath(name)
}

// CaptureBinary resolves the configured capture engine
func (c *Config) CaptureBinary() (string, error) {
	return ResolveBinary(c.Capture.Binary)
}

// WhisperBinary resolves the configured transcription engine
func (c *Config) WhisperBinary() (string, error) {
	return ResolveBinary(c.Whisper.Binary)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}

// Path returns the platform-specific config file path
func Path() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, appName, "config.json")
}

func defaultOutputFolder() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads", "Transcripts")
	}
	return filepath.Join(".", "Transcripts")
}
