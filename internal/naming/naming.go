package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseName replaces an empty or fully invalid recording name
const DefaultBaseName = "meeting"

// ModelsDirName is the subfolder of the output folder holding model files
const ModelsDirName = "models"

const transcriptSuffix = "-transcript"

// SanitizeBaseName lowercases input and keeps only ASCII letters, digits,
// '-' and '_'. Everything else becomes '-', runs of '-' collapse and
// leading/trailing '-' or '_' are trimmed.
func SanitizeBaseName(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	lastDash := false
	for _, r := range strings.ToLower(input) {
		if !isAllowed(r) {
			r = '-'
		}
		if r == '-' {
			if lastDash {
				continue
			}
			lastDash = true
		} else {
			lastDash = false
		}
		b.WriteRune(r)
	}

	return strings.Trim(b.String(), "-_")
}

func isAllowed(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

// BuildRecordingName derives the file stem for a new recording.
// Without a timestamp two calls with the same base collide on purpose.
func BuildRecordingName(base string, appendTimestamp bool, now time.Time) string {
	safe := SanitizeBaseName(base)
	if safe == "" {
		safe = DefaultBaseName
	}
	if !appendTimestamp {
		return safe
	}
	return safe + "-" + Timestamp(now)
}

// Timestamp formats t as ISO8601 in UTC with ':' replaced by '-'
func Timestamp(t time.Time) string {
	return strings.ReplaceAll(t.UTC().Format("2006-01-02T15:04:05Z07:00"), ":", "-")
}

// Paths are the files produced by one recording
type Paths struct {
	AudioPath      string
	TranscriptBase string // the transcription engine appends ".txt"
	TranscriptPath string
}

// ResolvePaths returns the recording and transcript paths for name inside
// outputFolder, creating outputFolder and its models subfolder if needed.
func ResolvePaths(outputFolder, name string) (Paths, error) {
	if outputFolder == "" {
		return Paths{}, fmt.Errorf("output folder not set")
	}
	if name == "" {
		name = DefaultBaseName
	}
	if _, err := EnsureModelsDir(outputFolder); err != nil {
		return Paths{}, err
	}

	base := filepath.Join(outputFolder, name+transcriptSuffix)
	return Paths{
		AudioPath:      filepath.Join(outputFolder, name+".wav"),
		TranscriptBase: base,
		TranscriptPath: base + ".txt",
	}, nil
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Other paths are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// ModelsDir returns the model cache folder for outputFolder
func ModelsDir(outputFolder string) string {
	return filepath.Join(outputFolder, ModelsDirName)
}

// EnsureModelsDir creates outputFolder/models (and its parent) if absent
func EnsureModelsDir(outputFolder string) (string, error) {
	dir := ModelsDir(outputFolder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output folder: %w", err)
	}
	return dir, nil
}

// TranscriptBaseFor derives the transcript base path for an arbitrary audio
// file: same folder, extension dropped, "-transcript" appended.
func TranscriptBaseFor(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + transcriptSuffix
}
