package inject

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard places transcript text on the system clipboard
type Clipboard struct {
	write func(string) error
}

// New creates a clipboard writer backed by the system clipboard
func New() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll}
}

// Copy writes text to the clipboard
func (c *Clipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not supported on this system")
	}
	if err := c.write(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// CopyFile copies the trimmed contents of a transcript file
func (c *Clipboard) CopyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	text := Normalize(string(data))
	if text == "" {
		return "", fmt.Errorf("transcript is empty: %s", path)
	}
	return text, c.Copy(text)
}

// Normalize joins the engine's line-per-segment output into paragraphs
func Normalize(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
