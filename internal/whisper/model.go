package whisper

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultModelBaseURL hosts the ggml whisper.cpp models (Hugging Face)
const DefaultModelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// ModelSize selects one of the supported model files
type ModelSize string

const (
	ModelSmall  ModelSize = "small"
	ModelMedium ModelSize = "medium"
)

// ModelSizes lists the supported sizes in menu order
var ModelSizes = []ModelSize{ModelSmall, ModelMedium}

// ParseModelSize validates a configured model size
func ParseModelSize(s string) (ModelSize, error) {
	switch ModelSize(strings.ToLower(strings.TrimSpace(s))) {
	case ModelSmall:
		return ModelSmall, nil
	case ModelMedium:
		return ModelMedium, nil
	}
	return "", fmt.Errorf("unknown model size: %q (allowed: small, medium)", s)
}

// ModelSpec identifies a model file
type ModelSpec struct {
	Size ModelSize
}

// FileName is the on-disk and remote name of the model
func (m ModelSpec) FileName() string {
	return "ggml-" + string(m.Size) + ".bin"
}

// Path returns the model location inside dir
func (m ModelSpec) Path(dir string) string {
	return filepath.Join(dir, m.FileName())
}

// URL returns the download location under baseURL
func (m ModelSpec) URL(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultModelBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + m.FileName()
}

// Language is the spoken language hint passed to the engine
type Language string

const (
	LanguageAuto    Language = "auto"
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
)

// Languages lists the supported languages in menu order
var Languages = []Language{LanguageAuto, LanguageSpanish, LanguageEnglish}

// ParseLanguage validates a configured language; empty means auto
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageAuto:
		return LanguageAuto, nil
	case LanguageSpanish:
		return LanguageSpanish, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	}
	return "", fmt.Errorf("unknown language: %q (allowed: auto, es, en)", s)
}

// DisplayName is the label shown in menus
func (l Language) DisplayName() string {
	switch l {
	case LanguageSpanish:
		return "Español"
	case LanguageEnglish:
		return "English"
	default:
		return "Auto"
	}
}
