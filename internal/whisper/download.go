package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DownloadError reports a failed model fetch. The target path is never
// left partially written.
type DownloadError struct {
	Model string
	URL   string
	Err   error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download model %s: %v", e.Model, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// progressWriter tracks download progress and logs it periodically
type progressWriter struct {
	total      int64
	downloaded int64
	lastLog    time.Time
	model      string
	log        zerolog.Logger
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.downloaded += int64(n)

	// Log progress every 2 seconds or when complete
	now := time.Now()
	if now.Sub(pw.lastLog) >= 2*time.Second || pw.downloaded >= pw.total {
		pw.lastLog = now
		percent := float64(pw.downloaded) / float64(pw.total) * 100

		pw.log.Info().
			Str("model", pw.model).
			Float64("percent", percent).
			Float64("downloaded_mb", float64(pw.downloaded)/1024/1024).
			Float64("total_mb", float64(pw.total)/1024/1024).
			Msg("Downloading model")
	}

	return n, nil
}

// Downloader fetches model files into a local folder
type Downloader struct {
	BaseURL string
	Client  *http.Client
	log     zerolog.Logger
}

// NewDownloader creates a downloader for models hosted under baseURL
func NewDownloader(baseURL string, log zerolog.Logger) *Downloader {
	if baseURL == "" {
		baseURL = DefaultModelBaseURL
	}
	return &Downloader{
		BaseURL: baseURL,
		Client:  http.DefaultClient,
		log:     log,
	}
}

// Exists reports whether the model is already present in dir
func Exists(spec ModelSpec, dir string) bool {
	info, err := os.Stat(spec.Path(dir))
	return err == nil && info.Mode().IsRegular()
}

// Ensure makes sure the model exists in dir, downloading it when absent.
// It returns the model path and whether a download happened.
func (d *Downloader) Ensure(ctx context.Context, spec ModelSpec, dir string) (string, bool, error) {
	dest := spec.Path(dir)
	if Exists(spec, dir) {
		return dest, false, nil
	}
	if err := d.download(ctx, spec, dest); err != nil {
		return dest, false, err
	}
	return dest, true, nil
}

// download writes to a unique temp file next to dest and renames it into
// place only after the whole body was received.
func (d *Downloader) download(ctx context.Context, spec ModelSpec, dest string) error {
	model := spec.FileName()
	url := spec.URL(d.BaseURL)
	fail := func(err error) error {
		return &DownloadError{Model: model, URL: url, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fail(fmt.Errorf("failed to create models directory: %w", err))
	}

	d.log.Info().Str("model", model).Str("url", url).Msg("Starting model download")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fail(err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	totalSize := resp.ContentLength
	if totalSize <= 0 {
		d.log.Warn().Str("model", model).Msg("Content-Length not provided, progress tracking unavailable")
	}

	tmpPath := filepath.Join(filepath.Dir(dest), "."+model+"."+uuid.NewString()+".part")
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fail(fmt.Errorf("failed to create temp file: %w", err))
	}
	defer os.Remove(tmpPath)

	var writer io.Writer = out
	if totalSize > 0 {
		writer = io.MultiWriter(out, &progressWriter{
			total:   totalSize,
			model:   model,
			lastLog: time.Now(),
			log:     d.log,
		})
	}

	written, err := io.Copy(writer, resp.Body)
	if err == nil && totalSize > 0 && written != totalSize {
		err = io.ErrUnexpectedEOF
	}
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fail(fmt.Errorf("failed to write model file: %w", err))
	}
	if written == 0 {
		return fail(errors.New("empty response body"))
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fail(fmt.Errorf("failed to move model file: %w", err))
	}

	d.log.Info().
		Str("model", model).
		Str("path", dest).
		Float64("size_mb", float64(written)/1024/1024).
		Msg("Model downloaded successfully")

	return nil
}

// TODO: Add SHA256 verification against the published checksums
