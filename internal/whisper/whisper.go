package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/petems/listen-transcriber/internal/process"
)

var (
	// ErrTranscriptionFailed is returned when the engine exits non-zero
	ErrTranscriptionFailed = errors.New("transcription process failed")

	// ErrNoTranscript is returned when the engine exits cleanly but wrote no transcript
	ErrNoTranscript = errors.New("transcription produced no transcript file")
)

// Transcriber is the transcription engine surface used by the orchestrator
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (Result, error)
}

// Request describes one transcription run
type Request struct {
	ModelPath      string
	AudioPath      string
	TranscriptBase string // engine appends ".txt"
	Language       Language
	UseGPU         bool
}

// TranscriptPath is where the engine writes the text output
func (r Request) TranscriptPath() string {
	return r.TranscriptBase + ".txt"
}

// Result is the outcome of a transcription run that launched
type Result struct {
	TranscriptPath string
	Log            string
	ExitCode       int
}

// Args builds the whisper-cli argv for req
func Args(req Request) []string {
	args := []string{
		"-m", req.ModelPath,
		"-f", req.AudioPath,
		"-otxt",
		"-of", req.TranscriptBase,
	}
	if !req.UseGPU {
		args = append(args, "-ng")
	}
	if req.Language != "" && req.Language != LanguageAuto {
		args = append(args, "-l", string(req.Language))
	}
	return args
}

// Runner is the subset of process.Runner the engine needs
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (process.Result, error)
}

// CLI runs the whisper.cpp command line tool
type CLI struct {
	Binary string
	runner Runner
	log    zerolog.Logger
}

// NewCLI creates a transcriber for the whisper-cli binary at path
func NewCLI(path string, runner Runner, log zerolog.Logger) *CLI {
	return &CLI{
		Binary: path,
		runner: runner,
		log:    log,
	}
}

// Transcribe runs the engine to completion. Launch failures are returned as
// *process.LaunchError; a run that launched always returns its log, even
// when it failed.
func (c *CLI) Transcribe(ctx context.Context, req Request) (Result, error) {
	res, err := c.runner.Run(ctx, c.Binary, Args(req)...)
	if err != nil {
		return Result{}, err
	}

	out := Result{
		TranscriptPath: req.TranscriptPath(),
		Log:            res.Output,
		ExitCode:       res.ExitCode,
	}

	if !res.Success() {
		c.log.Error().Int("exit_code", res.ExitCode).Str("audio", req.AudioPath).Msg("Transcription failed")
		return out, fmt.Errorf("%w: exit code %d", ErrTranscriptionFailed, res.ExitCode)
	}
	if _, err := os.Stat(out.TranscriptPath); err != nil {
		c.log.Error().Err(err).Str("path", out.TranscriptPath).Msg("Transcript missing")
		return out, ErrNoTranscript
	}

	c.log.Info().Str("path", out.TranscriptPath).Dur("duration", res.Duration).Msg("Transcription finished")
	return out, nil
}
