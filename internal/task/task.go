// Package task implements the task-state and upload collaborators:
// the three-callback task lifecycle, the pluggable upload boundary,
// and the file-output uploader used by tests and the CLI.
package task

import (
	"context"
	"os"

	"github.com/tercen/ggrs-plot-operator/internal/ploterrors"
)

// State is the three-callback task lifecycle collaborator: each method
// is invoked exactly once across a task's run.
type State interface {
	SetRunning()
	SetDone(resultID string)
	SetFailed(err error)
}

// UploadMetadata describes the artifact being uploaded.
type UploadMetadata struct {
	ProjectID   string
	Filename    string
	ContentType string
	Size        int
}

// Uploader transmits the serialized result and returns an opaque
// identifier. The core never retries; a failure aborts the task.
type Uploader interface {
	Upload(ctx context.Context, data []byte, meta UploadMetadata) (resultID string, err error)
}

// FileUpload is a file-output uploader for tests and local runs: it
// writes data to Path instead of transmitting it to the platform, and
// returns Path as the result identifier.
type FileUpload struct {
	Path string
}

// Upload implements Uploader by writing to disk.
func (f FileUpload) Upload(_ context.Context, data []byte, _ UploadMetadata) (string, error) {
	if err := os.WriteFile(f.Path, data, 0o644); err != nil { //nolint:gosec // path is operator-controlled
		return "", ploterrors.Wrap(ploterrors.KindUploadTransport, "write result file", err)
	}
	return f.Path, nil
}

// NopState is a State that discards every callback; useful in tests
// that only care about the returned error, not lifecycle transitions.
type NopState struct{}

func (NopState) SetRunning()        {}
func (NopState) SetDone(string)     {}
func (NopState) SetFailed(error)    {}

// RecordingState records each callback invocation, for tests asserting
// the "each callback exactly once" contract.
type RecordingState struct {
	RunningCalls int
	DoneResultID string
	DoneCalls    int
	FailedErr    error
	FailedCalls  int
}

func (s *RecordingState) SetRunning()   { s.RunningCalls++ }
func (s *RecordingState) SetDone(id string) {
	s.DoneCalls++
	s.DoneResultID = id
}
func (s *RecordingState) SetFailed(err error) {
	s.FailedCalls++
	s.FailedErr = err
}
