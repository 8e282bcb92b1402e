package task

import (
	"bytes"
	"context"
	"io"

	"github.com/tercen/ggrs-plot-operator/internal/ploterrors"
	"github.com/tercen/ggrs-plot-operator/internal/stream"
	"github.com/tercen/ggrs-plot-operator/internal/wire"
)

// Renderer is the subset of stream.Driver that Run needs, kept as an
// interface so tests can substitute a fake that fails mid-render
// without touching the real pipeline.
type Renderer interface {
	Render(ctx context.Context, gen stream.Generator, cfg stream.Config, out io.Writer) error
}

// Run drives one task end to end: SetRunning, render to PNG, serialize
// through the result encoder, upload, then SetDone or SetFailed. Each
// State callback fires exactly once per task.
func Run(ctx context.Context, renderer Renderer, gen stream.Generator, cfg stream.Config, uploader Uploader, meta UploadMetadata, state State) error {
	state.SetRunning()

	var png bytes.Buffer
	if err := renderer.Render(ctx, gen, cfg, &png); err != nil {
		state.SetFailed(err)
		return err
	}

	encoded, err := wire.EncodeResult(png.Bytes())
	if err != nil {
		wrapped := ploterrors.Wrap(ploterrors.KindSerialize, "encode result", err)
		state.SetFailed(wrapped)
		return wrapped
	}

	meta.Size = len(encoded)
	resultID, err := uploader.Upload(ctx, encoded, meta)
	if err != nil {
		// An uploader reporting its own Kind (e.g. Rejected) takes
		// precedence over the default Transport classification.
		failure := err
		if _, ok := ploterrors.As(err); !ok {
			failure = ploterrors.Wrap(ploterrors.KindUploadTransport, "upload result", err)
		}
		state.SetFailed(failure)
		return failure
	}

	state.SetDone(resultID)
	return nil
}
