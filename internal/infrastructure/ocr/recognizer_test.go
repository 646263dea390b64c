package ocr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-mcp/internal/domain/entity"
)

type fakeEngine struct {
	text string
	err  error
}

func (f *fakeEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

func (f *fakeEngine) Name() string { return "fake" }

func newTestRecognizer(engine Engine) *Recognizer {
	return NewRecognizer(engine, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecognizer_ExtractText_TrimsText(t *testing.T) {
	r := newTestRecognizer(&fakeEngine{text: "  STOP\n\n"})

	text, err := r.ExtractText(context.Background(), []byte("img"), true)
	require.NoError(t, err)
	require.Equal(t, "STOP", text)
}

func TestRecognizer_ExtractText_NoText(t *testing.T) {
	r := newTestRecognizer(&fakeEngine{text: " \n\t "})

	text, err := r.ExtractText(context.Background(), []byte("img"), true)
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestRecognizer_ExtractText_FailureSwallowedWhenOptional(t *testing.T) {
	r := newTestRecognizer(&fakeEngine{err: errors.New("tesseract is not installed")})

	text, err := r.ExtractText(context.Background(), []byte("img"), false)
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestRecognizer_ExtractText_FailureSurfacedWhenRequired(t *testing.T) {
	r := newTestRecognizer(&fakeEngine{err: errors.New("tesseract is not installed")})

	_, err := r.ExtractText(context.Background(), []byte("img"), true)
	require.ErrorIs(t, err, entity.ErrOCR)
	require.Contains(t, err.Error(), "tesseract is not installed")
}
