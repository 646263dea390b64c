package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vision-mcp/internal/domain/port"
	"vision-mcp/internal/infrastructure/imaging"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func pngBase64(t *testing.T) string {
	return imaging.EncodeBase64(pngBytes(t))
}

// fakeDescriber возвращает заранее заданный ответ и запоминает вызовы
type fakeDescriber struct {
	name        string
	description string
	err         error

	mu     sync.Mutex
	calls  int
	image  string
	prompt string
}

func (f *fakeDescriber) Describe(ctx context.Context, imageBase64, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.image = imageBase64
	f.prompt = prompt
	return f.description, f.err
}

func (f *fakeDescriber) Name() string { return f.name }

func (f *fakeDescriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func factoryOf(d port.ImageDescriber) port.DescriberFactory {
	return func() (port.ImageDescriber, error) { return d, nil }
}

func failingFactory(err error) port.DescriberFactory {
	return func() (port.ImageDescriber, error) { return nil, err }
}

type fakeRecognizer struct {
	text     string
	err      error
	calls    int
	required bool
}

func (f *fakeRecognizer) ExtractText(ctx context.Context, image []byte, required bool) (string, error) {
	f.calls++
	f.required = required
	return f.text, f.err
}

type fakeRecorder struct {
	mu        sync.Mutex
	requests  map[string]int
	describes []string
	fallbacks []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{requests: make(map[string]int)}
}

func (r *fakeRecorder) ObserveRequest(operation, outcome string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[operation+"/"+outcome]++
}

func (r *fakeRecorder) ObserveDescribe(provider string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.describes = append(r.describes, provider)
}

func (r *fakeRecorder) ObserveFallback(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks = append(r.fallbacks, from+"->"+to)
}

type suffixSanitizer struct{}

func (suffixSanitizer) Sanitize(text string) string { return text + " [sanitized]" }
