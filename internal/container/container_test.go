package container

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-mcp/config"
	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/infrastructure/imaging"
	"vision-mcp/internal/infrastructure/storage"
)

func TestNew_WiresServices(t *testing.T) {
	cfg := &config.Config{
		VisionProvider: "anthropic",
		OutputEncoding: "no-such-encoding",
		TesseractCmd:   config.DefaultTesseractCmd,
	}
	c := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), storage.NewMemoryUserRepository())

	require.NotNil(t, c.UserService)
	require.NotNil(t, c.DescriptionService)
	require.NotNil(t, c.Metrics)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	// без ANTHROPIC_API_KEY провайдер не строится
	_, err := c.DescriptionService.DescribeImage(context.Background(), imaging.EncodeBase64(buf.Bytes()), "")
	require.ErrorIs(t, err, entity.ErrConfiguration)
}
