//go:build !gocv
// +build !gocv

package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodeConfig читает заголовок изображения стандартными декодерами.
// Полное декодирование пикселей не нужно: достаточно, что формат распознан.
func decodeConfig(data []byte) (imageInfo, error) {
	if len(data) == 0 {
		return imageInfo{}, fmt.Errorf("empty image")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return imageInfo{}, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return imageInfo{}, fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	return imageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
