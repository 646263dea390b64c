//go:build gocv
// +build gocv

package imaging

import (
	"errors"
	"net/http"

	"gocv.io/x/gocv"
)

// decodeConfig декодирует изображение через OpenCV.
// Формат определяем по сигнатуре, размеры берём из матрицы.
func decodeConfig(data []byte) (imageInfo, error) {
	if len(data) == 0 {
		return imageInfo{}, errors.New("empty image")
	}
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return imageInfo{}, err
	}
	defer mat.Close()

	if mat.Empty() {
		return imageInfo{}, errors.New("failed to decode image")
	}

	return imageInfo{
		Format: formatFromMIME(http.DetectContentType(data)),
		Width:  mat.Cols(),
		Height: mat.Rows(),
	}, nil
}
