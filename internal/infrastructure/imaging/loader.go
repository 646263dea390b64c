package imaging

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
)

// FetchTimeout общий таймаут скачивания изображения по URL
const FetchTimeout = 10 * time.Second

// fetchTimeout таймаут, который получает новый Loader. В тестах уменьшается.
var fetchTimeout = FetchTimeout

// Loader читает изображения с диска и по URL, проверяет base64.
type Loader struct {
	http *resty.Client
	log  *slog.Logger
}

// NewLoader создаёт загрузчик с HTTP-клиентом на 10 секунд
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New()
	client.SetTimeout(fetchTimeout)
	return &Loader{http: client, log: logger}
}

// LoadFromPath читает файл, проверяет, что это изображение, и кодирует в base64.
func (l *Loader) LoadFromPath(path string) (*entity.ImagePayload, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Error("image file not found", "path", path)
			return nil, fmt.Errorf("%w: image file not found: %s", entity.ErrNotFound, path)
		}
		l.log.Error("failed to stat image file", "path", path, "err", err)
		return nil, fmt.Errorf("%w: failed to read image file: %v", entity.ErrInvalidInput, err)
	}

	data, err := os.ReadFile(path) // #nosec G304 - путь передаёт вызывающий агент
	if err != nil {
		l.log.Error("failed to read image file", "path", path, "err", err)
		return nil, fmt.Errorf("%w: failed to read image file: %v", entity.ErrInvalidInput, err)
	}

	info, err := decodeConfig(data)
	if err != nil {
		l.log.Error("invalid image format", "path", path, "err", err)
		return nil, fmt.Errorf("%w: invalid image format: %v", entity.ErrInvalidInput, err)
	}

	payload := newPayload(data, info, MIMEForFormat(info.Format))
	l.log.Info("processing image", "path", path, "format", info.Format, "width", info.Width, "height", info.Height)
	l.log.Debug("base64 data length", "length", len(payload.Base64))
	return payload, nil
}

// LoadFromURL скачивает изображение. Content-Type должен начинаться с image/.
func (l *Loader) LoadFromURL(ctx context.Context, url string) (*entity.ImagePayload, error) {
	resp, err := l.http.R().SetContext(ctx).Get(url)
	if err != nil {
		l.log.Error("failed to fetch image from url", "url", url, "err", err)
		return nil, fmt.Errorf("%w: failed to fetch image from URL: %v", entity.ErrFetch, err)
	}
	if !resp.IsSuccess() {
		l.log.Error("failed to fetch image from url", "url", url, "status", resp.StatusCode())
		return nil, fmt.Errorf("%w: failed to fetch image from URL: status %d", entity.ErrFetch, resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = mimeOctetStream
	}
	if !strings.HasPrefix(contentType, "image/") {
		l.log.Error("url does not point to an image", "url", url, "content_type", contentType)
		return nil, fmt.Errorf("%w: URL does not point to an image (Content-Type: %s)", entity.ErrInvalidInput, contentType)
	}

	data := resp.Body()
	info, err := decodeConfig(data)
	if err != nil {
		l.log.Error("downloaded content is not a valid image", "url", url, "err", err)
		return nil, fmt.Errorf("%w: downloaded content is not a valid image: %v", entity.ErrInvalidInput, err)
	}

	l.log.Debug("fetched image from url", "url", url, "format", info.Format, "width", info.Width, "height", info.Height)
	return newPayload(data, info, contentType), nil
}

// IsValidImage true, если строка декодируется из base64 в изображение
func (l *Loader) IsValidImage(imageBase64 string) bool {
	data, err := DecodeBase64(imageBase64)
	if err != nil {
		l.log.Warn("invalid base64 image", "err", err)
		return false
	}
	info, err := decodeConfig(data)
	if err != nil {
		l.log.Warn("invalid base64 image", "err", err)
		return false
	}
	l.log.Debug("validated base64 image", "format", info.Format, "width", info.Width, "height", info.Height)
	return true
}

// Decode возвращает байты изображения
func (l *Loader) Decode(imageBase64 string) ([]byte, error) {
	data, err := DecodeBase64(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 image data: %v", entity.ErrInvalidInput, err)
	}
	return data, nil
}

// SniffMIME определяет MIME-тип изображения в base64. Провайдерам нужен media type.
func SniffMIME(imageBase64 string) string {
	data, err := DecodeBase64(imageBase64)
	if err != nil {
		return mimeOctetStream
	}
	if info, err := decodeConfig(data); err == nil && info.Format != "" {
		if mime := MIMEForFormat(info.Format); mime != mimeOctetStream {
			return mime
		}
	}
	return http.DetectContentType(data)
}

func newPayload(data []byte, info imageInfo, mime string) *entity.ImagePayload {
	return &entity.ImagePayload{
		Base64:   EncodeBase64(data),
		MIMEType: mime,
		Format:   info.Format,
		Width:    info.Width,
		Height:   info.Height,
	}
}

// Проверка реализации интерфейса
var _ port.ImageLoader = (*Loader)(nil)
