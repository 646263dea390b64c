package imaging

import "strings"

// imageInfo что удалось узнать о картинке при декодировании
type imageInfo struct {
	Format string
	Width  int
	Height int
}

const mimeOctetStream = "application/octet-stream"

var formatToMIME = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

// MIMEForFormat возвращает MIME-тип для формата декодера
func MIMEForFormat(format string) string {
	if mime, ok := formatToMIME[strings.ToLower(format)]; ok {
		return mime
	}
	return mimeOctetStream
}

// formatFromMIME обратное соответствие, нужно для сборки с gocv
func formatFromMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for format, m := range formatToMIME {
		if m == mime {
			return format
		}
	}
	return ""
}
