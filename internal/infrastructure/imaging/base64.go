package imaging

import (
	"encoding/base64"
	"errors"
	"strings"
)

const dataURLBase64Sep = ";base64,"

// DecodeBase64 декодирует base64 с необязательным префиксом data:<mime>;base64,
// Пробелы и переводы строк игнорируются, паддинг необязателен.
func DecodeBase64(s string) ([]byte, error) {
	s = StripDataURL(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, errors.New("empty base64 data")
	}

	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// StripDataURL убирает префикс data URL, если он есть
func StripDataURL(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.Index(s, dataURLBase64Sep); idx >= 0 {
		return s[idx+len(dataURLBase64Sep):]
	}
	return s
}

// EncodeBase64 кодирует байты в стандартный base64
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
