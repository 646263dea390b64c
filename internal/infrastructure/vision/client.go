package vision

import (
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
	errorSnippetLimit = 400
)

func newHTTPClient(timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(5 * time.Second)
	// Повторяем только 429 и 5xx, остальное сразу отдаём вызывающему
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil || r == nil {
			return false
		}
		code := r.StatusCode()
		return code == 429 || code >= 500
	})
	return client
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
