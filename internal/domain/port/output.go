package port

import "time"

// OutputSanitizer перекодирует строку в выходную кодировку с заменой непредставимых символов
type OutputSanitizer interface {
	Sanitize(text string) string
}

// RequestRecorder собирает метрики запросов
type RequestRecorder interface {
	ObserveRequest(operation, outcome string, elapsed time.Duration)
	ObserveDescribe(provider string, elapsed time.Duration)
	ObserveFallback(from, to string)
}
