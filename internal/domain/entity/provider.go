package entity

import "strings"

// Provider идентификатор провайдера описаний
type Provider string

const (
	ProviderAnthropic Provider = "anthropic" // облачный API A
	ProviderOpenAI    Provider = "openai"    // облачный API B
)

// ParseProvider приводит строку из конфигурации к Provider.
// Второй результат false, если провайдер неизвестен.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderAnthropic, ProviderOpenAI:
		return p, true
	}
	return p, false
}

// ProviderChoice основной провайдер и необязательный запасной
type ProviderChoice struct {
	Primary  string
	Fallback string
}

// HasFallback true, если запасной провайдер задан и отличается от основного
func (c ProviderChoice) HasFallback() bool {
	fb := strings.ToLower(strings.TrimSpace(c.Fallback))
	return fb != "" && fb != strings.ToLower(strings.TrimSpace(c.Primary))
}
