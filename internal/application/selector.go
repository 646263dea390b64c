package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
)

// ProviderSelector выбирает провайдера по конфигурации.
// Провайдер строится заново на каждый запрос, кеша нет.
type ProviderSelector struct {
	choice    entity.ProviderChoice
	factories map[string]port.DescriberFactory
	recorder  port.RequestRecorder
	log       *slog.Logger
}

// NewProviderSelector создаёт селектор. Ключи factories: имена провайдеров в нижнем регистре.
func NewProviderSelector(choice entity.ProviderChoice, factories map[string]port.DescriberFactory, recorder port.RequestRecorder, logger *slog.Logger) *ProviderSelector {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ProviderSelector{
		choice:    choice,
		factories: factories,
		recorder:  recorder,
		log:       logger,
	}
}

// Select строит основной провайдер, при ошибке один раз пробует запасной.
// Если запасной тоже не построился, возвращается ошибка основного.
func (s *ProviderSelector) Select(ctx context.Context) (port.ImageDescriber, error) {
	primary := normalizeProvider(s.choice.Primary)

	describer, err := s.build(primary)
	if err == nil {
		s.log.DebugContext(ctx, "vision provider selected", "provider", describer.Name())
		return describer, nil
	}
	s.log.ErrorContext(ctx, "failed to create vision provider", "provider", primary, "err", err)

	if !s.choice.HasFallback() {
		return nil, err
	}

	fallback := normalizeProvider(s.choice.Fallback)
	s.log.WarnContext(ctx, "attempting fallback provider", "from", primary, "to", fallback)

	fallbackDescriber, fbErr := s.build(fallback)
	if fbErr != nil {
		s.log.ErrorContext(ctx, "fallback provider also failed", "provider", fallback, "err", fbErr)
		return nil, err
	}

	s.recorder.ObserveFallback(primary, fallback)
	s.log.InfoContext(ctx, "using fallback provider", "provider", fallbackDescriber.Name())
	return fallbackDescriber, nil
}

func (s *ProviderSelector) build(name string) (port.ImageDescriber, error) {
	if _, known := entity.ParseProvider(name); !known {
		return nil, fmt.Errorf("%w: invalid vision provider: %q", entity.ErrConfiguration, name)
	}
	factory, ok := s.factories[name]
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: vision provider %q is not registered", entity.ErrConfiguration, name)
	}
	return factory()
}

func normalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
