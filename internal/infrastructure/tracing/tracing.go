package tracing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Config настройки экспорта трейсов
type Config struct {
	ServiceName    string
	ExportEndpoint string
	Insecure       bool
}

// Init включает экспорт по OTLP/HTTP. Без endpoint трейсы не собираются,
// а глобальный провайдер остаётся no-op.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if cfg.ExportEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	opts, err := endpointOptions(cfg.ExportEndpoint, cfg.Insecure)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// tracesPath путь приёма трейсов OTLP/HTTP по умолчанию
const tracesPath = "/v1/traces"

// endpointOptions принимает и URL (http://collector:4318), и host:port.
// URL без пути получает /v1/traces, как у OTEL_EXPORTER_OTLP_ENDPOINT.
func endpointOptions(endpoint string, insecure bool) ([]otlptracehttp.Option, error) {
	endpoint = strings.TrimSpace(endpoint)
	var opts []otlptracehttp.Option

	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse otlp endpoint %q: %w", endpoint, err)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("otlp endpoint %q has no host", endpoint)
		}
		if u.Path == "" || u.Path == "/" {
			u.Path = tracesPath
		}
		opts = append(opts, otlptracehttp.WithEndpointURL(u.String()))
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}

	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts, nil
}
