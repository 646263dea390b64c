package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
)

// Имена операций для логов, метрик и трейсов
const (
	OpDescribeImage         = "describe_image"
	OpDescribeImageFromFile = "describe_image_from_file"
	OpDescribeImageFromURL  = "describe_image_from_url"
)

const tracerName = "vision-mcp/app"

// DescriptionService обрабатывает запросы на описание изображений:
// проверка, выбор провайдера, описание, OCR, перекодирование ответа.
type DescriptionService struct {
	loader    port.ImageLoader
	selector  *ProviderSelector
	ocr       port.TextRecognizer
	enableOCR bool
	sanitizer port.OutputSanitizer
	recorder  port.RequestRecorder
	tracer    trace.Tracer
	log       *slog.Logger
}

// DescriptionOptions зависимости сервиса описаний
type DescriptionOptions struct {
	Loader     port.ImageLoader
	Selector   *ProviderSelector
	Recognizer port.TextRecognizer
	EnableOCR  bool
	Sanitizer  port.OutputSanitizer
	Recorder   port.RequestRecorder
	Logger     *slog.Logger
}

// NewDescriptionService создаёт сервис описаний
func NewDescriptionService(opts DescriptionOptions) *DescriptionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	sanitizer := opts.Sanitizer
	if sanitizer == nil {
		sanitizer = passthrough{}
	}
	return &DescriptionService{
		loader:    opts.Loader,
		selector:  opts.Selector,
		ocr:       opts.Recognizer,
		enableOCR: opts.EnableOCR,
		sanitizer: sanitizer,
		recorder:  recorder,
		tracer:    otel.Tracer(tracerName),
		log:       logger,
	}
}

// DescribeImage описывает изображение в base64
func (s *DescriptionService) DescribeImage(ctx context.Context, image, prompt string) (description string, err error) {
	ctx, done := s.begin(ctx, OpDescribeImage)
	defer func() { done(err) }()

	return s.describe(ctx, entity.NewDescriptionRequest(image, prompt))
}

// DescribeImageFromFile читает файл и описывает его. Отсутствующий файл даёт ErrNotFound
// до обращения к провайдеру.
func (s *DescriptionService) DescribeImageFromFile(ctx context.Context, path, prompt string) (description string, err error) {
	ctx, done := s.begin(ctx, OpDescribeImageFromFile)
	defer func() { done(err) }()

	s.log.InfoContext(ctx, "processing image file", "path", path)
	payload, err := s.loader.LoadFromPath(path)
	if err != nil {
		return "", err
	}
	return s.describe(ctx, entity.NewDescriptionRequest(payload.Base64, prompt))
}

// DescribeImageFromURL скачивает изображение и описывает его
func (s *DescriptionService) DescribeImageFromURL(ctx context.Context, url, prompt string) (description string, err error) {
	ctx, done := s.begin(ctx, OpDescribeImageFromURL)
	defer func() { done(err) }()

	s.log.InfoContext(ctx, "processing image url", "url", url)
	payload, err := s.loader.LoadFromURL(ctx, url)
	if err != nil {
		return "", err
	}
	return s.describe(ctx, entity.NewDescriptionRequest(payload.Base64, prompt))
}

func (s *DescriptionService) describe(ctx context.Context, req entity.DescriptionRequest) (string, error) {
	if !s.loader.IsValidImage(req.Image) {
		s.log.ErrorContext(ctx, "invalid image data")
		return "", fmt.Errorf("%w: invalid base64 image data", entity.ErrInvalidInput)
	}

	// Провайдерам уходит канонический base64 без data:-префикса
	data, err := s.loader.Decode(req.Image)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to decode image", "err", err)
		return "", err
	}
	req.Image = base64.StdEncoding.EncodeToString(data)

	if s.selector == nil {
		return "", fmt.Errorf("%w: vision provider selector is not configured", entity.ErrConfiguration)
	}
	describer, err := s.selector.Select(ctx)
	if err != nil {
		return "", err
	}

	description, err := s.callProvider(ctx, describer, req)
	if err != nil {
		return "", err
	}

	if entity.IsEmptyDescription(description) {
		s.log.ErrorContext(ctx, "no description available from vision provider", "provider", describer.Name())
		return "", fmt.Errorf("%w: no description available from %s", entity.ErrEmptyResponse, describer.Name())
	}

	if s.enableOCR {
		description, err = s.mergeOCR(ctx, data, description)
		if err != nil {
			return "", err
		}
	}

	return s.sanitizer.Sanitize(description), nil
}

func (s *DescriptionService) callProvider(ctx context.Context, describer port.ImageDescriber, req entity.DescriptionRequest) (string, error) {
	ctx, span := s.tracer.Start(ctx, "provider.describe",
		trace.WithAttributes(attribute.String("vision.provider", describer.Name())),
	)
	defer span.End()

	start := time.Now()
	description, err := describer.Describe(ctx, req.Image, req.Prompt)
	elapsed := time.Since(start)
	s.recorder.ObserveDescribe(describer.Name(), elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.ErrorContext(ctx, "vision provider failed", "provider", describer.Name(), "elapsed", elapsed, "err", err)
		return "", err
	}

	s.log.InfoContext(ctx, "received description from provider", "provider", describer.Name(), "elapsed", elapsed, "length", len(description))
	return description, nil
}

// mergeOCR включён OCR, значит ошибка движка роняет весь запрос
func (s *DescriptionService) mergeOCR(ctx context.Context, data []byte, description string) (string, error) {
	if s.ocr == nil {
		return "", fmt.Errorf("%w: text recognizer is not configured", entity.ErrOCR)
	}
	text, err := s.ocr.ExtractText(ctx, data, true)
	if err != nil {
		s.log.ErrorContext(ctx, "OCR failed", "err", err)
		return "", err
	}
	if text == "" {
		s.log.DebugContext(ctx, "OCR found no text")
		return description, nil
	}
	s.log.InfoContext(ctx, "OCR text added to description", "length", len(text))
	return entity.MergeOCRText(description, text), nil
}

// begin открывает span запроса и возвращает функцию завершения с учётом метрик
func (s *DescriptionService) begin(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "describe.request",
		trace.WithAttributes(attribute.String("describe.operation", operation)),
	)
	start := time.Now()

	return ctx, func(err error) {
		outcome := entity.ErrorKind(err)
		elapsed := time.Since(start)
		s.recorder.ObserveRequest(operation, outcome, elapsed)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.ErrorContext(ctx, "request failed", "operation", operation, "outcome", outcome, "elapsed", elapsed, "err", err)
		} else {
			s.log.InfoContext(ctx, "request completed", "operation", operation, "elapsed", elapsed)
		}
		span.End()
	}
}

type passthrough struct{}

func (passthrough) Sanitize(text string) string { return text }
