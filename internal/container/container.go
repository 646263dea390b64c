package container

import (
	"log/slog"

	"vision-mcp/config"
	app "vision-mcp/internal/application"
	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
	"vision-mcp/internal/infrastructure/imaging"
	"vision-mcp/internal/infrastructure/metrics"
	"vision-mcp/internal/infrastructure/ocr"
	"vision-mcp/internal/infrastructure/textenc"
	"vision-mcp/internal/infrastructure/vision"
)

type Container struct {
	UserService        *app.UserService
	DescriptionService *app.DescriptionService
	Metrics            *metrics.Recorder
}

func New(cfg *config.Config, logger *slog.Logger, userRepo port.UserRepository) *Container {
	if logger == nil {
		logger = slog.Default()
	}

	recorder := metrics.NewRecorder()

	factories := map[string]port.DescriberFactory{
		string(entity.ProviderAnthropic): vision.AnthropicFactory(cfg.Anthropic, logger),
		string(entity.ProviderOpenAI):    vision.OpenAIFactory(cfg.OpenAI, logger),
	}
	selector := app.NewProviderSelector(
		entity.ProviderChoice{Primary: cfg.VisionProvider, Fallback: cfg.FallbackProvider},
		factories, recorder, logger,
	)

	sanitizer, err := textenc.NewSanitizer(cfg.OutputEncoding)
	if err != nil {
		logger.Warn("unknown output encoding, using utf-8", "encoding", cfg.OutputEncoding, "err", err)
		sanitizer, _ = textenc.NewSanitizer(config.DefaultEncoding)
	}

	recognizer := ocr.NewRecognizer(ocr.NewEngine(cfg.TesseractCmd, cfg.TesseractLang), logger)

	descriptionService := app.NewDescriptionService(app.DescriptionOptions{
		Loader:     imaging.NewLoader(logger),
		Selector:   selector,
		Recognizer: recognizer,
		EnableOCR:  cfg.EnableOCR,
		Sanitizer:  sanitizer,
		Recorder:   recorder,
		Logger:     logger,
	})

	return &Container{
		UserService:        app.NewUserService(userRepo),
		DescriptionService: descriptionService,
		Metrics:            recorder,
	}
}
