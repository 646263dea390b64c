package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "vision-mcp/internal/application"
	"vision-mcp/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот, который описывает изображения.

📸 Отправьте мне фото, и я расскажу, что на нём.

📋 Команды:
/prompt — задать свой вопрос к фото
/reset — вернуть вопрос по умолчанию
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото (подпись к фото станет вопросом только для него)
2️⃣ Бот отправит изображение в модель
3️⃣ Вы получите текстовое описание

📋 Команды:
/prompt — задать свой вопрос
/reset — вопрос по умолчанию
/cancel — отменить операцию`

	msgAwaitingPrompt   = "✏️ Отправьте текст вопроса, который будет задаваться к каждому фото."
	msgPromptSaved      = "✅ Вопрос сохранён. Теперь отправьте фото."
	msgPromptReset      = "🔄 Вернул вопрос по умолчанию."
	msgCancelled        = "❌ Операция отменена."
	msgSendPhoto        = "📸 Пожалуйста, отправьте фото."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Обрабатываю изображение..."
	msgProcessingError  = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."
	msgEmptyDescription = "🤷 Модель не смогла описать изображение."
	msgProviderError    = "⚠️ Сервис описаний сейчас недоступен. Попробуйте позже."
	msgOCRError         = "⚠️ Не удалось распознать текст на изображении."
)

const (
	// downloadTimeout таймаут скачивания фото из Telegram
	downloadTimeout = 30 * time.Second

	// maxMessageLength лимит Telegram на длину текста сообщения в символах
	maxMessageLength = 4096
)

// Describer описывает изображение в base64
type Describer interface {
	DescribeImage(ctx context.Context, image, prompt string) (string, error)
}

// botAPI часть tgbotapi.BotAPI, которой пользуется обработчик
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	bot       *tgbotapi.BotAPI
	api       botAPI
	users     *app.UserService
	describer Describer
	http      *resty.Client
	log       *slog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, describer Describer, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(api, users, describer, logger)
	b.bot = api
	b.log.Info("authorized on telegram account", "username", api.Self.UserName)
	return b, nil
}

func newBot(api botAPI, users *app.UserService, describer Describer, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New()
	client.SetTimeout(downloadTimeout)
	return &Bot{
		api:       api,
		users:     users,
		describer: describer,
		http:      client,
		log:       logger.With("component", "telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	if b.bot == nil {
		return errors.New("telegram api is not initialized")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	defer b.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error("failed to get user", "user_id", msg.From.ID, "err", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текст после /prompt
	if user.State == entity.StateAwaitingPrompt && strings.TrimSpace(msg.Text) != "" {
		if _, err := b.users.SetPrompt(ctx, user.ID, user.ChatID, msg.Text); err != nil {
			b.log.Error("failed to save prompt", "user_id", user.ID, "err", err)
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		b.sendMessage(msg.Chat.ID, msgPromptSaved)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "prompt":
		if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
			_, err = b.users.SetPrompt(ctx, user.ID, user.ChatID, args)
			b.sendMessage(msg.Chat.ID, msgPromptSaved)
			break
		}
		_, err = b.users.BeginPromptEdit(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPrompt)

	case "reset":
		_, err = b.users.ResetPrompt(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgPromptReset)

	case "cancel":
		_, err = b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil {
		b.log.Error("failed to update user", "user_id", user.ID, "command", msg.Command(), "err", err)
	}
}

// handlePhoto описывает фото с максимальным разрешением
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	prompt := user.EffectivePrompt()
	if caption := strings.TrimSpace(msg.Caption); caption != "" {
		prompt = caption
	}

	if _, err := b.users.SetState(ctx, user.ID, user.ChatID, entity.StateProcessing); err != nil {
		b.log.Error("failed to update user", "user_id", user.ID, "err", err)
	}
	defer func() {
		if _, err := b.users.SetState(ctx, user.ID, user.ChatID, entity.StateMainMenu); err != nil {
			b.log.Error("failed to update user", "user_id", user.ID, "err", err)
		}
	}()

	b.sendMessage(msg.Chat.ID, msgProcessing)

	photo := msg.Photo[len(msg.Photo)-1]
	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.log.Error("failed to download photo", "file_id", photo.FileID, "err", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	b.log.Info("received photo", "user_id", user.ID, "bytes", len(imageData))

	description, err := b.describer.DescribeImage(ctx, base64.StdEncoding.EncodeToString(imageData), prompt)
	if err != nil {
		b.log.Error("failed to describe photo", "user_id", user.ID, "err", err)
		b.sendMessage(msg.Chat.ID, userMessageFor(err))
		return
	}

	for _, part := range splitMessage(description, maxMessageLength) {
		b.sendMessage(msg.Chat.ID, part)
	}
}

// splitMessage режет текст на части не длиннее limit символов,
// по возможности по переводу строки или пробелу.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' || runes[i-1] == ' ' {
				cut = i
				break
			}
		}
		if part := strings.TrimRight(string(runes[:cut]), " \n"); part != "" {
			parts = append(parts, part)
		}
		runes = runes[cut:]
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// userMessageFor переводит ошибку описания в сообщение для пользователя
func userMessageFor(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return msgProcessingError
	case errors.Is(err, entity.ErrEmptyResponse):
		return msgEmptyDescription
	case errors.Is(err, entity.ErrOCR):
		return msgOCRError
	default:
		return msgProviderError
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	resp, err := b.http.R().SetContext(ctx).Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", "chat_id", chatID, "err", err)
	}
}
