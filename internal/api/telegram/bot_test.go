package telegram

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	app "vision-mcp/internal/application"
	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/infrastructure/storage"
)

type fakeAPI struct {
	fileURL string
	sent    []string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL, nil
}

func (f *fakeAPI) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeDescriber struct {
	image  string
	prompt string
	result string
	err    error
}

func (f *fakeDescriber) DescribeImage(ctx context.Context, image, prompt string) (string, error) {
	f.image, f.prompt = image, prompt
	return f.result, f.err
}

func newTestBot(api *fakeAPI, describer Describer) (*Bot, *app.UserService) {
	users := app.NewUserService(storage.NewMemoryUserRepository())
	return newBot(api, users, describer, slog.New(slog.NewTextHandler(io.Discard, nil))), users
}

func command(text string) *tgbotapi.Message {
	msg := textMessage(text)
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	return msg
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 10},
		Text: text,
	}
}

func photoMessage(caption string) *tgbotapi.Message {
	msg := textMessage("")
	msg.Caption = caption
	msg.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}
	return msg
}

func TestBot_StartAndUnknownCommand(t *testing.T) {
	api := &fakeAPI{}
	bot, _ := newTestBot(api, &fakeDescriber{})
	ctx := context.Background()

	bot.handleMessage(ctx, command("/start"))
	require.Equal(t, msgStart, api.last())

	bot.handleMessage(ctx, command("/unknown"))
	require.Equal(t, msgUnknownCommand, api.last())

	bot.handleMessage(ctx, textMessage("hello"))
	require.Equal(t, msgSendPhoto, api.last())
}

func TestBot_PromptFlow(t *testing.T) {
	api := &fakeAPI{}
	bot, users := newTestBot(api, &fakeDescriber{})
	ctx := context.Background()

	bot.handleMessage(ctx, command("/prompt"))
	require.Equal(t, msgAwaitingPrompt, api.last())

	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPrompt, user.State)

	bot.handleMessage(ctx, textMessage("What brand is this?"))
	require.Equal(t, msgPromptSaved, api.last())

	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, "What brand is this?", user.Prompt)
	require.Equal(t, entity.StateMainMenu, user.State)

	bot.handleMessage(ctx, command("/reset"))
	require.Equal(t, msgPromptReset, api.last())

	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Empty(t, user.Prompt)
}

func TestBot_PromptWithArguments(t *testing.T) {
	api := &fakeAPI{}
	bot, users := newTestBot(api, &fakeDescriber{})
	ctx := context.Background()

	bot.handleMessage(ctx, command("/prompt Count the people"))
	require.Equal(t, msgPromptSaved, api.last())

	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, "Count the people", user.Prompt)
}

func TestBot_PhotoDescribed(t *testing.T) {
	photo := []byte("fake-photo-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(photo)
	}))
	defer srv.Close()

	api := &fakeAPI{fileURL: srv.URL + "/file/large.jpg"}
	describer := &fakeDescriber{result: "A red apple."}
	bot, users := newTestBot(api, describer)
	ctx := context.Background()

	bot.handleMessage(ctx, photoMessage(""))
	require.Equal(t, []string{msgProcessing, "A red apple."}, api.sent)
	require.Equal(t, base64.StdEncoding.EncodeToString(photo), describer.image)
	require.Equal(t, entity.DefaultPrompt, describer.prompt)

	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	bot.handleMessage(ctx, photoMessage("Is it ripe?"))
	require.Equal(t, "Is it ripe?", describer.prompt)
}

func TestBot_PhotoErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	api := &fakeAPI{fileURL: srv.URL + "/missing"}
	describer := &fakeDescriber{}
	bot, _ := newTestBot(api, describer)
	ctx := context.Background()

	bot.handleMessage(ctx, photoMessage(""))
	require.Equal(t, msgProcessingError, api.last())

	api.fileURL = srv.URL + "/photo.jpg"
	describer.err = fmt.Errorf("%w: no description available", entity.ErrEmptyResponse)
	bot.handleMessage(ctx, photoMessage(""))
	require.Equal(t, msgEmptyDescription, api.last())

	describer.err = fmt.Errorf("anthropic status 500")
	bot.handleMessage(ctx, photoMessage(""))
	require.Equal(t, msgProviderError, api.last())
}

func TestBot_RunWithoutAPI(t *testing.T) {
	bot, _ := newTestBot(&fakeAPI{}, &fakeDescriber{})
	require.Error(t, bot.Run(context.Background()))
}

func TestSplitMessage(t *testing.T) {
	require.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("aaaa bbbb cccc", 10)
	require.Equal(t, []string{"aaaa bbbb", "cccc"}, parts)

	parts = splitMessage(strings.Repeat("я", 25), 10)
	require.Equal(t, []string{strings.Repeat("я", 10), strings.Repeat("я", 10), strings.Repeat("я", 5)}, parts)
}

func TestBot_LongDescriptionIsSplit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	long := strings.Repeat("Очень подробное описание. ", 400)
	api := &fakeAPI{fileURL: srv.URL + "/photo.jpg"}
	bot, _ := newTestBot(api, &fakeDescriber{result: long})

	bot.handleMessage(context.Background(), photoMessage(""))

	replies := api.sent[1:]
	require.Greater(t, len(replies), 1)
	for _, part := range replies {
		require.LessOrEqual(t, utf8.RuneCountInString(part), maxMessageLength)
	}
	require.Equal(t, strings.TrimSpace(long), strings.Join(replies, " "))
}
