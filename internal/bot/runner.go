package bot

import (
	"context"
	"time"

	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/metrics"
	"github.com/blogworks/postapi/internal/telemetry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// pollTimeout is the Telegram long-poll timeout in seconds
const pollTimeout = 60

const failureText = "Something went wrong, please try again."

// Sender delivers messages to Telegram
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Runner long-polls Telegram and answers each text message through a Dispatcher
type Runner struct {
	api        *tgbotapi.BotAPI
	sender     Sender
	dispatcher *Dispatcher
}

// NewRunner connects to the Bot API with token
func NewRunner(token string, dispatcher *Dispatcher, debug bool) (*Runner, error) {
	client := telemetry.NewInstrumentedHTTPClient(telemetry.HTTPClientConfig{
		ServiceName: "telegram",
		Timeout:     (pollTimeout + 30) * time.Second,
	})

	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, err
	}
	api.Debug = debug

	logger.Log.Info("Authorized on Telegram", zap.String("bot", api.Self.UserName))
	return &Runner{api: api, sender: api, dispatcher: dispatcher}, nil
}

// Run processes updates until ctx is cancelled
func (r *Runner) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := r.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			r.api.StopReceivingUpdates()
			logger.Log.Info("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			r.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate answers a single update. Updates without message text are ignored.
func (r *Runner) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID

	reply, err := r.dispatcher.Handle(ctx, chatID, update.Message.Text)
	if err != nil {
		reply = Reply{Text: failureText, Keyboard: MainMenuKeyboard}
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Keyboard) > 0 {
		msg.ReplyMarkup = replyKeyboard(reply.Keyboard)
	}

	if _, err := r.sender.Send(msg); err != nil {
		metrics.Get().BotSendFailuresTotal.Inc()
		logger.Log.Warn("Failed to send bot reply", logger.WithChatID(chatID), zap.Error(err))
	}
}

func replyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			line = append(line, tgbotapi.NewKeyboardButton(label))
		}
		buttons = append(buttons, tgbotapi.NewKeyboardButtonRow(line...))
	}
	markup := tgbotapi.NewReplyKeyboard(buttons...)
	markup.ResizeKeyboard = true
	return markup
}
