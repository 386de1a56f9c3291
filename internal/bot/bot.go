package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/helpdesk-bot/internal/orchestrator"
	"go.uber.org/zap"
)

const (
	helpText  = "Tell me what you need. Commands: /reset — clear context; /faq — show quick answers; /stats — session stats."
	resetText = "Context and counters cleared."
	statsFmt  = "Stats: you — %d msgs, bot — %d msgs."
)

type Bot struct {
	api     *tgbotapi.BotAPI
	orch    *orchestrator.Orchestrator
	logger  *zap.Logger
	botName string
}

func New(token, botName string, orch *orchestrator.Orchestrator, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:     api,
		orch:    orch,
		logger:  logger,
		botName: botName,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.From == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		b.sendMessage(message.Chat.ID, "Text messages only for now.")
		return
	}

	b.sendTyping(message.Chat.ID)

	reply := b.orch.HandleMessage(ctx, message.From.ID, message.From.UserName, message.Text)

	msg := tgbotapi.NewMessage(message.Chat.ID, reply.Text)
	if reply.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.sendTyping(message.Chat.ID)
		b.sendMessage(message.Chat.ID, helpText)
	case "reset":
		b.handleReset(message)
	case "faq":
		b.sendTyping(message.Chat.ID)
		b.sendMessage(message.Chat.ID, b.orch.FAQText())
	case "stats":
		b.handleStats(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := fmt.Sprintf("Hi! I'm %s. Ask a question — I'll help or guide you to the next step.\nUseful commands: /help, /reset, /faq, /stats", b.botName)
	b.sendTyping(message.Chat.ID)
	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleReset(message *tgbotapi.Message) {
	b.orch.Reset(message.From.ID)
	b.sendMessage(message.Chat.ID, resetText)
}

func (b *Bot) handleStats(message *tgbotapi.Message) {
	stats := b.orch.Stats(message.From.ID)
	b.sendMessage(message.Chat.ID, fmt.Sprintf(statsFmt, stats.UserMessages, stats.BotMessages))
}

func (b *Bot) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		b.logger.Debug("Failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
