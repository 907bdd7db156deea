package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"ai-diet-planner/internal/app"
	"ai-diet-planner/internal/config"
	"ai-diet-planner/internal/metrics"
	"ai-diet-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// PlanGenerator produces a diet plan. *app.App implements it.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, input planner.UserInput) (planner.DietPlan, error)
}

// UsageReporter reports token usage. *app.App implements it.
type UsageReporter interface {
	DailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
}

// Bot wraps the Telegram API and the diet planner.
type Bot struct {
	api       *tgbotapi.BotAPI
	generator PlanGenerator
	usage     UsageReporter
	allowed   map[int64]struct{}
	logger    zerolog.Logger

	wg sync.WaitGroup
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, gen PlanGenerator, usage UsageReporter, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info().Str("account", api.Self.UserName).Msg("Authorized on Telegram")

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info().Str("description", resp.Description).Msg("Webhook set")

	return NewBotWithAPI(api, gen, usage, cfg.TelegramAllowedUserIDs, logger), nil
}

// NewBotWithAPI builds a Bot on an already authorized API client. usage may
// be nil, which disables /usage.
func NewBotWithAPI(api *tgbotapi.BotAPI, gen PlanGenerator, usage UsageReporter, allowedUserIDs []int64, logger zerolog.Logger) *Bot {
	allowed := make(map[int64]struct{}, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = struct{}{}
	}
	return &Bot{
		api:       api,
		generator: gen,
		usage:     usage,
		allowed:   allowed,
		logger:    logger,
	}
}

// HandleWebhook accepts an update and processes it in the background.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Error parsing update")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if _, ok := b.allowed[msg.From.ID]; !ok {
		b.logger.Warn().
			Int64("user_id", msg.From.ID).
			Str("username", msg.From.UserName).
			Msg("Unauthorized access attempt")
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.processMessage(msg)
	}()
}

// Wait blocks until every accepted update has been processed.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	logger := b.logger.With().Int64("chat_id", msg.Chat.ID).Logger()

	switch command := strings.TrimSpace(msg.Text); {
	case command == "/start" || command == "/help":
		b.sendHelp(msg.Chat.ID, "")
		return
	case strings.HasPrefix(command, "/usage"):
		b.handleUsageCommand(msg.Chat.ID)
		return
	}

	input, err := ParseForm(msg.Text)
	if err == nil {
		err = input.Validate()
	}
	if err != nil {
		logger.Info().Err(err).Msg("Rejected plan request")
		b.sendHelp(msg.Chat.ID, err.Error())
		return
	}

	b.handlePlanRequest(logger.WithContext(context.Background()), msg.Chat.ID, input)
}

func (b *Bot) handlePlanRequest(ctx context.Context, chatID int64, input planner.UserInput) {
	logger := zerolog.Ctx(ctx)

	status := tgbotapi.NewMessage(chatID, fmt.Sprintf("🥗 *Generating your %s plan...*", escape(string(input.Duration))))
	status.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(status)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to send initial reply")
		return
	}

	plan, err := b.generator.GeneratePlan(ctx, input)
	if err != nil {
		b.edit(ctx, chatID, sent.MessageID, formatError(err))
		return
	}

	b.edit(ctx, chatID, sent.MessageID, fmt.Sprintf("✅ *Your %s plan is ready* (%d days)", escape(string(input.Duration)), len(plan)))
	failed := 0
	for i, text := range formatPlan(plan) {
		m := tgbotapi.NewMessage(chatID, text)
		m.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(m); err != nil {
			failed++
			logger.Error().Err(err).Str("day", plan[i].Day).Msg("Failed to send plan day")
		}
	}
	if failed > 0 {
		b.reply(chatID, fmt.Sprintf("⚠️ %d of %d days could not be delivered.", failed, len(plan)))
	}
}

func (b *Bot) handleUsageCommand(chatID int64) {
	if b.usage == nil {
		b.reply(chatID, "📊 Usage tracking is not enabled.")
		return
	}

	usage, err := b.usage.DailyUsage(context.Background(), 7)
	if errors.Is(err, app.ErrMetricsDisabled) {
		b.reply(chatID, "📊 Usage tracking is not enabled.")
		return
	}
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to fetch usage")
		b.reply(chatID, "❌ Error fetching usage.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 *Usage Report*\n\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d plans, %d failed)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution, d.Failures)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) sendHelp(chatID int64, problem string) {
	var sb strings.Builder
	if problem != "" {
		fmt.Fprintf(&sb, "⚠️ %s\n\n", escape(problem))
	}
	sb.WriteString("Send your details, one per line:\n\n```\n")
	sb.WriteString(formTemplate)
	sb.WriteString("\n```\n\nOnly *condition* and *age* are required.")
	b.reply(chatID, sb.String())
}

func (b *Bot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(m); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

func (b *Bot) edit(ctx context.Context, chatID int64, messageID int, text string) {
	e := tgbotapi.NewEditMessageText(chatID, messageID, text)
	e.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(e); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to edit reply")
	}
}
