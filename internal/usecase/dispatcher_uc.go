package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/adapter"
	"blackinpay/internal/domain/ports/repository"
	"blackinpay/internal/infra/logging"
	"blackinpay/internal/infra/metrics"
)

// Compile-time check
var _ DispatcherUseCase = (*dispatcherUC)(nil)

// callbackPlanPrefix is the callback_data prefix of paywall keyboard buttons.
const callbackPlanPrefix = "plan_"

// DispatcherUseCase routes one inbound Telegram update to exactly one handler.
type DispatcherUseCase interface {
	HandleUpdate(ctx context.Context, botID string, update tgbotapi.Update) error
}

type dispatcherUC struct {
	bots       repository.BotRepository
	cache      repository.BotConfigCache
	plans      repository.PlanRepository
	groups     repository.GroupRepository
	activation ActivationUseCase
	tg         adapter.TelegramAPI
	log        zerolog.Logger
}

func NewDispatcherUseCase(
	bots repository.BotRepository,
	cache repository.BotConfigCache,
	plans repository.PlanRepository,
	groups repository.GroupRepository,
	activation ActivationUseCase,
	tg adapter.TelegramAPI,
	log zerolog.Logger,
) *dispatcherUC {
	return &dispatcherUC{bots: bots, cache: cache, plans: plans, groups: groups, activation: activation, tg: tg, log: log}
}

// HandleUpdate picks the first matching handler: /start in a private chat,
// then callback queries, then group text. Everything else is a no-op.
func (u *dispatcherUC) HandleUpdate(ctx context.Context, botID string, update tgbotapi.Update) error {
	defer logging.TraceDuration(&u.log, "DispatcherUC.HandleUpdate")()
	bot, err := u.cache.GetOrLoad(ctx, botID, func(ctx context.Context) (*model.Bot, error) {
		return u.bots.FindByID(ctx, botID)
	})
	if err != nil {
		return err
	}
	if bot.Status == model.BotStatusSuspended || bot.Status == model.BotStatusInactive {
		metrics.IncWebhookUpdate("ignored")
		return nil
	}

	msg := update.Message
	switch {
	case msg != nil && msg.Chat != nil && msg.Chat.IsPrivate() && msg.IsCommand() && msg.Command() == "start":
		metrics.IncWebhookUpdate("start")
		return u.handleStart(ctx, bot, msg)
	case update.CallbackQuery != nil:
		metrics.IncWebhookUpdate("callback")
		return u.handlePlanSelection(ctx, bot, update.CallbackQuery)
	case msg != nil && msg.Chat != nil && (msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()) && msg.Text != "":
		metrics.IncWebhookUpdate("group_text")
		return u.handleGroupMessage(ctx, bot, msg)
	default:
		metrics.IncWebhookUpdate("noop")
		return nil
	}
}

func (u *dispatcherUC) welcomeText(bot *model.Bot) string {
	if bot.WelcomeMessage != "" {
		return bot.WelcomeMessage
	}
	return fmt.Sprintf("🤖 Bem-vindo ao %s!", bot.Name)
}

// planKeyboard builds one button per active plan, one per row.
func planKeyboard(plans []*model.Plan) [][]adapter.InlineButton {
	rows := make([][]adapter.InlineButton, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []adapter.InlineButton{{
			Text: fmt.Sprintf("%s - %s", p.Name, p.PriceLabel()),
			Data: callbackPlanPrefix + p.ID,
		}})
	}
	return rows
}

func (u *dispatcherUC) handleStart(ctx context.Context, bot *model.Bot, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	if !bot.IsActivated {
		text := "⚠️ Este bot ainda não foi ativado. Peça ao administrador para gerar um código de ativação e enviá-lo no grupo."
		return u.tg.SendMessage(ctx, bot.Token, chatID, text, nil)
	}

	plans, err := u.plans.ListActiveByBot(ctx, bot.ID)
	if err != nil {
		return err
	}

	text := u.welcomeText(bot)
	var rows [][]adapter.InlineButton
	if len(plans) == 0 {
		text += "\n\nNenhum plano disponível no momento."
	} else {
		rows = planKeyboard(plans)
	}

	switch bot.WelcomeMediaKind {
	case model.MediaKindPhoto:
		return u.tg.SendPhoto(ctx, bot.Token, chatID, bot.WelcomeMediaURL, text, rows)
	case model.MediaKindVideo:
		return u.tg.SendVideo(ctx, bot.Token, chatID, bot.WelcomeMediaURL, text, rows)
	default:
		return u.tg.SendMessage(ctx, bot.Token, chatID, text, rows)
	}
}

func (u *dispatcherUC) handlePlanSelection(ctx context.Context, bot *model.Bot, cb *tgbotapi.CallbackQuery) error {
	// Always answer first so the client stops its spinner.
	if err := u.tg.AnswerCallbackQuery(ctx, bot.Token, cb.ID); err != nil {
		u.log.Warn().Str("bot_id", bot.ID).Err(err).Msg("answer callback failed")
	}

	if !strings.HasPrefix(cb.Data, callbackPlanPrefix) || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	planID := strings.TrimPrefix(cb.Data, callbackPlanPrefix)
	plan, err := u.plans.FindByID(ctx, planID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Você escolheu %s - %s.\nGere o pagamento PIX no painel para concluir.", plan.Name, plan.PriceLabel())
	chatID := cb.Message.Chat.ID

	// Media messages have no text to edit, only a caption.
	if cb.Message.Caption != "" || cb.Message.Photo != nil || cb.Message.Video != nil {
		return u.tg.EditMessageCaption(ctx, bot.Token, chatID, cb.Message.MessageID, text)
	}
	return u.tg.EditMessageText(ctx, bot.Token, chatID, cb.Message.MessageID, text)
}

func (u *dispatcherUC) handleGroupMessage(ctx context.Context, bot *model.Bot, msg *tgbotapi.Message) error {
	code := strings.ToUpper(strings.TrimSpace(msg.Text))
	if !activationCodePattern.MatchString(code) {
		return nil
	}

	var fromID int64
	if msg.From != nil {
		fromID = msg.From.ID
	}

	outcome, err := u.activation.Redeem(ctx, bot.ID, code, fromID, msg.Chat.ID)
	if err != nil {
		return err
	}

	switch outcome {
	case RedeemActivated:
		if err := u.ensureGroup(ctx, bot.ID, msg.Chat.ID, msg.Chat.Title); err != nil {
			u.log.Error().Str("bot_id", bot.ID).Int64("chat_id", msg.Chat.ID).Err(err).Msg("record activated group failed")
		}
		return u.tg.ReplyMessage(ctx, bot.Token, msg.Chat.ID, msg.MessageID, "✅ Bot ativado com sucesso! Este grupo agora está vinculado.")
	case RedeemExpired:
		return u.tg.ReplyMessage(ctx, bot.Token, msg.Chat.ID, msg.MessageID, "⌛ Este código de ativação expirou. Gere um novo no painel.")
	default:
		return nil // unknown codes stay silent
	}
}

// ensureGroup records the chat the activation happened in, so paid members
// have a group to be attached to.
func (u *dispatcherUC) ensureGroup(ctx context.Context, botID string, chatID int64, title string) error {
	g, err := u.groups.FindGroupByChatID(ctx, botID, chatID)
	if err == nil {
		if g.Title != title && title != "" {
			g.Title = title
			return u.groups.SaveGroup(ctx, g)
		}
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	group := &model.Group{
		ID:             uuid.NewString(),
		BotID:          botID,
		TelegramChatID: chatID,
		Title:          title,
		IsVIP:          true,
	}
	return u.groups.SaveGroup(ctx, group)
}
