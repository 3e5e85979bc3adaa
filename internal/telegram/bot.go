package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"mealmuse/internal/config"
	"mealmuse/internal/journal"
	"mealmuse/internal/metrics"
	"mealmuse/internal/planner"
	"mealmuse/internal/shared"
	"mealmuse/internal/shopping"
)

// Sender is the part of the Telegram API the bot talks through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Flows are the generation use cases.
type Flows interface {
	GenerateMealPlan(ctx context.Context, req planner.MealPlanRequest) (*planner.MealPlanResult, error)
	SuggestFestivalMeals(ctx context.Context, req planner.FestivalRequest) (*planner.FestivalResult, error)
	GetRecipe(ctx context.Context, req planner.RecipeRequest) (*planner.RecipeResult, error)
}

// Bot answers chat commands with the same flows and lists as the web app.
type Bot struct {
	api      Sender
	flows    Flows
	shopping *shopping.Repository
	journal  *journal.Store
	metrics  *metrics.Store
	allowed  map[int64]bool
	log      zerolog.Logger
}

// Deps are the collaborators of a Bot. Metrics may be nil.
type Deps struct {
	Flows    Flows
	Shopping *shopping.Repository
	Journal  *journal.Store
	Metrics  *metrics.Store
	Log      zerolog.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, d Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	d.Log.Info().Str("account", api.Self.UserName).Msg("telegram authorized")

	if cfg.TelegramWebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
		}
		resp, err := api.Request(wh)
		if err != nil {
			return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
		}
		d.Log.Info().Str("description", resp.Description).Msg("telegram webhook set")
	}

	return newBot(api, cfg.TelegramAllowedUserIDs, d), nil
}

func newBot(api Sender, allowedIDs []int64, d Deps) *Bot {
	allowed := make(map[int64]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = true
	}
	return &Bot{
		api:      api,
		flows:    d.Flows,
		shopping: d.Shopping,
		journal:  d.Journal,
		metrics:  d.Metrics,
		allowed:  allowed,
		log:      d.Log,
	}
}

// RegisterHandlers mounts the webhook on the web server.
func (b *Bot) RegisterHandlers(e *echo.Echo) {
	e.POST("/webhook", b.handleWebhook)
}

func (b *Bot) handleWebhook(c echo.Context) error {
	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request().Body).Decode(&update); err != nil {
		b.log.Warn().Err(err).Msg("error parsing update")
		return c.NoContent(http.StatusBadRequest)
	}

	if update.Message != nil && update.Message.From != nil {
		go b.processMessage(context.Background(), update.Message)
	}
	return c.NoContent(http.StatusOK)
}

const (
	helpText = "🍽 *MealMuse*\n\n" +
		"/plan mood | goals | ingredients\n" +
		"/festival <location>\n" +
		"/recipe <dish>\n" +
		"/addrecipe <dish>\n" +
		"/list, /add <item>, /remove <item>, /clear\n" +
		"/journal <Mood> <what you ate>\n" +
		"/metrics"
	gateText    = "🔒 Sign in to use this feature. Ask the owner to add your Telegram ID."
	failureText = "❌ *Oh no! Something went wrong.*\n"
)

// gated lists the commands that need an allowed user.
var gated = map[string]bool{
	"plan": true, "festival": true, "addrecipe": true,
	"list": true, "add": true, "remove": true, "clear": true,
	"journal": true, "metrics": true,
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	cmd, args := parseCommand(msg.Text)
	chatID := msg.Chat.ID

	if gated[cmd] && !b.allowed[msg.From.ID] {
		b.log.Warn().Int64("user_id", msg.From.ID).Str("username", msg.From.UserName).Msg("unauthorized access attempt")
		b.reply(chatID, gateText)
		return
	}

	userID := fmt.Sprintf("telegram:%d", msg.From.ID)
	switch cmd {
	case "plan":
		b.handlePlan(ctx, chatID, args)
	case "festival":
		b.handleFestival(ctx, chatID, args)
	case "recipe":
		b.handleRecipe(ctx, chatID, args)
	case "addrecipe":
		b.handleAddRecipe(ctx, chatID, userID, args)
	case "list":
		b.reply(chatID, formatShoppingList(b.shopping.Get(userID)))
	case "add":
		list, err := b.shopping.Add(userID, args)
		if err != nil {
			b.replyError(chatID, err, "")
			return
		}
		b.reply(chatID, formatShoppingList(list))
	case "remove":
		b.reply(chatID, formatShoppingList(b.shopping.Remove(userID, args)))
	case "clear":
		b.shopping.Clear(userID)
		b.reply(chatID, "🧹 Your shopping list is empty.")
	case "journal":
		b.handleJournal(chatID, userID, args)
	case "metrics":
		b.handleMetricsCommand(chatID)
	default:
		b.reply(chatID, helpText)
	}
}

func (b *Bot) handlePlan(ctx context.Context, chatID int64, args string) {
	parts := strings.Split(args, "|")
	if len(parts) != 3 {
		b.reply(chatID, "Usage: /plan mood | goals | ingredients")
		return
	}
	req := planner.MealPlanRequest{
		Mood:                 strings.TrimSpace(parts[0]),
		DietaryGoals:         strings.TrimSpace(parts[1]),
		AvailableIngredients: strings.TrimSpace(parts[2]),
	}

	status := b.thinking(chatID)
	plan, err := b.flows.GenerateMealPlan(ctx, req)
	if err != nil {
		b.finishError(chatID, status, err, "There was a problem with generating your meal plan.")
		return
	}
	b.finish(chatID, status, formatMealPlan(plan))
}

func (b *Bot) handleFestival(ctx context.Context, chatID int64, args string) {
	status := b.thinking(chatID)
	res, err := b.flows.SuggestFestivalMeals(ctx, planner.FestivalRequest{Location: args})
	if err != nil {
		b.finishError(chatID, status, err, "There was a problem with getting festival suggestions.")
		return
	}
	b.finish(chatID, status, formatFestival(res))
}

func (b *Bot) handleRecipe(ctx context.Context, chatID int64, dish string) {
	status := b.thinking(chatID)
	res, err := b.flows.GetRecipe(ctx, planner.RecipeRequest{DishName: dish})
	if err != nil {
		b.finishError(chatID, status, err, "Could not fetch the recipe for this dish.")
		return
	}
	b.finish(chatID, status, formatRecipe(dish, res))
}

func (b *Bot) handleAddRecipe(ctx context.Context, chatID int64, userID, dish string) {
	status := b.thinking(chatID)
	res, err := b.flows.GetRecipe(ctx, planner.RecipeRequest{DishName: dish})
	if err != nil {
		b.finishError(chatID, status, err, "Could not fetch the recipe for this dish.")
		return
	}
	b.shopping.AddAll(userID, res.Ingredients)
	b.finish(chatID, status, fmt.Sprintf("✅ *Ingredients Added!*\nIngredients for %s have been added to your shopping list.", dish))
}

func (b *Bot) handleJournal(chatID int64, userID, args string) {
	if strings.TrimSpace(args) == "" {
		b.reply(chatID, formatJournal(b.journal.Entries(userID), b.journal.MoodCounts(userID)))
		return
	}

	mood, food, _ := strings.Cut(strings.TrimSpace(args), " ")
	entry, err := b.journal.Add(userID, journal.EntryRequest{Mood: mood, Food: food})
	if err != nil {
		b.replyError(chatID, err, "")
		return
	}
	b.reply(chatID, fmt.Sprintf("📓 Logged *%s*: %s", entry.Mood, entry.Food))
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	if b.metrics == nil {
		b.reply(chatID, "📊 Metrics are disabled.")
		return
	}
	usage, err := b.metrics.GetDailyUsage(7)
	if err != nil {
		b.log.Error().Err(err).Msg("error fetching metrics")
		b.reply(chatID, "❌ Error fetching metrics.")
		return
	}
	b.reply(chatID, formatUsage(usage))
}

// thinking posts a placeholder that finish later replaces. It returns 0
// when the placeholder could not be sent.
func (b *Bot) thinking(chatID int64) int {
	sent, err := b.send(tgbotapi.NewMessage(chatID, "🧑‍🍳 *Thinking...*"))
	if err != nil {
		return 0
	}
	return sent.MessageID
}

func (b *Bot) finish(chatID int64, statusID int, text string) {
	if statusID == 0 {
		b.reply(chatID, text)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, statusID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to edit reply")
	}
}

// finishError shows validation problems as they are and everything else as
// a generic failure.
func (b *Bot) finishError(chatID int64, statusID int, err error, failure string) {
	b.finish(chatID, statusID, b.errorText(err, failure))
}

func (b *Bot) replyError(chatID int64, err error, failure string) {
	b.reply(chatID, b.errorText(err, failure))
}

func (b *Bot) errorText(err error, failure string) string {
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		var sb strings.Builder
		sb.WriteString("⚠️ Please check your input:\n")
		for _, v := range verr.Violations {
			fmt.Fprintf(&sb, "• %s: %s\n", v.Field, v.Message)
		}
		return sb.String()
	}
	b.log.Error().Err(err).Msg("telegram command failed")
	return failureText + failure
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) (tgbotapi.Message, error) {
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", msg.ChatID).Msg("failed to send reply")
	}
	return sent, err
}

// parseCommand splits "/cmd@bot args" into "cmd" and "args".
func parseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, args, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(args)
}
