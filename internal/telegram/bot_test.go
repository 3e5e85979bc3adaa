package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"mealmuse/internal/journal"
	"mealmuse/internal/planner"
	"mealmuse/internal/shared"
	"mealmuse/internal/shopping"
)

type fakeSender struct {
	mu    sync.Mutex
	texts []string
	edits int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		f.texts = append(f.texts, m.Text)
	case tgbotapi.EditMessageTextConfig:
		f.edits++
		f.texts = append(f.texts, m.Text)
	}
	return tgbotapi.Message{MessageID: len(f.texts)}, nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type fakeFlows struct {
	err error
}

func (f *fakeFlows) GenerateMealPlan(ctx context.Context, req planner.MealPlanRequest) (*planner.MealPlanResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &planner.MealPlanResult{
		MealPlan: planner.Meals{
			Breakfast: "Spinach omelette",
			Lunch:     "Egg salad",
			Dinner:    "Poached eggs",
			Snacks:    "Boiled eggs",
		},
		Reasoning: "Eggs for a " + req.Mood + " day.",
	}, nil
}

func (f *fakeFlows) SuggestFestivalMeals(ctx context.Context, req planner.FestivalRequest) (*planner.FestivalResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &planner.FestivalResult{Festival: "Durga Puja", SuggestedDishes: []string{"Khichuri", "Labra"}}, nil
}

func (f *fakeFlows) GetRecipe(ctx context.Context, req planner.RecipeRequest) (*planner.RecipeResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &planner.RecipeResult{
		Ingredients:  []string{"2 eggs", "1 cup spinach"},
		Instructions: []string{"Whisk", "Cook"},
		Servings:     "1",
		PrepTime:     "10 mins",
	}, nil
}

const allowedID = 42

func newTestBot(flows Flows) (*Bot, *fakeSender, *shopping.Repository) {
	sender := &fakeSender{}
	list := shopping.NewRepository()
	b := newBot(sender, []int64{allowedID}, Deps{
		Flows:    flows,
		Shopping: list,
		Journal:  journal.NewStore(),
		Log:      zerolog.Nop(),
	})
	return b, sender, list
}

func message(from int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: from},
		Chat: &tgbotapi.Chat{ID: from},
	}
}

func TestParseCommand(t *testing.T) {
	cmd, args := parseCommand("/plan@MealMuseBot tired | low-carb | eggs")
	if cmd != "plan" || args != "tired | low-carb | eggs" {
		t.Errorf("got %q %q", cmd, args)
	}
	cmd, _ = parseCommand("hello")
	if cmd != "" {
		t.Errorf("plain text should not be a command, got %q", cmd)
	}
}

func TestPlanCommand(t *testing.T) {
	b, sender, _ := newTestBot(&fakeFlows{})
	b.processMessage(context.Background(), message(allowedID, "/plan tired | low-carb | eggs"))

	out := sender.last()
	if !strings.Contains(out, "*Breakfast*: Spinach omelette") {
		t.Errorf("expected breakfast line, got %s", out)
	}
	if !strings.Contains(out, "tired day") {
		t.Errorf("expected reasoning, got %s", out)
	}
	if sender.edits != 1 {
		t.Errorf("expected the thinking message to be edited, got %d edits", sender.edits)
	}
}

func TestPlanCommand_Usage(t *testing.T) {
	b, sender, _ := newTestBot(&fakeFlows{})
	b.processMessage(context.Background(), message(allowedID, "/plan tired"))

	if !strings.HasPrefix(sender.last(), "Usage: /plan") {
		t.Errorf("expected usage, got %s", sender.last())
	}
}

func TestGenerationFailureIsGeneric(t *testing.T) {
	b, sender, _ := newTestBot(&fakeFlows{err: &shared.GenerationError{Op: "GetRecipe", Err: errors.New("HTTP 500: secret details")}})
	b.processMessage(context.Background(), message(allowedID, "/recipe Dal"))

	out := sender.last()
	if !strings.Contains(out, "Could not fetch the recipe for this dish.") {
		t.Errorf("expected recipe failure message, got %s", out)
	}
	if strings.Contains(out, "secret") {
		t.Errorf("provider details leaked: %s", out)
	}
}

func TestValidationFailureNamesField(t *testing.T) {
	b, sender, _ := newTestBot(&fakeFlows{err: &shared.ValidationError{Violations: []shared.Violation{
		{Field: "location", Rule: "notblank", Message: "Please enter a location."},
	}}})
	b.processMessage(context.Background(), message(allowedID, "/festival"))

	if !strings.Contains(sender.last(), "location: Please enter a location.") {
		t.Errorf("expected violation, got %s", sender.last())
	}
}

func TestGatedCommandsNeedAllowedUser(t *testing.T) {
	b, sender, list := newTestBot(&fakeFlows{})
	b.processMessage(context.Background(), message(7, "/add Milk"))

	if sender.last() != gateText {
		t.Errorf("expected gate message, got %s", sender.last())
	}
	for _, item := range list.Get("telegram:7").Items {
		if item == "Milk" {
			t.Error("unauthorized user changed a list")
		}
	}

	b.processMessage(context.Background(), message(7, "/recipe Dal"))
	if !strings.Contains(sender.last(), "🍳 *Dal*") {
		t.Errorf("recipe lookup should not be gated, got %s", sender.last())
	}
}

func TestShoppingCommands(t *testing.T) {
	b, sender, list := newTestBot(&fakeFlows{})
	ctx := context.Background()

	b.processMessage(ctx, message(allowedID, "/add Oat milk"))
	if !strings.Contains(sender.last(), "• Oat milk") {
		t.Errorf("expected item in list, got %s", sender.last())
	}

	b.processMessage(ctx, message(allowedID, "/add   "))
	if !strings.Contains(sender.last(), "Please enter an item.") {
		t.Errorf("expected blank item to be rejected, got %s", sender.last())
	}

	b.processMessage(ctx, message(allowedID, "/addrecipe Omelette"))
	if !strings.Contains(sender.last(), "Ingredients for Omelette have been added") {
		t.Errorf("expected success message, got %s", sender.last())
	}
	items := list.Get("telegram:42").Items
	if items[0] != "1 cup spinach" || items[1] != "2 eggs" {
		t.Errorf("unexpected list head %v", items[:2])
	}

	b.processMessage(ctx, message(allowedID, "/clear"))
	b.processMessage(ctx, message(allowedID, "/list"))
	if sender.last() != "🛒 Your shopping list is empty." {
		t.Errorf("expected empty list, got %s", sender.last())
	}
}

func TestJournalCommands(t *testing.T) {
	b, sender, _ := newTestBot(&fakeFlows{})
	ctx := context.Background()

	b.processMessage(ctx, message(allowedID, "/journal Happy Pancakes with berries"))
	if !strings.Contains(sender.last(), "Logged *Happy*: Pancakes with berries") {
		t.Errorf("unexpected reply %s", sender.last())
	}

	b.processMessage(ctx, message(allowedID, "/journal Hungry soup"))
	if !strings.Contains(sender.last(), "Please select a mood.") {
		t.Errorf("expected mood violation, got %s", sender.last())
	}

	b.processMessage(ctx, message(allowedID, "/journal"))
	out := sender.last()
	if !strings.Contains(out, "Happy: 1") || !strings.Contains(out, "Comforted: 1") {
		t.Errorf("expected mood summary, got %s", out)
	}
}

func TestMetricsDisabled(t *testing.T) {
	b, sender, _ := newTestBot(&fakeFlows{})
	b.processMessage(context.Background(), message(allowedID, "/metrics"))
	if sender.last() != "📊 Metrics are disabled." {
		t.Errorf("unexpected reply %s", sender.last())
	}
}

func TestWebhook(t *testing.T) {
	b, sender, _ := newTestBot(&fakeFlows{})
	e := echo.New()
	b.RegisterHandlers(e)

	body := `{"update_id": 1, "message": {"message_id": 1, "text": "/help", "from": {"id": 42}, "chat": {"id": 42}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	deadline := time.Now().Add(time.Second)
	for sender.last() == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sender.last() != helpText {
		t.Errorf("expected help text, got %s", sender.last())
	}

	req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
