package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mealmuse/internal/llm"
	"mealmuse/internal/prompt"
	"mealmuse/internal/schema"
	"mealmuse/internal/shared"
)

// UsageRecorder receives token usage for each generation call.
type UsageRecorder interface {
	RecordMeta(meta shared.FlowMeta) error
}

// Planner runs the generation flows: validate, render, generate, check.
type Planner struct {
	gen      llm.Generator
	recorder UsageRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// Option customizes a Planner.
type Option func(*Planner)

// WithRecorder records token usage of every call.
func WithRecorder(r UsageRecorder) Option {
	return func(p *Planner) { p.recorder = r }
}

// WithLogger sets the logger used for failed generations.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithClock overrides the clock used for the festival prompt date.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// NewPlanner creates a new Planner instance.
func NewPlanner(gen llm.Generator, opts ...Option) *Planner {
	p := &Planner{
		gen: gen,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerateMealPlan returns breakfast, lunch, dinner and snacks for the
// user's mood, goals and ingredients.
func (p *Planner) GenerateMealPlan(ctx context.Context, req MealPlanRequest) (*MealPlanResult, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	return run[MealPlanResult](ctx, p, "GenerateMealPlan", prompt.MealPlan, req, mealPlanSchema)
}

// SuggestFestivalMeals names a current or imminent festival at the location
// and dishes traditionally eaten during it.
func (p *Planner) SuggestFestivalMeals(ctx context.Context, req FestivalRequest) (*FestivalResult, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	data := struct {
		Location string
		Today    string
	}{
		Location: req.Location,
		Today:    p.now().Format("Monday, 2 January 2006"),
	}
	return run[FestivalResult](ctx, p, "SuggestFestivalMeals", prompt.Festival, data, festivalSchema)
}

// GetRecipe returns ingredients, ordered instructions, servings and prep
// time for a dish.
func (p *Planner) GetRecipe(ctx context.Context, req RecipeRequest) (*RecipeResult, error) {
	if err := schema.Validate(req); err != nil {
		return nil, err
	}
	return run[RecipeResult](ctx, p, "GetRecipe", prompt.Recipe, req, recipeSchema)
}

func run[T any](
	ctx context.Context,
	p *Planner,
	flow string,
	uc prompt.UseCase,
	data any,
	responseSchema *llm.Schema,
) (*T, error) {
	start := time.Now()

	text, err := prompt.Render(uc, data, responseSchema.Name)
	if err != nil {
		return nil, err
	}

	resp, err := p.gen.Generate(ctx, text, responseSchema)
	p.record(flow, resp.Usage, time.Since(start))
	if err != nil {
		p.log.Error().Err(err).Str("flow", flow).Msg("generation call failed")
		return nil, &shared.GenerationError{Op: flow, Err: err}
	}

	result := new(T)
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), result); err != nil {
		p.log.Error().Err(err).Str("flow", flow).Str("response", resp.Content).Msg("generation response is not JSON")
		return nil, &shared.GenerationError{
			Op:  flow,
			Err: fmt.Errorf("failed to parse response: %w", err),
		}
	}

	if err := schema.Validate(result); err != nil {
		p.log.Error().Err(err).Str("flow", flow).Str("response", resp.Content).Msg("generation response does not match schema")
		return nil, &shared.GenerationError{
			Op:  flow,
			Err: fmt.Errorf("response does not match %s schema: %w", responseSchema.Name, err),
		}
	}

	return result, nil
}

func (p *Planner) record(flow string, usage shared.TokenUsage, latency time.Duration) {
	if p.recorder == nil {
		return
	}
	meta := shared.FlowMeta{FlowName: flow, Usage: usage, Latency: latency}
	if err := p.recorder.RecordMeta(meta); err != nil {
		p.log.Warn().Err(err).Str("flow", flow).Msg("failed to record usage")
	}
}

// stripCodeFence removes a surrounding markdown fence some models add even
// in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
