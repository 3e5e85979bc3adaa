package web

import (
	"mealmuse/internal/auth"
	"mealmuse/internal/journal"
	"mealmuse/internal/planner"
	"mealmuse/internal/shared"
	"mealmuse/internal/shopping"
)

// ScreenState is where a feature form is in its request cycle. Submitting
// only exists in the browser, between submit and the next page load.
type ScreenState string

const (
	Idle       ScreenState = "idle"
	Submitting ScreenState = "submitting"
	Success    ScreenState = "success"
	Failed     ScreenState = "failed"
)

const (
	tabMealPlan     = "meal-plan"
	tabFestiveFoods = "festive-foods"
	tabRecipeFinder = "recipe-finder"
	tabShoppingList = "shopping-list"
	tabJournal      = "journal"
)

type tab struct {
	ID    string
	Label string
	Gated bool
}

var tabs = []tab{
	{ID: tabMealPlan, Label: "Meal Plan", Gated: true},
	{ID: tabFestiveFoods, Label: "Festive Foods", Gated: true},
	{ID: tabRecipeFinder, Label: "Recipe Finder"},
	{ID: tabShoppingList, Label: "Shopping List", Gated: true},
	{ID: tabJournal, Label: "Food Journal", Gated: true},
}

func normalizeTab(id string) string {
	for _, t := range tabs {
		if t.ID == id {
			return id
		}
	}
	return tabMealPlan
}

const toastFailureTitle = "Oh no! Something went wrong."

const (
	failMealPlan = "There was a problem with generating your meal plan."
	failFestival = "There was a problem with getting festival suggestions."
	failFinder   = "There was a problem with finding recipes for you."
	failRecipe   = "Could not fetch the recipe for this dish."
)

type toast struct {
	Variant     string
	Title       string
	Description string
}

func failureToast(description string) *toast {
	return &toast{Variant: "destructive", Title: toastFailureTitle, Description: description}
}

type highlight struct {
	Name        string
	Description string
}

var festivalHighlights = []highlight{
	{Name: "Diwali", Description: "The festival of lights, celebrated with sweets and savory snacks."},
	{Name: "Christmas", Description: "Celebrating with roast dinners, cookies, and festive cakes."},
	{Name: "Eid al-Fitr", Description: "Marking the end of Ramadan with rich, aromatic dishes."},
}

type service struct {
	Title       string
	Description string
	Tab         string
}

var services = []service{
	{Title: "AI Meal Plan", Description: "Get personalized meal plans based on your mood and diet.", Tab: tabMealPlan},
	{Title: "Festive Foods", Description: "Discover dishes for current cultural celebrations near you.", Tab: tabFestiveFoods},
	{Title: "Recipe Finder", Description: "Turn the ingredients you have into delicious meals.", Tab: tabRecipeFinder},
	{Title: "Shopping List", Description: "Keep track of your grocery needs all in one place.", Tab: tabShoppingList},
	{Title: "Food Journal", Description: "Connect your mood with your meals and find patterns.", Tab: tabJournal},
}

// flowView is one generation form and its outcome.
type flowView[F, R any] struct {
	State  ScreenState
	Form   F
	Errors map[string]string
	Result R
}

// finderForm is the recipe finder: ingredients in, a day of meals out.
type finderForm struct {
	AvailableIngredients string `form:"availableIngredients"`
}

// recipeForm asks for a recipe and remembers which tab asked.
type recipeForm struct {
	DishName string `form:"dishName"`
	Tab      string `form:"tab"`
}

type addRecipeForm struct {
	DishName    string   `form:"dishName"`
	Ingredients []string `form:"ingredients"`
	Tab         string   `form:"tab"`
}

type moodCount struct {
	Mood  journal.Mood
	Count int
}

type pageData struct {
	Title    string
	Identity auth.Identity
	Tab      string
	Tabs     []tab
	Toast    *toast
	Services []service

	MealPlan flowView[planner.MealPlanRequest, *planner.MealPlanResult]
	Festival flowView[planner.FestivalRequest, *planner.FestivalResult]
	Finder   flowView[finderForm, *planner.MealPlanResult]
	Recipe   flowView[recipeForm, *planner.RecipeResult]

	Shopping       shopping.ShoppingList
	ShoppingErrors map[string]string

	Journal       []journal.Entry
	MoodCounts    []moodCount
	Moods         []journal.Mood
	JournalForm   journal.EntryRequest
	JournalErrors map[string]string

	Highlights []highlight

	AuthForm   struct{ Email string }
	AuthErrors map[string]string
}

// Gated reports whether the active tab needs a session the caller lacks.
func (p *pageData) Gated() bool {
	if p.Identity.SignedIn {
		return false
	}
	for _, t := range tabs {
		if t.ID == p.Tab {
			return t.Gated
		}
	}
	return false
}

type mealSlot struct {
	Key   string
	Label string
	Dish  string
}

type mealsView struct {
	Tab       string
	SignedIn  bool
	Slots     []mealSlot
	Reasoning string
}

// Meals lays out a meal plan result for the tab showing it.
func (p *pageData) Meals(tabID string, plan *planner.MealPlanResult) mealsView {
	return mealsView{
		Tab:      tabID,
		SignedIn: p.Identity.SignedIn,
		Slots: []mealSlot{
			{Key: "breakfast", Label: "Breakfast", Dish: plan.MealPlan.Breakfast},
			{Key: "lunch", Label: "Lunch", Dish: plan.MealPlan.Lunch},
			{Key: "dinner", Label: "Dinner", Dish: plan.MealPlan.Dinner},
			{Key: "snacks", Label: "Snacks", Dish: plan.MealPlan.Snacks},
		},
		Reasoning: plan.Reasoning,
	}
}

func fieldErrors(verr *shared.ValidationError) map[string]string {
	out := make(map[string]string, len(verr.Violations))
	for _, v := range verr.Violations {
		if _, ok := out[v.Field]; !ok {
			out[v.Field] = v.Message
		}
	}
	return out
}

func moodCounts(counts map[journal.Mood]int) []moodCount {
	var out []moodCount
	for _, m := range journal.Moods {
		if n := counts[m]; n > 0 {
			out = append(out, moodCount{Mood: m, Count: n})
		}
	}
	return out
}
