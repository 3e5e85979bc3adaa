package planner

import "mealmuse/internal/llm"

// MealPlanRequest is the meal plan form.
type MealPlanRequest struct {
	Mood                 string `json:"mood" form:"mood" validate:"notblank,max=50"`
	DietaryGoals         string `json:"dietaryGoals" form:"dietaryGoals" validate:"notblank,max=100"`
	AvailableIngredients string `json:"availableIngredients" form:"availableIngredients" validate:"notblank,max=200"`
}

func (MealPlanRequest) ValidationMessage(field, rule string) string {
	if rule != "notblank" {
		return ""
	}
	switch field {
	case "mood":
		return "Please share your mood."
	case "dietaryGoals":
		return "What are your goals?"
	case "availableIngredients":
		return "What ingredients do you have?"
	}
	return ""
}

// Meals holds one suggestion per meal slot.
type Meals struct {
	Breakfast string `json:"breakfast" validate:"notblank"`
	Lunch     string `json:"lunch" validate:"notblank"`
	Dinner    string `json:"dinner" validate:"notblank"`
	Snacks    string `json:"snacks" validate:"notblank"`
}

// MealPlanResult is a generated day of meals and the reasoning behind it.
type MealPlanResult struct {
	MealPlan  Meals  `json:"mealPlan"`
	Reasoning string `json:"reasoning" validate:"notblank"`
}

// FestivalRequest is the festive foods form.
type FestivalRequest struct {
	Location string `json:"location" form:"location" validate:"notblank,min=2,max=50"`
}

func (FestivalRequest) ValidationMessage(field, rule string) string {
	if field == "location" && (rule == "notblank" || rule == "min") {
		return "Please enter a location."
	}
	return ""
}

// FestivalResult names a festival and dishes eaten during it.
type FestivalResult struct {
	Festival        string   `json:"festival" validate:"notblank"`
	SuggestedDishes []string `json:"suggestedDishes" validate:"min=1,dive,notblank"`
}

// RecipeRequest asks for a recipe by dish name.
type RecipeRequest struct {
	DishName string `json:"dishName" form:"dishName" validate:"notblank"`
}

func (RecipeRequest) ValidationMessage(field, rule string) string {
	if field == "dishName" && rule == "notblank" {
		return "Please enter a dish name."
	}
	return ""
}

// RecipeResult is a generated recipe. Instructions keep the order the model
// returned them in.
type RecipeResult struct {
	Ingredients  []string `json:"ingredients" validate:"min=1,dive,notblank"`
	Instructions []string `json:"instructions" validate:"min=1,dive,notblank"`
	Servings     string   `json:"servings" validate:"notblank"`
	PrepTime     string   `json:"prepTime" validate:"notblank"`
}

var mealPlanSchema = &llm.Schema{
	Name: "MealPlanResult",
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"mealPlan": {
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"breakfast": llm.String("A suggestion for breakfast."),
				"lunch":     llm.String("A suggestion for lunch."),
				"dinner":    llm.String("A suggestion for dinner."),
				"snacks":    llm.String("Suggestions for snacks."),
			},
			Required: []string{"breakfast", "lunch", "dinner", "snacks"},
		},
		"reasoning": llm.String("Reasoning behind the generated meal plan (how it fits the mood, dietary goals, and available ingredients)."),
	},
	Required: []string{"mealPlan", "reasoning"},
}

var festivalSchema = &llm.Schema{
	Name: "FestivalResult",
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"festival":        llm.String("The current or upcoming festival being celebrated."),
		"suggestedDishes": llm.StringList("Dishes suggested for the festival."),
	},
	Required: []string{"festival", "suggestedDishes"},
}

var recipeSchema = &llm.Schema{
	Name: "RecipeResult",
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"ingredients":  llm.StringList("A list of ingredients required for the recipe."),
		"instructions": llm.StringList("A list of step-by-step preparation instructions, in order."),
		"servings":     llm.String("The number of servings the recipe makes."),
		"prepTime":     llm.String("The preparation time for the recipe."),
	},
	Required: []string{"ingredients", "instructions", "servings", "prepTime"},
}
