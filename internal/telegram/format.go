package telegram

import (
	"fmt"
	"strings"

	"mealmuse/internal/journal"
	"mealmuse/internal/metrics"
	"mealmuse/internal/planner"
	"mealmuse/internal/shopping"
)

func formatMealPlan(plan *planner.MealPlanResult) string {
	var sb strings.Builder
	sb.WriteString("📅 *Your Meal Plan*\n\n")
	fmt.Fprintf(&sb, "*Breakfast*: %s\n", plan.MealPlan.Breakfast)
	fmt.Fprintf(&sb, "*Lunch*: %s\n", plan.MealPlan.Lunch)
	fmt.Fprintf(&sb, "*Dinner*: %s\n", plan.MealPlan.Dinner)
	fmt.Fprintf(&sb, "*Snacks*: %s\n", plan.MealPlan.Snacks)
	fmt.Fprintf(&sb, "\n_%s_", plan.Reasoning)
	return sb.String()
}

func formatFestival(res *planner.FestivalResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 We're celebrating *%s*\n\n", res.Festival)
	for _, dish := range res.SuggestedDishes {
		fmt.Fprintf(&sb, "• %s\n", dish)
	}
	return sb.String()
}

func formatRecipe(dish string, res *planner.RecipeResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍳 *%s*\n", dish)
	fmt.Fprintf(&sb, "Serves %s · %s\n\n", res.Servings, res.PrepTime)
	sb.WriteString("*Ingredients*\n")
	for _, ing := range res.Ingredients {
		fmt.Fprintf(&sb, "• %s\n", ing)
	}
	sb.WriteString("\n*Instructions*\n")
	for i, step := range res.Instructions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	return sb.String()
}

func formatShoppingList(list shopping.ShoppingList) string {
	if len(list.Items) == 0 {
		return "🛒 Your shopping list is empty."
	}
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	for _, item := range list.Items {
		fmt.Fprintf(&sb, "• %s\n", item)
	}
	return sb.String()
}

func formatJournal(entries []journal.Entry, counts map[journal.Mood]int) string {
	var sb strings.Builder
	sb.WriteString("📓 *Food Journal*\n\n")
	for _, m := range journal.Moods {
		if n := counts[m]; n > 0 {
			fmt.Fprintf(&sb, "%s: %d  ", m, n)
		}
	}
	sb.WriteString("\n\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "*%s* (%s): %s\n", e.Date, e.Mood, e.Food)
	}
	return sb.String()
}

func formatUsage(usage []metrics.DailyUsage) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage Report*\n\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution)
	}
	return sb.String()
}
